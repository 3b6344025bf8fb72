package physics2d

// Pair is an unordered candidate collision pair (id1, id2) produced by the
// broadphase.
type Pair struct {
	A, B int
}

// World owns body storage, the free list, the QuadGrid, and the per-step
// buffers the parallel Engine writes into. It exposes the operations that
// make up one simulation step (§3, §4.4) plus read-only introspection (§6).
type World struct {
	reg *Registry

	Bodies   []Body
	freeList []int
	allocated int

	Quad *QuadGrid

	CollisionPairs []Pair
	CollisionData  []CollisionResult

	ActiveCount int
	ColCnt      int

	CorrFactor float32
	Slop       float32
}

// NewWorld builds a World whose QuadGrid covers a worldWidth x worldHeight
// extent with the default minimum cell size.
func NewWorld(reg *Registry, worldWidth, worldHeight int) *World {
	size := worldWidth
	if worldHeight > size {
		size = worldHeight
	}
	return &World{
		reg:        reg,
		Quad:       NewQuadGrid(size, DefaultLimit),
		CorrFactor: DefaultCorrFactor,
		Slop:       DefaultSlop,
	}
}

// NewWorldWithConfig builds a World using an explicit Config (§9's
// "Configuration" design note): worldWidth/Height, minimum cell size, and
// the Baumgarte tunables all come from cfg instead of package defaults.
func NewWorldWithConfig(reg *Registry, cfg Config) *World {
	size := cfg.WorldWidth
	if cfg.WorldHeight > size {
		size = cfg.WorldHeight
	}
	return &World{
		reg:        reg,
		Quad:       NewQuadGrid(size, cfg.Limit),
		CorrFactor: cfg.CorrFactor,
		Slop:       cfg.Slop,
	}
}

// AddBody adds a dynamic body, recycling an id from the free list if one is
// available. mass and moi must be > 0; meshID must be CircleMeshID or a
// registered polygon.
func (w *World) AddBody(pos, vel Vec2, meshID int, mass, moi, scale, angle, restitution float32) (int, error) {
	if err := w.validateNewBody(meshID, mass, moi); err != nil {
		return -1, err
	}
	body := newBody(pos, vel, meshID, 1.0/mass, 1.0/moi, scale, angle, restitution, ActiveDynamic)
	return w.insertBody(body), nil
}

// AddStaticBody adds a static body: invMass and invMoI are both zero, and it
// is never integrated.
func (w *World) AddStaticBody(pos Vec2, meshID int, scale, angle, restitution float32) (int, error) {
	if meshID != CircleMeshID && !w.reg.Valid(meshID) {
		return -1, ErrUnknownMesh
	}
	body := newBody(pos, Vec2{}, meshID, 0, 0, scale, angle, restitution, ActiveStatic)
	return w.insertBody(body), nil
}

func (w *World) validateNewBody(meshID int, mass, moi float32) error {
	if !w.reg.Valid(meshID) {
		return ErrUnknownMesh
	}
	if mass <= 0 {
		return ErrInvalidMass
	}
	if moi <= 0 {
		return ErrInvalidMoI
	}
	return nil
}

func (w *World) insertBody(body Body) int {
	var id int
	if n := len(w.freeList); n > 0 {
		id = w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
		w.Bodies[id] = body
	} else {
		id = len(w.Bodies)
		w.Bodies = append(w.Bodies, body)
	}
	if id+1 > w.allocated {
		w.allocated = id + 1
	}
	w.Bodies[id].calculateAABB(w.reg)
	return id
}

// DeleteBody marks id free and returns it to the free list. Calling it on an
// already-free id is a no-op. Grid entries for id are cleared lazily at the
// next ResetGrid.
func (w *World) DeleteBody(id int) {
	if id < 0 || id >= len(w.Bodies) {
		return
	}
	if w.Bodies[id].Active == ActiveFree {
		return
	}
	w.Bodies[id].Active = ActiveFree
	w.freeList = append(w.freeList, id)
}

// ApplyForce accumulates f/mass into id's acceleration for this step.
func (w *World) ApplyForce(id int, f Vec2) {
	if id < 0 || id >= len(w.Bodies) {
		return
	}
	b := &w.Bodies[id]
	b.Acceleration = b.Acceleration.Add(f.Scale(b.InvMass))
}

// ResetForces sets every body's acceleration to g (including static bodies —
// harmless, since they are never integrated).
func (w *World) ResetForces(g Vec2) {
	for i := range w.Bodies {
		w.Bodies[i].Acceleration = g
	}
}

// UpdateVelocities integrates v += a*dt for dynamic bodies.
func (w *World) UpdateVelocities(dt float32) {
	for i := range w.Bodies {
		b := &w.Bodies[i]
		if b.Active == ActiveDynamic {
			b.Velocity = b.Velocity.Add(b.Acceleration.Scale(dt))
		}
	}
}

// UpdatePositions integrates p += v*dt and theta += omega*dt for dynamic
// bodies, refreshing cached cos/sin.
func (w *World) UpdatePositions(dt float32) {
	for i := range w.Bodies {
		b := &w.Bodies[i]
		if b.Active == ActiveDynamic {
			b.Position = b.Position.Add(b.Velocity.Scale(dt))
			b.setAngle(b.Theta + b.Omega*dt)
		}
	}
}

// updateIndex recomputes id's AABB and broadphase slot. If the body's AABB
// has escaped the grid extent, it is silently deleted (§7's documented
// out-of-bounds policy) rather than clamped.
func (w *World) updateIndex(id int) {
	b := &w.Bodies[id]
	b.calculateAABB(w.reg)

	size := b.AABB.LongestSide()
	level := w.Quad.GetLevel(size)
	gx, gy := w.Quad.GridCoord(level, b.AABB.Min.X, b.AABB.Min.Y)
	ind := w.Quad.GetIndex(level, gx, gy)

	if ind == -1 {
		w.DeleteBody(id)
		b.Ind, b.Level = -1, -1
		return
	}

	b.Ind, b.Level = ind, level
}

// InitGrid places every active body into the grid, marking level occupancy.
// Must be paired with a later ResetGrid before the next InitGrid.
func (w *World) InitGrid() {
	w.ActiveCount = 0
	for id := range w.Bodies {
		if w.Bodies[id].Active == ActiveFree {
			continue
		}
		w.updateIndex(id)
		b := &w.Bodies[id]
		if b.Active == ActiveFree { // updateIndex may have deleted it
			continue
		}
		w.Quad.Insert(b.Ind, b.Level, id)
		w.ActiveCount++
	}
}

// ResetGrid empties every cell any active body occupies and clears all level
// occupancy flags.
func (w *World) ResetGrid() {
	occupied := make([]int, 0, w.ActiveCount)
	for i := range w.Bodies {
		b := &w.Bodies[i]
		if b.Active != ActiveFree && b.Ind >= 0 {
			occupied = append(occupied, b.Ind)
		}
	}
	w.Quad.Clear(occupied)
}

// GetNeighbors appends candidate pairs (id, id2) into out; on the body's own
// level only pairs with id < id2 are emitted (§4.4), cross-level pairs are
// emitted without that ordering. Scans the body's own level down to level 0,
// skipping unoccupied levels, scanning the 3x3 neighborhood of grid cells
// around the body's AABB.min at each level.
func (w *World) GetNeighbors(id int, out []Pair) []Pair {
	body := &w.Bodies[id]
	if body.Active == ActiveFree {
		return out
	}

	for lvl := body.Level; lvl >= 0; lvl-- {
		if w.Quad.Occ[lvl] == 0 {
			continue
		}

		gx, gy := w.Quad.GridCoord(lvl, body.AABB.Min.X, body.AABB.Min.Y)

		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				ind := w.Quad.GetIndex(lvl, gx+dx, gy+dy)
				if ind == -1 {
					continue
				}
				for _, id2 := range w.Quad.Cell(ind) {
					if id2 == id {
						continue
					}
					other := &w.Bodies[id2]
					if body.Active == ActiveStatic && other.Active == ActiveStatic {
						continue
					}
					if lvl == body.Level && id >= id2 {
						continue
					}
					if !body.AABB.Overlaps(other.AABB) {
						continue
					}
					out = append(out, Pair{A: id, B: id2})
				}
			}
		}
	}

	return out
}

// ResolveCollisions runs the impulse resolver over every collision result
// with a positive contact count, in CollisionPairs/CollisionData order.
func (w *World) ResolveCollisions() {
	w.ColCnt = 0
	for i, res := range w.CollisionData {
		if res.Count == 0 {
			continue
		}
		pair := w.CollisionPairs[i]
		Resolve(&w.Bodies[pair.A], &w.Bodies[pair.B], res, w.CorrFactor, w.Slop)
		w.ColCnt++
	}
}

// ApplyCorrections flushes each dynamic body's accumulated positional
// correction into Position and resets the accumulator.
func (w *World) ApplyCorrections() {
	for i := range w.Bodies {
		b := &w.Bodies[i]
		if b.Active == ActiveDynamic {
			b.Position = b.Position.Add(b.Correction)
		}
		b.Correction = Vec2{}
	}
}

// QueryPoint returns the ids of every active body whose shape contains p.
// Read-only introspection per §6; grounded on original_source/main.cpp's
// right-click-to-delete point query, generalized to not mutate the world.
func (w *World) QueryPoint(p Vec2) []int {
	var hits []int
	for id := range w.Bodies {
		b := &w.Bodies[id]
		if b.Active == ActiveFree {
			continue
		}
		if b.Contains(w.reg, p) {
			hits = append(hits, id)
		}
	}
	return hits
}

// GridCellOf returns the level, grid coordinate, and cell side of the cell
// body id currently occupies, for diagnostics only.
func (w *World) GridCellOf(id int) (level, gx, gy, side int, ok bool) {
	if id < 0 || id >= len(w.Bodies) {
		return 0, 0, 0, 0, false
	}
	b := &w.Bodies[id]
	if b.Active == ActiveFree || b.Ind < 0 {
		return 0, 0, 0, 0, false
	}
	lvl := b.Level
	cnt := 1 << lvl
	sideLen := w.Quad.Length >> lvl
	offset := b.Ind - w.Quad.Levels[lvl]
	x := offset % cnt
	y := offset / cnt
	return lvl, x, y, sideLen, true
}

// Allocated is the current high-water mark of body slots (including freed
// ones still holding a slot).
func (w *World) Allocated() int { return w.allocated }
