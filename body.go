package physics2d

import "math"

// Active is the tri-state occupancy of a Body slot in World.bodies.
type Active int32

const (
	// ActiveFree marks a recyclable slot; its id sits on World's free list.
	ActiveFree Active = 0
	// ActiveDynamic bodies are integrated and collide with everything.
	ActiveDynamic Active = 1
	// ActiveStatic bodies are never integrated; static-static pairs are
	// suppressed in the broadphase.
	ActiveStatic Active = 2
)

// CollisionResult is the manifold produced by the SAT narrowphase: a normal
// pointing from body A to body B, a penetration depth, and up to two contact
// points. Count == 0 means no collision (or a degenerate manifold that
// clipped away to nothing).
type CollisionResult struct {
	Count   int
	Normal  Vec2
	Depth   float32
	Contact [2]Vec2
}

// Body is a rigid body: kinematic state, inverse-inertia contact material,
// broadphase placement, and cached world-space geometry. Bodies never hold
// pointers to each other or to grid cells; every cross-reference is a bare
// integer id resolved through World or Registry, per the arena+index
// discipline in §9's Design Notes.
type Body struct {
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2
	Correction   Vec2 // scratch accumulator for positional repair, reset every step

	Theta, Omega, Alpha float32
	CosTheta, SinTheta  float32

	InvMass float32
	InvMoI  float32
	MeshID  int
	Scale   float32

	Restitution          float32
	SFriction, KFriction float32

	Transformed []Vec2 // world-space vertices; empty for circles
	AABB        AABB
	Ind, Level  int // broadphase slot; -1/-1 if unplaced

	Active Active
}

// DefaultSFriction and DefaultKFriction are applied to every new body per §3.
const (
	DefaultSFriction = 0.3
	DefaultKFriction = 0.2
)

func newBody(pos, vel Vec2, meshID int, invMass, invMoI, scale, angle, restitution float32, active Active) Body {
	ct := float32(math.Cos(float64(angle)))
	st := float32(math.Sin(float64(angle)))
	return Body{
		Position:    pos,
		Velocity:    vel,
		MeshID:      meshID,
		InvMass:     invMass,
		InvMoI:      invMoI,
		Scale:       scale,
		Theta:       angle,
		CosTheta:    ct,
		SinTheta:    st,
		Restitution: restitution,
		SFriction:   DefaultSFriction,
		KFriction:   DefaultKFriction,
		Ind:         -1,
		Level:       -1,
		Active:      active,
	}
}

func (b *Body) setAngle(theta float32) {
	b.Theta = theta
	b.CosTheta = float32(math.Cos(float64(theta)))
	b.SinTheta = float32(math.Sin(float64(theta)))
}

// transform fills Transformed with the mesh vertices rotated by theta,
// scaled, and translated to Position. No-op for circles.
func (b *Body) transform(reg *Registry) {
	if b.MeshID == CircleMeshID {
		return
	}
	mesh, err := reg.Get(b.MeshID)
	if err != nil {
		return
	}
	if cap(b.Transformed) < len(mesh.Points) {
		b.Transformed = make([]Vec2, len(mesh.Points))
	} else {
		b.Transformed = b.Transformed[:len(mesh.Points)]
	}
	for i, p := range mesh.Points {
		b.Transformed[i] = Rotate(p.Scale(b.Scale), b.CosTheta, b.SinTheta).Add(b.Position)
	}
}

// calculateAABB recomputes b.AABB, transforming polygon vertices as needed.
func (b *Body) calculateAABB(reg *Registry) {
	if b.MeshID == CircleMeshID {
		r := Radius * b.Scale
		rv := Vec2{r, r}
		b.AABB = AABB{Min: b.Position.Sub(rv), Max: b.Position.Add(rv)}
		return
	}

	b.transform(reg)
	if len(b.Transformed) == 0 {
		b.AABB = AABB{Min: b.Position, Max: b.Position}
		return
	}
	mn, mx := b.Transformed[0], b.Transformed[0]
	for _, tp := range b.Transformed[1:] {
		mn = VMin(mn, tp)
		mx = VMax(mx, tp)
	}
	b.AABB = AABB{Min: mn, Max: mx}
}

// projectOntoAxis returns the [min,max] scalar projection of the polygon's
// transformed vertices onto axis. Undefined for circles (they project via
// center +/- radius directly at the SAT call sites).
func (b *Body) projectOntoAxis(axis Vec2) (min, max float32) {
	min = float32(math.Inf(1))
	max = float32(math.Inf(-1))
	for _, tp := range b.Transformed {
		p := Dot(tp, axis)
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return
}

// Contains is a point-in-shape test in world space.
func (b *Body) Contains(reg *Registry, point Vec2) bool {
	if b.MeshID == CircleMeshID {
		d := point.Sub(b.Position)
		r := Radius * b.Scale
		return Dot(d, d) <= r*r
	}

	mesh, err := reg.Get(b.MeshID)
	if err != nil || len(b.Transformed) != len(mesh.Normals) {
		return false
	}
	for i, n := range mesh.Normals {
		wn := Rotate(n, b.CosTheta, b.SinTheta)
		if Dot(point, wn) > Dot(b.Transformed[i], wn) {
			return false
		}
	}
	return true
}
