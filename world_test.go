package physics2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T) (*World, *Registry) {
	t.Helper()
	reg := NewRegistry()
	w := NewWorld(reg, 1024, 1024)
	return w, reg
}

func TestAddBodyRejectsUnknownMesh(t *testing.T) {
	w, _ := newTestWorld(t)
	_, err := w.AddBody(V(0, 0), Vec2{}, 999, 1, 1, 1, 0, 0.5)
	assert.ErrorIs(t, err, ErrUnknownMesh)
}

func TestAddBodyRejectsNonPositiveMass(t *testing.T) {
	w, _ := newTestWorld(t)
	_, err := w.AddBody(V(0, 0), Vec2{}, CircleMeshID, 0, 1, 1, 0, 0.5)
	assert.ErrorIs(t, err, ErrInvalidMass)
}

func TestAddBodyRejectsNonPositiveMoI(t *testing.T) {
	w, _ := newTestWorld(t)
	_, err := w.AddBody(V(0, 0), Vec2{}, CircleMeshID, 1, 0, 1, 0, 0.5)
	assert.ErrorIs(t, err, ErrInvalidMoI)
}

func TestDeleteBodyReturnsIDToFreeList(t *testing.T) {
	w, _ := newTestWorld(t)
	id, err := w.AddBody(V(0, 0), Vec2{}, CircleMeshID, 1, 1, 1, 0, 0.5)
	require.NoError(t, err)

	w.DeleteBody(id)
	assert.Equal(t, ActiveFree, w.Bodies[id].Active)

	id2, err := w.AddBody(V(5, 5), Vec2{}, CircleMeshID, 1, 1, 1, 0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, id, id2, "freed slot must be reused before growing the arena")
}

func TestDeleteBodyTwiceIsNoOp(t *testing.T) {
	w, _ := newTestWorld(t)
	id, err := w.AddBody(V(0, 0), Vec2{}, CircleMeshID, 1, 1, 1, 0, 0.5)
	require.NoError(t, err)

	w.DeleteBody(id)
	w.DeleteBody(id)
	assert.Len(t, w.freeList, 1)
}

func TestResetForcesAppliesToAllBodies(t *testing.T) {
	w, _ := newTestWorld(t)
	dynID, err := w.AddBody(V(0, 0), Vec2{}, CircleMeshID, 1, 1, 1, 0, 0.5)
	require.NoError(t, err)
	staticID, err := w.AddStaticBody(V(10, 10), CircleMeshID, 1, 0, 0.5)
	require.NoError(t, err)

	g := V(0, -200)
	w.ResetForces(g)

	assert.Equal(t, g, w.Bodies[dynID].Acceleration)
	assert.Equal(t, g, w.Bodies[staticID].Acceleration)
}

func TestUpdateVelocitiesAndPositionsDynamicOnly(t *testing.T) {
	w, _ := newTestWorld(t)
	dynID, err := w.AddBody(V(0, 0), Vec2{}, CircleMeshID, 1, 1, 1, 0, 0.5)
	require.NoError(t, err)
	staticID, err := w.AddStaticBody(V(50, 50), CircleMeshID, 1, 0, 0.5)
	require.NoError(t, err)

	w.Bodies[dynID].Acceleration = V(0, -10)
	w.Bodies[staticID].Acceleration = V(0, -10) // harmless per ResetForces, must not move it

	dt := float32(1.0)
	w.UpdateVelocities(dt)
	w.UpdatePositions(dt)

	assert.Equal(t, V(0, -10), w.Bodies[dynID].Velocity)
	assert.Equal(t, V(0, -10), w.Bodies[dynID].Position)
	assert.Equal(t, V(50, 50), w.Bodies[staticID].Position)
	assert.Equal(t, Vec2{}, w.Bodies[staticID].Velocity)
}

func TestGetNeighborsFindsOverlappingBodies(t *testing.T) {
	w, _ := newTestWorld(t)
	a, err := w.AddBody(V(100, 100), Vec2{}, CircleMeshID, 1, 1, 1, 0, 0.5)
	require.NoError(t, err)
	b, err := w.AddBody(V(105, 100), Vec2{}, CircleMeshID, 1, 1, 1, 0, 0.5)
	require.NoError(t, err)
	// Far enough away it should never appear as a's neighbor.
	_, err = w.AddBody(V(900, 900), Vec2{}, CircleMeshID, 1, 1, 1, 0, 0.5)
	require.NoError(t, err)

	w.InitGrid()
	defer w.ResetGrid()

	out := w.GetNeighbors(a, nil)
	require.Len(t, out, 1)
	assert.Equal(t, Pair{A: a, B: b}, out[0])
}

func TestGetNeighborsSkipsStaticStaticPairs(t *testing.T) {
	w, _ := newTestWorld(t)
	_, err := w.AddStaticBody(V(0, 0), CircleMeshID, 1, 0, 0.5)
	require.NoError(t, err)
	s2, err := w.AddStaticBody(V(5, 0), CircleMeshID, 1, 0, 0.5)
	require.NoError(t, err)

	w.InitGrid()
	defer w.ResetGrid()

	out := w.GetNeighbors(s2, nil)
	assert.Empty(t, out)
}

func TestGetNeighborsAcrossLevelsFindsPairOnce(t *testing.T) {
	w, _ := newTestWorld(t)

	// A small body lands on the finest level (its AABB is well under the
	// coarsest cell side), while a much larger body only fits at level 0 --
	// the single cell spanning the whole world. Positioned so both AABBs
	// overlap, GetNeighbors from the small body must walk down through the
	// levels in between and pick up the level-0 body exactly once.
	small, err := w.AddBody(V(10, 10), Vec2{}, CircleMeshID, 1, 1, 0.5, 0, 0.5)
	require.NoError(t, err)
	large, err := w.AddBody(V(400, 400), Vec2{}, CircleMeshID, 1, 1, 40, 0, 0.5)
	require.NoError(t, err)

	w.InitGrid()
	defer w.ResetGrid()

	require.Equal(t, 6, w.Bodies[small].Level, "small body should land on the finest level")
	require.Equal(t, 0, w.Bodies[large].Level, "large body should only fit at level 0")

	out := w.GetNeighbors(small, nil)
	require.Len(t, out, 1)
	assert.Equal(t, Pair{A: small, B: large}, out[0])
}

func TestQueryPointFindsContainingBody(t *testing.T) {
	w, reg := newTestWorld(t)
	squareID, err := reg.Register(square())
	require.NoError(t, err)

	id, err := w.AddBody(V(0, 0), Vec2{}, squareID, 1, 1, 1, 0, 0.5)
	require.NoError(t, err)
	w.Bodies[id].calculateAABB(reg)

	hits := w.QueryPoint(V(0, 0))
	assert.Contains(t, hits, id)

	missed := w.QueryPoint(V(1000, 1000))
	assert.Empty(t, missed)
}

func TestBroadphaseCullsDistantBodies(t *testing.T) {
	w, _ := newTestWorld(t)
	const n = 1000
	ids := make([]int, 0, n)
	for i := 0; i < n; i++ {
		// Offset by 20 so every AABB starts inside the grid, which begins at 0.
		x := float32((i%32)*30 + 20)
		y := float32((i/32)*30 + 20)
		id, err := w.AddBody(V(x, y), Vec2{}, CircleMeshID, 1, 1, 1, 0, 0.5)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	w.InitGrid()
	defer w.ResetGrid()

	// A body should never see the whole population as neighbors -- the grid
	// must cull all but the handful actually near it.
	out := w.GetNeighbors(ids[0], nil)
	assert.Less(t, len(out), n/2)
}
