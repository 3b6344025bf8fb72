package physics2d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineStepIsDeterministicSingleThreaded(t *testing.T) {
	runOnce := func() []Vec2 {
		reg := NewRegistry()
		w := NewWorld(reg, 1024, 1024)
		_, err := w.AddStaticBody(V(0, -50), CircleMeshID, 5, 0, 0.3)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			_, err := w.AddBody(V(float32(i)*3, float32(i)*2+20), Vec2{}, CircleMeshID, 1, 1, 1, 0, 0.4)
			require.NoError(t, err)
		}

		eng := NewEngine(w, reg, 1)
		defer eng.Close()

		w.ResetForces(V(0, -50))
		for i := 0; i < 30; i++ {
			eng.Step(1.0 / 60.0)
			w.ResetForces(V(0, -50))
		}

		positions := make([]Vec2, len(w.Bodies))
		for i, b := range w.Bodies {
			positions[i] = b.Position
		}
		return positions
	}

	first := runOnce()
	second := runOnce()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.InDelta(t, first[i].X, second[i].X, 1e-4)
		assert.InDelta(t, first[i].Y, second[i].Y, 1e-4)
	}
}

func TestEngineStepReportsTimings(t *testing.T) {
	reg := NewRegistry()
	w := NewWorld(reg, 1024, 1024)
	_, err := w.AddBody(V(0, 0), Vec2{}, CircleMeshID, 1, 1, 1, 0, 0.5)
	require.NoError(t, err)

	eng := NewEngine(w, reg, 2)
	defer eng.Close()

	timings := eng.Step(1.0 / 60.0)
	assert.GreaterOrEqual(t, timings.IntegrateUs, 0.0)
	assert.GreaterOrEqual(t, timings.BroadphaseUs, 0.0)
	assert.GreaterOrEqual(t, timings.NarrowphaseUs, 0.0)
}

func TestEngineSettlesPolyPolyRestingStack(t *testing.T) {
	reg := NewRegistry()
	squareID, err := reg.Register(square())
	require.NoError(t, err)

	w := NewWorld(reg, 1024, 1024)
	// Half-extent 5 scaled by 2 gives each box a 10-unit half-extent, so the
	// two boxes come to rest 20 units apart center-to-center: a floor at
	// y=100 and a resting dynamic box at y=80. Both sit at x=500 so their
	// AABBs lie inside the grid, which starts at 0.
	_, err = w.AddStaticBody(V(500, 100), squareID, 2, 0, 0)
	require.NoError(t, err)
	dynID, err := w.AddBody(V(500, 60), Vec2{}, squareID, 1, 1, 2, 0, 0)
	require.NoError(t, err)

	eng := NewEngine(w, reg, 1)
	defer eng.Close()

	gravity := V(0, 20)
	const dt = float32(0.016)
	for i := 0; i < 200; i++ {
		w.ResetForces(gravity)
		eng.Step(dt)
	}

	assert.InDelta(t, 80, w.Bodies[dynID].Position.Y, float64(w.Slop)+0.5)
	assert.Less(t, math.Abs(float64(w.Bodies[dynID].Velocity.Y)), 1e-2)
}

func TestEngineCloseIsSafeAfterSteps(t *testing.T) {
	reg := NewRegistry()
	w := NewWorld(reg, 256, 256)
	eng := NewEngine(w, reg, 4)

	eng.Step(1.0 / 60.0)
	eng.Step(1.0 / 60.0)

	eng.Close()
}
