package physics2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuadGridLevelCount(t *testing.T) {
	q := NewQuadGrid(1024, 16)
	assert.Equal(t, 1024, q.Length)
	// 1024 -> 512 -> 256 -> 128 -> 64 -> 32 -> 16, stop below 16: 7 levels.
	assert.Equal(t, 7, len(q.Levels))
}

func TestGetLevelSelectsFinestFit(t *testing.T) {
	q := NewQuadGrid(1024, 16)

	lvl := q.GetLevel(10) // smaller than the finest cell (16) still clamps to finest level
	assert.Equal(t, len(q.Levels)-1, lvl)

	lvl0 := q.GetLevel(2000) // larger than the whole world: coarsest level
	assert.Equal(t, 0, lvl0)
}

func TestGridCoordFloorsTowardNegativeInfinity(t *testing.T) {
	q := NewQuadGrid(1024, 16)
	gx, gy := q.GridCoord(0, -1, -1)
	assert.Equal(t, -1, gx)
	assert.Equal(t, -1, gy)
}

func TestGetIndexOutOfBounds(t *testing.T) {
	q := NewQuadGrid(1024, 16)
	assert.Equal(t, -1, q.GetIndex(0, 5, 0)) // level 0 has exactly one cell (0,0)
	assert.NotEqual(t, -1, q.GetIndex(0, 0, 0))
	assert.Equal(t, -1, q.GetIndex(-1, 0, 0))
	assert.Equal(t, -1, q.GetIndex(len(q.Levels), 0, 0))
}

func TestInsertAndCell(t *testing.T) {
	q := NewQuadGrid(1024, 16)
	ind := q.GetIndex(0, 0, 0)
	require.NotEqual(t, -1, ind)

	q.Insert(ind, 0, 42)
	q.Insert(ind, 0, 7)

	assert.ElementsMatch(t, []int{42, 7}, q.Cell(ind))
	assert.Equal(t, 1, q.Occ[0])
}

func TestClearEmptiesCellsAndOccupancy(t *testing.T) {
	q := NewQuadGrid(1024, 16)
	ind := q.GetIndex(0, 0, 0)
	q.Insert(ind, 0, 1)

	q.Clear([]int{ind})

	assert.Empty(t, q.Cell(ind))
	for _, occ := range q.Occ {
		assert.Equal(t, 0, occ)
	}
}
