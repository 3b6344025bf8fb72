package physics2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigMatchesDocumentedConstants(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultLimit, cfg.Limit)
	assert.Equal(t, float32(DefaultCorrFactor), cfg.CorrFactor)
	assert.Equal(t, float32(DefaultSlop), cfg.Slop)
	assert.Equal(t, 1, cfg.ThreadCount, "default engine must be single-threaded for deterministic tests")
}
