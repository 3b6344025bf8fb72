package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.toml")
	body := `
[world]
world_width = 2048
thread_count = 4

[logging]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2048, cfg.World.WorldWidth)
	assert.Equal(t, 4, cfg.World.ThreadCount)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Untouched fields keep their defaults.
	assert.Equal(t, 1024, cfg.World.WorldHeight)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path.toml")
	assert.Error(t, err)
}

func TestDefaultFileConfigPhysicsConfigRoundTrip(t *testing.T) {
	cfg := DefaultFileConfig()
	phys := cfg.PhysicsConfig()

	assert.Equal(t, cfg.World.WorldWidth, phys.WorldWidth)
	assert.Equal(t, cfg.World.Limit, phys.Limit)
	assert.Equal(t, cfg.World.GravityY, phys.Gravity.Y)
}
