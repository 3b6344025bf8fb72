// Package harness wires the physics2d core into a runnable, observable
// headless simulation process: TOML configuration, structured logging,
// scripted scene authoring, and read-only HTTP/WS diagnostics. None of this
// package's dependencies are visible from the core physics2d API.
package harness

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	quadphys "github.com/0x5844/quadphys"
)

// FileConfig is the on-disk TOML shape. It mirrors physics2d.Config plus the
// harness-only fields (logging, scene, server) that have no business living
// in the pure computational core.
type FileConfig struct {
	World   WorldConfig   `toml:"world"`
	Logging LoggingConfig `toml:"logging"`
	Scene   SceneConfig   `toml:"scene"`
	Server  ServerConfig  `toml:"server"`
}

type WorldConfig struct {
	WorldWidth  int     `toml:"world_width"`
	WorldHeight int     `toml:"world_height"`
	Limit       int     `toml:"limit"`
	CorrFactor  float32 `toml:"correction_factor"`
	Slop        float32 `toml:"slop"`
	GravityX    float32 `toml:"gravity_x"`
	GravityY    float32 `toml:"gravity_y"`
	ThreadCount int     `toml:"thread_count"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type SceneConfig struct {
	Type       string `toml:"type"` // default, pyramid, rain, container, pendulum, mixed
	BodyCount  int    `toml:"body_count"`
	ScriptPath string `toml:"script_path"`
}

type ServerConfig struct {
	HTTPAddr string `toml:"http_addr"`
}

func defaults() *FileConfig {
	base := quadphys.DefaultConfig()
	return &FileConfig{
		World: WorldConfig{
			WorldWidth:  base.WorldWidth,
			WorldHeight: base.WorldHeight,
			Limit:       base.Limit,
			CorrFactor:  base.CorrFactor,
			Slop:        base.Slop,
			GravityX:    0,
			GravityY:    -200,
			ThreadCount: 1,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Scene:   SceneConfig{Type: "default", BodyCount: 200},
		Server:  ServerConfig{HTTPAddr: ":8080"},
	}
}

// LoadConfig reads and parses a TOML file over a defaults-initialized
// FileConfig, the same defaults-struct-then-unmarshal-over-it pattern the
// game-server config loader uses.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultFileConfig exposes the same defaults LoadConfig starts from, for
// callers that skip the -config flag entirely.
func DefaultFileConfig() *FileConfig {
	return defaults()
}

// PhysicsConfig extracts the physics2d.Config subset from a FileConfig.
func (c *FileConfig) PhysicsConfig() quadphys.Config {
	return quadphys.Config{
		WorldWidth:  c.World.WorldWidth,
		WorldHeight: c.World.WorldHeight,
		Limit:       c.World.Limit,
		CorrFactor:  c.World.CorrFactor,
		Slop:        c.World.Slop,
		Gravity:     quadphys.V(c.World.GravityX, c.World.GravityY),
		ThreadCount: c.World.ThreadCount,
	}
}
