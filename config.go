package physics2d

// Config is the explicit tunable set called for in §9's Design Notes:
// worldWidth, worldHeight, minimum cell size, the Baumgarte correction
// factor and slop, gravity, and worker thread count. Passed at World/Engine
// construction rather than threaded through package-level globals.
type Config struct {
	WorldWidth  int
	WorldHeight int
	Limit       int

	CorrFactor float32
	Slop       float32

	Gravity     Vec2
	ThreadCount int
}

// DefaultConfig returns the spec's documented constants (§6): Limit=16,
// CorrFactor=0.40, Slop=0.05, and a single-threaded engine, which is also
// the configuration the determinism tests in §8 require.
func DefaultConfig() Config {
	return Config{
		WorldWidth:  1024,
		WorldHeight: 1024,
		Limit:       DefaultLimit,
		CorrFactor:  DefaultCorrFactor,
		Slop:        DefaultSlop,
		Gravity:     Vec2{X: 0, Y: 0},
		ThreadCount: 1,
	}
}
