package harness

import (
	"context"
	"time"

	"go.uber.org/zap"

	quadphys "github.com/0x5844/quadphys"
)

// Runner drives the simulation loop at a fixed timestep, feeding every
// step's timings into a StatsTracker and, if hub is non-nil, broadcasting a
// body-snapshot Frame to connected diagnostics viewers.
type Runner struct {
	world   *quadphys.World
	engine  *quadphys.Engine
	reg     *quadphys.Registry
	dt      float32
	gravity quadphys.Vec2

	stats  *StatsTracker
	hub    *Hub
	script *ScriptEngine
	log    *zap.Logger
}

func NewRunner(world *quadphys.World, engine *quadphys.Engine, reg *quadphys.Registry, dt float32, gravity quadphys.Vec2, stats *StatsTracker, hub *Hub, script *ScriptEngine, log *zap.Logger) *Runner {
	return &Runner{world: world, engine: engine, reg: reg, dt: dt, gravity: gravity, stats: stats, hub: hub, script: script, log: log}
}

// Run steps the simulation until ctx is canceled, then returns nil.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(r.dt * float32(time.Second)))
	defer ticker.Stop()

	step := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.world.ResetForces(r.gravity)
			if r.script != nil {
				r.script.TickSpawns(step, quadphys.V(0, 100))
			}
			timings := r.engine.Step(r.dt)
			r.stats.Record(timings, r.world.ActiveCount, r.world.ColCnt)

			if r.hub != nil {
				r.hub.Broadcast(r.snapshot(step))
			}
			step++
		}
	}
}

func (r *Runner) snapshot(step int) Frame {
	bodies := make([]BodySnapshot, 0, r.world.Allocated())
	for i := range r.world.Bodies {
		b := &r.world.Bodies[i]
		if b.Active == quadphys.ActiveFree {
			continue
		}
		bodies = append(bodies, BodySnapshot{ID: i, X: b.Position.X, Y: b.Position.Y, Theta: b.Theta})
	}
	return Frame{Step: step, Bodies: bodies}
}
