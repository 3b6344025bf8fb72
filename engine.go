package physics2d

import (
	"sync"
	"time"
)

// StepTimings reports per-phase wall-clock microseconds for one Step call,
// mirroring the tu/tc/tr instrumentation in the original debug frontend's
// performance panel.
type StepTimings struct {
	IntegrateUs   float64
	BroadphaseUs  float64
	NarrowphaseUs float64
}

type taskKind int

const (
	taskGather taskKind = iota
	taskSAT
)

type task struct {
	kind    taskKind
	slot    int // output slot in collisionData, for taskSAT
	bodyID  int // for taskGather
	a, b    int // for taskSAT
}

// Engine drives World.Step with a fixed worker pool coordinated by two
// barriers per phase, per §4.6. Set ThreadCount to 1 for the single-threaded,
// deterministic-ordering mode §5 requires of a reproducible test harness.
type Engine struct {
	world   *World
	reg     *Registry
	workers int

	tasks   [][]task
	results [][]Pair

	stopFlag bool

	start  *barrier
	finish *barrier

	wg sync.WaitGroup
}

// barrier is a reusable N-arrival rendezvous, the Go equivalent of the
// generation-counted condition-variable barrier in the original engine
// (Engine_old.hpp's Barrier) — sync.WaitGroup is one-shot, so a barrier that
// fires every step needs its own generation counter to avoid racing the next
// round's arrivals against the previous round's wakeups.
type barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	n          int
	count      int
	generation int
}

func newBarrier(n int) *barrier {
	b := &barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *barrier) wait() {
	b.mu.Lock()
	gen := b.generation
	b.count++
	if b.count == b.n {
		b.count = 0
		b.generation++
		b.cond.Broadcast()
	} else {
		for gen == b.generation {
			b.cond.Wait()
		}
	}
	b.mu.Unlock()
}

// NewEngine starts threadCount worker goroutines bound to world. threadCount
// must be >= 1; pass 1 for single-threaded deterministic operation.
func NewEngine(world *World, reg *Registry, threadCount int) *Engine {
	if threadCount < 1 {
		threadCount = 1
	}

	e := &Engine{
		world:   world,
		reg:     reg,
		workers: threadCount,
		tasks:   make([][]task, threadCount),
		results: make([][]Pair, threadCount),
		start:   newBarrier(threadCount + 1),
		finish:  newBarrier(threadCount + 1),
	}

	e.wg.Add(threadCount)
	for i := 0; i < threadCount; i++ {
		go e.workerLoop(i)
	}
	return e
}

func (e *Engine) workerLoop(i int) {
	defer e.wg.Done()
	for {
		e.start.wait()
		if e.stopFlag {
			e.finish.wait()
			return
		}

		e.results[i] = e.results[i][:0]
		for _, t := range e.tasks[i] {
			switch t.kind {
			case taskGather:
				e.results[i] = e.world.GetNeighbors(t.bodyID, e.results[i])
			case taskSAT:
				e.world.CollisionData[t.slot] = PerformSAT(e.reg, &e.world.Bodies[t.a], &e.world.Bodies[t.b])
			}
		}

		e.finish.wait()
	}
}

func (e *Engine) clearTasks() {
	for i := range e.tasks {
		e.tasks[i] = e.tasks[i][:0]
	}
}

// Step advances the simulation by dt: integrate, rebuild the grid, gather
// broadphase neighbor pairs in parallel, run SAT narrowphase in parallel,
// then resolve/correct/reset serially. Returns per-phase timings.
func (e *Engine) Step(dt float32) StepTimings {
	w := e.world

	t0 := time.Now()
	w.UpdateVelocities(dt)
	w.UpdatePositions(dt)
	w.InitGrid()
	t1 := time.Now()

	e.clearTasks()
	cur := 0
	for id := range w.Bodies {
		if w.Bodies[id].Active != ActiveFree {
			e.tasks[cur%e.workers] = append(e.tasks[cur%e.workers], task{kind: taskGather, bodyID: id})
			cur++
		}
	}

	e.start.wait()
	e.finish.wait()

	w.CollisionPairs = w.CollisionPairs[:0]
	for _, r := range e.results {
		w.CollisionPairs = append(w.CollisionPairs, r...)
	}
	t2 := time.Now()

	n := len(w.CollisionPairs)
	if cap(w.CollisionData) < n {
		w.CollisionData = make([]CollisionResult, n)
	} else {
		w.CollisionData = w.CollisionData[:n]
	}

	e.clearTasks()
	for i, p := range w.CollisionPairs {
		e.tasks[i%e.workers] = append(e.tasks[i%e.workers], task{kind: taskSAT, slot: i, a: p.A, b: p.B})
	}

	e.start.wait()
	e.finish.wait()

	w.ResolveCollisions()
	w.ApplyCorrections()
	w.ResetGrid()
	t3 := time.Now()

	return StepTimings{
		IntegrateUs:   t1.Sub(t0).Seconds() * 1e6,
		BroadphaseUs:  t2.Sub(t1).Seconds() * 1e6,
		NarrowphaseUs: t3.Sub(t2).Seconds() * 1e6,
	}
}

// Close signals every worker to exit and joins them. Safe to call once; a
// second call blocks forever, matching the single-shutdown discipline of the
// original C++ Engine destructor.
func (e *Engine) Close() {
	e.stopFlag = true
	e.start.wait()
	e.finish.wait()
	e.wg.Wait()
}
