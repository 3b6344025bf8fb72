package harness

import quadphys "github.com/0x5844/quadphys"

// rollingSamples is the frame-count window the debug frontend averaged phase
// timings over for its performance panel.
const rollingSamples = 60

// StatsTracker keeps a rolling average of per-phase step timings plus
// point-in-time body/collision counts, the headless equivalent of the
// ImGui performance panel's uAvg/cAvg/rAvg accumulators.
type StatsTracker struct {
	samples []quadphys.StepTimings
	next    int
	filled  int

	Step        int
	Bodies      int
	Collisions  int
}

func NewStatsTracker() *StatsTracker {
	return &StatsTracker{samples: make([]quadphys.StepTimings, rollingSamples)}
}

// Record folds one Step's timings and world counters into the tracker.
func (s *StatsTracker) Record(t quadphys.StepTimings, bodies, collisions int) {
	s.samples[s.next] = t
	s.next = (s.next + 1) % rollingSamples
	if s.filled < rollingSamples {
		s.filled++
	}
	s.Step++
	s.Bodies = bodies
	s.Collisions = collisions
}

// Average returns the rolling mean of the last (up to rollingSamples) steps.
func (s *StatsTracker) Average() quadphys.StepTimings {
	if s.filled == 0 {
		return quadphys.StepTimings{}
	}
	var sum quadphys.StepTimings
	for i := 0; i < s.filled; i++ {
		sum.IntegrateUs += s.samples[i].IntegrateUs
		sum.BroadphaseUs += s.samples[i].BroadphaseUs
		sum.NarrowphaseUs += s.samples[i].NarrowphaseUs
	}
	n := float64(s.filled)
	return quadphys.StepTimings{
		IntegrateUs:   sum.IntegrateUs / n,
		BroadphaseUs:  sum.BroadphaseUs / n,
		NarrowphaseUs: sum.NarrowphaseUs / n,
	}
}
