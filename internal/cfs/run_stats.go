// Diagnostic-only run statistics, logged once at the end of a simulation.
// These never feed back into scheduling decisions.

package cfs

// RunStats accumulates counters over a single run_all_tasks invocation.
type RunStats struct {
	// Ticks is the number of min_granularity accounting steps applied.
	Ticks uint64
	// PreemptedByArrival counts bursts cut short because a fairer task
	// arrived (see (*Scheduler).runBurst).
	PreemptedByArrival uint64
	// PreemptedByQuantum counts bursts that ran to quantum expiry.
	PreemptedByQuantum uint64
	// MaxReadyDepth is the largest ready.Count() observed during the run.
	MaxReadyDepth int
}

func (s *RunStats) observeReadyDepth(n int) {
	if n > s.MaxReadyDepth {
		s.MaxReadyDepth = n
	}
}
