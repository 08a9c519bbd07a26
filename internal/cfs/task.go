// Task record: static attributes, dynamic accounting, and recorded metrics
// for a single simulated task.

package cfs

import "time"

// VRuntime is a task's accumulated virtual runtime, in nanoseconds. It is
// kept as an explicit unsigned type (rather than time.Duration) so that
// comparators use CompareVRuntime instead of a signed subtraction, which
// would lose its sign for widely separated operands.
type VRuntime uint64

// CompareVRuntime returns -1, 0 or 1 as a is less than, equal to, or
// greater than b. Comparators must use this instead of `a - b` so that the
// result stays correct regardless of how far apart a and b are.
func CompareVRuntime(a, b VRuntime) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// TaskMetrics holds the metrics recorded for a task over its lifetime.
type TaskMetrics struct {
	// Arrival is immutable, set at construction.
	Arrival time.Duration
	// FirstRun is set once, at the task's first dispatch.
	FirstRun time.Duration
	// Completion is set once, when the task's remaining duration reaches
	// zero.
	Completion time.Duration
	// Bursts counts distinct dispatch episodes.
	Bursts int
	// DurationConsumed accumulates the CPU time actually granted.
	DurationConsumed time.Duration

	firstRunSet   bool
	completionSet bool
}

// Task is the entity representing one simulated task.
type Task struct {
	// Pid is the unique, immutable identity assigned at creation. It is the
	// final tie-breaker in every comparator.
	Pid int64
	// Nice is the immutable nice value in [NiceMin, NiceMax].
	Nice int

	// VRuntime is the per-task virtual runtime accumulator, monotonically
	// non-decreasing.
	VRuntime VRuntime

	// Duration is the original total CPU time required, immutable.
	Duration time.Duration
	// Remaining is the CPU time still owed, decremented by Step.
	Remaining time.Duration

	Metrics TaskMetrics
}

// NewTask constructs a task with the given identity, priority, arrival time
// and total required duration. VRuntime and all once-set metrics start
// zeroed/unset.
func NewTask(pid int64, nice int, arrival, duration time.Duration) *Task {
	return &Task{
		Pid:      pid,
		Nice:     nice,
		Duration: duration,
		Remaining: duration,
		Metrics: TaskMetrics{
			Arrival: arrival,
		},
	}
}

// Step consumes up to slice units of CPU time: it decrements Remaining and
// accumulates DurationConsumed, returning true iff Remaining has reached
// zero. The caller (the scheduler core) is responsible for updating
// VRuntime and the global clock around each Step.
func (t *Task) Step(slice time.Duration) bool {
	if slice > t.Remaining {
		slice = t.Remaining
	}
	t.Remaining -= slice
	t.Metrics.DurationConsumed += slice
	return t.Remaining <= 0
}

// SetFirstRun records the first-dispatch timestamp, a no-op if already set.
func (t *Task) SetFirstRun(runtime time.Duration) {
	if !t.Metrics.firstRunSet {
		t.Metrics.FirstRun = runtime
		t.Metrics.firstRunSet = true
	}
}

// SetCompletion records the completion timestamp, a no-op if already set.
func (t *Task) SetCompletion(runtime time.Duration) {
	if !t.Metrics.completionSet {
		t.Metrics.Completion = runtime
		t.Metrics.completionSet = true
	}
}

// Turnaround returns Completion - Arrival. It is only meaningful once the
// task has completed.
func (t *Task) Turnaround() time.Duration {
	return t.Metrics.Completion - t.Metrics.Arrival
}
