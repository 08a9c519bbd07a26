// Scheduler core: virtual-runtime accounting, the two ordered task
// indices, and the main dispatch loop.
//
//  Scheduler Architecture
//  ======================
//
//        schedule_task
//             |
//             v
//      +-------------+   arrival <= runtime    +-------------+
//      |   pending    | ----------------------> |    ready    |
//      | (by arrival) |       promote           | (by v_rt)   |
//      +-------------+                          +-------------+
//                                                      |
//                                                      | ready.min
//                                                      v
//                                               +-------------+
//                                               |  dispatch   |
//                                               |   + burst   |
//                                               +-------------+
//                                                 |         |
//                                          done   |         | not done
//                                                 v         v
//                                          +-----------+ +-----------+
//                                          | completed | |  ready    |
//                                          +-----------+ +-----------+
//
// There is no concurrency here: the loop below is the entire simulation,
// driven by the single `runtime` clock. Promotion happens before every
// dispatch, so the ready and pending indices are always mutually
// consistent at the top of the loop.

package cfs

import (
	"fmt"
	"time"
)

const sentinelPid int64 = -1

// Scheduler owns the ready and pending indices, the simulated clock, the
// dynamic quantum, and the completed-task roster for one simulation run.
type Scheduler struct {
	timeQuantum    time.Duration
	minGranularity time.Duration
	quantum        time.Duration
	runtime        time.Duration
	lastRunTask    int64

	ready   *OrderedIndex
	pending *OrderedIndex
	completed []*Task

	trace bool
	stats RunStats

	log CompLogger
}

// CompLogger is the narrow logging surface the scheduler needs; satisfied
// by *logrus.Entry (see NewCompLogger).
type CompLogger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// NewScheduler creates a scheduler with empty ready/pending indices, clock
// at zero, and quantum undefined until the first task is admitted to
// ready. This is the `initialize(time_quantum, min_granularity)` operation.
func NewScheduler(cfg *SimConfig) *Scheduler {
	if cfg == nil {
		cfg = DefaultSimConfig()
	}
	return &Scheduler{
		timeQuantum:    cfg.TimeQuantum,
		minGranularity: cfg.MinGranularity,
		ready:          NewOrderedIndex(ByVRuntime),
		pending:        NewOrderedIndex(ByArrival),
		lastRunTask:    sentinelPid,
		trace:          cfg.Trace,
		log:            NewCompLogger("scheduler"),
	}
}

// ScheduleTask inserts a fully-constructed task into pending. The
// precondition (I2) is that the task's arrival is not already in the past
// relative to the simulated clock; violating it is a caller bug, reported
// as an error rather than a panic since ScheduleTask is a public boundary
// called before the clock has necessarily started moving.
func (s *Scheduler) ScheduleTask(t *Task) error {
	if t.Metrics.Arrival < s.runtime {
		return fmt.Errorf(
			"cfs: schedule_task pid=%d: arrival %s precedes current runtime %s (invariant I2)",
			t.Pid, t.Metrics.Arrival, s.runtime,
		)
	}
	s.pending.Insert(t)
	return nil
}

// addTask moves a task into ready and recomputes the dynamic quantum
// against the new cardinality.
func (s *Scheduler) addTask(t *Task) {
	s.ready.Insert(t)
	s.recomputeQuantum()
	s.stats.observeReadyDepth(s.ready.Count())
}

// recomputeQuantum implements §4.4.5: quantum := max(min_granularity,
// time_quantum / ready_count). With an empty ready set there is nothing
// to recompute; the previous value (unused until the next dispatch) is
// left alone.
func (s *Scheduler) recomputeQuantum() {
	n := s.ready.Count()
	if n == 0 {
		return
	}
	q := s.timeQuantum / time.Duration(n)
	if q < s.minGranularity {
		q = s.minGranularity
	}
	s.quantum = q
}

// promote moves every task whose arrival has come due from pending into
// ready, applying the fresh-task v_runtime floor (§4.4.4) to each one
// before insertion so a latecomer cannot monopolize the CPU by carrying an
// artificially low v_runtime.
func (s *Scheduler) promote() {
	for {
		t := s.pending.Min()
		if t == nil || t.Metrics.Arrival > s.runtime {
			return
		}
		s.pending.Remove(t)
		s.floorFreshVRuntime(t)
		s.addTask(t)
	}
}

// readyFloor returns the v_runtime a brand new ready-tree entrant must not
// fall below: the current ready minimum, or 0 if ready is empty.
func (s *Scheduler) readyFloor() VRuntime {
	if m := s.ready.Min(); m != nil {
		return m.VRuntime
	}
	return 0
}

func (s *Scheduler) floorFreshVRuntime(t *Task) {
	if floor := s.readyFloor(); floor > t.VRuntime {
		t.VRuntime = floor
	}
}

// RunAllTasks drives the loop of §4.4.3 to completion: promote, dispatch
// the fairest-behind ready task, burst it in min_granularity ticks until
// it completes or is preempted, record or reinsert it, repeat.
func (s *Scheduler) RunAllTasks() {
	for {
		s.promote()

		if s.ready.Count() == 0 {
			if s.pending.Count() == 0 {
				s.logRunSummary()
				return
			}
			// Idle gap: jump the clock to the next arrival (§4.4.3 step 2).
			s.runtime = s.pending.Min().Metrics.Arrival
			continue
		}

		t := s.ready.Min()
		s.ready.Remove(t)
		s.lastRunTask = t.Pid
		t.SetFirstRun(s.runtime)
		t.Metrics.Bursts++
		targetV := t.VRuntime + VRuntime(s.quantum)

		if s.trace && RootLogger.IsEnabledForDebug {
			s.log.Debugf(
				"dispatch pid=%d nice=%d v_runtime=%d runtime=%s quantum=%s target_v=%d",
				t.Pid, t.Nice, t.VRuntime, s.runtime, s.quantum, targetV,
			)
		}

		done := s.runBurst(t, targetV)

		if done {
			t.SetCompletion(s.runtime)
			s.completed = append(s.completed, t)
			s.log.Infof(
				"completed pid=%d runtime=%s turnaround=%s bursts=%d",
				t.Pid, s.runtime, t.Turnaround(), t.Metrics.Bursts,
			)
		} else {
			s.ready.Insert(t)
		}
		s.recomputeQuantum()
		s.stats.observeReadyDepth(s.ready.Count())
	}
}

// runBurst advances t and the clock in minGranularity steps until t
// completes, its quantum (targetV) is exhausted, or a fairer task becomes
// promotable (§4.4.4). It returns whether t completed.
//
// The order within each tick is pinned by §9's design note: decrement
// remaining, then credit v_runtime, then advance the clock, then test for
// completion. This keeps recorded metrics reproducible regardless of
// implementation language.
func (s *Scheduler) runBurst(t *Task, targetV VRuntime) bool {
	weight := NiceToWeight(t.Nice)
	for {
		done := t.Step(s.minGranularity)
		t.VRuntime += VRuntime((uint64(s.minGranularity) * Nice0Weight) / weight)
		s.runtime += s.minGranularity
		s.stats.Ticks++

		if done {
			return true
		}
		if CompareVRuntime(t.VRuntime, targetV) >= 0 {
			s.stats.PreemptedByQuantum++
			return false
		}
		if s.arrivalPreempts(t) {
			s.stats.PreemptedByArrival++
			return false
		}
	}
}

// arrivalPreempts implements the arrival-driven preemption check of
// §4.4.4: a newcomer whose arrival is now due preempts the running task
// if its floored v_runtime would be strictly less than the running
// task's.
func (s *Scheduler) arrivalPreempts(t *Task) bool {
	newcomer := s.pending.Min()
	if newcomer == nil || newcomer.Metrics.Arrival > s.runtime {
		return false
	}
	effective := newcomer.VRuntime
	if floor := s.readyFloor(); floor > effective {
		effective = floor
	}
	return CompareVRuntime(effective, t.VRuntime) < 0
}

func (s *Scheduler) logRunSummary() {
	s.log.Infof(
		"run complete: tasks=%d ticks=%d preempted_arrival=%d preempted_quantum=%d max_ready_depth=%d",
		len(s.completed), s.stats.Ticks, s.stats.PreemptedByArrival,
		s.stats.PreemptedByQuantum, s.stats.MaxReadyDepth,
	)
}

// Completed returns the tasks in the order they finished.
func (s *Scheduler) Completed() []*Task {
	return s.completed
}

// Runtime returns the current (or, post-run, final) simulated clock.
func (s *Scheduler) Runtime() time.Duration {
	return s.runtime
}

// Stats returns a snapshot of the diagnostic run counters.
func (s *Scheduler) Stats() RunStats {
	return s.stats
}

// Quantum returns the current dynamic per-task slice budget.
func (s *Scheduler) Quantum() time.Duration {
	return s.quantum
}
