package cfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgp59/cfssim/testutils"
)

func newTestConfig(timeQuantum, minGranularity time.Duration) *SimConfig {
	cfg := DefaultSimConfig()
	cfg.TimeQuantum = timeQuantum
	cfg.MinGranularity = minGranularity
	return cfg
}

// S5 / P9 — empty workload.
func TestRunAllTasksEmptyWorkload(t *testing.T) {
	tlc := testutils.NewTestLogCollect(t, RootLogger, nil)
	defer tlc.RestoreLog()

	s := NewScheduler(newTestConfig(100*time.Millisecond, 4*time.Millisecond))
	s.RunAllTasks()

	assert.Empty(t, s.Completed())
	assert.Zero(t, s.Runtime())
}

// P10 — single task runs uninterrupted from arrival to arrival+duration,
// and quantum equals time_quantum under a single ready task.
func TestRunAllTasksSingleTask(t *testing.T) {
	tlc := testutils.NewTestLogCollect(t, RootLogger, nil)
	defer tlc.RestoreLog()

	s := NewScheduler(newTestConfig(100*time.Millisecond, 4*time.Millisecond))
	task := NewTask(1, 0, 0, 40*time.Millisecond)
	require.NoError(t, s.ScheduleTask(task))

	s.RunAllTasks()

	assert.Equal(t, 40*time.Millisecond, task.Metrics.Completion)
	assert.Zero(t, task.Metrics.FirstRun)
	assert.Equal(t, 1, task.Metrics.Bursts, "expected a single, uninterrupted burst")
	assert.Equal(t, 100*time.Millisecond, s.Quantum(), "want quantum = time_quantum")
}

// S1, generalized as P11 — identical tasks arrived at 0 complete in pid
// order, turnaround forming an arithmetic progression with step = duration.
//
// Note: spec.md's own worked S1 states both tasks complete at 80ms; that
// is inconsistent with its own P11 (arithmetic progression with step =
// duration) for two equal 40ms tasks, which requires completions at 40ms
// and 80ms. P11 is implemented as literally specified; see DESIGN.md.
func TestRunAllTasksEqualWeightSameArrival(t *testing.T) {
	tlc := testutils.NewTestLogCollect(t, RootLogger, nil)
	defer tlc.RestoreLog()

	s := NewScheduler(newTestConfig(100*time.Millisecond, 4*time.Millisecond))
	t1 := NewTask(1, 0, 0, 40*time.Millisecond)
	t2 := NewTask(2, 0, 0, 40*time.Millisecond)
	require.NoError(t, s.ScheduleTask(t1))
	require.NoError(t, s.ScheduleTask(t2))

	s.RunAllTasks()

	completed := s.Completed()
	require.Len(t, completed, 2)
	assert.Equal(t, []int64{1, 2}, []int64{completed[0].Pid, completed[1].Pid})
	assert.Equal(t, 40*time.Millisecond, t1.Metrics.Completion)
	assert.Equal(t, 80*time.Millisecond, t2.Metrics.Completion)
}

// S2 — priority inversion by nice: the higher-weight (lower nice) task
// finishes strictly before the lower-weight one when both arrive together
// with the same duration.
func TestRunAllTasksPriorityInversion(t *testing.T) {
	tlc := testutils.NewTestLogCollect(t, RootLogger, nil)
	defer tlc.RestoreLog()

	s := NewScheduler(newTestConfig(100*time.Millisecond, 4*time.Millisecond))
	t1 := NewTask(1, 0, 0, 100*time.Millisecond) // weight 1024
	t2 := NewTask(2, 5, 0, 100*time.Millisecond) // weight 335
	require.NoError(t, s.ScheduleTask(t1))
	require.NoError(t, s.ScheduleTask(t2))

	s.RunAllTasks()

	assert.Less(t, t1.Metrics.Completion, t2.Metrics.Completion)
}

// S3 — a high-weight late arrival is admitted with v_runtime floored to
// the current ready minimum and, owning a short duration, completes before
// the long-running incumbent.
func TestRunAllTasksLateArrivalOvertakes(t *testing.T) {
	tlc := testutils.NewTestLogCollect(t, RootLogger, nil)
	defer tlc.RestoreLog()

	s := NewScheduler(newTestConfig(100*time.Millisecond, 4*time.Millisecond))
	t1 := NewTask(1, 0, 0, 200*time.Millisecond)
	t2 := NewTask(2, -10, 50*time.Millisecond, 20*time.Millisecond)
	require.NoError(t, s.ScheduleTask(t1))
	require.NoError(t, s.ScheduleTask(t2))

	s.RunAllTasks()

	require.NotZero(t, t2.Metrics.Completion, "t2 never completed")
	if t1.Metrics.Completion != 0 {
		assert.Less(t, t2.Metrics.Completion, t1.Metrics.Completion,
			"expected t2 (pid 2) to complete before t1 (pid 1)")
	}
	assert.NotZero(t, t2.VRuntime, "expected t2 to have been floored above 0 on promotion")
}

// S4 — with ten ready tasks, the dynamic quantum clamps at the
// min_granularity floor rather than collapsing to time_quantum/10.
func TestRunAllTasksQuantumFloor(t *testing.T) {
	s := NewScheduler(newTestConfig(10*time.Millisecond, 4*time.Millisecond))
	for pid := int64(1); pid <= 10; pid++ {
		require.NoError(t, s.ScheduleTask(NewTask(pid, 0, 0, 40*time.Millisecond)))
	}

	s.promote()
	assert.Equal(t, 4*time.Millisecond, s.Quantum(), "want 4ms floor (not 1ms)")
}

// S6 — a pending-only workload makes the clock jump straight to the sole
// task's arrival instead of ticking through the idle gap.
func TestRunAllTasksPendingGapIdle(t *testing.T) {
	tlc := testutils.NewTestLogCollect(t, RootLogger, nil)
	defer tlc.RestoreLog()

	s := NewScheduler(newTestConfig(100*time.Millisecond, 4*time.Millisecond))
	task := NewTask(1, 0, 1*time.Second, 4*time.Millisecond)
	require.NoError(t, s.ScheduleTask(task))

	s.RunAllTasks()

	assert.Equal(t, 1*time.Second+4*time.Millisecond, task.Metrics.Completion)
}

// P1 — every completed task's duration_consumed equals its duration.
func TestRunAllTasksDurationConsumedMatchesDuration(t *testing.T) {
	tlc := testutils.NewTestLogCollect(t, RootLogger, nil)
	defer tlc.RestoreLog()

	s := NewScheduler(newTestConfig(50*time.Millisecond, 4*time.Millisecond))
	tasks := []*Task{
		NewTask(1, 0, 0, 37*time.Millisecond),
		NewTask(2, 3, 5*time.Millisecond, 61*time.Millisecond),
		NewTask(3, -5, 10*time.Millisecond, 13*time.Millisecond),
	}
	for _, tk := range tasks {
		require.NoError(t, s.ScheduleTask(tk))
	}
	s.RunAllTasks()

	for _, tk := range tasks {
		assert.Equal(t, tk.Duration, tk.Metrics.DurationConsumed, "pid %d", tk.Pid)
	}
}

// I6 — quantum never falls below min_granularity while ready is non-empty.
func TestRecomputeQuantumNeverBelowFloor(t *testing.T) {
	s := NewScheduler(newTestConfig(1*time.Millisecond, 4*time.Millisecond))
	for pid := int64(1); pid <= 5; pid++ {
		s.addTask(NewTask(pid, 0, 0, time.Millisecond))
	}
	assert.GreaterOrEqual(t, s.quantum, s.minGranularity)
}

// Schedule_task precondition (I2): arrival must not precede the current
// runtime.
func TestScheduleTaskRejectsPastArrival(t *testing.T) {
	s := NewScheduler(newTestConfig(100*time.Millisecond, 4*time.Millisecond))
	s.runtime = 10 * time.Millisecond
	err := s.ScheduleTask(NewTask(1, 0, 5*time.Millisecond, time.Millisecond))
	require.Error(t, err)
}
