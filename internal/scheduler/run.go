// ============================================================================
// cpusched Engine - Scheduling Entry Point
// ============================================================================
//
// Package: internal/scheduler
// File: run.go
// Purpose: Dispatch a task set to one of the five scheduling strategies and
//          verify the result before handing it back
//
// Flow:
//   1. Validate input (no partial run on invalid input)
//   2. Deep copy the caller's tasks, clear any previous results
//   3. Build working records sorted by arrival time
//   4. Run the strategy on a simulated integer clock
//   5. Copy completion times back, check completeness and trace consistency
//
// Every run is a pure function of (algorithm, tasks, quantum). Nothing is shared
// between runs, so callers may execute several runs in parallel.
//
// ============================================================================

package scheduler

import (
	"fmt"

	"github.com/ChuLiYu/cpusched/pkg/types"
)

// strategy simulates jobs (sorted by arrival) and returns the execution trace.
// It must call finish on every job.
type strategy func(jobs []*job, quantum int) types.Trace

var strategies = map[types.Algorithm]strategy{
	types.FCFS:               firstComeFirstServed,
	types.RoundRobin:         roundRobin,
	types.SJF:                shortestJobFirst,
	types.Priority:           priorityNonPreemptive,
	types.PriorityPreemptive: priorityPreemptive,
}

// Run simulates alg over tasks and returns completed copies of the tasks (same
// order as the input, CompletionTime set) and the execution trace.
// quantum is required for Round-Robin and ignored otherwise.
func Run(alg types.Algorithm, tasks []types.Task, quantum int) ([]types.Task, types.Trace, error) {
	if err := Validate(alg, tasks, quantum); err != nil {
		return nil, nil, err
	}

	completed := types.CloneTasks(tasks)
	for i := range completed {
		completed[i].CompletionTime = nil
		completed[i].TurnaroundTime = nil
		completed[i].WaitingTime = nil
	}

	jobs := prepare(completed)
	trace := strategies[alg](jobs, quantum)

	for _, j := range jobs {
		if j.done {
			completed[j.index].CompletionTime = types.Int(j.completion)
		}
	}

	if err := checkCompleted(completed); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", alg, err)
	}
	if err := checkTrace(completed, trace); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", alg, err)
	}
	return completed, trace, nil
}

// checkCompleted verifies every task finished no earlier than AT+BT
func checkCompleted(tasks []types.Task) error {
	for i, t := range tasks {
		if t.CompletionTime == nil {
			return &TaskError{Index: i, TaskID: t.ID, Field: "completion_time", Reason: "is not set", Err: ErrIncompleteResult}
		}
		if ct := *t.CompletionTime; ct < t.ArrivalTime+t.BurstTime {
			return &TaskError{
				Index:  i,
				TaskID: t.ID,
				Field:  "completion_time",
				Reason: fmt.Sprintf("%d is before arrival+burst %d", ct, t.ArrivalTime+t.BurstTime),
				Err:    ErrIncompleteResult,
			}
		}
	}
	return nil
}

// checkTrace verifies the single-processor invariants: segments are non-empty,
// sorted and non-overlapping, never start before the task arrives, add up to the
// burst time and the last one ends at the completion time.
func checkTrace(tasks []types.Task, trace types.Trace) error {
	executed := make([]int, len(tasks))
	lastEnd := make([]int, len(tasks))

	prevEnd := 0
	for i, seg := range trace {
		if seg.TaskIndex < 0 || seg.TaskIndex >= len(tasks) {
			return fmt.Errorf("%w: segment %d references task index %d", ErrInvalidTrace, i, seg.TaskIndex)
		}
		if seg.End <= seg.Start {
			return fmt.Errorf("%w: segment %d [%d,%d) is empty", ErrInvalidTrace, i, seg.Start, seg.End)
		}
		if seg.Start < prevEnd {
			return fmt.Errorf("%w: segment %d starts at %d before previous end %d", ErrInvalidTrace, i, seg.Start, prevEnd)
		}
		if t := tasks[seg.TaskIndex]; seg.Start < t.ArrivalTime {
			return fmt.Errorf("%w: task %s runs at %d before arriving at %d", ErrInvalidTrace, t.ID, seg.Start, t.ArrivalTime)
		}
		prevEnd = seg.End
		executed[seg.TaskIndex] += seg.Duration()
		lastEnd[seg.TaskIndex] = seg.End
	}

	for i, t := range tasks {
		if executed[i] != t.BurstTime {
			return fmt.Errorf("%w: task %s executed %d of %d units", ErrInvalidTrace, t.ID, executed[i], t.BurstTime)
		}
		if t.CompletionTime != nil && lastEnd[i] != *t.CompletionTime {
			return fmt.Errorf("%w: task %s last segment ends at %d, completion is %d", ErrInvalidTrace, t.ID, lastEnd[i], *t.CompletionTime)
		}
	}
	return nil
}
