package scheduler

import (
	"fmt"

	"github.com/ChuLiYu/cpusched/pkg/types"
)

// ComputeMetrics derives turnaround and waiting time for every completed task and
// their means. The input is not modified; annotated copies are returned.
func ComputeMetrics(tasks []types.Task) ([]types.Task, types.Averages, error) {
	if len(tasks) == 0 {
		return nil, types.Averages{}, ErrEmptyTaskSet
	}

	out := types.CloneTasks(tasks)
	totalTAT, totalWT := 0, 0
	for i := range out {
		t := &out[i]
		if t.CompletionTime == nil {
			return nil, types.Averages{}, &TaskError{Index: i, TaskID: t.ID, Field: "completion_time", Reason: "is not set", Err: ErrIncompleteResult}
		}

		tat := *t.CompletionTime - t.ArrivalTime
		wt := tat - t.BurstTime
		if wt < 0 {
			return nil, types.Averages{}, &TaskError{
				Index:  i,
				TaskID: t.ID,
				Field:  "waiting_time",
				Reason: fmt.Sprintf("is %d (CT=%d AT=%d BT=%d)", wt, *t.CompletionTime, t.ArrivalTime, t.BurstTime),
				Err:    ErrNegativeWaiting,
			}
		}

		t.TurnaroundTime = types.Int(tat)
		t.WaitingTime = types.Int(wt)
		totalTAT += tat
		totalWT += wt
	}

	n := float64(len(out))
	return out, types.Averages{
		AvgTurnaround: float64(totalTAT) / n,
		AvgWaiting:    float64(totalWT) / n,
	}, nil
}

// ComputeStats summarizes a trace: makespan, idle time, context switches,
// utilization and throughput.
func ComputeStats(tasks []types.Task, trace types.Trace) types.Stats {
	var stats types.Stats
	busy := 0
	for i, seg := range trace {
		busy += seg.Duration()
		if seg.End > stats.Makespan {
			stats.Makespan = seg.End
		}
		if i > 0 && trace[i-1].TaskIndex != seg.TaskIndex {
			stats.ContextSwitches++
		}
	}
	if stats.Makespan == 0 {
		return stats
	}

	stats.IdleTime = stats.Makespan - busy
	stats.Utilization = float64(busy) / float64(stats.Makespan)
	stats.Throughput = float64(len(tasks)) / float64(stats.Makespan)
	return stats
}

// Simulate runs alg, computes metrics and statistics, and bundles them in a Report
func Simulate(alg types.Algorithm, tasks []types.Task, quantum int) (*types.Report, error) {
	completed, trace, err := Run(alg, tasks, quantum)
	if err != nil {
		return nil, err
	}

	annotated, averages, err := ComputeMetrics(completed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", alg, err)
	}

	report := &types.Report{
		Algorithm: alg,
		Tasks:     annotated,
		Trace:     trace,
		Averages:  averages,
		Stats:     ComputeStats(annotated, trace),
	}
	if alg.NeedsQuantum() {
		report.Quantum = quantum
	}
	return report, nil
}
