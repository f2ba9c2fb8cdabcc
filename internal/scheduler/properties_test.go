package scheduler

// ============================================================================
// Property Test File
// Purpose: Check invariants on random task sets and compare the event driven
//          strategies against straightforward step-by-step versions
// ============================================================================

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/ChuLiYu/cpusched/pkg/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomTasks(r *rand.Rand) []types.Task {
	n := 1 + r.Intn(8)
	tasks := make([]types.Task, n)
	for i := range tasks {
		tasks[i] = ptask(fmt.Sprintf("T%d", i), r.Intn(12), 1+r.Intn(6), r.Intn(4))
	}
	return tasks
}

// unitStepPreemptive re-selects the best arrived task after every time unit
func unitStepPreemptive(tasks []types.Task) ([]int, types.Trace) {
	remaining := make([]int, len(tasks))
	completion := make([]int, len(tasks))
	for i, t := range tasks {
		remaining[i] = t.BurstTime
	}

	var trace types.Trace
	clock := 0
	for done := 0; done < len(tasks); {
		best := -1
		for i, t := range tasks {
			if remaining[i] == 0 || t.ArrivalTime > clock {
				continue
			}
			if best == -1 ||
				*t.Priority < *tasks[best].Priority ||
				(*t.Priority == *tasks[best].Priority && t.ArrivalTime < tasks[best].ArrivalTime) {
				best = i
			}
		}
		if best == -1 {
			clock++
			continue
		}
		trace = appendCoalesced(trace, seg(tasks[best].ID, best, clock, clock+1))
		clock++
		remaining[best]--
		if remaining[best] == 0 {
			completion[best] = clock
			done++
		}
	}
	return completion, trace
}

// scanNonPreemptive rescans every unfinished task at each decision point
func scanNonPreemptive(tasks []types.Task, key func(types.Task) int) ([]int, types.Trace) {
	finished := make([]bool, len(tasks))
	completion := make([]int, len(tasks))

	var trace types.Trace
	clock := 0
	for done := 0; done < len(tasks); {
		best := -1
		for i, t := range tasks {
			if finished[i] || t.ArrivalTime > clock {
				continue
			}
			if best == -1 ||
				key(t) < key(tasks[best]) ||
				(key(t) == key(tasks[best]) && t.ArrivalTime < tasks[best].ArrivalTime) {
				best = i
			}
		}
		if best == -1 {
			next := -1
			for i, t := range tasks {
				if !finished[i] && (next == -1 || t.ArrivalTime < next) {
					next = t.ArrivalTime
				}
			}
			clock = next
			continue
		}
		t := tasks[best]
		trace = append(trace, seg(t.ID, best, clock, clock+t.BurstTime))
		clock += t.BurstTime
		completion[best] = clock
		finished[best] = true
		done++
	}
	return completion, trace
}

func completionSlice(t *testing.T, tasks []types.Task) []int {
	t.Helper()
	out := make([]int, len(tasks))
	for i, task := range tasks {
		require.NotNil(t, task.CompletionTime)
		out[i] = *task.CompletionTime
	}
	return out
}

func TestPriorityPreemptive_MatchesUnitStep(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 300; i++ {
		tasks := randomTasks(r)

		done, trace, err := Run(types.PriorityPreemptive, tasks, 0)
		require.NoError(t, err)

		wantCT, wantTrace := unitStepPreemptive(tasks)
		if diff := cmp.Diff(wantTrace, trace); diff != "" {
			t.Fatalf("set %d %+v: trace mismatch (-want +got):\n%s", i, tasks, diff)
		}
		assert.Equal(t, wantCT, completionSlice(t, done))
	}
}

func TestNonPreemptive_MatchesScan(t *testing.T) {
	cases := []struct {
		alg types.Algorithm
		key func(types.Task) int
	}{
		{types.SJF, func(t types.Task) int { return t.BurstTime }},
		{types.Priority, func(t types.Task) int { return *t.Priority }},
	}

	for _, tc := range cases {
		t.Run(tc.alg.String(), func(t *testing.T) {
			r := rand.New(rand.NewSource(11))
			for i := 0; i < 300; i++ {
				tasks := randomTasks(r)

				done, trace, err := Run(tc.alg, tasks, 0)
				require.NoError(t, err)

				wantCT, wantTrace := scanNonPreemptive(tasks, tc.key)
				if diff := cmp.Diff(wantTrace, trace); diff != "" {
					t.Fatalf("set %d %+v: trace mismatch (-want +got):\n%s", i, tasks, diff)
				}
				assert.Equal(t, wantCT, completionSlice(t, done))
			}
		})
	}
}

func TestInvariants_AllAlgorithms(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		tasks := randomTasks(r)
		quantum := 1 + r.Intn(4)

		for _, alg := range types.Algorithms() {
			report, err := Simulate(alg, tasks, quantum)
			require.NoError(t, err, "set %d alg %s", i, alg)

			executed := make(map[string]int)
			prevEnd := 0
			for j, s := range report.Trace {
				assert.Greater(t, s.End, s.Start)
				assert.GreaterOrEqual(t, s.Start, prevEnd, "segment %d overlaps", j)
				prevEnd = s.End
				executed[s.TaskID] += s.Duration()
			}

			sumTAT, sumWT := 0, 0
			for _, task := range report.Tasks {
				require.NotNil(t, task.CompletionTime)
				assert.GreaterOrEqual(t, *task.CompletionTime, task.ArrivalTime+task.BurstTime)
				assert.Equal(t, task.BurstTime, executed[task.ID])
				assert.GreaterOrEqual(t, *task.TurnaroundTime, task.BurstTime)
				assert.GreaterOrEqual(t, *task.WaitingTime, 0)
				sumTAT += *task.TurnaroundTime
				sumWT += *task.WaitingTime
			}
			n := float64(len(report.Tasks))
			assert.InDelta(t, float64(sumTAT)/n, report.Averages.AvgTurnaround, 1e-9)
			assert.InDelta(t, float64(sumWT)/n, report.Averages.AvgWaiting, 1e-9)
		}
	}
}

func TestSegmentsPerTask(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		tasks := randomTasks(r)
		for _, alg := range []types.Algorithm{types.FCFS, types.SJF, types.Priority} {
			_, trace, err := Run(alg, tasks, 0)
			require.NoError(t, err)
			assert.Len(t, trace, len(tasks), "%s must emit one segment per task", alg)
		}
	}
}

func TestDeterminism(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for i := 0; i < 50; i++ {
		tasks := randomTasks(r)
		for _, alg := range types.Algorithms() {
			first, err := Simulate(alg, tasks, 2)
			require.NoError(t, err)
			second, err := Simulate(alg, tasks, 2)
			require.NoError(t, err)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Fatalf("%s is not deterministic (-first +second):\n%s", alg, diff)
			}
		}
	}
}
