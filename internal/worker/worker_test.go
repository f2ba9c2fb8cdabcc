package worker

// ============================================================================
// Worker Pool Test File
// Purpose: Verify concurrent execution, result delivery, graceful shutdown
// ============================================================================

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ChuLiYu/cpusched/internal/metrics"
	"github.com/ChuLiYu/cpusched/internal/scheduler"
	"github.com/ChuLiYu/cpusched/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTasks() []types.Task {
	return []types.Task{
		{ID: "A", ArrivalTime: 0, BurstTime: 5, Priority: types.Int(2)},
		{ID: "B", ArrivalTime: 1, BurstTime: 3, Priority: types.Int(1)},
		{ID: "C", ArrivalTime: 2, BurstTime: 2, Priority: types.Int(3)},
	}
}

// ============================================================================
// Basic Functionality Tests
// ============================================================================

// TestNewPool tests creating Worker Pool
func TestNewPool(t *testing.T) {
	pool := NewPool(10, nil, zerolog.Nop())
	assert.NotNil(t, pool)
	assert.Equal(t, 0, pool.GetWorkerCount())
	assert.False(t, pool.IsStarted())
}

// TestPoolStart tests starting Worker Pool
func TestPoolStart(t *testing.T) {
	pool := NewPool(10, nil, zerolog.Nop())

	err := pool.Start(8)
	require.NoError(t, err)
	assert.Equal(t, 8, pool.GetWorkerCount())
	assert.True(t, pool.IsStarted())

	// Try to start again
	assert.ErrorIs(t, pool.Start(4), ErrPoolStarted)

	pool.Stop()
}

// TestWorkerExecution tests every submitted job produces one result
func TestWorkerExecution(t *testing.T) {
	pool := NewPool(10, nil, zerolog.Nop())
	require.NoError(t, pool.Start(1))
	defer pool.Stop()

	jobCount := 10
	for i := 0; i < jobCount; i++ {
		alg := types.Algorithms()[i%len(types.Algorithms())]
		require.NoError(t, pool.Submit(Job{
			ID:        fmt.Sprintf("job-%d", i),
			Algorithm: alg,
			Tasks:     sampleTasks(),
			Quantum:   2,
		}))
	}

	results := make(map[string]Result)
	for i := 0; i < jobCount; i++ {
		result, err := pool.ReceiveResult()
		require.NoError(t, err)
		results[result.JobID] = result
	}

	assert.Equal(t, jobCount, len(results))
	for id, result := range results {
		assert.NoError(t, result.Error, id)
		require.NotNil(t, result.Report, id)
		assert.Equal(t, result.Algorithm, result.Report.Algorithm)
	}
}

// TestWorkerExecution_ReportsErrors tests invalid input comes back in the result
func TestWorkerExecution_ReportsErrors(t *testing.T) {
	collector := metrics.NewCollector(prometheus.NewRegistry())
	pool := NewPool(1, collector, zerolog.Nop())
	require.NoError(t, pool.Start(1))
	defer pool.Stop()

	require.NoError(t, pool.Submit(Job{ID: "bad", Algorithm: types.RoundRobin, Tasks: sampleTasks()}))

	result, err := pool.ReceiveResult()
	require.NoError(t, err)
	assert.ErrorIs(t, result.Error, scheduler.ErrInvalidQuantum)
	assert.Nil(t, result.Report)
}

// ============================================================================
// Lifecycle Tests
// ============================================================================

func TestSubmitBeforeStart(t *testing.T) {
	pool := NewPool(1, nil, zerolog.Nop())
	assert.ErrorIs(t, pool.Submit(Job{}), ErrPoolNotStarted)
}

func TestSubmitAfterStop(t *testing.T) {
	pool := NewPool(1, nil, zerolog.Nop())
	require.NoError(t, pool.Start(2))
	pool.Stop()

	assert.ErrorIs(t, pool.Submit(Job{}), ErrPoolClosed)

	_, err := pool.ReceiveResult()
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestStopIsIdempotent(t *testing.T) {
	pool := NewPool(1, nil, zerolog.Nop())
	pool.Stop() // not started

	require.NoError(t, pool.Start(1))
	assert.NotPanics(t, func() {
		pool.Stop()
		pool.Stop()
	})
}

func TestStopWithUnreadResults(t *testing.T) {
	pool := NewPool(1, nil, zerolog.Nop())
	require.NoError(t, pool.Start(1))

	for i := 0; i < 3; i++ {
		require.NoError(t, pool.Submit(Job{ID: fmt.Sprint(i), Algorithm: types.FCFS, Tasks: sampleTasks()}))
	}

	// must not block even though nobody reads the results
	pool.Stop()
}

func TestStopDuringConcurrentSubmit(t *testing.T) {
	for round := 0; round < 20; round++ {
		pool := NewPool(1, nil, zerolog.Nop())
		require.NoError(t, pool.Start(1))

		var wg sync.WaitGroup
		for s := 0; s < 8; s++ {
			wg.Add(1)
			go func(s int) {
				defer wg.Done()
				for i := 0; i < 16; i++ {
					err := pool.Submit(Job{ID: fmt.Sprintf("%d-%d", s, i), Algorithm: types.FCFS, Tasks: sampleTasks()})
					if err != nil {
						assert.ErrorIs(t, err, ErrPoolClosed)
						return
					}
				}
			}(s)
		}

		assert.NotPanics(t, pool.Stop)
		wg.Wait()
	}
}

func TestConcurrentSubmit(t *testing.T) {
	pool := NewPool(64, nil, zerolog.Nop())
	require.NoError(t, pool.Start(4))
	defer pool.Stop()

	const submitters, perSubmitter = 4, 8
	var wg sync.WaitGroup
	for s := 0; s < submitters; s++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			for i := 0; i < perSubmitter; i++ {
				err := pool.Submit(Job{ID: fmt.Sprintf("%d-%d", s, i), Algorithm: types.SJF, Tasks: sampleTasks()})
				assert.NoError(t, err)
			}
		}(s)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < submitters*perSubmitter; i++ {
		result, err := pool.ReceiveResult()
		require.NoError(t, err)
		seen[result.JobID] = true
	}
	assert.Len(t, seen, submitters*perSubmitter)
}

// ============================================================================
// Compare Tests
// ============================================================================

func TestCompare_MatchesSequentialRuns(t *testing.T) {
	tasks := sampleTasks()

	reports, err := Compare(tasks, nil, 2, CompareOptions{Workers: 3, Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.Len(t, reports, len(types.Algorithms()))

	for i, alg := range types.Algorithms() {
		want, err := scheduler.Simulate(alg, tasks, 2)
		require.NoError(t, err)
		assert.Equal(t, want, reports[i], "report for %s", alg)
	}

	// caller's tasks untouched
	assert.Equal(t, sampleTasks(), tasks)
}

func TestCompare_KeepsRequestedOrder(t *testing.T) {
	algs := []types.Algorithm{types.PriorityPreemptive, types.FCFS, types.SJF}

	reports, err := Compare(sampleTasks(), algs, 0, CompareOptions{Workers: 8, Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.Len(t, reports, 3)
	for i, alg := range algs {
		assert.Equal(t, alg, reports[i].Algorithm)
	}
}

func TestCompare_SkipsUnrunnableAlgorithms(t *testing.T) {
	tasks := []types.Task{{ID: "A", BurstTime: 2}, {ID: "B", ArrivalTime: 1, BurstTime: 1}}

	reports, err := Compare(tasks, nil, 0, CompareOptions{Logger: zerolog.Nop()})
	require.NoError(t, err)

	var got []types.Algorithm
	for _, r := range reports {
		got = append(got, r.Algorithm)
	}
	assert.Equal(t, []types.Algorithm{types.FCFS, types.SJF}, got)
}

func TestCompare_RequestedRoundRobinNeedsQuantum(t *testing.T) {
	for _, quantum := range []int{0, -1} {
		for _, algs := range [][]types.Algorithm{
			{types.RoundRobin},
			{types.FCFS, types.RoundRobin},
		} {
			reports, err := Compare(sampleTasks(), algs, quantum, CompareOptions{Logger: zerolog.Nop()})
			assert.ErrorIs(t, err, scheduler.ErrInvalidQuantum, "algs=%v quantum=%d", algs, quantum)
			assert.True(t, scheduler.IsInputError(err))
			assert.Nil(t, reports)
		}
	}
}

func TestCompare_RequestedPriorityNeedsPriorities(t *testing.T) {
	tasks := []types.Task{{ID: "A", BurstTime: 2}}

	_, err := Compare(tasks, []types.Algorithm{types.SJF, types.Priority}, 0, CompareOptions{Logger: zerolog.Nop()})
	var taskErr *scheduler.TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "priority", taskErr.Field)
	assert.Contains(t, err.Error(), "priority")
}

func TestCompare_BufferSmallerThanJobs(t *testing.T) {
	reports, err := Compare(sampleTasks(), nil, 2, CompareOptions{Workers: 1, BufferSize: 1, Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.Len(t, reports, len(types.Algorithms()))
}

func TestCompare_PropagatesInputErrors(t *testing.T) {
	tasks := []types.Task{{ID: "A", BurstTime: 0}}

	_, err := Compare(tasks, []types.Algorithm{types.FCFS}, 0, CompareOptions{Logger: zerolog.Nop()})
	assert.ErrorIs(t, err, scheduler.ErrInvalidTask)
	assert.Contains(t, err.Error(), "fcfs")
}

func TestCompare_RecordsMetrics(t *testing.T) {
	collector := metrics.NewCollector(prometheus.NewRegistry())

	_, err := Compare(sampleTasks(), nil, 2, CompareOptions{Workers: 2, Collector: collector, Logger: zerolog.Nop()})
	require.NoError(t, err)

	rec := collectorOutput(t, collector)
	for _, alg := range types.Algorithms() {
		assert.Contains(t, rec, fmt.Sprintf(`cpusched_simulations_total{algorithm=%q} 1`, alg.String()))
	}
	assert.Contains(t, rec, "cpusched_worker_in_flight 0")
}
