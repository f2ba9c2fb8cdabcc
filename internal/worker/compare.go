package worker

import (
	"fmt"

	"github.com/ChuLiYu/cpusched/internal/metrics"
	"github.com/ChuLiYu/cpusched/internal/scheduler"
	"github.com/ChuLiYu/cpusched/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CompareOptions configures Compare
type CompareOptions struct {
	Workers    int                // Pool size, capped at the number of algorithms
	BufferSize int                // Job/result channel capacity, at least the number of algorithms
	Collector  *metrics.Collector // Optional
	Logger     zerolog.Logger
}

// Compare runs every algorithm in algs on the same task set concurrently and
// returns the reports in the order of algs.
//
// An empty algs compares every algorithm. In that case Round-Robin is skipped
// when quantum is not positive, and the priority algorithms are skipped when
// some task has no priority; each skip is logged. Explicitly requested
// algorithms are never skipped: their input errors are returned.
func Compare(tasks []types.Task, algs []types.Algorithm, quantum int, opts CompareOptions) ([]*types.Report, error) {
	all := len(algs) == 0
	if all {
		algs = types.Algorithms()
	}

	jobs := make([]Job, 0, len(algs))
	for _, alg := range algs {
		if !all {
			if err := scheduler.Validate(alg, tasks, quantum); err != nil {
				return nil, fmt.Errorf("%s: %w", alg, err)
			}
		} else if reason := skipReason(alg, tasks, quantum); reason != "" {
			opts.Logger.Warn().Str("algorithm", alg.String()).Msg(reason)
			continue
		}
		jobs = append(jobs, Job{
			ID:        uuid.NewString(),
			Algorithm: alg,
			Tasks:     tasks,
			Quantum:   quantum,
		})
	}

	workers := min(max(opts.Workers, 1), len(jobs))
	pool := NewPool(max(opts.BufferSize, len(jobs)), opts.Collector, opts.Logger)
	if err := pool.Start(workers); err != nil {
		return nil, err
	}
	defer pool.Stop()

	for _, job := range jobs {
		if err := pool.Submit(job); err != nil {
			return nil, fmt.Errorf("failed to submit %s: %w", job.Algorithm, err)
		}
	}

	results := make(map[string]Result, len(jobs))
	for range jobs {
		result, err := pool.ReceiveResult()
		if err != nil {
			return nil, err
		}
		results[result.JobID] = result
	}

	reports := make([]*types.Report, 0, len(jobs))
	for _, job := range jobs {
		result := results[job.ID]
		if result.Error != nil {
			return nil, fmt.Errorf("%s: %w", job.Algorithm, result.Error)
		}
		reports = append(reports, result.Report)
	}
	return reports, nil
}

func skipReason(alg types.Algorithm, tasks []types.Task, quantum int) string {
	if alg.NeedsQuantum() && quantum <= 0 {
		return "skipped: no quantum given"
	}
	if alg.NeedsPriority() {
		for _, t := range tasks {
			if t.Priority == nil {
				return fmt.Sprintf("skipped: task %s has no priority", t.ID)
			}
		}
	}
	return ""
}
