// ============================================================================
// cpusched Worker - Simulation Execution Unit
// ============================================================================
//
// Package: internal/worker
// File: worker.go
// Function: Each Worker runs in an independent goroutine and executes simulation
//           jobs pulled from the shared job channel
//
// How it works:
//   1. Receive job from jobCh (blocking wait)
//   2. Run scheduler.Simulate on the job's own task set
//   3. Record metrics and send the result to resultCh
//   4. Repeat until jobCh is closed
//
// Simulations are pure and bounded, so there is no timeout or cancellation.
// Each job carries its own task slice and the engine copies it again, so
// workers never share mutable state.
//
// ============================================================================

package worker

import (
	"time"

	"github.com/ChuLiYu/cpusched/internal/metrics"
	"github.com/ChuLiYu/cpusched/internal/scheduler"
	"github.com/rs/zerolog"
)

// Worker represents a work execution unit
type Worker struct {
	id        int                // Worker unique identifier, used for logging
	jobCh     <-chan Job         // Job channel (read-only)
	resultCh  chan<- Result      // Result channel (write-only)
	stopCh    <-chan struct{}    // Closed by Pool.Stop
	collector *metrics.Collector // Optional metrics sink
	logger    zerolog.Logger
}

// newWorker creates a new Worker instance
func newWorker(id int, jobCh <-chan Job, resultCh chan<- Result, stopCh <-chan struct{}, collector *metrics.Collector, logger zerolog.Logger) *Worker {
	return &Worker{
		id:        id,
		jobCh:     jobCh,
		resultCh:  resultCh,
		stopCh:    stopCh,
		collector: collector,
		logger:    logger.With().Int("worker", id).Logger(),
	}
}

// Run is the main loop of Worker. A result that nobody receives before the
// pool stops is discarded.
func (w *Worker) Run() {
	for job := range w.jobCh {
		result := w.execute(job)
		select {
		case w.resultCh <- result:
		case <-w.stopCh:
			w.logger.Debug().Str("job", job.ID).Msg("pool stopped, result discarded")
		}
	}
}

func (w *Worker) execute(job Job) Result {
	if w.collector != nil {
		w.collector.IncInFlight()
		defer w.collector.DecInFlight()
	}

	start := time.Now()
	report, err := scheduler.Simulate(job.Algorithm, job.Tasks, job.Quantum)
	elapsed := time.Since(start)

	log := w.logger.With().Str("job", job.ID).Str("algorithm", job.Algorithm.String()).Logger()
	if err != nil {
		log.Warn().Err(err).Msg("simulation failed")
		if w.collector != nil {
			w.collector.RecordError(err)
		}
	} else {
		log.Debug().Dur("elapsed", elapsed).Float64("avg_tat", report.Averages.AvgTurnaround).Msg("simulation finished")
		if w.collector != nil {
			w.collector.RecordSimulation(report, elapsed)
		}
	}

	return Result{
		JobID:     job.ID,
		Algorithm: job.Algorithm,
		Report:    report,
		Error:     err,
		Duration:  elapsed,
	}
}
