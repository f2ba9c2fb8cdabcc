package scheduler

import (
	"fmt"

	"github.com/ChuLiYu/cpusched/pkg/types"
)

// Validate checks the task set and parameters for alg before any simulation.
// quantum is only inspected for Round-Robin.
func Validate(alg types.Algorithm, tasks []types.Task, quantum int) error {
	if !alg.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
	}
	if alg.NeedsQuantum() && quantum <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantum, quantum)
	}
	return ValidateTasks(tasks, alg.NeedsPriority())
}

// ValidateTasks checks the input contract shared by every algorithm
func ValidateTasks(tasks []types.Task, requirePriority bool) error {
	if len(tasks) == 0 {
		return ErrEmptyTaskSet
	}

	seen := make(map[string]int, len(tasks))
	for i, t := range tasks {
		fail := func(field, reason string) error {
			return &TaskError{Index: i, TaskID: t.ID, Field: field, Reason: reason, Err: ErrInvalidTask}
		}

		if t.ID == "" {
			return fail("id", "is required")
		}
		if prev, dup := seen[t.ID]; dup {
			return fail("id", fmt.Sprintf("duplicates task #%d", prev))
		}
		seen[t.ID] = i

		if t.ArrivalTime < 0 {
			return fail("arrival_time", fmt.Sprintf("must be >= 0, got %d", t.ArrivalTime))
		}
		if t.BurstTime <= 0 {
			return fail("burst_time", fmt.Sprintf("must be > 0, got %d", t.BurstTime))
		}
		if requirePriority && t.Priority == nil {
			return fail("priority", "is required by priority scheduling")
		}
	}
	return nil
}
