package scheduler

// ============================================================================
// Scheduler Error Definitions
// Purpose: Separate usage mistakes (bad input) from engine defects
// ============================================================================

import (
	"errors"
	"fmt"
)

// Error roots. Every error returned by this package wraps exactly one of them.
var (
	// ErrInvalidInput indicates the caller supplied tasks or parameters that cannot be simulated
	ErrInvalidInput = errors.New("scheduler: invalid input")

	// ErrInternal indicates a consistency check failed after a run (engine defect)
	ErrInternal = errors.New("scheduler: internal consistency violation")
)

// Input errors
var (
	// ErrEmptyTaskSet indicates no tasks were given
	ErrEmptyTaskSet = fmt.Errorf("%w: empty task set", ErrInvalidInput)

	// ErrInvalidTask indicates a task field is missing or out of range
	ErrInvalidTask = fmt.Errorf("%w: invalid task", ErrInvalidInput)

	// ErrInvalidQuantum indicates a missing or non-positive Round-Robin quantum
	ErrInvalidQuantum = fmt.Errorf("%w: quantum must be a positive integer", ErrInvalidInput)

	// ErrUnknownAlgorithm indicates the algorithm selector is not one of the five strategies
	ErrUnknownAlgorithm = fmt.Errorf("%w: unknown algorithm", ErrInvalidInput)
)

// Internal errors
var (
	// ErrIncompleteResult indicates a task has no completion time after a run
	ErrIncompleteResult = fmt.Errorf("%w: task incomplete", ErrInternal)

	// ErrNegativeWaiting indicates a computed waiting time below zero
	ErrNegativeWaiting = fmt.Errorf("%w: negative waiting time", ErrInternal)

	// ErrInvalidTrace indicates overlapping, unsorted or short execution segments
	ErrInvalidTrace = fmt.Errorf("%w: inconsistent execution trace", ErrInternal)
)

// TaskError carries the offending task and field
type TaskError struct {
	Index  int    // Position in the input slice
	TaskID string // Task id (may be empty when the id itself is the problem)
	Field  string // Field name, e.g. "burst_time"
	Reason string // Human readable reason
	Err    error  // One of the sentinel errors above
}

func (e *TaskError) Error() string {
	id := e.TaskID
	if id == "" {
		id = fmt.Sprintf("#%d", e.Index)
	}
	return fmt.Sprintf("%v: task %s: %s %s", e.Err, id, e.Field, e.Reason)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err is a usage mistake the caller can fix
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInternalError reports whether err indicates an engine defect
func IsInternalError(err error) bool {
	return errors.Is(err, ErrInternal)
}
