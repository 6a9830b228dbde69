package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrInvalidState indicates a step that would leave NaN or Inf in the state.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownBody indicates a lookup by a name or index that does not exist.
	ErrUnknownBody = errors.New("dynamo: unknown body")

	// ErrInvalidScale indicates a non-positive or non-finite scale factor.
	ErrInvalidScale = errors.New("dynamo: scale factor must be positive and finite")
)

// SimulationError wraps an error with the step it happened on.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.0fs): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
