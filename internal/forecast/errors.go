package forecast

import "fmt"

// InsufficientHistoryError is returned when a series is shorter than the
// minimum the requested model needs. Always recoverable by the caller.
type InsufficientHistoryError struct {
	Needed int
	Got    int
}

// Error returns the error message string.
func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history: need at least %d monthly observations, got %d", e.Needed, e.Got)
}

// ModelFitError wraps a numerical failure inside a strategy (non-convergence,
// singular fit). Callers may retry with a different model or fall back to the
// naive forecast.
type ModelFitError struct {
	Model string
	Cause error
}

// Error returns the error message string.
func (e *ModelFitError) Error() string {
	return fmt.Sprintf("model %s failed to fit: %v", e.Model, e.Cause)
}

// Unwrap exposes the underlying cause.
func (e *ModelFitError) Unwrap() error {
	return e.Cause
}
