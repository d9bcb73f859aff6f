package scenario

import "fmt"

// NotFoundError is returned when an operation references a scenario name
// that is not in the store.
type NotFoundError struct {
	Name string
}

// Error returns the error message string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("scenario %q not found", e.Name)
}

// InsufficientSelectionError is returned when a comparison is requested
// with fewer than two scenarios.
type InsufficientSelectionError struct {
	Got int
}

// Error returns the error message string.
func (e *InsufficientSelectionError) Error() string {
	return fmt.Sprintf("comparison needs at least 2 scenarios, got %d", e.Got)
}
