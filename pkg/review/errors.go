// pkg/review/errors.go
package review

import "fmt"

// StructuralError means row identity could not be established, so the
// pipeline cannot proceed. It aborts the whole cycle before any mutation.
type StructuralError struct {
	Reason string
}

// Error implements the error interface
func (e *StructuralError) Error() string {
	return "structural error: " + e.Reason
}

// WriteFailure wraps a datastore failure during the write-back cycle. Stage
// names the step that failed so callers can tell an unapplied batch apart
// from one whose base merge already committed.
type WriteFailure struct {
	Stage string
	Table string
	Err   error
}

// Error implements the error interface
func (e *WriteFailure) Error() string {
	return fmt.Sprintf("write-back failed during %s on %s: %v", e.Stage, e.Table, e.Err)
}

// Unwrap exposes the underlying datastore error
func (e *WriteFailure) Unwrap() error {
	return e.Err
}
