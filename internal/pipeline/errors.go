package pipeline

import "fmt"

// NoIdeasError indicates that idea generation produced output from which no
// business ideas could be parsed. This is fatal: there is nothing to evaluate.
type NoIdeasError struct {
	Sector string
}

func (e *NoIdeasError) Error() string {
	return fmt.Sprintf("no business ideas were generated for sector %q", e.Sector)
}

// StageError wraps a fatal failure in one of the pipeline stages.
type StageError struct {
	Stage string
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
