package checkpoint

import "fmt"

// StoreError represents a checkpoint persistence failure.
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("checkpoint store error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("checkpoint store error: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
