package llm

import "fmt"

// InvocationError represents a failed call to an LLM provider.
type InvocationError struct {
	Message string
	Cause   error
}

func (e *InvocationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm invocation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("llm invocation error: %s", e.Message)
}

func (e *InvocationError) Unwrap() error {
	return e.Cause
}
