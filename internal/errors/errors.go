package errors

import "fmt"

// Exit codes used at the process boundary. Library-raised fatals always map
// to ExitFatal; delegate failures pass the delegate's own code through.
const (
	ExitUsage = 1
	ExitFatal = 127
)

// PreconditionError represents a violated environment precondition, such as
// a missing launcher executable or an unreadable tool descriptor
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s", e.Message)
}

// NewPreconditionError creates a new precondition error
func NewPreconditionError(format string, args ...any) *PreconditionError {
	return &PreconditionError{
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidationError represents a rejected command-line option or option value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// DelegateError represents a non-zero exit from the external ocrd tool.
// Output carries whatever the delegate printed so callers can surface it.
type DelegateError struct {
	Op       string
	ExitCode int
	Output   string
	Err      error
}

func (e *DelegateError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("ocrd %s failed with exit code %d: %s", e.Op, e.ExitCode, e.Output)
	}
	return fmt.Sprintf("ocrd %s failed with exit code %d: %v", e.Op, e.ExitCode, e.Err)
}

func (e *DelegateError) Unwrap() error {
	return e.Err
}

// NewDelegateError creates a new delegate error
func NewDelegateError(op string, exitCode int, output string, err error) *DelegateError {
	return &DelegateError{
		Op:       op,
		ExitCode: exitCode,
		Output:   output,
		Err:      err,
	}
}
