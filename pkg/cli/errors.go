package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitViolations = 1
	ExitUsage      = 2
)

// UsageLine is printed when the record argument is missing.
const UsageLine = "Usage: sanitycheck <exported_paper_json> [config.json]"

// ErrViolations marks a run that completed and found violations.
var ErrViolations = errors.New("violations found")

// ExitError carries the exit code a command wants the process to end with.
// A nil Err means the command has already printed everything it needs to.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{
		Code: code,
		Err:  err,
	}
}

// RecordLoadError is returned when the record file cannot be read or parsed.
type RecordLoadError struct {
	Err error
}

func (e *RecordLoadError) Error() string {
	return fmt.Sprintf("Error loading paper file: %v", e.Err)
}

func (e *RecordLoadError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to a process exit code.
// Errors that are not an *ExitError exit with ExitUsage.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}
