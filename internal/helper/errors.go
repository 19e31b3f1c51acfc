package helper

import (
	"errors"
	"fmt"
	"strings"
)

// errEmptyOutput is reported when a helper that must print a value printed
// nothing.
var errEmptyOutput = errors.New("helper produced no output")

// ExecutionError reports a helper that exited non-zero or could not be
// started.
type ExecutionError struct {
	// Argv is the full command line, executable first.
	Argv []string

	// ExitCode is the helper's exit status, or -1 when it never ran.
	ExitCode int

	// Stderr is the helper's trimmed standard error, if any.
	Stderr string

	// Err is the underlying launch error, if any.
	Err error
}

func (e *ExecutionError) Error() string {
	cmdline := strings.Join(e.Argv, " ")
	if e.ExitCode < 0 {
		return fmt.Sprintf("failed to run helper %q: %v", cmdline, e.Err)
	}
	msg := fmt.Sprintf("helper %q failed with exit code %d", cmdline, e.ExitCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsExecutionError reports whether err is or wraps an *ExecutionError.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError
	return errors.As(err, &execErr)
}
