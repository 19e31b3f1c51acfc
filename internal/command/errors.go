package command

import (
	"errors"
	"fmt"

	"github.com/jbweber/vbdctl/internal/helper"
)

// ValidationError reports malformed or missing command parameters.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Invalidf returns a *ValidationError with a formatted message.
func Invalidf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to a partition, virtual disk or VBD
// that does not exist.
type NotFoundError struct {
	// Kind is "partition", "virtual disk" or "VBD".
	Kind string

	// Name is the identifier as the user gave it.
	Name string

	// Resolved is the name actually looked up, when it differs from Name.
	Resolved string
}

func (e *NotFoundError) Error() string {
	if e.Resolved != "" && e.Resolved != e.Name {
		return fmt.Sprintf("%s %s (resolved to %s) does not exist", e.Kind, e.Name, e.Resolved)
	}
	return fmt.Sprintf("%s %s does not exist", e.Kind, e.Name)
}

// ConflictError reports an operation that would clash with existing state.
type ConflictError struct {
	Kind string
	Name string

	// Reason defaults to "already exists".
	Reason string
}

func (e *ConflictError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "already exists"
	}
	return fmt.Sprintf("%s %s %s", e.Kind, e.Name, reason)
}

// Error is a command failure that is neither a lookup failure nor a
// helper failure.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is or wraps a *ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// wrapFailure passes typed command and helper errors through and wraps
// everything else in an *Error.
func wrapFailure(msg string, err error) error {
	if err == nil {
		return nil
	}
	var (
		nf  *NotFoundError
		cf  *ConflictError
		ce  *Error
		exe *helper.ExecutionError
	)
	if errors.As(err, &nf) || errors.As(err, &cf) || errors.As(err, &ce) || errors.As(err, &exe) {
		return err
	}
	return &Error{Msg: msg, Err: err}
}
