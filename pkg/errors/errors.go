package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrPrecondition    = errors.New("precondition failed")
	ErrBusy            = errors.New("request already in progress")
	ErrUpstream        = errors.New("upstream model failure")
	ErrStorageDisabled = errors.New("storage disabled")
)

// Error codes carried in API responses
const (
	CodeInvalidInput    = "invalid_input"
	CodePrecondition    = "precondition_failed"
	CodeBusy            = "busy"
	CodeNotFound        = "not_found"
	CodeUpstream        = "upstream_failed"
	CodeStorageDisabled = "storage_disabled"
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalid builds an ErrInvalidInput with a user facing message.
func Invalid(message string) error {
	return WrapWithCode(ErrInvalidInput, CodeInvalidInput, message)
}

// Precondition builds an ErrPrecondition with a user facing message.
func Precondition(message string) error {
	return WrapWithCode(ErrPrecondition, CodePrecondition, message)
}

// Upstream marks err as a model collaborator failure.
func Upstream(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    CodeUpstream,
		Message: message,
		Err:     fmt.Errorf("%w: %w", ErrUpstream, err),
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput returns true if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsPrecondition returns true if the error is a precondition violation
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

// IsBusy returns true if the session already has a request in flight
func IsBusy(err error) bool {
	return errors.Is(err, ErrBusy)
}

// IsUpstream returns true if the error came from a model collaborator
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsStorageDisabled returns true if export storage is not configured
func IsStorageDisabled(err error) bool {
	return errors.Is(err, ErrStorageDisabled)
}
