// Package apperr provides the tagged error type returned by every command.
//
// Each failure carries a Kind the front end can branch on and a message
// that is safe to show to the user as-is.
//
// Kinds:
//   - NotFound: the target path or note does not exist
//   - PermissionDenied: the OS refused the operation
//   - Unavailable: an environment directory or capability is missing
//   - InvalidInput: a malformed argument (bad filename, missing parameter)
//   - IoFailure: any other OS error, detail in the message
//
// Example Usage:
//
//	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
//	    return apperr.New(apperr.NotFound, "File does not exist")
//	}
//	return apperr.FromOS(err, "Failed to delete file")
package apperr

import (
	"errors"
	"io/fs"
	"net/http"
	"syscall"
)

// Kind classifies a failure
type Kind string

const (
	NotFound         Kind = "not_found"
	PermissionDenied Kind = "permission_denied"
	Unavailable      Kind = "unavailable"
	InvalidInput     Kind = "invalid_input"
	IoFailure        Kind = "io_failure"
)

// Error is a classified, displayable failure
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error renders the human-readable message, with the cause appended when present
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, apperr.New(apperr.NotFound, "")) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// New creates an error without an underlying cause
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a kind and message to a cause
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// FromOS classifies an error returned by the os package
func FromOS(err error, msg string) *Error {
	if err == nil {
		return nil
	}
	return Wrap(classify(err), msg, err)
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EBUSY), errors.Is(err, syscall.EROFS):
		return PermissionDenied
	case errors.Is(err, syscall.ENOTDIR), errors.Is(err, syscall.EISDIR), errors.Is(err, syscall.ENAMETOOLONG):
		return InvalidInput
	default:
		return IoFailure
	}
}

// KindOf reports the kind of err, IoFailure for errors this package did not create
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return IoFailure
}

// HTTPStatus maps a kind onto the status code used by the command transport
func HTTPStatus(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case InvalidInput:
		return http.StatusBadRequest
	case PermissionDenied:
		return http.StatusForbidden
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
