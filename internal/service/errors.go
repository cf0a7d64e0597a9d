package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. Expected conditions are reported as
// typed errors rather than raw storage faults so callers can map them to
// user-visible behavior without string matching.
type Kind string

const (
	// KindNotFound: the referenced resource does not exist or is soft-deleted.
	KindNotFound Kind = "NOT_FOUND"
	// KindAuthorization: the caller does not own the resource. The HTTP
	// layer reports this the same way as NotFound so existence of other
	// users' resources is not leaked.
	KindAuthorization Kind = "AUTHORIZATION_ERROR"
	// KindValidation: structurally invalid input reached the core.
	KindValidation Kind = "VALIDATION_ERROR"
	// KindConflict: the operation would violate a core invariant.
	KindConflict Kind = "CONFLICT"
	// KindInternal: unexpected storage or transaction failure.
	KindInternal Kind = "INTERNAL_ERROR"
)

// Error is the discriminated failure type returned by all services. Message
// is safe to show to the user; the wrapped cause is not.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf extracts the failure kind, defaulting to KindInternal for errors
// that did not originate in a service.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a service error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// wrapUnexpected passes service errors through unchanged and converts
// anything else (storage faults, rolled-back transactions) into an internal
// error with a generic user-facing message.
func wrapUnexpected(err error, message string) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return Internal(message, err)
}
