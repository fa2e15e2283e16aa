// Package apperror is the error taxonomy shared by every domain.
//
// Validation errors are deterministic and never retried. DependencyUnavailable
// errors may be retried by the caller with backoff; nothing in the service
// retries on its own.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation            Kind = "validation"
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindUnauthorized          Kind = "unauthorized"
	KindForbidden             Kind = "forbidden"
	KindDependencyUnavailable Kind = "dependency_unavailable"
	KindInternal              Kind = "internal"
)

// AppError carries a kind for transport mapping and a stable code for clients.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError by code, so sentinel values work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(code, message string) *AppError {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *AppError {
	return New(KindNotFound, code, message)
}

func Conflict(code, message string) *AppError {
	return New(KindConflict, code, message)
}

func Forbidden(code, message string) *AppError {
	return New(KindForbidden, code, message)
}

func Unavailable(code, message string, err error) *AppError {
	return Wrap(KindDependencyUnavailable, code, message, err)
}

// As returns the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// EnsureUnavailable keeps application errors as they are and wraps anything
// else (driver, network, timeout) as a dependency failure.
func EnsureUnavailable(err error, code, message string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	return Unavailable(code, message, err)
}
