package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of them.
var (
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternal        = errors.New("internal error")
)

var (
	ErrUsernameTaken      = &Error{kind: ErrConflict, message: "username already exists"}
	ErrInvalidCredentials = &Error{kind: ErrUnauthorized, message: "please check your login credentials"}
)

// Error carries a user-facing message for one of the kinds above.
// The cause, when present, is reachable through errors.Is/As but never
// appears in Error().
type Error struct {
	kind    error
	message string
	cause   error
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Kind() error {
	return e.kind
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}

	return []error{e.kind, e.cause}
}

func NotFoundf(format string, args ...any) error {
	return &Error{kind: ErrNotFound, message: fmt.Sprintf(format, args...)}
}

func InvalidArgumentf(format string, args ...any) error {
	return &Error{kind: ErrInvalidArgument, message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{kind: ErrConflict, message: fmt.Sprintf(format, args...)}
}

// Internal hides cause behind the opaque "internal error" message.
func Internal(cause error) error {
	var domainErr *Error

	if errors.As(cause, &domainErr) && domainErr.kind == ErrInternal {
		return cause
	}

	return &Error{kind: ErrInternal, message: ErrInternal.Error(), cause: cause}
}

// KindOf returns the kind wrapped by err, or ErrInternal when err carries none.
func KindOf(err error) error {
	var domainErr *Error

	if errors.As(err, &domainErr) {
		return domainErr.kind
	}

	for _, kind := range []error{ErrConflict, ErrUnauthorized, ErrNotFound, ErrInvalidArgument, ErrInternal} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	return ErrInternal
}
