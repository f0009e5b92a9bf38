// Package apperror defines the error kinds surfaced by the domain services.
package apperror

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// Error is a message tagged with one of the kind sentinels above.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func NotFound(msg string) error { return &Error{kind: ErrNotFound, msg: msg} }

func Conflict(msg string) error { return &Error{kind: ErrConflict, msg: msg} }

func Validation(msg string) error { return &Error{kind: ErrValidation, msg: msg} }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
