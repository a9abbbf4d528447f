package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the booking core. They are usually wrapped in one of the
// typed errors below, so match them with errors.Is.
var (
	ErrInvalidRoute       = errors.New("invalid route")
	ErrUnknownClass       = errors.New("unknown seat class")
	ErrNoSegmentTimetable = errors.New("no segment timetable")
	ErrInvalidSelection   = errors.New("invalid passenger selection")
	ErrNoCapacity         = errors.New("no seats available")
	ErrNotFound           = errors.New("not found")
)

// NotFoundError reports a missing train or booking. It unwraps to ErrNotFound
// unless another cause is given.
type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error {
	if e.Err == nil {
		return ErrNotFound
	}
	return e.Err
}

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func invalidRoute(msg string) error {
	return ValidationError{Field: "route", Msg: msg, Err: ErrInvalidRoute}
}

func unknownClass(class SeatClass) error {
	return ValidationError{Field: "seat_class", Msg: fmt.Sprintf("no fare for class %q", class), Err: ErrUnknownClass}
}
