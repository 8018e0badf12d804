package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("Unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
)

// UserError carries a message meant for the end user and matches its Kind with errors.Is.
type UserError struct {
	Kind    error
	Message string
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Is(target error) bool { return target == e.Kind }

// ErrMissingFields is returned before any provider call when a required input is empty.
var ErrMissingFields = &UserError{Kind: ErrValidation, Message: "Please fill in all fields"}

func validationError(format string, args ...interface{}) error {
	return &UserError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(msg string) error {
	return &UserError{Kind: ErrNotFound, Message: msg}
}
