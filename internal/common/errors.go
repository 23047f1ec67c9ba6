// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrMissingInput  = errors.New("missing input file")
	ErrMissingColumn = errors.New("missing column")

	// Warehouse errors.
	ErrPersistence = errors.New("warehouse write failed")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MissingInputError reports a raw or intermediate file that does not exist.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingInput, e.Path)
}

// Is lets errors.Is(err, ErrMissingInput) match.
func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// PersistenceError reports a rejected warehouse write. The batch that produced it has been
// rolled back by the time the caller sees it.
type PersistenceError struct {
	Err   error
	Op    string
	Table string
}

func (e *PersistenceError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s: %s %s: %v", ErrPersistence, e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrPersistence) match.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// NewPersistenceError wraps err as a PersistenceError. A nil err stays nil.
func NewPersistenceError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Table: table, Err: err}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
