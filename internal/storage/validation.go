package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/spice-etl/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrKeyTooLong        = errors.New("natural key too long")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidLimit      = errors.New("limit must be positive")
	ErrUnknownDimension  = errors.New("unknown dimension")
	ErrUnsupportedDriver = errors.New("unsupported warehouse driver")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateKey ensures a natural key is non-empty and fits the key columns. MySQL's INSERT
// IGNORE would otherwise truncate it silently.
func validateKey(s string, paramName string) error {
	if err := validateString(s, paramName); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(s); n > model.MaxKeyLength {
		return fmt.Errorf("%w: %s has %d characters, limit %d", ErrKeyTooLong, paramName, n, model.MaxKeyLength)
	}
	return nil
}

func validateNameDimension(dim model.NameDimension) error {
	if !dim.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, string(dim))
	}
	return nil
}

func validateDates(dates []model.DateAttributes) error {
	for i, d := range dates {
		if !d.FullDate.IsValid() {
			return fmt.Errorf("%w at index %d: %v", ErrInvalidDate, i, d.FullDate)
		}
	}
	return nil
}

func validateNames(names []string, paramName string) error {
	for i, n := range names {
		if err := validateKey(n, fmt.Sprintf("%s[%d]", paramName, i)); err != nil {
			return err
		}
	}
	return nil
}

// validateFactIDs ensures every fact carries its natural id.
func validateFactIDs[T any](facts []T, id func(T) string, paramName string) error {
	for i, f := range facts {
		if err := validateKey(id(f), fmt.Sprintf("%s[%d]", paramName, i)); err != nil {
			return err
		}
	}
	return nil
}
