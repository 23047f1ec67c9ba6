package model

import (
	"database/sql/driver"
	"fmt"
	"math"
)

// Optional holds a value that may be absent. Absent values are persisted as SQL NULL.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrElse returns the held value, or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if !o.set {
		return fallback
	}
	return o.value
}

// String renders the value with %v, or the empty string when absent.
func (o Optional[T]) String() string {
	if !o.set {
		return ""
	}
	return fmt.Sprintf("%v", o.value)
}

// Value implements driver.Valuer.
func (o Optional[T]) Value() (driver.Value, error) {
	if !o.set {
		return nil, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(o.value)
}

// Measure builds a nullable numeric measure. NaN and infinities collapse to None.
func Measure(v float64) Optional[float64] {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return None[float64]()
	}
	return Some(v)
}

// NonEmpty builds an Optional string that is absent for the empty string.
func NonEmpty(s string) Optional[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}
