// Package cleaner validates and normalizes raw exports into cleaned record sets.
//
// A row that fails a rule is dropped and counted, never reported as an error. Rows that share
// a natural id collapse to the first valid occurrence in input order. Cleaning a table that
// was produced by the matching Encode function yields the same records.
package cleaner

import (
	"strconv"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/Veraticus/spice-etl/internal/model"
	"github.com/Veraticus/spice-etl/internal/tabular"
)

// DropReason names the rule a dropped row failed.
type DropReason string

// Row validation rules.
const (
	DropMissingID       DropReason = "missing_id"
	DropInvalidDate     DropReason = "invalid_date"
	DropInvalidAmount   DropReason = "invalid_amount"
	DropInvalidStage    DropReason = "invalid_stage"
	DropInvalidMoveType DropReason = "invalid_move_type"
	DropInvalidQuantity DropReason = "invalid_quantity"
	DropKeyTooLong      DropReason = "key_too_long"
)

// Result is the outcome of cleaning one table.
type Result[T any] struct {
	Dropped    map[DropReason]int
	Records    []T
	Input      int
	Duplicates int
}

// DroppedTotal returns the number of rows that failed validation.
func (r Result[T]) DroppedTotal() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}

// parseFunc converts a row into a record, or returns the rule it failed.
type parseFunc[T any] func(row tabular.Row) (T, DropReason)

func clean[T any](t *tabular.Table, required []string, parse parseFunc[T], id func(T) string) (Result[T], error) {
	if err := t.Require(required...); err != nil {
		return Result[T]{}, err
	}

	res := Result[T]{Input: t.Len(), Dropped: make(map[DropReason]int)}
	valid := make([]T, 0, t.Len())
	for _, row := range t.Rows() {
		rec, reason := parse(row)
		if reason != "" {
			res.Dropped[reason]++
			continue
		}
		valid = append(valid, rec)
	}

	res.Records = lo.UniqBy(valid, id)
	res.Duplicates = len(valid) - len(res.Records)
	return res, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptionalFloat(v model.Optional[float64]) string {
	f, ok := v.Get()
	if !ok {
		return ""
	}
	return formatFloat(f)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// tooLong reports whether any natural key exceeds model.MaxKeyLength characters.
func tooLong(keys ...string) bool {
	for _, k := range keys {
		if utf8.RuneCountInString(k) > model.MaxKeyLength {
			return true
		}
	}
	return false
}
