// Package normalize turns raw spreadsheet cells into canonical values.
//
// Every function here is pure. Blank cells and the usual spreadsheet NA markers are
// treated as absent.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Veraticus/spice-etl/internal/model"
)

// Spreadsheet NA markers, compared case-insensitively so a normalized value can never
// become one.
var naMarkers = map[string]struct{}{
	"na": {}, "n/a": {}, "#n/a": {}, "#na": {}, "<na>": {},
	"nan": {}, "-nan": {}, "null": {}, "none": {},
}

// Missing reports whether raw holds no value.
func Missing(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return true
	}
	_, ok := naMarkers[strings.ToLower(s)]
	return ok
}

// Text trims raw and converts it to Title Case.
func Text(raw string) model.Optional[string] {
	if Missing(raw) {
		return model.None[string]()
	}
	// A Caser keeps state between calls and is not safe for concurrent use.
	return model.Some(cases.Title(language.Und).String(strings.TrimSpace(raw)))
}

// Lower trims raw and lowercases it.
func Lower(raw string) model.Optional[string] {
	if Missing(raw) {
		return model.None[string]()
	}
	return model.Some(strings.ToLower(strings.TrimSpace(raw)))
}

// Upper trims raw and uppercases it.
func Upper(raw string) model.Optional[string] {
	if Missing(raw) {
		return model.None[string]()
	}
	return model.Some(strings.ToUpper(strings.TrimSpace(raw)))
}

// Free trims free-form text without changing its case.
func Free(raw string) model.Optional[string] {
	if Missing(raw) {
		return model.None[string]()
	}
	return model.Some(strings.TrimSpace(raw))
}

// Number parses a plain decimal number. Anything else, including NaN, infinities, hex
// literals and thousands separators, is absent.
func Number(raw string) model.Optional[float64] {
	if Missing(raw) {
		return model.None[float64]()
	}
	s := strings.TrimSpace(raw)
	if strings.ContainsAny(s, "xX_,") {
		return model.None[float64]()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return model.None[float64]()
	}
	return model.Some(f)
}

// YesNo maps "Yes" (any case, surrounding whitespace ignored) to true and everything else,
// including absent values, to false.
func YesNo(raw string) bool {
	v, ok := Text(raw).Get()
	return ok && v == "Yes"
}
