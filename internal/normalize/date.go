package normalize

import (
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"
)

// Layouts are tried in order. Year-first forms are unambiguous. Ambiguous numeric forms are
// read day-first, and month-first only when day-first cannot produce a valid date.
var dateLayouts = []string{
	// year first
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"20060102",
	"2006-Jan-2",

	// day first
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2.1.06",

	// named month
	"2 January 2006",
	"2 Jan 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"Monday, 2 January 2006",
	"Monday, January 2, 2006",

	// month first
	"1/2/2006",
	"1-2-2006",
	"1.2.2006",
	"1/2/06",
	"1-2-06",
}

// Excel serial day numbers covering 1900-01-01 through 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// Date parses a calendar date, resolving day/month ambiguity day-first. A trailing time of
// day is ignored. Numeric cells are read as Excel serial dates. The second result is false
// for anything that is not a valid date.
func Date(raw string) (civil.Date, bool) {
	if Missing(raw) {
		return civil.Date{}, false
	}
	s := stripTime(strings.TrimSpace(raw))

	if serial, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "-/") {
		if len(s) == 8 && !strings.Contains(s, ".") {
			if t, err := time.Parse("20060102", s); err == nil {
				return civil.DateOf(t), true
			}
		}
		if serial < minExcelSerial || serial > maxExcelSerial {
			return civil.Date{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return civil.Date{}, false
		}
		return civil.DateOf(t), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}
	return civil.Date{}, false
}

// stripTime drops a time-of-day suffix such as " 00:00:00" or "T10:30:00Z".
func stripTime(s string) string {
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return s
	}
	cut := strings.LastIndexAny(s[:colon], " T")
	if cut <= 0 {
		return s
	}
	return strings.TrimSpace(s[:cut])
}
