package storage

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// dbDate scans a DATE column. SQLite hands back time.Time for DATE columns, MySQL (without
// parseTime) hands back bytes.
type dbDate struct {
	civil.Date
}

func (d *dbDate) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Date = civil.DateOf(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into a date", src)
	}
}

func (d *dbDate) parse(s string) error {
	if len(s) > len("2006-01-02") {
		s = s[:len("2006-01-02")]
	}
	date, err := civil.ParseDate(s)
	if err != nil {
		return fmt.Errorf("cannot parse date %q: %w", s, err)
	}
	d.Date = date
	return nil
}

// dbTimestamp scans a run-log timestamp written by formatTimestamp.
type dbTimestamp struct {
	time.Time
}

func (t *dbTimestamp) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
	parsed, err := time.ParseInLocation(timestampLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("cannot parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
