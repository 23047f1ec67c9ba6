package normalize

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	jan5 := civil.Date{Year: 2024, Month: 1, Day: 5}

	tests := []struct {
		name string
		raw  string
		want civil.Date
		ok   bool
	}{
		{name: "iso", raw: "2024-01-05", want: jan5, ok: true},
		{name: "iso with time", raw: "2024-01-05 00:00:00", want: jan5, ok: true},
		{name: "iso T separator", raw: "2024-01-05T13:45:00Z", want: jan5, ok: true},
		{name: "compact", raw: "20240105", want: jan5, ok: true},
		{name: "day first slash", raw: "05/01/2024", want: jan5, ok: true},
		{name: "day first dash", raw: "5-1-2024", want: jan5, ok: true},
		{name: "day first dots with time", raw: "05.01.2024 08:30", want: jan5, ok: true},
		{name: "two digit year", raw: "05/01/24", want: jan5, ok: true},
		{name: "month first fallback", raw: "12/25/2024", want: civil.Date{Year: 2024, Month: 12, Day: 25}, ok: true},
		{name: "named month", raw: "5 January 2024", want: jan5, ok: true},
		{name: "abbreviated month", raw: "Jan 5, 2024", want: jan5, ok: true},
		{name: "lowercase month", raw: "05-jan-2024", want: jan5, ok: true},
		{name: "excel serial", raw: "45296", want: jan5, ok: true},
		{name: "excel serial with fraction", raw: "45296.5", want: jan5, ok: true},
		{name: "invalid day", raw: "31/02/2024", ok: false},
		{name: "garbage", raw: "not a date", ok: false},
		{name: "zero serial", raw: "0", ok: false},
		{name: "blank", raw: " ", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDate_ReparsesOwnOutput(t *testing.T) {
	d, ok := Date("05/01/2024")
	assert.True(t, ok)
	again, ok := Date(d.String())
	assert.True(t, ok)
	assert.Equal(t, d, again)
}
