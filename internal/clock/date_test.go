package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"same day", date(2025, 1, 15), 1, date(2025, 2, 15)},
		{"clamp to february", date(2025, 1, 31), 1, date(2025, 2, 28)},
		{"clamp to leap february", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"back to long month", date(2025, 1, 31), 2, date(2025, 3, 31)},
		{"year rollover", date(2025, 12, 10), 2, date(2026, 2, 10)},
		{"zero", date(2025, 5, 5), 0, date(2025, 5, 5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AddMonthsClamped(tc.in, tc.n))
		})
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2025, time.March)
	assert.Equal(t, date(2025, 3, 1), start)
	assert.Equal(t, time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC), end)

	_, febEnd := MonthBounds(2024, time.February)
	assert.Equal(t, 29, febEnd.Day())
}

func TestTodayUsesLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	// 01:30 UTC on the 2nd is still the 1st in Brazil.
	c := NewFakeClock(time.Date(2025, 3, 2, 1, 30, 0, 0, time.UTC))

	assert.Equal(t, date(2025, 3, 1), Today(c, saoPaulo))
	assert.Equal(t, date(2025, 3, 2), Today(c, nil))
}

func TestDaysBetweenIgnoresDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// DST starts on 2025-03-09 in New York; the wall-clock span is 23h.
	from := time.Date(2025, 3, 8, 0, 0, 0, 0, ny)
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, ny)
	assert.Equal(t, 2, DaysBetween(from, to))
}
