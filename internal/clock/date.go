package clock

import "time"

// Calendar dates are represented as time.Time values at 00:00 UTC of the civil
// date. Arithmetic on them never crosses a DST boundary.

// DateOf returns the civil date of t, as observed in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the civil date of c.Now() in loc. A nil loc means UTC.
func Today(c Clock, loc *time.Location) time.Time {
	now := c.Now()
	if loc != nil {
		now = now.In(loc)
	}
	return DateOf(now)
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	from := DateOf(a)
	to := DateOf(b)
	return int(to.Sub(from).Hours() / 24)
}

// AddMonthsClamped advances d by n calendar months. When the target month is
// shorter than d's day of month, the result is the target month's last day.
func AddMonthsClamped(d time.Time, n int) time.Time {
	y, m, day := d.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := DaysIn(first.Year(), first.Month())
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first instant and the last second of a month,
// both inclusive.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month, DaysIn(year, month), 23, 59, 59, 0, time.UTC)
	return start, end
}
