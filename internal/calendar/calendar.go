// Package calendar provides Israeli business-day arithmetic: Sunday through
// Thursday are working days, Friday and Saturday are the weekend, and a fixed
// per-year holiday table marks additional non-working dates.
package calendar

import "time"

// Calendar answers working-day questions against a holiday table.
type Calendar struct {
	holidays map[string]struct{}
	years    map[int]struct{}
}

// New creates a calendar from a year -> holiday dates table. Dates are
// YYYY-MM-DD strings interpreted at UTC day granularity.
func New(table map[int][]string) *Calendar {
	c := &Calendar{
		holidays: make(map[string]struct{}),
		years:    make(map[int]struct{}, len(table)),
	}
	for year, dates := range table {
		c.years[year] = struct{}{}
		for _, d := range dates {
			c.holidays[d] = struct{}{}
		}
	}
	return c
}

// Default returns a calendar backed by the embedded Israeli holiday table.
func Default() *Calendar {
	return New(israeliHolidays)
}

// CoversYear reports whether the holiday table has entries for the given
// year. Callers should treat an uncovered year as a configuration error
// rather than assume every weekday is a working day.
func (c *Calendar) CoversYear(year int) bool {
	_, ok := c.years[year]
	return ok
}

// IsWorkingDay reports whether the date (UTC) is a working day.
func (c *Calendar) IsWorkingDay(t time.Time) bool {
	t = t.UTC()
	if wd := t.Weekday(); wd == time.Friday || wd == time.Saturday {
		return false
	}
	if _, holiday := c.holidays[t.Format("2006-01-02")]; holiday {
		return false
	}
	return true
}

// CountWorkingDaysBetween counts working days strictly between from and to,
// both endpoints excluded. Comparison is at UTC calendar-date granularity, so
// wall-clock time and DST offsets cannot skew the count. from >= to yields 0.
func (c *Calendar) CountWorkingDaysBetween(from, to time.Time) int {
	cur := dateOnly(from).AddDate(0, 0, 1)
	end := dateOnly(to)

	count := 0
	for cur.Before(end) {
		if c.IsWorkingDay(cur) {
			count++
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return count
}

// OlderThanWorkingDays reports whether at least n working days have elapsed
// between t and now. Exactly n counts as old enough.
func (c *Calendar) OlderThanWorkingDays(t, now time.Time, n int) bool {
	return c.CountWorkingDaysBetween(t, now) >= n
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
