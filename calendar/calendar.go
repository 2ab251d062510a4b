// Package calendar provides the business-day checks used when resolving
// quote observation dates. Only weekend and fixed-date holidays are
// modeled; moveable holidays are out of scope for quote-date rolling.
package calendar

import "time"

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	TARGET CalendarID = "TARGET"
	USD    CalendarID = "USD"
	NONE   CalendarID = "NONE"
)

// Fixed-date holidays keyed by "01-02" (month-day).
var targetHolidays = map[string]struct{}{
	"01-01": {},
	"05-01": {},
	"12-25": {},
	"12-26": {},
}

var usdHolidays = map[string]struct{}{
	"01-01": {},
	"07-04": {},
	"12-25": {},
}

func isHoliday(cal CalendarID, t time.Time) bool {
	key := t.Format("01-02")
	switch cal {
	case TARGET:
		_, ok := targetHolidays[key]
		return ok
	case USD:
		_, ok := usdHolidays[key]
		return ok
	default:
		return false
	}
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// AdjustPreceding rolls back to the nearest business day on or before t.
// Quote feeds use it to resolve a requested date to the last publication day.
func AdjustPreceding(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}
