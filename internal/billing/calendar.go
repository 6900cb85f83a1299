package billing

import (
	"math"
	"time"
)

// StartOfDay truncates a timestamp to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// AdjustForMonthEnd returns a date in the same month and year as date with
// day = min(targetDay, last day of that month). This encodes issuers whose
// "31st of the month" statement becomes the 28th in February.
func AdjustForMonthEnd(date time.Time, targetDay int) time.Time {
	day := targetDay
	if last := DaysInMonth(date); day > last {
		day = last
	}
	return time.Date(date.Year(), date.Month(), day, 0, 0, 0, 0, date.Location())
}

// DaysBetween returns the calendar-day difference b - a. Both dates are
// normalized to UTC midnights first so DST transitions never skew a count.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(ub.Sub(ua).Hours() / 24.0))
}
