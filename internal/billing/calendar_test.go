package billing

import (
	"testing"
	"time"
)

// day is a shorthand for a UTC start-of-day timestamp, used across the
// package tests.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestAdjustForMonthEnd(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		targetDay int
		expected  time.Time
	}{
		{"NonLeapFebruaryClips", day(2023, time.February, 1), 31, day(2023, time.February, 28)},
		{"LeapFebruaryClips", day(2024, time.February, 1), 31, day(2024, time.February, 29)},
		{"AprilClipsTo30", day(2024, time.April, 10), 31, day(2024, time.April, 30)},
		{"TargetFitsUnchanged", day(2024, time.March, 5), 15, day(2024, time.March, 15)},
		{"TargetOnLastDay", day(2024, time.January, 1), 31, day(2024, time.January, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustForMonthEnd(tt.date, tt.targetDay); !got.Equal(tt.expected) {
				t.Errorf("AdjustForMonthEnd() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		a, b     time.Time
		expected int
	}{
		{"SameDay", day(2024, time.January, 15), day(2024, time.January, 15), 0},
		{"ThirtyDays", day(2024, time.January, 15), day(2024, time.February, 14), 30},
		{"AcrossLeapDay", day(2024, time.February, 28), day(2024, time.March, 1), 2},
		{"Backwards", day(2024, time.March, 1), day(2024, time.February, 28), -2},
		{"AcrossYear", day(2023, time.December, 31), day(2024, time.January, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.expected {
				t.Errorf("DaysBetween() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDaysBetweenIgnoresDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// The clocks spring forward on 2024-03-31; the day count must stay whole.
	a := time.Date(2024, time.March, 30, 12, 0, 0, 0, loc)
	b := time.Date(2024, time.April, 1, 12, 0, 0, 0, loc)
	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("DaysBetween across DST = %v, want 2", got)
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2024, time.June, 3, 17, 45, 12, 999, time.UTC)
	if got := StartOfDay(in); !got.Equal(day(2024, time.June, 3)) {
		t.Errorf("StartOfDay() = %v, want %v", got, day(2024, time.June, 3))
	}
}
