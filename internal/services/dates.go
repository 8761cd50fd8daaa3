package services

import (
	"time"

	"fintrack/internal/models"
)

// dateOnly truncates a timestamp to midnight UTC. Monetary records carry
// calendar dates; comparing two of them is a plain equality check.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sameDay reports whether a and b fall on the same calendar date.
func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

// periodStart returns the first day of the budget period containing today.
// Weekly periods start on Monday.
func periodStart(period models.BudgetPeriod, today time.Time) time.Time {
	d := dateOnly(today)
	switch period {
	case models.BudgetPeriodWeekly:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case models.BudgetPeriodMonthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// addMonthsClamp advances a date by the given number of months, clamping
// the day-of-month to the last day of the target month. time.AddDate
// normalizes Jan 31 + 1 month to March; billing rollover must not skip
// a month that way.
func addMonthsClamp(t time.Time, months int) time.Time {
	d := dateOnly(t)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
