package shared

import (
	"fmt"
	"time"
)

// PeriodEnd resolves the inclusive end date of a fiscal period.
// Period 0 means the whole year; 1..4 are quarters.
func PeriodEnd(year, period int) (time.Time, error) {
	switch {
	case period == 0:
		return time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC), nil
	case period >= 1 && period <= 4:
		month := time.Month(period * 3)
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return first.AddDate(0, 1, 0).Add(-time.Second), nil
	default:
		return time.Time{}, fmt.Errorf("invalid period %d for year %d", period, year)
	}
}

// PeriodStart resolves the first day of a fiscal period.
func PeriodStart(year, period int) (time.Time, error) {
	switch {
	case period == 0:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	case period >= 1 && period <= 4:
		month := time.Month((period-1)*3 + 1)
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, fmt.Errorf("invalid period %d for year %d", period, year)
	}
}

// MonthEnd resolves the last instant of a calendar month.
func MonthEnd(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, 0).Add(-time.Second)
}
