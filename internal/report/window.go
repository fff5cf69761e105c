package report

import (
	"time"
)

// Range selects the tracker lookback window.
type Range string

const (
	Range3M  Range = "3m"
	Range6M  Range = "6m"
	Range1Y  Range = "1y"
	RangeYTD Range = "ytd"
	RangeAll Range = "all"
)

// IsValid checks if the range is one of the supported windows.
func (r Range) IsValid() bool {
	switch r {
	case Range3M, Range6M, Range1Y, RangeYTD, RangeAll:
		return true
	}
	return false
}

// monthStart truncates t to the first instant of its month in UTC.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthEnd returns the last instant of t's month.
func monthEnd(t time.Time) time.Time {
	return monthStart(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// monthsBetween counts calendar months from a through b inclusive.
func monthsBetween(a, b time.Time) int {
	a, b = monthStart(a), monthStart(b)
	return (b.Year()-a.Year())*12 + int(b.Month()-a.Month()) + 1
}

// datePoints expands a range into consecutive month-end date points
// ending at the current month. The window never reaches past the user's
// earliest transaction month, never exceeds the plan's lookback cap
// (maxMonths 0 means unbounded), and collapses to the current month
// alone when the user has no history.
func datePoints(r Range, now time.Time, earliestTx *time.Time, maxMonths int) []DatePoint {
	monthsSinceStart := 1
	if earliestTx != nil {
		monthsSinceStart = monthsBetween(*earliestTx, now)
	}

	var months int
	switch r {
	case Range1Y:
		months = 12
	case RangeYTD:
		months = int(now.Month())
	case RangeAll:
		months = monthsSinceStart
	case Range3M:
		months = 3
	default:
		months = 6
	}

	if maxMonths > 0 && months > maxMonths {
		months = maxMonths
	}
	if months > monthsSinceStart {
		months = monthsSinceStart
	}

	points := make([]DatePoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		end := monthEnd(monthStart(now).AddDate(0, -i, 0))
		points = append(points, DatePoint{
			Key:   end.Format("2006-01"),
			Label: end.Format("Jan 2006"),
			Date:  end,
		})
	}
	return points
}
