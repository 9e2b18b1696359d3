package maintenance

import (
	"time"

	"github.com/pkg/errors"
)

// NextDue computes the next service date from the last serviced date and the
// schedule interval.
//
// Hour, day and week intervals add fixed durations (week = 7 days).
// Month and year intervals perform calendar-field addition, clamping the day
// of month to the last day of the resulting month: 31 Jan + 1 month is
// 28 (or 29) Feb, never a normalized date in March.
func NextDue(lastServiced time.Time, iv Interval) (time.Time, error) {
	switch iv.Unit {
	case UnitHour:
		return lastServiced.Add(time.Duration(iv.Value) * time.Hour), nil
	case UnitDay:
		return lastServiced.Add(time.Duration(iv.Value) * 24 * time.Hour), nil
	case UnitWeek:
		return lastServiced.Add(time.Duration(iv.Value) * 7 * 24 * time.Hour), nil
	case UnitMonth:
		return addMonthsClamped(lastServiced, iv.Value), nil
	case UnitYear:
		return addMonthsClamped(lastServiced, 12*iv.Value), nil
	default:
		return time.Time{}, errors.Errorf("unknown interval unit %q", iv.Unit)
	}
}

// addMonthsClamped adds n calendar months to t, preserving the day of month
// unless the resulting month is shorter, in which case the day is clamped to
// the month's last day.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
