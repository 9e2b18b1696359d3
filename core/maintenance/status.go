package maintenance

import "time"

// Status buckets how soon an asset is due for service.
type Status string

const (
	StatusNoMaintenance Status = "no_maintenance"
	StatusOverdue       Status = "overdue"
	StatusDueToday      Status = "due_today"
	StatusDueThisWeek   Status = "due_this_week"
	StatusDueThisMonth  Status = "due_this_month"
	StatusDueNext30Days Status = "due_next_30_days"
	StatusUpcoming      Status = "upcoming"
)

// AllStatuses in classification order.
var AllStatuses = []Status{
	StatusNoMaintenance,
	StatusOverdue,
	StatusDueToday,
	StatusDueThisWeek,
	StatusDueThisMonth,
	StatusDueNext30Days,
	StatusUpcoming,
}

// Classify buckets nextDue relative to now; first match wins.
// A nil nextDue or a missing schedule means no maintenance is tracked.
// Weeks run Monday through Sunday (ISO weeks); months are calendar months.
func Classify(now time.Time, nextDue *time.Time, hasSchedule bool) Status {
	if !hasSchedule || nextDue == nil {
		return StatusNoMaintenance
	}
	due := *nextDue

	y, m, d := now.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch {
	case due.Before(startOfToday):
		return StatusOverdue
	case sameDay(due, now):
		return StatusDueToday
	case sameISOWeek(due, now):
		return StatusDueThisWeek
	case due.Year() == now.Year() && due.Month() == now.Month():
		return StatusDueThisMonth
	case !due.After(now.Add(30 * 24 * time.Hour)):
		return StatusDueNext30Days
	default:
		return StatusUpcoming
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}
