package maintenance

import (
	"testing"
	"time"
)

func tPtr(t time.Time) *time.Time { return &t }

func TestClassify(t *testing.T) {
	// Wednesday 10 April 2024, 10:00 UTC
	now := time.Date(2024, time.April, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		nextDue     *time.Time
		hasSchedule bool
		want        Status
	}{
		{name: "no schedule", nextDue: tPtr(now), hasSchedule: false, want: StatusNoMaintenance},
		{name: "no next due", nextDue: nil, hasSchedule: true, want: StatusNoMaintenance},
		{name: "overdue yesterday", nextDue: tPtr(date(2024, time.April, 9)), hasSchedule: true, want: StatusOverdue},
		{name: "overdue last year", nextDue: tPtr(date(2023, time.April, 10)), hasSchedule: true, want: StatusOverdue},
		{name: "due earlier today", nextDue: tPtr(time.Date(2024, time.April, 10, 1, 0, 0, 0, time.UTC)), hasSchedule: true, want: StatusDueToday},
		{name: "due later today", nextDue: tPtr(time.Date(2024, time.April, 10, 23, 0, 0, 0, time.UTC)), hasSchedule: true, want: StatusDueToday},
		{name: "due Sunday same ISO week", nextDue: tPtr(date(2024, time.April, 14)), hasSchedule: true, want: StatusDueThisWeek},
		{name: "due Monday next week same month", nextDue: tPtr(date(2024, time.April, 15)), hasSchedule: true, want: StatusDueThisMonth},
		{name: "due end of month", nextDue: tPtr(date(2024, time.April, 30)), hasSchedule: true, want: StatusDueThisMonth},
		{name: "due 1 May within 30 days", nextDue: tPtr(date(2024, time.May, 1)), hasSchedule: true, want: StatusDueNext30Days},
		{name: "due 10 May within 30 days", nextDue: tPtr(date(2024, time.May, 10)), hasSchedule: true, want: StatusDueNext30Days},
		{name: "due 11 May upcoming", nextDue: tPtr(date(2024, time.May, 11)), hasSchedule: true, want: StatusUpcoming},
		{name: "due next year upcoming", nextDue: tPtr(date(2025, time.April, 10)), hasSchedule: true, want: StatusUpcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(now, tt.nextDue, tt.hasSchedule); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Classify is total: any (now, nextDue, hasSchedule) triple yields exactly one
// of the seven statuses.
func TestClassify_total(t *testing.T) {
	now := time.Date(2024, time.April, 10, 10, 0, 0, 0, time.UTC)
	known := make(map[Status]bool, len(AllStatuses))
	for _, s := range AllStatuses {
		known[s] = true
	}

	for day := -400; day <= 400; day++ {
		due := now.Add(time.Duration(day) * 24 * time.Hour)
		for _, hasSched := range []bool{true, false} {
			got := Classify(now, &due, hasSched)
			if !known[got] {
				t.Fatalf("Classify(%v, %v, %v) = %q, not a known status", now, due, hasSched, got)
			}
		}
	}
	if got := Classify(now, nil, true); got != StatusNoMaintenance {
		t.Errorf("Classify(nil) = %v, want %v", got, StatusNoMaintenance)
	}
}

// Scenario from the maintenance screen: serviced 15 Jan, every 3 months,
// checked on 10 April.
func TestClassify_quarterlyServiceScenario(t *testing.T) {
	last := date(2024, time.January, 15)
	next, err := NextDue(last, Interval{Value: 3, Unit: UnitMonth})
	if err != nil {
		t.Fatalf("NextDue() error = %v", err)
	}
	if want := date(2024, time.April, 15); !next.Equal(want) {
		t.Fatalf("NextDue() = %v, want %v", next, want)
	}

	now := time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC)
	if got := Classify(now, &next, true); got != StatusDueThisMonth {
		t.Errorf("Classify() = %v, want %v", got, StatusDueThisMonth)
	}
}
