package asset

import (
	"testing"
	"time"

	"github.com/kahenga/onyesha/core/maintenance"
)

func TestWarrantyEnd(t *testing.T) {
	explicitEnd := datePtr(2025, time.July, 1)

	tests := []struct {
		name string
		a    Asset
		want *time.Time
	}{
		{name: "no warranty info", a: Asset{}, want: nil},
		{name: "start without period", a: Asset{WarrantyStartDate: datePtr(2024, time.January, 1)}, want: nil},
		{
			name: "start plus period",
			a:    Asset{WarrantyStartDate: datePtr(2024, time.January, 1), WarrantyPeriodMonths: intPtr(24)},
			want: datePtr(2026, time.January, 1),
		},
		{
			name: "period clamps to month end",
			a:    Asset{WarrantyStartDate: datePtr(2023, time.January, 31), WarrantyPeriodMonths: intPtr(1)},
			want: datePtr(2023, time.February, 28),
		},
		{
			name: "explicit end wins over period",
			a: Asset{
				WarrantyStartDate:    datePtr(2024, time.January, 1),
				WarrantyPeriodMonths: intPtr(24),
				WarrantyEndDate:      explicitEnd,
			},
			want: explicitEnd,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.WarrantyEnd()
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("WarrantyEnd() = %v, want %v", got, tt.want)
			case !got.Equal(*tt.want):
				t.Errorf("WarrantyEnd() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsWarrantyActive(t *testing.T) {
	a := Asset{
		WarrantyStartDate:    datePtr(2024, time.January, 1),
		WarrantyPeriodMonths: intPtr(12),
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "mid warranty", now: date(2024, time.June, 1), want: true},
		{name: "end date inclusive", now: date(2025, time.January, 1), want: true},
		{name: "day after end", now: date(2025, time.January, 2), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.IsWarrantyActive(tt.now); got != tt.want {
				t.Errorf("IsWarrantyActive(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}

	t.Run("no warranty info is never active", func(t *testing.T) {
		if (Asset{}).IsWarrantyActive(date(2024, time.June, 1)) {
			t.Error("IsWarrantyActive() = true for asset without warranty info")
		}
	})
}

func TestMaintenanceStatusAt(t *testing.T) {
	now := date(2024, time.April, 10)
	schedID := "sched-quarterly"
	sched := &maintenance.Schedule{
		ID:       schedID,
		Interval: maintenance.Interval{Value: 3, Unit: maintenance.UnitMonth},
	}

	tests := []struct {
		name  string
		a     Asset
		sched *maintenance.Schedule
		want  maintenance.Status
	}{
		{name: "no schedule", a: Asset{LastMaintenanceDate: datePtr(2024, time.January, 15)}, want: maintenance.StatusNoMaintenance},
		{name: "never serviced", a: Asset{MaintenanceScheduleID: &schedID}, want: maintenance.StatusNoMaintenance},
		{
			name: "stored next date classifies",
			a: Asset{
				MaintenanceScheduleID: &schedID,
				LastMaintenanceDate:   datePtr(2024, time.January, 1),
				NextMaintenanceDate:   datePtr(2024, time.April, 1),
			},
			want: maintenance.StatusOverdue,
		},
		{
			name: "derived from schedule when next date missing",
			a: Asset{
				MaintenanceScheduleID: &schedID,
				LastMaintenanceDate:   datePtr(2024, time.January, 15),
			},
			sched: sched,
			want:  maintenance.StatusDueThisMonth,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.MaintenanceStatusAt(now, tt.sched); got != tt.want {
				t.Errorf("MaintenanceStatusAt() = %v, want %v", got, tt.want)
			}
		})
	}
}
