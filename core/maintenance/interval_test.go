package maintenance

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDue_fixedDurations(t *testing.T) {
	last := time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		iv   Interval
		want time.Duration
	}{
		{name: "1 hour", iv: Interval{Value: 1, Unit: UnitHour}, want: time.Hour},
		{name: "36 hours", iv: Interval{Value: 36, Unit: UnitHour}, want: 36 * time.Hour},
		{name: "1 day", iv: Interval{Value: 1, Unit: UnitDay}, want: 24 * time.Hour},
		{name: "10 days", iv: Interval{Value: 10, Unit: UnitDay}, want: 240 * time.Hour},
		{name: "1 week", iv: Interval{Value: 1, Unit: UnitWeek}, want: 7 * 24 * time.Hour},
		{name: "6 weeks", iv: Interval{Value: 6, Unit: UnitWeek}, want: 42 * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDue(last, tt.iv)
			if err != nil {
				t.Fatalf("NextDue() error = %v", err)
			}
			if diff := got.Sub(last); diff != tt.want {
				t.Errorf("NextDue() - lastServiced = %v, want %v", diff, tt.want)
			}
		})
	}
}

func TestNextDue_calendarAddition(t *testing.T) {
	tests := []struct {
		name string
		last time.Time
		iv   Interval
		want time.Time
	}{
		{name: "15 Jan + 1 month", last: date(2024, time.January, 15), iv: Interval{Value: 1, Unit: UnitMonth}, want: date(2024, time.February, 15)},
		{name: "15 Jan + 3 months", last: date(2024, time.January, 15), iv: Interval{Value: 3, Unit: UnitMonth}, want: date(2024, time.April, 15)},
		{name: "31 Jan + 1 month clamps (leap)", last: date(2024, time.January, 31), iv: Interval{Value: 1, Unit: UnitMonth}, want: date(2024, time.February, 29)},
		{name: "31 Jan + 1 month clamps", last: date(2023, time.January, 31), iv: Interval{Value: 1, Unit: UnitMonth}, want: date(2023, time.February, 28)},
		{name: "31 Oct + 1 month clamps", last: date(2024, time.October, 31), iv: Interval{Value: 1, Unit: UnitMonth}, want: date(2024, time.November, 30)},
		{name: "30 Nov + 14 months", last: date(2023, time.November, 30), iv: Interval{Value: 14, Unit: UnitMonth}, want: date(2025, time.January, 30)},
		{name: "15 Jun + 1 year", last: date(2024, time.June, 15), iv: Interval{Value: 1, Unit: UnitYear}, want: date(2025, time.June, 15)},
		{name: "29 Feb + 1 year clamps", last: date(2024, time.February, 29), iv: Interval{Value: 1, Unit: UnitYear}, want: date(2025, time.February, 28)},
		{name: "29 Feb + 4 years", last: date(2024, time.February, 29), iv: Interval{Value: 4, Unit: UnitYear}, want: date(2028, time.February, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDue(tt.last, tt.iv)
			if err != nil {
				t.Fatalf("NextDue() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextDue_preservesClock(t *testing.T) {
	last := time.Date(2024, time.January, 31, 13, 45, 12, 0, time.UTC)
	got, err := NextDue(last, Interval{Value: 1, Unit: UnitMonth})
	if err != nil {
		t.Fatalf("NextDue() error = %v", err)
	}
	want := time.Date(2024, time.February, 29, 13, 45, 12, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextDue() = %v, want %v", got, want)
	}
}

func TestNextDue_unknownUnit(t *testing.T) {
	if _, err := NextDue(date(2024, time.January, 1), Interval{Value: 1, Unit: "fortnight"}); err == nil {
		t.Error("NextDue() expected error for unknown unit, got nil")
	}
}
