package maintenance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kahenga/onyesha/core"
)

// Interval units
const (
	UnitHour  = "hour"
	UnitDay   = "day"
	UnitWeek  = "week"
	UnitMonth = "month"
	UnitYear  = "year"
)

// Interval is a recurring-service period: every Value Units.
type Interval struct {
	Value int    `json:"interval_value" validate:"required,gt=0"`
	Unit  string `json:"interval_unit" validate:"required,oneof=hour day week month year"`
}

// Schedule is a named recurring-service policy assignable to assets and
// master assets.
type Schedule struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ServiceType string    `json:"service_type"`
	Interval    Interval  `json:"interval"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewSchedule contains information needed to create a new Schedule.
type NewSchedule struct {
	Name        string `json:"name" validate:"required"`
	ServiceType string `json:"service_type" validate:"required"`
	Interval    `json:"interval"`
}

func (ns *NewSchedule) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.ServiceType = core.CleanString(ns.ServiceType)
	return validate.Struct(ns)
}

// UpdateSchedule defines what information may be provided to modify an
// existing Schedule. Zero fields keep their stored values.
type UpdateSchedule struct {
	Name        string    `json:"name"`
	ServiceType string    `json:"service_type"`
	Interval    *Interval `json:"interval"`
}

func (us *UpdateSchedule) Validate(orig Schedule, validate *validator.Validate) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if st := core.CleanString(us.ServiceType); st != "" {
		us.ServiceType = st
	} else {
		us.ServiceType = orig.ServiceType
	}
	if us.Interval == nil {
		iv := orig.Interval
		us.Interval = &iv
	}
	if err := validate.Struct(us.Interval); err != nil {
		return err
	}
	return nil
}
