package catalog

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kahenga/onyesha/core"
)

// MasterAsset is a reusable equipment template (make/model/spec) from which
// deployed assets are instantiated.
type MasterAsset struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	CategoryID               string    `json:"category_id"`
	Manufacturer             string    `json:"manufacturer"`
	ModelNumber              string    `json:"model_number"`
	ScreenSize               string    `json:"screen_size"`
	Resolution               string    `json:"resolution"`
	PowerConsumption         float64   `json:"power_consumption"` // watts
	OperatingSystem          string    `json:"operating_system"`
	MountType                string    `json:"mount_type"`
	EstimatedMaintenanceTime int       `json:"estimated_maintenance_time"` // minutes
	MaintenanceScheduleID    *string   `json:"maintenance_schedule_id"`
	CreatedAt                time.Time `json:"created_at"` // UTC
	UpdatedAt                time.Time `json:"updated_at"` // UTC
}

// NewMasterAsset contains information needed to create a new MasterAsset.
type NewMasterAsset struct {
	Name                     string  `json:"name" validate:"required"`
	CategoryID               string  `json:"category_id" validate:"required"`
	Manufacturer             string  `json:"manufacturer"`
	ModelNumber              string  `json:"model_number"`
	ScreenSize               string  `json:"screen_size"`
	Resolution               string  `json:"resolution"`
	PowerConsumption         float64 `json:"power_consumption" validate:"gte=0"`
	OperatingSystem          string  `json:"operating_system"`
	MountType                string  `json:"mount_type"`
	EstimatedMaintenanceTime int     `json:"estimated_maintenance_time" validate:"gte=0"`
	MaintenanceScheduleID    *string `json:"maintenance_schedule_id"`
}

func (nm *NewMasterAsset) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	nm.Name = core.CleanString(nm.Name)
	nm.Manufacturer = core.CleanString(nm.Manufacturer)
	nm.ModelNumber = core.CleanString(nm.ModelNumber)
	if err := validate.Struct(nm); err != nil {
		return err
	}
	return svc.CheckReferences(ctx, nm.CategoryID, nm.MaintenanceScheduleID)
}

// UpdateMasterAsset defines what information may be provided to modify an
// existing MasterAsset. It is a full replace of the mutable fields.
type UpdateMasterAsset struct {
	Name                     string  `json:"name" validate:"required"`
	CategoryID               string  `json:"category_id" validate:"required"`
	Manufacturer             string  `json:"manufacturer"`
	ModelNumber              string  `json:"model_number"`
	ScreenSize               string  `json:"screen_size"`
	Resolution               string  `json:"resolution"`
	PowerConsumption         float64 `json:"power_consumption" validate:"gte=0"`
	OperatingSystem          string  `json:"operating_system"`
	MountType                string  `json:"mount_type"`
	EstimatedMaintenanceTime int     `json:"estimated_maintenance_time" validate:"gte=0"`
	MaintenanceScheduleID    *string `json:"maintenance_schedule_id"`
}

func (um *UpdateMasterAsset) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	um.Name = core.CleanString(um.Name)
	um.Manufacturer = core.CleanString(um.Manufacturer)
	um.ModelNumber = core.CleanString(um.ModelNumber)
	if err := validate.Struct(um); err != nil {
		return err
	}
	return svc.CheckReferences(ctx, um.CategoryID, um.MaintenanceScheduleID)
}
