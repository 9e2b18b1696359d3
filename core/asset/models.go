package asset

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kahenga/onyesha/core"
	"github.com/kahenga/onyesha/core/maintenance"
)

// Display orientations
const (
	OrientationLandscape = "Landscape"
	OrientationPortrait  = "Portrait"
)

// Default lifecycle status for newly deployed units.
const StatusActive = "active"

// defaultOperatingHours applies when a create or import payload leaves the
// daily operating hours unset.
const defaultOperatingHours = 8

// Asset is one physically deployed, uniquely identified unit of equipment.
type Asset struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	CategoryID    string  `json:"category_id"`
	MasterAssetID *string `json:"master_asset_id"`

	// Placement
	AssetLocation  string   `json:"asset_location"`
	GoogleLocation string   `json:"google_location"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	LocationID     string   `json:"location_id"`
	SectionID      string   `json:"section_id"`
	SubSectionID   string   `json:"sub_section_id"`
	ZoneID         string   `json:"zone_id"`

	// Hardware identity
	SerialNumber string `json:"serial_number"`
	MACAddress   string `json:"mac_address"`
	IPAddress    string `json:"ip_address"`

	// Specs
	Manufacturer     string   `json:"manufacturer"`
	ModelNumber      string   `json:"model_number"`
	ScreenSize       string   `json:"screen_size"`
	CustomScreenSize *float64 `json:"custom_screen_size"`
	Resolution       string   `json:"resolution"`
	CustomResolution string   `json:"custom_resolution"`
	PowerConsumption float64  `json:"power_consumption"` // watts
	OperatingSystem  string   `json:"operating_system"`
	Description      string   `json:"description"`

	// Lifecycle
	PurchaseDate         *time.Time `json:"purchase_date"`
	InstallationDate     *time.Time `json:"installation_date"`
	WarrantyStartDate    *time.Time `json:"warranty_start_date"`
	WarrantyPeriodMonths *int       `json:"warranty_period_months"`
	WarrantyEndDate      *time.Time `json:"warranty_end_date"`
	Status               string     `json:"status"`

	// Digital-signage configuration
	ContentManagementSystem string `json:"content_management_system"`
	DisplayOrientation      string `json:"display_orientation"`
	OperatingHours          int    `json:"operating_hours"` // 1-24 hours/day
	BrightnessLevel         int    `json:"brightness_level"`

	// Maintenance linkage
	MaintenanceScheduleID *string    `json:"maintenance_schedule_id"`
	LastMaintenanceDate   *time.Time `json:"last_maintenance_date"`
	NextMaintenanceDate   *time.Time `json:"next_maintenance_date"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// WarrantyEnd returns the end of the warranty window: the explicit end date
// when one is recorded, otherwise warranty start + period in calendar months.
// Nil when the window cannot be determined.
func (a Asset) WarrantyEnd() *time.Time {
	if a.WarrantyEndDate != nil {
		return a.WarrantyEndDate
	}
	if a.WarrantyStartDate == nil || a.WarrantyPeriodMonths == nil {
		return nil
	}
	end, err := maintenance.NextDue(*a.WarrantyStartDate, maintenance.Interval{
		Value: *a.WarrantyPeriodMonths,
		Unit:  maintenance.UnitMonth,
	})
	if err != nil {
		return nil
	}
	return &end
}

// IsWarrantyActive reports whether now falls within the warranty window
// [start, start+period]. False when the window cannot be determined.
func (a Asset) IsWarrantyActive(now time.Time) bool {
	end := a.WarrantyEnd()
	if end == nil {
		return false
	}
	return !now.After(*end)
}

// MaintenanceStatusAt buckets the unit's service due date relative to now.
// sched may be nil when the referenced schedule could not be resolved; the
// stored next-maintenance date still classifies in that case.
func (a Asset) MaintenanceStatusAt(now time.Time, sched *maintenance.Schedule) maintenance.Status {
	if a.MaintenanceScheduleID == nil || a.LastMaintenanceDate == nil {
		return maintenance.StatusNoMaintenance
	}
	next := a.NextMaintenanceDate
	if next == nil && sched != nil {
		if nd, err := maintenance.NextDue(*a.LastMaintenanceDate, sched.Interval); err == nil {
			next = &nd
		}
	}
	return maintenance.Classify(now, next, true)
}

// NewAsset contains information needed to deploy a new Asset.
type NewAsset struct {
	Name          string  `json:"name" validate:"required"`
	CategoryID    string  `json:"category_id" validate:"required"`
	MasterAssetID *string `json:"master_asset_id"`

	AssetLocation  string   `json:"asset_location"`
	GoogleLocation string   `json:"google_location"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	LocationID     string   `json:"location_id"`
	SectionID      string   `json:"section_id"`
	SubSectionID   string   `json:"sub_section_id"`
	ZoneID         string   `json:"zone_id"`

	SerialNumber string `json:"serial_number"`
	MACAddress   string `json:"mac_address" validate:"omitempty,mac"`
	IPAddress    string `json:"ip_address" validate:"omitempty,ip"`

	Manufacturer     string   `json:"manufacturer"`
	ModelNumber      string   `json:"model_number"`
	ScreenSize       string   `json:"screen_size"`
	CustomScreenSize *float64 `json:"custom_screen_size" validate:"omitempty,gt=0"`
	Resolution       string   `json:"resolution"`
	CustomResolution string   `json:"custom_resolution"`
	PowerConsumption float64  `json:"power_consumption" validate:"gte=0"`
	OperatingSystem  string   `json:"operating_system"`
	Description      string   `json:"description"`

	PurchaseDate         *time.Time `json:"purchase_date"`
	InstallationDate     *time.Time `json:"installation_date"`
	WarrantyStartDate    *time.Time `json:"warranty_start_date"`
	WarrantyPeriodMonths *int       `json:"warranty_period_months" validate:"omitempty,gte=0"`
	WarrantyEndDate      *time.Time `json:"warranty_end_date"`

	ContentManagementSystem string `json:"content_management_system"`
	DisplayOrientation      string `json:"display_orientation" validate:"omitempty,oneof=Landscape Portrait"`
	OperatingHours          int    `json:"operating_hours" validate:"omitempty,gte=1,lte=24"`
	BrightnessLevel         int    `json:"brightness_level" validate:"gte=0,lte=100"`

	MaintenanceScheduleID *string    `json:"maintenance_schedule_id"`
	LastMaintenanceDate   *time.Time `json:"last_maintenance_date"`
}

func (na *NewAsset) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	na.Name = core.CleanString(na.Name)
	na.SerialNumber = core.CleanString(na.SerialNumber)
	na.MACAddress = core.CleanString(na.MACAddress)
	na.IPAddress = core.CleanString(na.IPAddress)
	// same defaults as the import path
	if na.DisplayOrientation == "" {
		na.DisplayOrientation = OrientationLandscape
	}
	if na.OperatingHours == 0 {
		na.OperatingHours = defaultOperatingHours
	}
	if err := validate.Struct(na); err != nil {
		return err
	}
	return svc.CheckReferences(ctx, References{
		CategoryID:            na.CategoryID,
		MasterAssetID:         na.MasterAssetID,
		MaintenanceScheduleID: na.MaintenanceScheduleID,
		LocationID:            na.LocationID,
		SectionID:             na.SectionID,
		SubSectionID:          na.SubSectionID,
		ZoneID:                na.ZoneID,
	})
}

// UpdateAsset is a full replace of an Asset's mutable fields.
type UpdateAsset struct {
	Name          string  `json:"name" validate:"required"`
	CategoryID    string  `json:"category_id" validate:"required"`
	MasterAssetID *string `json:"master_asset_id"`

	AssetLocation  string   `json:"asset_location"`
	GoogleLocation string   `json:"google_location"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	LocationID     string   `json:"location_id"`
	SectionID      string   `json:"section_id"`
	SubSectionID   string   `json:"sub_section_id"`
	ZoneID         string   `json:"zone_id"`

	SerialNumber string `json:"serial_number"`
	MACAddress   string `json:"mac_address" validate:"omitempty,mac"`
	IPAddress    string `json:"ip_address" validate:"omitempty,ip"`

	Manufacturer     string   `json:"manufacturer"`
	ModelNumber      string   `json:"model_number"`
	ScreenSize       string   `json:"screen_size"`
	CustomScreenSize *float64 `json:"custom_screen_size" validate:"omitempty,gt=0"`
	Resolution       string   `json:"resolution"`
	CustomResolution string   `json:"custom_resolution"`
	PowerConsumption float64  `json:"power_consumption" validate:"gte=0"`
	OperatingSystem  string   `json:"operating_system"`
	Description      string   `json:"description"`

	PurchaseDate         *time.Time `json:"purchase_date"`
	InstallationDate     *time.Time `json:"installation_date"`
	WarrantyStartDate    *time.Time `json:"warranty_start_date"`
	WarrantyPeriodMonths *int       `json:"warranty_period_months" validate:"omitempty,gte=0"`
	WarrantyEndDate      *time.Time `json:"warranty_end_date"`
	Status               string     `json:"status"`

	ContentManagementSystem string `json:"content_management_system"`
	DisplayOrientation      string `json:"display_orientation" validate:"required,oneof=Landscape Portrait"`
	OperatingHours          int    `json:"operating_hours" validate:"required,gte=1,lte=24"`
	BrightnessLevel         int    `json:"brightness_level" validate:"gte=0,lte=100"`

	MaintenanceScheduleID *string    `json:"maintenance_schedule_id"`
	LastMaintenanceDate   *time.Time `json:"last_maintenance_date"`
	NextMaintenanceDate   *time.Time `json:"next_maintenance_date"`
}

func (ua *UpdateAsset) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	ua.Name = core.CleanString(ua.Name)
	ua.SerialNumber = core.CleanString(ua.SerialNumber)
	ua.MACAddress = core.CleanString(ua.MACAddress)
	ua.IPAddress = core.CleanString(ua.IPAddress)
	if err := validate.Struct(ua); err != nil {
		return err
	}
	return svc.CheckReferences(ctx, References{
		CategoryID:            ua.CategoryID,
		MasterAssetID:         ua.MasterAssetID,
		MaintenanceScheduleID: ua.MaintenanceScheduleID,
		LocationID:            ua.LocationID,
		SectionID:             ua.SectionID,
		SubSectionID:          ua.SubSectionID,
		ZoneID:                ua.ZoneID,
	})
}
