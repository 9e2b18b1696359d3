package asset

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core"
	"github.com/kahenga/onyesha/core/category"
	"github.com/kahenga/onyesha/core/location"
	"github.com/kahenga/onyesha/core/maintenance"
)

var ErrNotFound = errors.New("asset not found")

type (
	Repository interface {
		CreateAsset(ctx context.Context, ast Asset) (Asset, error)
		// QueryAssets returns all assets ordered by creation time descending.
		QueryAssets(ctx context.Context) ([]Asset, error)
		GetAssetByID(ctx context.Context, id string) (Asset, error)
		UpdateAsset(ctx context.Context, ast Asset) (Asset, error)
		DeleteAssetsByID(ctx context.Context, ids ...string) (int, error)
	}

	// TemplateResolver lets the service validate master-asset references
	// without depending on the catalog package (which depends on this one's
	// sibling packages).
	TemplateResolver interface {
		MasterAssetExists(ctx context.Context, id string) (bool, error)
	}

	// References collects every foreign key carried by an asset payload.
	References struct {
		CategoryID            string
		MasterAssetID         *string
		MaintenanceScheduleID *string
		LocationID            string
		SectionID             string
		SubSectionID          string
		ZoneID                string
	}

	Service interface {
		CheckReferences(ctx context.Context, refs References) error
		Create(ctx context.Context, na NewAsset) (Asset, error)
		Query(ctx context.Context) ([]Asset, error)
		// List runs the full filter/sort/paginate pipeline over the asset list.
		List(ctx context.Context, fs FilterState, sort Sort, page PageParams) (Page, error)
		GetByID(ctx context.Context, id string) (Asset, error)
		Update(ctx context.Context, id string, ua UpdateAsset) (Asset, error)
		Delete(ctx context.Context, ids ...string) error
		ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error)
		ExportCSV(ctx context.Context, w io.Writer, fs FilterState) (int, error)
		ExportExcel(ctx context.Context, w io.Writer, fs FilterState) (int, error)
	}

	service struct {
		repo      Repository
		catRepo   category.Repository
		locRepo   location.Repository
		schedRepo maintenance.Repository
		templates TemplateResolver
		nowFunc   func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	catRepo category.Repository,
	locRepo location.Repository,
	schedRepo maintenance.Repository,
	templates TemplateResolver,
) Service {
	return &service{
		repo:      repo,
		catRepo:   catRepo,
		locRepo:   locRepo,
		schedRepo: schedRepo,
		templates: templates,
		nowFunc:   time.Now,
	}
}

func (svc *service) CheckReferences(ctx context.Context, refs References) error {
	if _, err := svc.catRepo.GetCategoryByID(ctx, refs.CategoryID); err != nil {
		if errors.Cause(err) == category.ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "category_id", Error: err.Error()})
		}
		return err
	}
	if refs.MasterAssetID != nil {
		exists, err := svc.templates.MasterAssetExists(ctx, *refs.MasterAssetID)
		if err != nil {
			return err
		}
		if !exists {
			return core.NewValidationError(nil, core.FieldError{Field: "master_asset_id", Error: "master asset not found"})
		}
	}
	if refs.MaintenanceScheduleID != nil {
		if _, err := svc.schedRepo.GetScheduleByID(ctx, *refs.MaintenanceScheduleID); err != nil {
			if errors.Cause(err) == maintenance.ErrNotFound {
				return core.NewValidationError(err, core.FieldError{Field: "maintenance_schedule_id", Error: err.Error()})
			}
			return err
		}
	}
	return svc.checkPlacement(ctx, refs)
}

func (svc *service) checkPlacement(ctx context.Context, refs References) error {
	nodes := []struct {
		level string
		id    string
		field string
	}{
		{location.LevelLocation, refs.LocationID, "location_id"},
		{location.LevelSection, refs.SectionID, "section_id"},
		{location.LevelSubSection, refs.SubSectionID, "sub_section_id"},
		{location.LevelZone, refs.ZoneID, "zone_id"},
	}
	for _, n := range nodes {
		if n.id == "" {
			continue
		}
		if _, err := svc.locRepo.GetNode(ctx, n.level, n.id); err != nil {
			if errors.Cause(err) == location.ErrNotFound {
				return core.NewValidationError(err, core.FieldError{Field: n.field, Error: err.Error()})
			}
			return err
		}
	}
	return nil
}

func (svc *service) Create(ctx context.Context, na NewAsset) (Asset, error) {
	now := svc.nowFunc().UTC()
	ast := Asset{
		Name:          na.Name,
		CategoryID:    na.CategoryID,
		MasterAssetID: na.MasterAssetID,

		AssetLocation:  na.AssetLocation,
		GoogleLocation: na.GoogleLocation,
		Latitude:       na.Latitude,
		Longitude:      na.Longitude,
		LocationID:     na.LocationID,
		SectionID:      na.SectionID,
		SubSectionID:   na.SubSectionID,
		ZoneID:         na.ZoneID,

		SerialNumber: na.SerialNumber,
		MACAddress:   na.MACAddress,
		IPAddress:    na.IPAddress,

		Manufacturer:     na.Manufacturer,
		ModelNumber:      na.ModelNumber,
		ScreenSize:       na.ScreenSize,
		CustomScreenSize: na.CustomScreenSize,
		Resolution:       na.Resolution,
		CustomResolution: na.CustomResolution,
		PowerConsumption: na.PowerConsumption,
		OperatingSystem:  na.OperatingSystem,
		Description:      na.Description,

		PurchaseDate:         na.PurchaseDate,
		InstallationDate:     na.InstallationDate,
		WarrantyStartDate:    na.WarrantyStartDate,
		WarrantyPeriodMonths: na.WarrantyPeriodMonths,
		WarrantyEndDate:      na.WarrantyEndDate,
		Status:               StatusActive,

		ContentManagementSystem: na.ContentManagementSystem,
		DisplayOrientation:      na.DisplayOrientation,
		OperatingHours:          na.OperatingHours,
		BrightnessLevel:         na.BrightnessLevel,

		MaintenanceScheduleID: na.MaintenanceScheduleID,
		LastMaintenanceDate:   na.LastMaintenanceDate,

		CreatedAt: now,
		UpdatedAt: now,
	}
	svc.refreshNextMaintenance(ctx, &ast)
	return svc.repo.CreateAsset(ctx, ast)
}

// refreshNextMaintenance derives the stored next-maintenance date from the
// last service date and the linked schedule.
func (svc *service) refreshNextMaintenance(ctx context.Context, ast *Asset) {
	if ast.MaintenanceScheduleID == nil || ast.LastMaintenanceDate == nil {
		ast.NextMaintenanceDate = nil
		return
	}
	sched, err := svc.schedRepo.GetScheduleByID(ctx, *ast.MaintenanceScheduleID)
	if err != nil {
		return
	}
	if next, err := maintenance.NextDue(*ast.LastMaintenanceDate, sched.Interval); err == nil {
		ast.NextMaintenanceDate = &next
	}
}

func (svc *service) Query(ctx context.Context) ([]Asset, error) {
	return svc.repo.QueryAssets(ctx)
}

func (svc *service) List(ctx context.Context, fs FilterState, sort Sort, page PageParams) (Page, error) {
	assets, err := svc.repo.QueryAssets(ctx)
	if err != nil {
		return Page{}, err
	}
	return Pipeline(assets, fs, sort, page, svc.nowFunc()), nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Asset, error) {
	return svc.repo.GetAssetByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, ua UpdateAsset) (Asset, error) {
	ast, err := svc.repo.GetAssetByID(ctx, id)
	if err != nil {
		return Asset{}, err
	}

	ast.Name = ua.Name
	ast.CategoryID = ua.CategoryID
	ast.MasterAssetID = ua.MasterAssetID
	ast.AssetLocation = ua.AssetLocation
	ast.GoogleLocation = ua.GoogleLocation
	ast.Latitude = ua.Latitude
	ast.Longitude = ua.Longitude
	ast.LocationID = ua.LocationID
	ast.SectionID = ua.SectionID
	ast.SubSectionID = ua.SubSectionID
	ast.ZoneID = ua.ZoneID
	ast.SerialNumber = ua.SerialNumber
	ast.MACAddress = ua.MACAddress
	ast.IPAddress = ua.IPAddress
	ast.Manufacturer = ua.Manufacturer
	ast.ModelNumber = ua.ModelNumber
	ast.ScreenSize = ua.ScreenSize
	ast.CustomScreenSize = ua.CustomScreenSize
	ast.Resolution = ua.Resolution
	ast.CustomResolution = ua.CustomResolution
	ast.PowerConsumption = ua.PowerConsumption
	ast.OperatingSystem = ua.OperatingSystem
	ast.Description = ua.Description
	ast.PurchaseDate = ua.PurchaseDate
	ast.InstallationDate = ua.InstallationDate
	ast.WarrantyStartDate = ua.WarrantyStartDate
	ast.WarrantyPeriodMonths = ua.WarrantyPeriodMonths
	ast.WarrantyEndDate = ua.WarrantyEndDate
	if ua.Status != "" {
		ast.Status = ua.Status
	}
	ast.ContentManagementSystem = ua.ContentManagementSystem
	ast.DisplayOrientation = ua.DisplayOrientation
	ast.OperatingHours = ua.OperatingHours
	ast.BrightnessLevel = ua.BrightnessLevel
	ast.MaintenanceScheduleID = ua.MaintenanceScheduleID
	ast.LastMaintenanceDate = ua.LastMaintenanceDate
	ast.NextMaintenanceDate = ua.NextMaintenanceDate
	ast.UpdatedAt = svc.nowFunc().UTC()

	if ast.NextMaintenanceDate == nil {
		svc.refreshNextMaintenance(ctx, &ast)
	}
	return svc.repo.UpdateAsset(ctx, ast)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteAssetsByID(ctx, ids...)
	return err
}
