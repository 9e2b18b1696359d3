package catalog

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core"
	"github.com/kahenga/onyesha/core/category"
	"github.com/kahenga/onyesha/core/maintenance"
)

var (
	ErrNotFound = errors.New("master asset not found")
	ErrInUse    = errors.New("master asset is referenced by existing assets")
)

type (
	Repository interface {
		CreateMasterAsset(ctx context.Context, ma MasterAsset) (MasterAsset, error)
		// QueryMasterAssets returns all templates ordered by name.
		QueryMasterAssets(ctx context.Context) ([]MasterAsset, error)
		GetMasterAssetByID(ctx context.Context, id string) (MasterAsset, error)
		UpdateMasterAsset(ctx context.Context, ma MasterAsset) (MasterAsset, error)
		DeleteMasterAssetByID(ctx context.Context, id string) error
		// MasterAssetInUse reports whether any asset references the template.
		MasterAssetInUse(ctx context.Context, id string) (bool, error)
		// MasterAssetExists satisfies asset.TemplateResolver.
		MasterAssetExists(ctx context.Context, id string) (bool, error)
	}

	Service interface {
		// CheckReferences validates that the category and the optional
		// maintenance schedule exist, attaching field errors otherwise.
		CheckReferences(ctx context.Context, categoryID string, scheduleID *string) error
		Create(ctx context.Context, nm NewMasterAsset) (MasterAsset, error)
		Query(ctx context.Context) ([]MasterAsset, error)
		GetByID(ctx context.Context, id string) (MasterAsset, error)
		Update(ctx context.Context, id string, um UpdateMasterAsset) (MasterAsset, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo     Repository
		catRepo  category.Repository
		schedSvc maintenance.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, catRepo category.Repository, schedSvc maintenance.Service) Service {
	return &service{repo: repo, catRepo: catRepo, schedSvc: schedSvc}
}

func (svc *service) CheckReferences(ctx context.Context, categoryID string, scheduleID *string) error {
	if _, err := svc.catRepo.GetCategoryByID(ctx, categoryID); err != nil {
		if errors.Cause(err) == category.ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "category_id", Error: err.Error()})
		}
		return err
	}
	if scheduleID != nil {
		if _, err := svc.schedSvc.GetByID(ctx, *scheduleID); err != nil {
			if errors.Cause(err) == maintenance.ErrNotFound {
				return core.NewValidationError(err, core.FieldError{Field: "maintenance_schedule_id", Error: err.Error()})
			}
			return err
		}
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nm NewMasterAsset) (MasterAsset, error) {
	now := time.Now().UTC()
	ma := MasterAsset{
		Name:                     nm.Name,
		CategoryID:               nm.CategoryID,
		Manufacturer:             nm.Manufacturer,
		ModelNumber:              nm.ModelNumber,
		ScreenSize:               nm.ScreenSize,
		Resolution:               nm.Resolution,
		PowerConsumption:         nm.PowerConsumption,
		OperatingSystem:          nm.OperatingSystem,
		MountType:                nm.MountType,
		EstimatedMaintenanceTime: nm.EstimatedMaintenanceTime,
		MaintenanceScheduleID:    nm.MaintenanceScheduleID,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	return svc.repo.CreateMasterAsset(ctx, ma)
}

func (svc *service) Query(ctx context.Context) ([]MasterAsset, error) {
	return svc.repo.QueryMasterAssets(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (MasterAsset, error) {
	return svc.repo.GetMasterAssetByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, um UpdateMasterAsset) (MasterAsset, error) {
	orig, err := svc.repo.GetMasterAssetByID(ctx, id)
	if err != nil {
		return MasterAsset{}, err
	}
	orig.Name = um.Name
	orig.CategoryID = um.CategoryID
	orig.Manufacturer = um.Manufacturer
	orig.ModelNumber = um.ModelNumber
	orig.ScreenSize = um.ScreenSize
	orig.Resolution = um.Resolution
	orig.PowerConsumption = um.PowerConsumption
	orig.OperatingSystem = um.OperatingSystem
	orig.MountType = um.MountType
	orig.EstimatedMaintenanceTime = um.EstimatedMaintenanceTime
	orig.MaintenanceScheduleID = um.MaintenanceScheduleID
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMasterAsset(ctx, orig)
}

// Delete removes a template. It is rejected with a conflict while any asset
// still references the template.
func (svc *service) Delete(ctx context.Context, id string) error {
	inUse, err := svc.repo.MasterAssetInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return core.NewConflictError(ErrInUse.Error())
	}
	return svc.repo.DeleteMasterAssetByID(ctx, id)
}
