package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kahenga/onyesha/core/catalog"
)

type masterAssetRow struct {
	ID                       string      `db:"id"`
	Name                     string      `db:"name"`
	CategoryID               string      `db:"category_id"`
	Manufacturer             string      `db:"manufacturer"`
	ModelNumber              string      `db:"model_number"`
	ScreenSize               string      `db:"screen_size"`
	Resolution               string      `db:"resolution"`
	PowerConsumption         float64     `db:"power_consumption"`
	OperatingSystem          string      `db:"operating_system"`
	MountType                string      `db:"mount_type"`
	EstimatedMaintenanceTime int         `db:"estimated_maintenance_time"`
	MaintenanceScheduleID    null.String `db:"maintenance_schedule_id"`
	CreatedAt                time.Time   `db:"created_at"`
	UpdatedAt                time.Time   `db:"updated_at"`
}

func (r masterAssetRow) toMasterAsset() catalog.MasterAsset {
	return catalog.MasterAsset{
		ID:                       r.ID,
		Name:                     r.Name,
		CategoryID:               r.CategoryID,
		Manufacturer:             r.Manufacturer,
		ModelNumber:              r.ModelNumber,
		ScreenSize:               r.ScreenSize,
		Resolution:               r.Resolution,
		PowerConsumption:         r.PowerConsumption,
		OperatingSystem:          r.OperatingSystem,
		MountType:                r.MountType,
		EstimatedMaintenanceTime: r.EstimatedMaintenanceTime,
		MaintenanceScheduleID:    r.MaintenanceScheduleID.Ptr(),
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
	}
}

func newMasterAssetRow(ma catalog.MasterAsset) masterAssetRow {
	return masterAssetRow{
		ID:                       ma.ID,
		Name:                     ma.Name,
		CategoryID:               ma.CategoryID,
		Manufacturer:             ma.Manufacturer,
		ModelNumber:              ma.ModelNumber,
		ScreenSize:               ma.ScreenSize,
		Resolution:               ma.Resolution,
		PowerConsumption:         ma.PowerConsumption,
		OperatingSystem:          ma.OperatingSystem,
		MountType:                ma.MountType,
		EstimatedMaintenanceTime: ma.EstimatedMaintenanceTime,
		MaintenanceScheduleID:    null.StringFromPtr(ma.MaintenanceScheduleID),
		CreatedAt:                ma.CreatedAt.UTC(),
		UpdatedAt:                ma.UpdatedAt.UTC(),
	}
}

type masterAssetRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*masterAssetRepository)(nil)

func NewMasterAssetRepository(db *sqlx.DB) catalog.Repository {
	return &masterAssetRepository{db: db}
}

func (repo *masterAssetRepository) CreateMasterAsset(ctx context.Context, ma catalog.MasterAsset) (catalog.MasterAsset, error) {
	ma.ID = uuid.New().String()
	row := newMasterAssetRow(ma)

	const query = `
		INSERT INTO master_asset (id, name, category_id, manufacturer, model_number, screen_size,
		                          resolution, power_consumption, operating_system, mount_type,
		                          estimated_maintenance_time, maintenance_schedule_id, created_at, updated_at)
		VALUES (:id, :name, :category_id, :manufacturer, :model_number, :screen_size,
		        :resolution, :power_consumption, :operating_system, :mount_type,
		        :estimated_maintenance_time, :maintenance_schedule_id, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return catalog.MasterAsset{}, errors.Wrap(err, "inserting master asset")
	}
	return ma, nil
}

func (repo *masterAssetRepository) QueryMasterAssets(ctx context.Context) ([]catalog.MasterAsset, error) {
	var rows []masterAssetRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM master_asset ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying master assets")
	}
	mas := make([]catalog.MasterAsset, 0, len(rows))
	for _, r := range rows {
		mas = append(mas, r.toMasterAsset())
	}
	return mas, nil
}

func (repo *masterAssetRepository) GetMasterAssetByID(ctx context.Context, id string) (catalog.MasterAsset, error) {
	var row masterAssetRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM master_asset WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return catalog.MasterAsset{}, catalog.ErrNotFound
		}
		return catalog.MasterAsset{}, errors.Wrap(err, "getting master asset")
	}
	return row.toMasterAsset(), nil
}

func (repo *masterAssetRepository) UpdateMasterAsset(ctx context.Context, ma catalog.MasterAsset) (catalog.MasterAsset, error) {
	row := newMasterAssetRow(ma)

	const query = `
		UPDATE master_asset
		SET name = :name, category_id = :category_id, manufacturer = :manufacturer,
		    model_number = :model_number, screen_size = :screen_size, resolution = :resolution,
		    power_consumption = :power_consumption, operating_system = :operating_system,
		    mount_type = :mount_type, estimated_maintenance_time = :estimated_maintenance_time,
		    maintenance_schedule_id = :maintenance_schedule_id, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return catalog.MasterAsset{}, errors.Wrap(err, "updating master asset")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.MasterAsset{}, catalog.ErrNotFound
	}
	return ma, nil
}

func (repo *masterAssetRepository) DeleteMasterAssetByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM master_asset WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting master asset")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (repo *masterAssetRepository) MasterAssetInUse(ctx context.Context, id string) (bool, error) {
	var inUse bool
	err := repo.db.GetContext(ctx, &inUse, `SELECT EXISTS (SELECT 1 FROM asset WHERE master_asset_id = $1)`, id)
	if err != nil {
		return false, errors.Wrap(err, "checking master asset references")
	}
	return inUse, nil
}

func (repo *masterAssetRepository) MasterAssetExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM master_asset WHERE id = $1)`, id)
	if err != nil {
		return false, errors.Wrap(err, "checking master asset existence")
	}
	return exists, nil
}
