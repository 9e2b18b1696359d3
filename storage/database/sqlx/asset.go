package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kahenga/onyesha/core"
	"github.com/kahenga/onyesha/core/asset"
)

type assetRow struct {
	ID            string      `db:"id"`
	Name          string      `db:"name"`
	CategoryID    string      `db:"category_id"`
	MasterAssetID null.String `db:"master_asset_id"`

	AssetLocation  string       `db:"asset_location"`
	GoogleLocation string       `db:"google_location"`
	Latitude       null.Float64 `db:"latitude"`
	Longitude      null.Float64 `db:"longitude"`
	LocationID     null.String  `db:"location_id"`
	SectionID      null.String  `db:"section_id"`
	SubSectionID   null.String  `db:"sub_section_id"`
	ZoneID         null.String  `db:"zone_id"`

	SerialNumber string `db:"serial_number"`
	MACAddress   string `db:"mac_address"`
	IPAddress    string `db:"ip_address"`

	Manufacturer     string       `db:"manufacturer"`
	ModelNumber      string       `db:"model_number"`
	ScreenSize       string       `db:"screen_size"`
	CustomScreenSize null.Float64 `db:"custom_screen_size"`
	Resolution       string       `db:"resolution"`
	CustomResolution string       `db:"custom_resolution"`
	PowerConsumption float64      `db:"power_consumption"`
	OperatingSystem  string       `db:"operating_system"`
	Description      string       `db:"description"`

	PurchaseDate         null.Time `db:"purchase_date"`
	InstallationDate     null.Time `db:"installation_date"`
	WarrantyStartDate    null.Time `db:"warranty_start_date"`
	WarrantyPeriodMonths null.Int  `db:"warranty_period_months"`
	WarrantyEndDate      null.Time `db:"warranty_end_date"`
	Status               string    `db:"status"`

	ContentManagementSystem string `db:"content_management_system"`
	DisplayOrientation      string `db:"display_orientation"`
	OperatingHours          int    `db:"operating_hours"`
	BrightnessLevel         int    `db:"brightness_level"`

	MaintenanceScheduleID null.String `db:"maintenance_schedule_id"`
	LastMaintenanceDate   null.Time   `db:"last_maintenance_date"`
	NextMaintenanceDate   null.Time   `db:"next_maintenance_date"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func nullTimePtr(t *time.Time) null.Time {
	if t == nil {
		return null.Time{}
	}
	return null.TimeFrom(t.UTC())
}

func timePtr(t null.Time) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func (r assetRow) toAsset() asset.Asset {
	return asset.Asset{
		ID:            r.ID,
		Name:          r.Name,
		CategoryID:    r.CategoryID,
		MasterAssetID: r.MasterAssetID.Ptr(),

		AssetLocation:  r.AssetLocation,
		GoogleLocation: r.GoogleLocation,
		Latitude:       r.Latitude.Ptr(),
		Longitude:      r.Longitude.Ptr(),
		LocationID:     r.LocationID.String,
		SectionID:      r.SectionID.String,
		SubSectionID:   r.SubSectionID.String,
		ZoneID:         r.ZoneID.String,

		SerialNumber: r.SerialNumber,
		MACAddress:   r.MACAddress,
		IPAddress:    r.IPAddress,

		Manufacturer:     r.Manufacturer,
		ModelNumber:      r.ModelNumber,
		ScreenSize:       r.ScreenSize,
		CustomScreenSize: r.CustomScreenSize.Ptr(),
		Resolution:       r.Resolution,
		CustomResolution: r.CustomResolution,
		PowerConsumption: r.PowerConsumption,
		OperatingSystem:  r.OperatingSystem,
		Description:      r.Description,

		PurchaseDate:         timePtr(r.PurchaseDate),
		InstallationDate:     timePtr(r.InstallationDate),
		WarrantyStartDate:    timePtr(r.WarrantyStartDate),
		WarrantyPeriodMonths: intPtrFromNull(r.WarrantyPeriodMonths),
		WarrantyEndDate:      timePtr(r.WarrantyEndDate),
		Status:               r.Status,

		ContentManagementSystem: r.ContentManagementSystem,
		DisplayOrientation:      r.DisplayOrientation,
		OperatingHours:          r.OperatingHours,
		BrightnessLevel:         r.BrightnessLevel,

		MaintenanceScheduleID: r.MaintenanceScheduleID.Ptr(),
		LastMaintenanceDate:   timePtr(r.LastMaintenanceDate),
		NextMaintenanceDate:   timePtr(r.NextMaintenanceDate),

		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func intPtrFromNull(n null.Int) *int {
	if !n.Valid {
		return nil
	}
	v := n.Int
	return &v
}

func nullIntPtr(p *int) null.Int {
	if p == nil {
		return null.Int{}
	}
	return null.IntFrom(*p)
}

func newAssetRow(ast asset.Asset) assetRow {
	return assetRow{
		ID:            ast.ID,
		Name:          ast.Name,
		CategoryID:    ast.CategoryID,
		MasterAssetID: null.StringFromPtr(ast.MasterAssetID),

		AssetLocation:  ast.AssetLocation,
		GoogleLocation: ast.GoogleLocation,
		Latitude:       null.Float64FromPtr(ast.Latitude),
		Longitude:      null.Float64FromPtr(ast.Longitude),
		LocationID:     null.NewString(ast.LocationID, ast.LocationID != ""),
		SectionID:      null.NewString(ast.SectionID, ast.SectionID != ""),
		SubSectionID:   null.NewString(ast.SubSectionID, ast.SubSectionID != ""),
		ZoneID:         null.NewString(ast.ZoneID, ast.ZoneID != ""),

		SerialNumber: ast.SerialNumber,
		MACAddress:   ast.MACAddress,
		IPAddress:    ast.IPAddress,

		Manufacturer:     ast.Manufacturer,
		ModelNumber:      ast.ModelNumber,
		ScreenSize:       ast.ScreenSize,
		CustomScreenSize: null.Float64FromPtr(ast.CustomScreenSize),
		Resolution:       ast.Resolution,
		CustomResolution: ast.CustomResolution,
		PowerConsumption: ast.PowerConsumption,
		OperatingSystem:  ast.OperatingSystem,
		Description:      ast.Description,

		PurchaseDate:         nullTimePtr(ast.PurchaseDate),
		InstallationDate:     nullTimePtr(ast.InstallationDate),
		WarrantyStartDate:    nullTimePtr(ast.WarrantyStartDate),
		WarrantyPeriodMonths: nullIntPtr(ast.WarrantyPeriodMonths),
		WarrantyEndDate:      nullTimePtr(ast.WarrantyEndDate),
		Status:               ast.Status,

		ContentManagementSystem: ast.ContentManagementSystem,
		DisplayOrientation:      ast.DisplayOrientation,
		OperatingHours:          ast.OperatingHours,
		BrightnessLevel:         ast.BrightnessLevel,

		MaintenanceScheduleID: null.StringFromPtr(ast.MaintenanceScheduleID),
		LastMaintenanceDate:   nullTimePtr(ast.LastMaintenanceDate),
		NextMaintenanceDate:   nullTimePtr(ast.NextMaintenanceDate),

		CreatedAt: ast.CreatedAt.UTC(),
		UpdatedAt: ast.UpdatedAt.UTC(),
	}
}

const assetColumns = `id, name, category_id, master_asset_id,
	asset_location, google_location, latitude, longitude,
	location_id, section_id, sub_section_id, zone_id,
	serial_number, mac_address, ip_address,
	manufacturer, model_number, screen_size, custom_screen_size, resolution, custom_resolution,
	power_consumption, operating_system, description,
	purchase_date, installation_date, warranty_start_date, warranty_period_months, warranty_end_date, status,
	content_management_system, display_orientation, operating_hours, brightness_level,
	maintenance_schedule_id, last_maintenance_date, next_maintenance_date,
	created_at, updated_at`

const assetBindings = `:id, :name, :category_id, :master_asset_id,
	:asset_location, :google_location, :latitude, :longitude,
	:location_id, :section_id, :sub_section_id, :zone_id,
	:serial_number, :mac_address, :ip_address,
	:manufacturer, :model_number, :screen_size, :custom_screen_size, :resolution, :custom_resolution,
	:power_consumption, :operating_system, :description,
	:purchase_date, :installation_date, :warranty_start_date, :warranty_period_months, :warranty_end_date, :status,
	:content_management_system, :display_orientation, :operating_hours, :brightness_level,
	:maintenance_schedule_id, :last_maintenance_date, :next_maintenance_date,
	:created_at, :updated_at`

type assetRepository struct {
	db *sqlx.DB
}

var _ asset.Repository = (*assetRepository)(nil)

func NewAssetRepository(db *sqlx.DB) asset.Repository {
	return &assetRepository{db: db}
}

func (repo *assetRepository) CreateAsset(ctx context.Context, ast asset.Asset) (asset.Asset, error) {
	ast.ID = uuid.New().String()
	row := newAssetRow(ast)

	query := `INSERT INTO asset (` + assetColumns + `) VALUES (` + assetBindings + `)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return asset.Asset{}, errors.Wrap(err, "inserting asset")
	}
	return ast, nil
}

func (repo *assetRepository) QueryAssets(ctx context.Context) ([]asset.Asset, error) {
	var rows []assetRow
	query := `SELECT * FROM asset` + orderBy(core.DBOrdering{Field: "created_at"}, core.DBOrdering{Field: "id", Ascending: true})
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying assets")
	}
	assets := make([]asset.Asset, 0, len(rows))
	for _, r := range rows {
		assets = append(assets, r.toAsset())
	}
	return assets, nil
}

func (repo *assetRepository) GetAssetByID(ctx context.Context, id string) (asset.Asset, error) {
	var row assetRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM asset WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return asset.Asset{}, asset.ErrNotFound
		}
		return asset.Asset{}, errors.Wrap(err, "getting asset")
	}
	return row.toAsset(), nil
}

func (repo *assetRepository) UpdateAsset(ctx context.Context, ast asset.Asset) (asset.Asset, error) {
	row := newAssetRow(ast)

	const query = `
		UPDATE asset
		SET name = :name, category_id = :category_id, master_asset_id = :master_asset_id,
		    asset_location = :asset_location, google_location = :google_location,
		    latitude = :latitude, longitude = :longitude,
		    location_id = :location_id, section_id = :section_id,
		    sub_section_id = :sub_section_id, zone_id = :zone_id,
		    serial_number = :serial_number, mac_address = :mac_address, ip_address = :ip_address,
		    manufacturer = :manufacturer, model_number = :model_number, screen_size = :screen_size,
		    custom_screen_size = :custom_screen_size, resolution = :resolution,
		    custom_resolution = :custom_resolution, power_consumption = :power_consumption,
		    operating_system = :operating_system, description = :description,
		    purchase_date = :purchase_date, installation_date = :installation_date,
		    warranty_start_date = :warranty_start_date, warranty_period_months = :warranty_period_months,
		    warranty_end_date = :warranty_end_date, status = :status,
		    content_management_system = :content_management_system,
		    display_orientation = :display_orientation, operating_hours = :operating_hours,
		    brightness_level = :brightness_level,
		    maintenance_schedule_id = :maintenance_schedule_id,
		    last_maintenance_date = :last_maintenance_date,
		    next_maintenance_date = :next_maintenance_date,
		    updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return asset.Asset{}, errors.Wrap(err, "updating asset")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return asset.Asset{}, asset.ErrNotFound
	}
	return ast, nil
}

func (repo *assetRepository) DeleteAssetsByID(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM asset WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, errors.Wrap(err, "deleting assets")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "counting deleted assets")
	}
	return int(n), nil
}
