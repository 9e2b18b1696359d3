package asset

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core"
	"github.com/kahenga/onyesha/core/category"
	"github.com/kahenga/onyesha/core/location"
)

// dateLayout is the date-only format used in import/export files.
const dateLayout = "2006-01-02"

// ExportHeader is the fixed column order of asset export files. Import files
// use the same layout; the ID and Category columns are ignored on import
// (ids are always freshly assigned, Category ID governs the category).
var ExportHeader = []string{
	"ID",
	"Asset Name",
	"Category ID",
	"Category",
	"Asset Location",
	"Google Location",
	"Latitude",
	"Longitude",
	"Location ID",
	"Serial Number",
	"MAC Address",
	"IP Address",
	"Manufacturer",
	"Model Number",
	"Screen Size",
	"Custom Screen Size",
	"Resolution",
	"Custom Resolution",
	"Power Consumption",
	"Operating System",
	"Description",
	"Purchase Date",
	"Installation Date",
	"Warranty Start Date",
	"Warranty Period (Months)",
	"Content Management System",
	"Display Orientation",
	"Operating Hours",
}

const (
	colID = iota
	colName
	colCategoryID
	colCategoryName
	colAssetLocation
	colGoogleLocation
	colLatitude
	colLongitude
	colLocationID
	colSerialNumber
	colMACAddress
	colIPAddress
	colManufacturer
	colModelNumber
	colScreenSize
	colCustomScreenSize
	colResolution
	colCustomResolution
	colPowerConsumption
	colOperatingSystem
	colDescription
	colPurchaseDate
	colInstallationDate
	colWarrantyStartDate
	colWarrantyPeriodMonths
	colCMS
	colDisplayOrientation
	colOperatingHours
)

// exportRow flattens an asset into the ExportHeader column order.
func exportRow(a Asset, categoryName string) []string {
	row := make([]string, len(ExportHeader))
	row[colID] = a.ID
	row[colName] = a.Name
	row[colCategoryID] = a.CategoryID
	row[colCategoryName] = categoryName
	row[colAssetLocation] = a.AssetLocation
	row[colGoogleLocation] = a.GoogleLocation
	row[colLatitude] = fmtFloatPtr(a.Latitude)
	row[colLongitude] = fmtFloatPtr(a.Longitude)
	row[colLocationID] = a.LocationID
	row[colSerialNumber] = a.SerialNumber
	row[colMACAddress] = a.MACAddress
	row[colIPAddress] = a.IPAddress
	row[colManufacturer] = a.Manufacturer
	row[colModelNumber] = a.ModelNumber
	row[colScreenSize] = a.ScreenSize
	row[colCustomScreenSize] = fmtFloatPtr(a.CustomScreenSize)
	row[colResolution] = a.Resolution
	row[colCustomResolution] = a.CustomResolution
	row[colPowerConsumption] = fmtFloat(a.PowerConsumption)
	row[colOperatingSystem] = a.OperatingSystem
	row[colDescription] = a.Description
	row[colPurchaseDate] = fmtDatePtr(a.PurchaseDate)
	row[colInstallationDate] = fmtDatePtr(a.InstallationDate)
	row[colWarrantyStartDate] = fmtDatePtr(a.WarrantyStartDate)
	row[colWarrantyPeriodMonths] = fmtIntPtr(a.WarrantyPeriodMonths)
	row[colCMS] = a.ContentManagementSystem
	row[colDisplayOrientation] = a.DisplayOrientation
	row[colOperatingHours] = strconv.Itoa(a.OperatingHours)
	return row
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func fmtFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return fmtFloat(*f)
}

func fmtIntPtr(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func fmtDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// ExportCSV writes the filtered asset list as CSV and returns the number of
// exported rows.
func (svc *service) ExportCSV(ctx context.Context, w io.Writer, fs FilterState) (int, error) {
	assets, catNames, err := svc.exportData(ctx, fs)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err = cw.Write(ExportHeader); err != nil {
		return 0, errors.Wrap(err, "writing CSV header")
	}
	for _, a := range assets {
		if err = cw.Write(exportRow(a, catNames[a.CategoryID])); err != nil {
			return 0, errors.Wrap(err, "writing CSV row")
		}
	}
	cw.Flush()
	return len(assets), errors.Wrap(cw.Error(), "flushing CSV")
}

func (svc *service) exportData(ctx context.Context, fs FilterState) ([]Asset, map[string]string, error) {
	assets, err := svc.repo.QueryAssets(ctx)
	if err != nil {
		return nil, nil, err
	}
	assets = Filter(assets, fs, svc.nowFunc())

	cats, err := svc.catRepo.QueryCategories(ctx)
	if err != nil {
		return nil, nil, err
	}
	catNames := make(map[string]string, len(cats))
	for _, c := range cats {
		catNames[c.ID] = c.Name
	}
	return assets, catNames, nil
}

type (
	// RowError reports one rejected import row.
	RowError struct {
		Row    int    `json:"row"` // 1-indexed file line, header is row 1
		Reason string `json:"reason"`
	}

	ImportResult struct {
		Imported int        `json:"imported"`
		Errors   []RowError `json:"errors"`
	}
)

// ImportCSV parses an asset CSV in the ExportHeader layout and inserts every
// well-formed row with a freshly assigned id. Rows that fail to parse or
// whose foreign keys do not resolve are rejected individually and reported
// with their row number and reason; they never block the remaining rows.
func (svc *service) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ExportHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return ImportResult{}, core.NewValidationError(errors.Wrap(err, "reading CSV header"))
	}
	if err = checkHeader(header); err != nil {
		return ImportResult{}, core.NewValidationError(err)
	}

	var res ImportResult
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: row, Reason: err.Error()})
			continue
		}

		ast, err := svc.parseRow(ctx, record)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: row, Reason: err.Error()})
			continue
		}
		if _, err = svc.repo.CreateAsset(ctx, ast); err != nil {
			res.Errors = append(res.Errors, RowError{Row: row, Reason: err.Error()})
			continue
		}
		res.Imported++
	}
	return res, nil
}

func checkHeader(header []string) error {
	if len(header) != len(ExportHeader) {
		return errors.Errorf("expected %d columns, got %d", len(ExportHeader), len(header))
	}
	for i, want := range ExportHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return errors.Errorf("column %d: expected %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

// parseRow maps a record by column position, resolving foreign keys against
// the store. The ID and Category columns are ignored.
func (svc *service) parseRow(ctx context.Context, record []string) (Asset, error) {
	get := func(col int) string { return strings.TrimSpace(record[col]) }

	name := get(colName)
	if name == "" {
		return Asset{}, errors.New("asset name is required")
	}

	catID := get(colCategoryID)
	if catID == "" {
		return Asset{}, errors.New("category id is required")
	}
	if _, err := svc.catRepo.GetCategoryByID(ctx, catID); err != nil {
		if errors.Cause(err) == category.ErrNotFound {
			return Asset{}, errors.Errorf("category %q not found", catID)
		}
		return Asset{}, err
	}

	locID := get(colLocationID)
	if locID != "" {
		if _, err := svc.locRepo.GetNode(ctx, location.LevelLocation, locID); err != nil {
			if errors.Cause(err) == location.ErrNotFound {
				return Asset{}, errors.Errorf("location %q not found", locID)
			}
			return Asset{}, err
		}
	}

	lat, err := parseFloatPtr(get(colLatitude), "latitude")
	if err != nil {
		return Asset{}, err
	}
	lng, err := parseFloatPtr(get(colLongitude), "longitude")
	if err != nil {
		return Asset{}, err
	}
	customSize, err := parseFloatPtr(get(colCustomScreenSize), "custom screen size")
	if err != nil {
		return Asset{}, err
	}

	var power float64
	if s := get(colPowerConsumption); s != "" {
		if power, err = strconv.ParseFloat(s, 64); err != nil {
			return Asset{}, errors.Errorf("invalid power consumption %q", s)
		}
	}

	purchase, err := parseDatePtr(get(colPurchaseDate), "purchase date")
	if err != nil {
		return Asset{}, err
	}
	installed, err := parseDatePtr(get(colInstallationDate), "installation date")
	if err != nil {
		return Asset{}, err
	}
	warrantyStart, err := parseDatePtr(get(colWarrantyStartDate), "warranty start date")
	if err != nil {
		return Asset{}, err
	}

	warrantyMonths := 12
	if s := get(colWarrantyPeriodMonths); s != "" {
		if warrantyMonths, err = strconv.Atoi(s); err != nil || warrantyMonths < 0 {
			return Asset{}, errors.Errorf("invalid warranty period %q", s)
		}
	}

	orientation := get(colDisplayOrientation)
	switch orientation {
	case "":
		orientation = OrientationLandscape
	case OrientationLandscape, OrientationPortrait:
	default:
		return Asset{}, errors.Errorf("invalid display orientation %q", orientation)
	}

	hours := defaultOperatingHours
	if s := get(colOperatingHours); s != "" {
		if hours, err = strconv.Atoi(s); err != nil || hours < 1 || hours > 24 {
			return Asset{}, errors.Errorf("invalid operating hours %q", s)
		}
	}

	now := svc.nowFunc().UTC()
	return Asset{
		Name:       name,
		CategoryID: catID,

		AssetLocation:  get(colAssetLocation),
		GoogleLocation: get(colGoogleLocation),
		Latitude:       lat,
		Longitude:      lng,
		LocationID:     locID,

		SerialNumber: get(colSerialNumber),
		MACAddress:   get(colMACAddress),
		IPAddress:    get(colIPAddress),

		Manufacturer:     get(colManufacturer),
		ModelNumber:      get(colModelNumber),
		ScreenSize:       get(colScreenSize),
		CustomScreenSize: customSize,
		Resolution:       get(colResolution),
		CustomResolution: get(colCustomResolution),
		PowerConsumption: power,
		OperatingSystem:  get(colOperatingSystem),
		Description:      get(colDescription),

		PurchaseDate:         purchase,
		InstallationDate:     installed,
		WarrantyStartDate:    warrantyStart,
		WarrantyPeriodMonths: &warrantyMonths,
		Status:               StatusActive,

		ContentManagementSystem: get(colCMS),
		DisplayOrientation:      orientation,
		OperatingHours:          hours,

		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func parseFloatPtr(s, field string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.Errorf("invalid %s %q", field, s)
	}
	return &f, nil
}

func parseDatePtr(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, errors.Errorf("invalid %s %q (want YYYY-MM-DD)", field, s)
	}
	t = t.UTC()
	return &t, nil
}
