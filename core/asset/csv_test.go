package asset_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/kahenga/onyesha/core/asset"
	"github.com/kahenga/onyesha/core/category"
	"github.com/kahenga/onyesha/core/location"
	inmemdb "github.com/kahenga/onyesha/storage/database/inmem"
)

type csvFixture struct {
	svc       asset.Service
	assetRepo asset.Repository
	cat       category.Category
	loc       location.Node
}

func newCSVFixture(t *testing.T) *csvFixture {
	t.Helper()
	ctx := context.Background()

	db := inmemdb.Open()
	assetRepo := inmemdb.NewAssetRepository(db)
	catRepo := inmemdb.NewCategoryRepository(db)
	locRepo := inmemdb.NewLocationRepository(db)
	schedRepo := inmemdb.NewScheduleRepository(db)
	masterRepo := inmemdb.NewMasterAssetRepository(db)

	cat, err := catRepo.CreateCategory(ctx, category.Category{Name: "Screens"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	loc, err := locRepo.CreateNode(ctx, location.Node{Level: location.LevelLocation, Name: "HQ"})
	if err != nil {
		t.Fatalf("CreateNode() error = %v", err)
	}

	return &csvFixture{
		svc:       asset.NewService(assetRepo, catRepo, locRepo, schedRepo, masterRepo),
		assetRepo: assetRepo,
		cat:       cat,
		loc:       loc,
	}
}

// row builds a full-width record with only the named columns set.
func row(cols map[int]string) []string {
	rec := make([]string, len(asset.ExportHeader))
	for i, v := range cols {
		rec[i] = v
	}
	return rec
}

func buildCSV(t *testing.T, rows ...[]string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(asset.ExportHeader); err != nil {
		t.Fatalf("writing header: %v", err)
	}
	for _, rec := range rows {
		if err := w.Write(rec); err != nil {
			t.Fatalf("writing row: %v", err)
		}
	}
	w.Flush()
	return &buf
}

const (
	colName        = 1
	colCategoryID  = 2
	colLocationID  = 8
	colSerial      = 9
	colPower       = 18
	colPurchase    = 21
	colOrientation = 26
	colHours       = 27
)

func TestImportCSV(t *testing.T) {
	fix := newCSVFixture(t)
	ctx := context.Background()

	buf := buildCSV(t,
		row(map[int]string{
			0:             "should-be-ignored",
			colName:       "Lobby Screen",
			colCategoryID: fix.cat.ID,
			colLocationID: fix.loc.ID,
			colSerial:     "SN-001",
			colPower:      "120",
			colPurchase:   "2024-01-15",
		}),
		row(map[int]string{
			colName:        "Cafeteria Board",
			colCategoryID:  fix.cat.ID,
			colOrientation: "Portrait",
			colHours:       "12",
		}),
		row(map[int]string{
			colName:       "Warehouse Player",
			colCategoryID: fix.cat.ID,
		}),
		row(map[int]string{ // row 5: unknown category
			colName:       "Ghost Asset",
			colCategoryID: "nope",
		}),
		row(map[int]string{ // row 6: bad date
			colName:       "Bad Date Asset",
			colCategoryID: fix.cat.ID,
			colPurchase:   "15/01/2024",
		}),
	)

	res, err := fix.svc.ImportCSV(ctx, buf)
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if res.Imported != 3 {
		t.Errorf("Imported = %d, want 3", res.Imported)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2", len(res.Errors))
	}
	if res.Errors[0].Row != 5 || !strings.Contains(res.Errors[0].Reason, "category") {
		t.Errorf("Errors[0] = %+v, want row 5 category error", res.Errors[0])
	}
	if res.Errors[1].Row != 6 || !strings.Contains(res.Errors[1].Reason, "purchase date") {
		t.Errorf("Errors[1] = %+v, want row 6 purchase date error", res.Errors[1])
	}

	assets, err := fix.assetRepo.QueryAssets(ctx)
	if err != nil {
		t.Fatalf("QueryAssets() error = %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("stored %d assets, want 3", len(assets))
	}
	ids := make(map[string]bool)
	for _, a := range assets {
		if a.ID == "" || a.ID == "should-be-ignored" {
			t.Errorf("asset %q kept a client-supplied id: %q", a.Name, a.ID)
		}
		ids[a.ID] = true
		if a.CategoryID != fix.cat.ID {
			t.Errorf("asset %q category = %q, want %q", a.Name, a.CategoryID, fix.cat.ID)
		}
		if a.Status != asset.StatusActive {
			t.Errorf("asset %q status = %q, want %q", a.Name, a.Status, asset.StatusActive)
		}
	}
	if len(ids) != 3 {
		t.Errorf("assets share ids: %v", ids)
	}
}

func TestImportCSVDefaults(t *testing.T) {
	fix := newCSVFixture(t)
	ctx := context.Background()

	buf := buildCSV(t, row(map[int]string{
		colName:       "Bare Minimum",
		colCategoryID: fix.cat.ID,
	}))

	res, err := fix.svc.ImportCSV(ctx, buf)
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if res.Imported != 1 || len(res.Errors) != 0 {
		t.Fatalf("ImportCSV() = %+v, want 1 imported and no errors", res)
	}

	assets, _ := fix.assetRepo.QueryAssets(ctx)
	a := assets[0]
	if a.DisplayOrientation != asset.OrientationLandscape {
		t.Errorf("DisplayOrientation = %q, want %q", a.DisplayOrientation, asset.OrientationLandscape)
	}
	if a.OperatingHours != 8 {
		t.Errorf("OperatingHours = %d, want 8", a.OperatingHours)
	}
	if a.WarrantyPeriodMonths == nil || *a.WarrantyPeriodMonths != 12 {
		t.Errorf("WarrantyPeriodMonths = %v, want 12", a.WarrantyPeriodMonths)
	}
}

func TestImportCSVRejectsBadHeader(t *testing.T) {
	fix := newCSVFixture(t)

	if _, err := fix.svc.ImportCSV(context.Background(), strings.NewReader("Name,Category\nfoo,bar\n")); err == nil {
		t.Error("ImportCSV() accepted a malformed header")
	}
}

func TestExportCSVRoundTrip(t *testing.T) {
	fix := newCSVFixture(t)
	ctx := context.Background()

	buf := buildCSV(t,
		row(map[int]string{colName: "Lobby Screen", colCategoryID: fix.cat.ID, colSerial: "SN-001"}),
		row(map[int]string{colName: "Cafeteria Board", colCategoryID: fix.cat.ID, colSerial: "SN-002"}),
	)
	if _, err := fix.svc.ImportCSV(ctx, buf); err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}

	var out bytes.Buffer
	n, err := fix.svc.ExportCSV(ctx, &out, asset.FilterState{})
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ExportCSV() = %d rows, want 2", n)
	}

	records, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatalf("reading exported CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("exported %d records incl header, want 3", len(records))
	}
	// exported category name column resolves from the store
	for _, rec := range records[1:] {
		if rec[3] != "Screens" {
			t.Errorf("Category column = %q, want %q", rec[3], "Screens")
		}
	}
}
