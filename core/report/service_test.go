package report_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/kahenga/onyesha/core/asset"
	"github.com/kahenga/onyesha/core/catalog"
	"github.com/kahenga/onyesha/core/category"
	"github.com/kahenga/onyesha/core/maintenance"
	"github.com/kahenga/onyesha/core/report"
	inmemdb "github.com/kahenga/onyesha/storage/database/inmem"
)

func intPtr(i int) *int { return &i }

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	assetRepo := inmemdb.NewAssetRepository(db)
	catRepo := inmemdb.NewCategoryRepository(db)
	masterRepo := inmemdb.NewMasterAssetRepository(db)
	schedRepo := inmemdb.NewScheduleRepository(db)

	screens, _ := catRepo.CreateCategory(ctx, category.Category{Name: "Screens"})
	players, _ := catRepo.CreateCategory(ctx, category.Category{Name: "Players"})
	empty, _ := catRepo.CreateCategory(ctx, category.Category{Name: "Mounts"})

	sched, _ := schedRepo.CreateSchedule(ctx, maintenance.Schedule{
		Name:     "Quarterly",
		Interval: maintenance.Interval{Value: 3, Unit: maintenance.UnitMonth},
	})

	_, _ = masterRepo.CreateMasterAsset(ctx, catalog.MasterAsset{Name: "55in Display", CategoryID: screens.ID, EstimatedMaintenanceTime: 30})
	_, _ = masterRepo.CreateMasterAsset(ctx, catalog.MasterAsset{Name: "Media Player", CategoryID: players.ID, EstimatedMaintenanceTime: 90})

	now := time.Now().UTC()
	warrantyStart := now.AddDate(0, -1, 0)
	expiredStart := now.AddDate(-2, 0, 0)
	lastServiced := now.AddDate(0, -6, 0)
	missedDue := now.AddDate(0, -3, 0)

	// two screens, one player; one overdue, one in warranty, one expired
	_, _ = assetRepo.CreateAsset(ctx, asset.Asset{
		Name:                  "Lobby Screen",
		CategoryID:            screens.ID,
		PowerConsumption:      120,
		WarrantyStartDate:     &warrantyStart,
		WarrantyPeriodMonths:  intPtr(24),
		MaintenanceScheduleID: &sched.ID,
		LastMaintenanceDate:   &lastServiced,
		NextMaintenanceDate:   &missedDue,
	})
	_, _ = assetRepo.CreateAsset(ctx, asset.Asset{
		Name:                 "Cafeteria Board",
		CategoryID:           screens.ID,
		PowerConsumption:     80,
		WarrantyStartDate:    &expiredStart,
		WarrantyPeriodMonths: intPtr(12),
	})
	_, _ = assetRepo.CreateAsset(ctx, asset.Asset{
		Name:             "Warehouse Player",
		CategoryID:       players.ID,
		PowerConsumption: 25,
	})

	svc := report.NewService(assetRepo, catRepo, masterRepo, schedRepo)
	dash, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	if dash.TotalAssets != 3 || dash.TotalCategories != 3 || dash.TotalMasterAssets != 2 || dash.TotalSchedules != 1 {
		t.Errorf("totals = %d/%d/%d/%d, want 3/3/2/1",
			dash.TotalAssets, dash.TotalCategories, dash.TotalMasterAssets, dash.TotalSchedules)
	}

	wantByCategory := map[string]int{screens.ID: 2, players.ID: 1, empty.ID: 0}
	if len(dash.ByCategory) != 3 {
		t.Fatalf("len(ByCategory) = %d, want 3 (empty categories included)", len(dash.ByCategory))
	}
	var pctSum float64
	for _, cc := range dash.ByCategory {
		if cc.Count != wantByCategory[cc.CategoryID] {
			t.Errorf("category %s count = %d, want %d", cc.Name, cc.Count, wantByCategory[cc.CategoryID])
		}
		pctSum += cc.Percentage
	}
	if math.Abs(pctSum-100) > 1e-9 {
		t.Errorf("category percentages sum to %v, want 100", pctSum)
	}

	if got := dash.ByMaintenanceStatus[maintenance.StatusOverdue]; got != 1 {
		t.Errorf("overdue count = %d, want 1", got)
	}
	if got := dash.ByMaintenanceStatus[maintenance.StatusNoMaintenance]; got != 2 {
		t.Errorf("no_maintenance count = %d, want 2", got)
	}

	if dash.Warranty.Expired != 1 || dash.Warranty.Unknown != 1 || dash.Warranty.Active+dash.Warranty.Expiring != 1 {
		t.Errorf("warranty buckets = %+v", dash.Warranty)
	}

	if dash.TotalPowerConsumption != 225 {
		t.Errorf("TotalPowerConsumption = %v, want 225", dash.TotalPowerConsumption)
	}
	if dash.AveragePowerConsumption != 75 {
		t.Errorf("AveragePowerConsumption = %v, want 75", dash.AveragePowerConsumption)
	}
	if dash.AverageMaintenanceTime != 60 {
		t.Errorf("AverageMaintenanceTime = %v, want 60", dash.AverageMaintenanceTime)
	}
}

func TestDashboardEmpty(t *testing.T) {
	db := inmemdb.Open()
	svc := report.NewService(
		inmemdb.NewAssetRepository(db),
		inmemdb.NewCategoryRepository(db),
		inmemdb.NewMasterAssetRepository(db),
		inmemdb.NewScheduleRepository(db),
	)

	dash, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if dash.TotalAssets != 0 || dash.AveragePowerConsumption != 0 || dash.AverageMaintenanceTime != 0 {
		t.Errorf("empty dashboard = %+v", dash)
	}
	for status, n := range dash.ByMaintenanceStatus {
		if n != 0 {
			t.Errorf("status %s count = %d, want 0", status, n)
		}
	}
}
