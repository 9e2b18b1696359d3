package report

import (
	"context"
	"time"

	"github.com/kahenga/onyesha/core/asset"
	"github.com/kahenga/onyesha/core/catalog"
	"github.com/kahenga/onyesha/core/category"
	"github.com/kahenga/onyesha/core/maintenance"
)

// warrantyExpiringWindow matches the "expiring" bucket used by asset filters.
const warrantyExpiringWindow = 90 * 24 * time.Hour

type (
	// CategoryCount is one slice of the assets-by-category breakdown.
	CategoryCount struct {
		CategoryID string  `json:"category_id"`
		Name       string  `json:"name"`
		Count      int     `json:"count"`
		Percentage float64 `json:"percentage"`
	}

	// WarrantyBuckets counts assets by warranty state at report time.
	WarrantyBuckets struct {
		Active   int `json:"active"`
		Expiring int `json:"expiring"` // active, ending within 90 days
		Expired  int `json:"expired"`
		Unknown  int `json:"unknown"` // no warranty window recorded
	}

	Dashboard struct {
		TotalAssets       int `json:"total_assets"`
		TotalCategories   int `json:"total_categories"`
		TotalMasterAssets int `json:"total_master_assets"`
		TotalSchedules    int `json:"total_schedules"`

		ByCategory          []CategoryCount            `json:"by_category"`
		ByMaintenanceStatus map[maintenance.Status]int `json:"by_maintenance_status"`
		Warranty            WarrantyBuckets            `json:"warranty"`

		TotalPowerConsumption   float64 `json:"total_power_consumption"`   // watts
		AveragePowerConsumption float64 `json:"average_power_consumption"` // watts
		AverageMaintenanceTime  float64 `json:"average_maintenance_time"`  // minutes, from templates

		GeneratedAt time.Time `json:"generated_at"`
	}

	Service interface {
		Dashboard(ctx context.Context) (Dashboard, error)
	}

	service struct {
		assetRepo  asset.Repository
		catRepo    category.Repository
		masterRepo catalog.Repository
		schedRepo  maintenance.Repository
		nowFunc    func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(
	assetRepo asset.Repository,
	catRepo category.Repository,
	masterRepo catalog.Repository,
	schedRepo maintenance.Repository,
) Service {
	return &service{
		assetRepo:  assetRepo,
		catRepo:    catRepo,
		masterRepo: masterRepo,
		schedRepo:  schedRepo,
		nowFunc:    time.Now,
	}
}

func (svc *service) Dashboard(ctx context.Context) (Dashboard, error) {
	now := svc.nowFunc().UTC()

	assets, err := svc.assetRepo.QueryAssets(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	cats, err := svc.catRepo.QueryCategories(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	masters, err := svc.masterRepo.QueryMasterAssets(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	scheds, err := svc.schedRepo.QuerySchedules(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	dash := Dashboard{
		TotalAssets:         len(assets),
		TotalCategories:     len(cats),
		TotalMasterAssets:   len(masters),
		TotalSchedules:      len(scheds),
		ByCategory:          categoryBreakdown(assets, cats),
		ByMaintenanceStatus: maintenanceBreakdown(assets, scheds, now),
		Warranty:            warrantyBreakdown(assets, now),
		GeneratedAt:         now,
	}

	for _, a := range assets {
		dash.TotalPowerConsumption += a.PowerConsumption
	}
	if len(assets) > 0 {
		dash.AveragePowerConsumption = dash.TotalPowerConsumption / float64(len(assets))
	}

	var totalTime, counted int
	for _, ma := range masters {
		if ma.EstimatedMaintenanceTime > 0 {
			totalTime += ma.EstimatedMaintenanceTime
			counted++
		}
	}
	if counted > 0 {
		dash.AverageMaintenanceTime = float64(totalTime) / float64(counted)
	}
	return dash, nil
}

// categoryBreakdown counts assets per category, keeping empty categories so
// the dashboard shows the whole taxonomy.
func categoryBreakdown(assets []asset.Asset, cats []category.Category) []CategoryCount {
	counts := make(map[string]int, len(cats))
	for _, a := range assets {
		counts[a.CategoryID]++
	}

	breakdown := make([]CategoryCount, 0, len(cats))
	for _, cat := range cats {
		cc := CategoryCount{CategoryID: cat.ID, Name: cat.Name, Count: counts[cat.ID]}
		if len(assets) > 0 {
			cc.Percentage = float64(cc.Count) / float64(len(assets)) * 100
		}
		breakdown = append(breakdown, cc)
	}
	return breakdown
}

func maintenanceBreakdown(assets []asset.Asset, scheds []maintenance.Schedule, now time.Time) map[maintenance.Status]int {
	schedByID := make(map[string]maintenance.Schedule, len(scheds))
	for _, sched := range scheds {
		schedByID[sched.ID] = sched
	}

	byStatus := make(map[maintenance.Status]int, len(maintenance.AllStatuses))
	for _, status := range maintenance.AllStatuses {
		byStatus[status] = 0
	}
	for _, a := range assets {
		var sched *maintenance.Schedule
		if a.MaintenanceScheduleID != nil {
			if s, ok := schedByID[*a.MaintenanceScheduleID]; ok {
				sched = &s
			}
		}
		byStatus[a.MaintenanceStatusAt(now, sched)]++
	}
	return byStatus
}

func warrantyBreakdown(assets []asset.Asset, now time.Time) WarrantyBuckets {
	var b WarrantyBuckets
	for _, a := range assets {
		end := a.WarrantyEnd()
		switch {
		case end == nil:
			b.Unknown++
		case now.After(*end):
			b.Expired++
		case end.Before(now.Add(warrantyExpiringWindow)):
			b.Expiring++
		default:
			b.Active++
		}
	}
	return b
}
