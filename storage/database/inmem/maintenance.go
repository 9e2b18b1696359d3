package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kahenga/onyesha/core/maintenance"
)

type scheduleRepository struct {
	db *DB
}

func NewScheduleRepository(db *DB) maintenance.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) CreateSchedule(ctx context.Context, sched maintenance.Schedule) (maintenance.Schedule, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sched.ID = uuid.New().String()
	repo.db.schedules[sched.ID] = &sched
	return sched, nil
}

func (repo *scheduleRepository) QuerySchedules(ctx context.Context) ([]maintenance.Schedule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	scheds := make([]maintenance.Schedule, 0, len(repo.db.schedules))
	for _, sched := range repo.db.schedules {
		scheds = append(scheds, *sched)
	}
	sort.Slice(scheds, func(i, j int) bool { return scheds[i].Name < scheds[j].Name })
	return scheds, nil
}

func (repo *scheduleRepository) GetScheduleByID(ctx context.Context, id string) (maintenance.Schedule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sched, ok := repo.db.schedules[id]; ok {
		return *sched, nil
	}
	return maintenance.Schedule{}, maintenance.ErrNotFound
}

func (repo *scheduleRepository) UpdateSchedule(ctx context.Context, sched maintenance.Schedule) (maintenance.Schedule, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.schedules[sched.ID]; !ok {
		return maintenance.Schedule{}, maintenance.ErrNotFound
	}
	repo.db.schedules[sched.ID] = &sched
	return sched, nil
}

func (repo *scheduleRepository) DeleteSchedulesByID(ctx context.Context, ids ...string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var count int
	for _, id := range ids {
		if _, ok := repo.db.schedules[id]; !ok {
			continue
		}
		delete(repo.db.schedules, id)
		count++

		// detach the schedule from anything still pointing at it
		for _, ast := range repo.db.assets {
			if ast.MaintenanceScheduleID != nil && *ast.MaintenanceScheduleID == id {
				ast.MaintenanceScheduleID = nil
				ast.NextMaintenanceDate = nil
			}
		}
		for _, ma := range repo.db.masters {
			if ma.MaintenanceScheduleID != nil && *ma.MaintenanceScheduleID == id {
				ma.MaintenanceScheduleID = nil
			}
		}
	}
	return count, nil
}
