package maintenance

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("maintenance schedule not found")

type (
	Repository interface {
		CreateSchedule(ctx context.Context, sched Schedule) (Schedule, error)
		QuerySchedules(ctx context.Context) ([]Schedule, error)
		GetScheduleByID(ctx context.Context, id string) (Schedule, error)
		UpdateSchedule(ctx context.Context, sched Schedule) (Schedule, error)
		// DeleteSchedulesByID removes schedules and clears any asset or master
		// asset references to them.
		DeleteSchedulesByID(ctx context.Context, ids ...string) (int, error)
	}

	Service interface {
		Create(ctx context.Context, ns NewSchedule) (Schedule, error)
		Query(ctx context.Context) ([]Schedule, error)
		GetByID(ctx context.Context, id string) (Schedule, error)
		Update(ctx context.Context, id string, us UpdateSchedule) (Schedule, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, ns NewSchedule) (Schedule, error) {
	now := time.Now().UTC()
	sched := Schedule{
		Name:        ns.Name,
		ServiceType: ns.ServiceType,
		Interval:    ns.Interval,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateSchedule(ctx, sched)
}

func (svc *service) Query(ctx context.Context) ([]Schedule, error) {
	return svc.repo.QuerySchedules(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Schedule, error) {
	return svc.repo.GetScheduleByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, us UpdateSchedule) (Schedule, error) {
	orig, err := svc.repo.GetScheduleByID(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	orig.Name = us.Name
	orig.ServiceType = us.ServiceType
	orig.Interval = *us.Interval
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSchedule(ctx, orig)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteSchedulesByID(ctx, ids...)
	return err
}
