package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core/maintenance"
)

type scheduleRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	ServiceType   string    `db:"service_type"`
	IntervalValue int       `db:"interval_value"`
	IntervalUnit  string    `db:"interval_unit"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r scheduleRow) toSchedule() maintenance.Schedule {
	return maintenance.Schedule{
		ID:          r.ID,
		Name:        r.Name,
		ServiceType: r.ServiceType,
		Interval:    maintenance.Interval{Value: r.IntervalValue, Unit: r.IntervalUnit},
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newScheduleRow(sched maintenance.Schedule) scheduleRow {
	return scheduleRow{
		ID:            sched.ID,
		Name:          sched.Name,
		ServiceType:   sched.ServiceType,
		IntervalValue: sched.Interval.Value,
		IntervalUnit:  sched.Interval.Unit,
		CreatedAt:     sched.CreatedAt.UTC(),
		UpdatedAt:     sched.UpdatedAt.UTC(),
	}
}

type scheduleRepository struct {
	db *sqlx.DB
}

var _ maintenance.Repository = (*scheduleRepository)(nil)

func NewScheduleRepository(db *sqlx.DB) maintenance.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) CreateSchedule(ctx context.Context, sched maintenance.Schedule) (maintenance.Schedule, error) {
	sched.ID = uuid.New().String()
	row := newScheduleRow(sched)

	const query = `
		INSERT INTO maintenance_schedule (id, name, service_type, interval_value, interval_unit, created_at, updated_at)
		VALUES (:id, :name, :service_type, :interval_value, :interval_unit, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return maintenance.Schedule{}, errors.Wrap(err, "inserting maintenance schedule")
	}
	return sched, nil
}

func (repo *scheduleRepository) QuerySchedules(ctx context.Context) ([]maintenance.Schedule, error) {
	var rows []scheduleRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM maintenance_schedule ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying maintenance schedules")
	}
	scheds := make([]maintenance.Schedule, 0, len(rows))
	for _, r := range rows {
		scheds = append(scheds, r.toSchedule())
	}
	return scheds, nil
}

func (repo *scheduleRepository) GetScheduleByID(ctx context.Context, id string) (maintenance.Schedule, error) {
	var row scheduleRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM maintenance_schedule WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return maintenance.Schedule{}, maintenance.ErrNotFound
		}
		return maintenance.Schedule{}, errors.Wrap(err, "getting maintenance schedule")
	}
	return row.toSchedule(), nil
}

func (repo *scheduleRepository) UpdateSchedule(ctx context.Context, sched maintenance.Schedule) (maintenance.Schedule, error) {
	row := newScheduleRow(sched)

	const query = `
		UPDATE maintenance_schedule
		SET name = :name, service_type = :service_type, interval_value = :interval_value,
		    interval_unit = :interval_unit, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return maintenance.Schedule{}, errors.Wrap(err, "updating maintenance schedule")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return maintenance.Schedule{}, maintenance.ErrNotFound
	}
	return sched, nil
}

func (repo *scheduleRepository) DeleteSchedulesByID(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	// detach assets and templates before removing the schedules
	const detachAssets = `
		UPDATE asset
		SET maintenance_schedule_id = NULL, next_maintenance_date = NULL
		WHERE maintenance_schedule_id = ANY($1)`
	if _, err = tx.ExecContext(ctx, detachAssets, pq.Array(ids)); err != nil {
		return 0, errors.Wrap(err, "detaching assets from schedules")
	}
	const detachMasters = `
		UPDATE master_asset
		SET maintenance_schedule_id = NULL
		WHERE maintenance_schedule_id = ANY($1)`
	if _, err = tx.ExecContext(ctx, detachMasters, pq.Array(ids)); err != nil {
		return 0, errors.Wrap(err, "detaching master assets from schedules")
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM maintenance_schedule WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, errors.Wrap(err, "deleting maintenance schedules")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "counting deleted schedules")
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing schedule deletion")
	}
	return int(n), nil
}
