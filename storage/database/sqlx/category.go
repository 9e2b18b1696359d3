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

	"github.com/kahenga/onyesha/core/category"
)

type categoryRow struct {
	ID          string      `db:"id"`
	Name        string      `db:"name"`
	Description null.String `db:"description"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r categoryRow) toCategory() category.Category {
	return category.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description.Ptr(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newCategoryRow(cat category.Category) categoryRow {
	return categoryRow{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: null.StringFromPtr(cat.Description),
		CreatedAt:   cat.CreatedAt.UTC(),
		UpdatedAt:   cat.UpdatedAt.UTC(),
	}
}

type categoryRepository struct {
	db *sqlx.DB
}

var _ category.Repository = (*categoryRepository)(nil)

func NewCategoryRepository(db *sqlx.DB) category.Repository {
	return &categoryRepository{db: db}
}

func (repo *categoryRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...category.Category) error {
	query := `SELECT count(*) FROM category WHERE LOWER(name) = LOWER($1)`
	args := []interface{}{name}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, cat := range excluded {
			ids = append(ids, cat.ID)
		}
		query += ` AND NOT (id = ANY($2))`
		args = append(args, pq.Array(ids))
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking category name uniqueness")
	}
	if count > 0 {
		return category.ErrNameExists
	}
	return nil
}

func (repo *categoryRepository) CreateCategory(ctx context.Context, cat category.Category) (category.Category, error) {
	cat.ID = uuid.New().String()
	row := newCategoryRow(cat)

	const query = `
		INSERT INTO category (id, name, description, created_at, updated_at)
		VALUES (:id, :name, :description, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return category.Category{}, errors.Wrap(trapUniqueViolation(err, func(string) error {
			return category.ErrNameExists
		}), "inserting category")
	}
	return cat, nil
}

func (repo *categoryRepository) QueryCategories(ctx context.Context) ([]category.Category, error) {
	var rows []categoryRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM category ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	cats := make([]category.Category, 0, len(rows))
	for _, r := range rows {
		cats = append(cats, r.toCategory())
	}
	return cats, nil
}

func (repo *categoryRepository) GetCategoryByID(ctx context.Context, id string) (category.Category, error) {
	var row categoryRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM category WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return category.Category{}, category.ErrNotFound
		}
		return category.Category{}, errors.Wrap(err, "getting category")
	}
	return row.toCategory(), nil
}

func (repo *categoryRepository) UpdateCategory(ctx context.Context, cat category.Category) (category.Category, error) {
	row := newCategoryRow(cat)

	const query = `
		UPDATE category
		SET name = :name, description = :description, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return category.Category{}, errors.Wrap(trapUniqueViolation(err, func(string) error {
			return category.ErrNameExists
		}), "updating category")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return category.Category{}, category.ErrNotFound
	}
	return cat, nil
}

func (repo *categoryRepository) DeleteCategoryByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM category WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting category")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return category.ErrNotFound
	}
	return nil
}

func (repo *categoryRepository) CategoryInUse(ctx context.Context, id string) (bool, error) {
	const query = `
		SELECT EXISTS (SELECT 1 FROM asset WHERE category_id = $1)
		    OR EXISTS (SELECT 1 FROM master_asset WHERE category_id = $1)`
	var inUse bool
	if err := repo.db.GetContext(ctx, &inUse, query, id); err != nil {
		return false, errors.Wrap(err, "checking category references")
	}
	return inUse, nil
}
