package category

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core"
)

var (
	ErrNotFound   = errors.New("category not found")
	ErrNameExists = errors.New("a category with this name already exists")
	ErrInUse      = errors.New("category is referenced by existing assets")
)

type (
	Repository interface {
		// CheckNameUniqueness does a case-insensitive name check, ignoring
		// excluded categories.
		CheckNameUniqueness(ctx context.Context, name string, excluded ...Category) error
		CreateCategory(ctx context.Context, cat Category) (Category, error)
		// QueryCategories returns all categories ordered by name.
		QueryCategories(ctx context.Context) ([]Category, error)
		GetCategoryByID(ctx context.Context, id string) (Category, error)
		UpdateCategory(ctx context.Context, cat Category) (Category, error)
		DeleteCategoryByID(ctx context.Context, id string) error
		// CategoryInUse reports whether any asset or master asset references
		// the category.
		CategoryInUse(ctx context.Context, id string) (bool, error)
	}

	Service interface {
		CheckNameUniqueness(ctx context.Context, name string, excluded ...Category) error
		Create(ctx context.Context, nc NewCategory) (Category, error)
		Query(ctx context.Context) ([]Category, error)
		GetByID(ctx context.Context, id string) (Category, error)
		Update(ctx context.Context, id string, uc UpdateCategory) (Category, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckNameUniqueness(ctx context.Context, name string, excluded ...Category) error {
	if err := svc.repo.CheckNameUniqueness(ctx, name, excluded...); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nc NewCategory) (Category, error) {
	now := time.Now().UTC()
	cat := Category{
		Name:        nc.Name,
		Description: nc.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCategory(ctx, cat)
}

func (svc *service) Query(ctx context.Context) ([]Category, error) {
	return svc.repo.QueryCategories(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Category, error) {
	return svc.repo.GetCategoryByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateCategory) (Category, error) {
	orig, err := svc.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return Category{}, err
	}
	orig.Name = uc.Name
	orig.Description = uc.Description
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCategory(ctx, orig)
}

// Delete removes a category. It is rejected with a conflict while any asset
// or master asset still references the category.
func (svc *service) Delete(ctx context.Context, id string) error {
	inUse, err := svc.repo.CategoryInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return core.NewConflictError(ErrInUse.Error())
	}
	return svc.repo.DeleteCategoryByID(ctx, id)
}
