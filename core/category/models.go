package category

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kahenga/onyesha/core"
)

// Category groups assets and master assets (screens, players, mounts...).
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewCategory contains information needed to create a new Category.
type NewCategory struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

func (nc *NewCategory) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	nc.Name = core.CleanString(nc.Name)
	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckNameUniqueness(ctx, nc.Name)
}

// UpdateCategory defines what information may be provided to modify an
// existing Category.
type UpdateCategory struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (uc *UpdateCategory) Validate(ctx context.Context, orig Category, validate *validator.Validate, svc Service) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if uc.Description == nil {
		uc.Description = orig.Description
	}
	if err := validate.Struct(uc); err != nil {
		return err
	}
	return svc.CheckNameUniqueness(ctx, uc.Name, orig)
}
