package location

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kahenga/onyesha/core"
)

var (
	ErrNotFound     = errors.New("location entry not found")
	ErrInvalidLevel = errors.New("invalid hierarchy level")
	ErrInUse        = errors.New("entry is referenced by children or assets")
	errParentNeeded = errors.New("a parent is required at this level")
)

type (
	Repository interface {
		CreateNode(ctx context.Context, node Node) (Node, error)
		QueryHierarchy(ctx context.Context) (Hierarchy, error)
		// QueryChildren lists level entries under parentID, ordered by name.
		// An empty parentID lists a whole level (used for locations).
		QueryChildren(ctx context.Context, level, parentID string) ([]Node, error)
		GetNode(ctx context.Context, level, id string) (Node, error)
		UpdateNode(ctx context.Context, node Node) (Node, error)
		DeleteNode(ctx context.Context, level, id string) error
		// NodeInUse reports whether the entry still has children or assets
		// scoped to it.
		NodeInUse(ctx context.Context, level, id string) (bool, error)
	}

	Service interface {
		// CheckParent validates the immediate-parent reference for a new
		// entry at the given level.
		CheckParent(ctx context.Context, level, parentID string) error
		Create(ctx context.Context, level string, nn NewNode) (Node, error)
		Hierarchy(ctx context.Context) (Hierarchy, error)
		Children(ctx context.Context, level, parentID string) ([]Node, error)
		GetByID(ctx context.Context, level, id string) (Node, error)
		Rename(ctx context.Context, level, id string, rn RenameNode) (Node, error)
		Delete(ctx context.Context, level, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckParent(ctx context.Context, level, parentID string) error {
	if !ValidLevel(level) {
		return ErrInvalidLevel
	}
	parentLevel := ParentLevel(level)
	if parentLevel == "" {
		if parentID != "" {
			return core.NewValidationError(nil, core.FieldError{Field: "parent_id", Error: "locations have no parent"})
		}
		return nil
	}
	if parentID == "" {
		return core.NewValidationError(errParentNeeded, core.FieldError{Field: "parent_id", Error: errParentNeeded.Error()})
	}
	if _, err := svc.repo.GetNode(ctx, parentLevel, parentID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "parent_id", Error: "parent entry not found"})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, level string, nn NewNode) (Node, error) {
	now := time.Now().UTC()
	node := Node{
		Level:     level,
		Name:      nn.Name,
		ParentID:  nn.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateNode(ctx, node)
}

func (svc *service) Hierarchy(ctx context.Context) (Hierarchy, error) {
	return svc.repo.QueryHierarchy(ctx)
}

func (svc *service) Children(ctx context.Context, level, parentID string) ([]Node, error) {
	if !ValidLevel(level) {
		return nil, ErrInvalidLevel
	}
	return svc.repo.QueryChildren(ctx, level, parentID)
}

func (svc *service) GetByID(ctx context.Context, level, id string) (Node, error) {
	if !ValidLevel(level) {
		return Node{}, ErrInvalidLevel
	}
	return svc.repo.GetNode(ctx, level, id)
}

func (svc *service) Rename(ctx context.Context, level, id string, rn RenameNode) (Node, error) {
	node, err := svc.GetByID(ctx, level, id)
	if err != nil {
		return Node{}, err
	}
	node.Name = rn.Name
	node.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateNode(ctx, node)
}

// Delete removes an entry. It is rejected with a conflict while children or
// assets still reference the entry.
func (svc *service) Delete(ctx context.Context, level, id string) error {
	if !ValidLevel(level) {
		return ErrInvalidLevel
	}
	inUse, err := svc.repo.NodeInUse(ctx, level, id)
	if err != nil {
		return err
	}
	if inUse {
		return core.NewConflictError(ErrInUse.Error())
	}
	return svc.repo.DeleteNode(ctx, level, id)
}
