package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kahenga/onyesha/core/location"
)

type nodeRow struct {
	ID        string      `db:"id"`
	Level     string      `db:"level"`
	Name      string      `db:"name"`
	ParentID  null.String `db:"parent_id"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r nodeRow) toNode() location.Node {
	return location.Node{
		ID:        r.ID,
		Level:     r.Level,
		Name:      r.Name,
		ParentID:  r.ParentID.String,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newNodeRow(node location.Node) nodeRow {
	return nodeRow{
		ID:        node.ID,
		Level:     node.Level,
		Name:      node.Name,
		ParentID:  null.NewString(node.ParentID, node.ParentID != ""),
		CreatedAt: node.CreatedAt.UTC(),
		UpdatedAt: node.UpdatedAt.UTC(),
	}
}

// assetNodeColumn maps a hierarchy level to the asset column scoping it.
func assetNodeColumn(level string) string {
	switch level {
	case location.LevelLocation:
		return "location_id"
	case location.LevelSection:
		return "section_id"
	case location.LevelSubSection:
		return "sub_section_id"
	case location.LevelZone:
		return "zone_id"
	}
	return ""
}

type locationRepository struct {
	db *sqlx.DB
}

var _ location.Repository = (*locationRepository)(nil)

func NewLocationRepository(db *sqlx.DB) location.Repository {
	return &locationRepository{db: db}
}

func (repo *locationRepository) CreateNode(ctx context.Context, node location.Node) (location.Node, error) {
	if !location.ValidLevel(node.Level) {
		return location.Node{}, location.ErrInvalidLevel
	}
	node.ID = uuid.New().String()
	row := newNodeRow(node)

	const query = `
		INSERT INTO location_node (id, level, name, parent_id, created_at, updated_at)
		VALUES (:id, :level, :name, :parent_id, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return location.Node{}, errors.Wrap(err, "inserting location entry")
	}
	return node, nil
}

func (repo *locationRepository) QueryHierarchy(ctx context.Context) (location.Hierarchy, error) {
	var rows []nodeRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM location_node ORDER BY name`); err != nil {
		return location.Hierarchy{}, errors.Wrap(err, "querying location hierarchy")
	}

	var h location.Hierarchy
	for _, r := range rows {
		node := r.toNode()
		switch node.Level {
		case location.LevelLocation:
			h.Locations = append(h.Locations, node)
		case location.LevelSection:
			h.Sections = append(h.Sections, node)
		case location.LevelSubSection:
			h.SubSections = append(h.SubSections, node)
		case location.LevelZone:
			h.Zones = append(h.Zones, node)
		}
	}
	return h, nil
}

func (repo *locationRepository) QueryChildren(ctx context.Context, level, parentID string) ([]location.Node, error) {
	if !location.ValidLevel(level) {
		return nil, location.ErrInvalidLevel
	}

	query := `SELECT * FROM location_node WHERE level = $1`
	args := []interface{}{level}
	if parentID != "" {
		query += ` AND parent_id = $2`
		args = append(args, parentID)
	}
	query += ` ORDER BY name`

	var rows []nodeRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying location entries")
	}
	nodes := make([]location.Node, 0, len(rows))
	for _, r := range rows {
		nodes = append(nodes, r.toNode())
	}
	return nodes, nil
}

func (repo *locationRepository) GetNode(ctx context.Context, level, id string) (location.Node, error) {
	var row nodeRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM location_node WHERE level = $1 AND id = $2`, level, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return location.Node{}, location.ErrNotFound
		}
		return location.Node{}, errors.Wrap(err, "getting location entry")
	}
	return row.toNode(), nil
}

func (repo *locationRepository) UpdateNode(ctx context.Context, node location.Node) (location.Node, error) {
	row := newNodeRow(node)

	const query = `
		UPDATE location_node
		SET name = :name, updated_at = :updated_at
		WHERE level = :level AND id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return location.Node{}, errors.Wrap(err, "updating location entry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return location.Node{}, location.ErrNotFound
	}
	return node, nil
}

func (repo *locationRepository) DeleteNode(ctx context.Context, level, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM location_node WHERE level = $1 AND id = $2`, level, id)
	if err != nil {
		return errors.Wrap(err, "deleting location entry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return location.ErrNotFound
	}
	return nil
}

func (repo *locationRepository) NodeInUse(ctx context.Context, level, id string) (bool, error) {
	col := assetNodeColumn(level)
	if col == "" {
		return false, location.ErrInvalidLevel
	}

	query := `
		SELECT EXISTS (SELECT 1 FROM location_node WHERE parent_id = $1)
		    OR EXISTS (SELECT 1 FROM asset WHERE ` + col + ` = $1)`
	var inUse bool
	if err := repo.db.GetContext(ctx, &inUse, query, id); err != nil {
		return false, errors.Wrap(err, "checking location entry references")
	}
	return inUse, nil
}
