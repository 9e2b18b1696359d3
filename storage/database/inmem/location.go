package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kahenga/onyesha/core/asset"
	"github.com/kahenga/onyesha/core/location"
)

type locationRepository struct {
	db *DB
}

func NewLocationRepository(db *DB) location.Repository {
	return &locationRepository{db: db}
}

func (repo *locationRepository) level(level string) []location.Node {
	nodes := make([]location.Node, 0, len(repo.db.nodes[level]))
	for _, node := range repo.db.nodes[level] {
		nodes = append(nodes, *node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes
}

func (repo *locationRepository) CreateNode(ctx context.Context, node location.Node) (location.Node, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if !location.ValidLevel(node.Level) {
		return location.Node{}, location.ErrInvalidLevel
	}
	node.ID = uuid.New().String()
	repo.db.nodes[node.Level][node.ID] = &node
	return node, nil
}

func (repo *locationRepository) QueryHierarchy(ctx context.Context) (location.Hierarchy, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return location.Hierarchy{
		Locations:   repo.level(location.LevelLocation),
		Sections:    repo.level(location.LevelSection),
		SubSections: repo.level(location.LevelSubSection),
		Zones:       repo.level(location.LevelZone),
	}, nil
}

func (repo *locationRepository) QueryChildren(ctx context.Context, level, parentID string) ([]location.Node, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if !location.ValidLevel(level) {
		return nil, location.ErrInvalidLevel
	}
	nodes := make([]location.Node, 0)
	for _, node := range repo.level(level) {
		if parentID == "" || node.ParentID == parentID {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func (repo *locationRepository) GetNode(ctx context.Context, level, id string) (location.Node, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if !location.ValidLevel(level) {
		return location.Node{}, location.ErrInvalidLevel
	}
	if node, ok := repo.db.nodes[level][id]; ok {
		return *node, nil
	}
	return location.Node{}, location.ErrNotFound
}

func (repo *locationRepository) UpdateNode(ctx context.Context, node location.Node) (location.Node, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if !location.ValidLevel(node.Level) {
		return location.Node{}, location.ErrInvalidLevel
	}
	if _, ok := repo.db.nodes[node.Level][node.ID]; !ok {
		return location.Node{}, location.ErrNotFound
	}
	repo.db.nodes[node.Level][node.ID] = &node
	return node, nil
}

func (repo *locationRepository) DeleteNode(ctx context.Context, level, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if !location.ValidLevel(level) {
		return location.ErrInvalidLevel
	}
	if _, ok := repo.db.nodes[level][id]; !ok {
		return location.ErrNotFound
	}
	delete(repo.db.nodes[level], id)
	return nil
}

func (repo *locationRepository) NodeInUse(ctx context.Context, level, id string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if child := location.ChildLevel(level); child != "" {
		for _, node := range repo.db.nodes[child] {
			if node.ParentID == id {
				return true, nil
			}
		}
	}
	for _, ast := range repo.db.assets {
		if assetNodeID(ast, level) == id {
			return true, nil
		}
	}
	return false, nil
}

func assetNodeID(ast *asset.Asset, level string) string {
	switch level {
	case location.LevelLocation:
		return ast.LocationID
	case location.LevelSection:
		return ast.SectionID
	case location.LevelSubSection:
		return ast.SubSectionID
	case location.LevelZone:
		return ast.ZoneID
	}
	return ""
}
