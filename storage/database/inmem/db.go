package inmemdb

import (
	"sync"

	"github.com/kahenga/onyesha/core/asset"
	"github.com/kahenga/onyesha/core/catalog"
	"github.com/kahenga/onyesha/core/category"
	"github.com/kahenga/onyesha/core/location"
	"github.com/kahenga/onyesha/core/maintenance"
	"github.com/kahenga/onyesha/core/user"
)

// DB is an in-memory store backing the repository interfaces in tests.
// A single lock guards all tables so cross-table checks (in-use scans,
// reference clearing) stay consistent.
type DB struct {
	mutex sync.RWMutex

	users      map[string]*user.User
	categories map[string]*category.Category
	masters    map[string]*catalog.MasterAsset
	nodes      map[string]map[string]*location.Node // level -> id
	schedules  map[string]*maintenance.Schedule
	assets     map[string]*asset.Asset
}

func Open() *DB {
	db := &DB{
		users:      make(map[string]*user.User),
		categories: make(map[string]*category.Category),
		masters:    make(map[string]*catalog.MasterAsset),
		nodes:      make(map[string]map[string]*location.Node),
		schedules:  make(map[string]*maintenance.Schedule),
		assets:     make(map[string]*asset.Asset),
	}
	for _, level := range location.Levels {
		db.nodes[level] = make(map[string]*location.Node)
	}
	return db
}
