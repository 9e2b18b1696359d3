package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kahenga/onyesha/core/catalog"
)

type masterAssetRepository struct {
	db *DB
}

func NewMasterAssetRepository(db *DB) catalog.Repository {
	return &masterAssetRepository{db: db}
}

func (repo *masterAssetRepository) CreateMasterAsset(ctx context.Context, ma catalog.MasterAsset) (catalog.MasterAsset, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ma.ID = uuid.New().String()
	repo.db.masters[ma.ID] = &ma
	return ma, nil
}

func (repo *masterAssetRepository) QueryMasterAssets(ctx context.Context) ([]catalog.MasterAsset, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	mas := make([]catalog.MasterAsset, 0, len(repo.db.masters))
	for _, ma := range repo.db.masters {
		mas = append(mas, *ma)
	}
	sort.Slice(mas, func(i, j int) bool { return mas[i].Name < mas[j].Name })
	return mas, nil
}

func (repo *masterAssetRepository) GetMasterAssetByID(ctx context.Context, id string) (catalog.MasterAsset, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ma, ok := repo.db.masters[id]; ok {
		return *ma, nil
	}
	return catalog.MasterAsset{}, catalog.ErrNotFound
}

func (repo *masterAssetRepository) UpdateMasterAsset(ctx context.Context, ma catalog.MasterAsset) (catalog.MasterAsset, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.masters[ma.ID]; !ok {
		return catalog.MasterAsset{}, catalog.ErrNotFound
	}
	repo.db.masters[ma.ID] = &ma
	return ma, nil
}

func (repo *masterAssetRepository) DeleteMasterAssetByID(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.masters[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repo.db.masters, id)
	return nil
}

func (repo *masterAssetRepository) MasterAssetInUse(ctx context.Context, id string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, ast := range repo.db.assets {
		if ast.MasterAssetID != nil && *ast.MasterAssetID == id {
			return true, nil
		}
	}
	return false, nil
}

func (repo *masterAssetRepository) MasterAssetExists(ctx context.Context, id string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.masters[id]
	return ok, nil
}
