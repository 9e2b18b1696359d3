package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kahenga/onyesha/core/asset"
)

type assetRepository struct {
	db *DB
}

func NewAssetRepository(db *DB) asset.Repository {
	return &assetRepository{db: db}
}

func (repo *assetRepository) CreateAsset(ctx context.Context, ast asset.Asset) (asset.Asset, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ast.ID = uuid.New().String()
	repo.db.assets[ast.ID] = &ast
	return ast, nil
}

func (repo *assetRepository) QueryAssets(ctx context.Context) ([]asset.Asset, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	assets := make([]asset.Asset, 0, len(repo.db.assets))
	for _, ast := range repo.db.assets {
		assets = append(assets, *ast)
	}
	sort.Slice(assets, func(i, j int) bool {
		if assets[i].CreatedAt.Equal(assets[j].CreatedAt) {
			return assets[i].ID < assets[j].ID
		}
		return assets[i].CreatedAt.After(assets[j].CreatedAt)
	})
	return assets, nil
}

func (repo *assetRepository) GetAssetByID(ctx context.Context, id string) (asset.Asset, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ast, ok := repo.db.assets[id]; ok {
		return *ast, nil
	}
	return asset.Asset{}, asset.ErrNotFound
}

func (repo *assetRepository) UpdateAsset(ctx context.Context, ast asset.Asset) (asset.Asset, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assets[ast.ID]; !ok {
		return asset.Asset{}, asset.ErrNotFound
	}
	repo.db.assets[ast.ID] = &ast
	return ast, nil
}

func (repo *assetRepository) DeleteAssetsByID(ctx context.Context, ids ...string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var count int
	for _, id := range ids {
		if _, ok := repo.db.assets[id]; ok {
			delete(repo.db.assets, id)
			count++
		}
	}
	return count, nil
}
