package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kahenga/onyesha/core/category"
)

type categoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) category.Repository {
	return &categoryRepository{db: db}
}

func (repo *categoryRepository) query() []category.Category {
	cats := make([]category.Category, 0, len(repo.db.categories))
	for _, cat := range repo.db.categories {
		cats = append(cats, *cat)
	}
	return cats
}

func (repo *categoryRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...category.Category) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, cat := range repo.query() {
		if !strings.EqualFold(cat.Name, name) {
			continue
		}
		if isExcludedCategory(cat, excluded) {
			continue
		}
		return category.ErrNameExists
	}
	return nil
}

func isExcludedCategory(cat category.Category, excluded []category.Category) bool {
	for _, excl := range excluded {
		if excl.ID == cat.ID {
			return true
		}
	}
	return false
}

func (repo *categoryRepository) CreateCategory(ctx context.Context, cat category.Category) (category.Category, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cat.ID = uuid.New().String()
	repo.db.categories[cat.ID] = &cat
	return cat, nil
}

func (repo *categoryRepository) QueryCategories(ctx context.Context) ([]category.Category, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	cats := repo.query()
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}

func (repo *categoryRepository) GetCategoryByID(ctx context.Context, id string) (category.Category, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cat, ok := repo.db.categories[id]; ok {
		return *cat, nil
	}
	return category.Category{}, category.ErrNotFound
}

func (repo *categoryRepository) UpdateCategory(ctx context.Context, cat category.Category) (category.Category, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.categories[cat.ID]; !ok {
		return category.Category{}, category.ErrNotFound
	}
	repo.db.categories[cat.ID] = &cat
	return cat, nil
}

func (repo *categoryRepository) DeleteCategoryByID(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.categories[id]; !ok {
		return category.ErrNotFound
	}
	delete(repo.db.categories, id)
	return nil
}

func (repo *categoryRepository) CategoryInUse(ctx context.Context, id string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, ast := range repo.db.assets {
		if ast.CategoryID == id {
			return true, nil
		}
	}
	for _, ma := range repo.db.masters {
		if ma.CategoryID == id {
			return true, nil
		}
	}
	return false, nil
}
