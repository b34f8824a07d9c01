package models

import (
	"context"

	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/config"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db      *gorm.DB
	options loading.Options
}

func NewCategoriesRepository(db *gorm.DB, paging config.PaginationConfig) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
		options: loadingOptions(paging,
			map[string]string{"name": "name"},
			map[string]string{"id": "id", "name": "name"},
		),
	}
}

func (r *CategoriesRepository) ListCategories(ctx context.Context, params loading.Params) (*loading.Result[Category], error) {
	return list[Category](ctx, r.db, params, r.options)
}

func (r *CategoriesRepository) GetCategory(ctx context.Context, id uint) (*Category, error) {
	return findByID[Category](ctx, r.db, id)
}

func (r *CategoriesRepository) SaveCategory(ctx context.Context, category *Category) error {
	return save(ctx, r.db, category, func(*gorm.DB) FieldErrors {
		return Validate(category)
	})
}

// DeleteCategory removes the category and its join rows. Products stay.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, category *Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).Delete(&ProductCategory{}).Error; err != nil {
			return errors.Wrap(err, "delete category joins")
		}
		return errors.Wrap(tx.Delete(category).Error, "delete category")
	})
}
