package models

import (
	"context"

	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/config"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ProductsRepository struct {
	db      *gorm.DB
	options loading.Options
}

func NewProductsRepository(db *gorm.DB, paging config.PaginationConfig) *ProductsRepository {
	return &ProductsRepository{
		db: db,
		options: loadingOptions(paging,
			map[string]string{"name": "name"},
			map[string]string{"id": "id", "name": "name", "price": "price", "status": "status"},
		),
	}
}

// ListProducts pages products and loads their categories and productables.
func (r *ProductsRepository) ListProducts(ctx context.Context, params loading.Params) (*loading.Result[Product], error) {
	res, err := list[Product](ctx, r.db, params, r.options)
	if err != nil {
		return nil, err
	}

	products := make([]*Product, len(res.Records))
	for i := range res.Records {
		products[i] = &res.Records[i]
	}
	if err := LoadProductAssociations(r.db.WithContext(ctx), products...); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ProductsRepository) GetProduct(ctx context.Context, id uint) (*Product, error) {
	product, err := findByID[Product](ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	if err := LoadProductAssociations(r.db.WithContext(ctx), product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product, its productable and its join rows.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&ProductCategory{}).Error; err != nil {
			return errors.Wrap(err, "delete product joins")
		}
		if product.Productable != nil {
			if err := product.Productable.Destroy(tx); err != nil {
				return err
			}
		}
		return errors.Wrap(tx.Delete(product).Error, "delete product")
	})
}

type productCategoryRow struct {
	ProductID uint
	ID        uint
	Name      string
}

// LoadProductAssociations fills Categories and Productable of products
// with one query per association kind.
func LoadProductAssociations(tx *gorm.DB, products ...*Product) error {
	if len(products) == 0 {
		return nil
	}

	byID := make(map[uint]*Product, len(products))
	ids := make([]uint, 0, len(products))
	byKind := map[string][]uint{}
	for _, p := range products {
		p.Categories = []Category{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
		if p.ProductableType != "" {
			byKind[p.ProductableType] = append(byKind[p.ProductableType], p.ProductableID)
		}
	}

	var rows []productCategoryRow
	err := tx.Table("product_categories").
		Select("product_categories.product_id, categories.id, categories.name").
		Joins("JOIN categories ON categories.id = product_categories.category_id").
		Where("product_categories.product_id IN ?", ids).
		Order("categories.id").
		Scan(&rows).Error
	if err != nil {
		return errors.Wrap(err, "load product categories")
	}
	for _, row := range rows {
		p := byID[row.ProductID]
		p.Categories = append(p.Categories, Category{ID: row.ID, Name: row.Name})
	}

	for tag, productableIDs := range byKind {
		kind, ok := LookupProductable(tag)
		if !ok {
			continue
		}
		found, err := kind.Find(tx, productableIDs)
		if err != nil {
			return err
		}
		for _, p := range products {
			if p.ProductableType == tag {
				p.Productable = found[p.ProductableID]
			}
		}
	}
	return nil
}

// ReplaceProductCategories makes categoryIDs the exact category set of the product.
func ReplaceProductCategories(tx *gorm.DB, productID uint, categoryIDs []uint) error {
	if err := tx.Where("product_id = ?", productID).Delete(&ProductCategory{}).Error; err != nil {
		return errors.Wrap(err, "delete product joins")
	}
	seen := make(map[uint]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := tx.Create(&ProductCategory{ProductID: productID, CategoryID: id}).Error; err != nil {
			return errors.Wrap(err, "create product join")
		}
	}
	return nil
}

// MissingCategories returns the ids in categoryIDs with no category row.
func MissingCategories(tx *gorm.DB, categoryIDs []uint) ([]uint, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var existing []uint
	if err := tx.Model(&Category{}).Where("id IN ?", categoryIDs).Pluck("id", &existing).Error; err != nil {
		return nil, errors.Wrap(err, "find categories")
	}
	found := make(map[uint]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	var missing []uint
	for _, id := range categoryIDs {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
