package saving

import (
	"context"
	"fmt"
	"strings"

	"github.com/gamestore/store-admin/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Attribute keys with special meaning in Attributes.Product.
const (
	ProductableKey = "productable"
	CategoryIDsKey = "category_ids"
)

// NotSavedError reports that neither the product nor its productable
// was stored. Fields merges the messages of both records.
type NotSavedError struct {
	Fields models.FieldErrors
}

func (e *NotSavedError) Error() string {
	return "product not saved: " + e.Fields.String()
}

// Attributes carries the whitelisted input of a save. Product holds the
// product fields plus the productable tag and category_ids; Productable
// holds the fields of the productable variant.
type Attributes struct {
	Product     map[string]interface{}
	Productable map[string]interface{}
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Save creates a product when existing is nil, or updates existing. The
// product, its productable and its category joins are written in one
// transaction; on any validation failure nothing is written and a
// *NotSavedError is returned.
func (s *Service) Save(ctx context.Context, attrs Attributes, existing *models.Product) (*models.Product, error) {
	product := existing
	if product == nil {
		product = &models.Product{}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := models.FieldErrors{}

		productAttrs, tag, categoryIDs, hasCategories, err := splitProductAttributes(attrs.Product)
		if err != nil {
			return err
		}
		if err := assign(product, productAttrs, fields); err != nil {
			return err
		}

		if err := buildProductable(tx, product, tag, fields); err != nil {
			return err
		}
		if product.Productable != nil {
			if err := assign(product.Productable, attrs.Productable, fields); err != nil {
				return err
			}
			fields.Merge(product.Productable.Validate(tx))
		}
		fields.Merge(product.Validate(tx))

		if hasCategories {
			missing, err := models.MissingCategories(tx, categoryIDs)
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				fields.Add(CategoryIDsKey, fmt.Sprintf("contains unknown categories %v", missing))
			}
		}

		if fields.Any() {
			return &NotSavedError{Fields: fields}
		}

		if err := product.Productable.Persist(tx); err != nil {
			return err
		}
		product.ProductableType = product.Productable.Kind()
		product.ProductableID = product.Productable.PrimaryKey()
		if err := tx.Save(product).Error; err != nil {
			return errors.Wrap(err, "save product")
		}

		if hasCategories {
			if err := models.ReplaceProductCategories(tx, product.ID, categoryIDs); err != nil {
				return err
			}
		}
		return models.LoadProductAssociations(tx, product)
	})
	if err != nil {
		if existing != nil {
			s.reload(ctx, existing)
		}
		return nil, err
	}
	return product, nil
}

// reload restores existing to its stored state after a failed save so
// callers never observe attributes that were rolled back.
func (s *Service) reload(ctx context.Context, existing *models.Product) {
	if existing.ID == 0 {
		return
	}
	var fresh models.Product
	if err := s.db.WithContext(ctx).First(&fresh, existing.ID).Error; err != nil {
		return
	}
	if err := models.LoadProductAssociations(s.db.WithContext(ctx), &fresh); err != nil {
		return
	}
	*existing = fresh
}

func splitProductAttributes(in map[string]interface{}) (attrs map[string]interface{}, tag string, categoryIDs []uint, hasCategories bool, err error) {
	attrs = make(map[string]interface{}, len(in))
	for k, v := range in {
		switch k {
		case ProductableKey:
			if v != nil {
				tag = strings.TrimSpace(fmt.Sprint(v))
			}
		case CategoryIDsKey:
			hasCategories = true
			var holder struct {
				CategoryIDs []uint `json:"category_ids"`
			}
			if err := models.Assign(&holder, map[string]interface{}{CategoryIDsKey: v}); err != nil {
				var verr *models.ValidationError
				if errors.As(err, &verr) {
					return nil, "", nil, false, &NotSavedError{Fields: verr.Fields}
				}
				return nil, "", nil, false, err
			}
			categoryIDs = holder.CategoryIDs
		default:
			attrs[k] = v
		}
	}
	return attrs, tag, categoryIDs, hasCategories, nil
}

// assign decodes attrs onto record, collecting decode failures as field
// errors so they are reported together with validation messages.
func assign(record interface{}, attrs map[string]interface{}, fields models.FieldErrors) error {
	err := models.Assign(record, attrs)
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		fields.Merge(verr.Fields)
		return nil
	}
	return err
}

// buildProductable attaches the productable a save operates on: the
// stored one for persisted products, or a new variant chosen by tag.
func buildProductable(tx *gorm.DB, product *models.Product, tag string, fields models.FieldErrors) error {
	if product.Productable != nil {
		return nil
	}
	if product.ProductableType != "" && product.ProductableID != 0 {
		if err := models.LoadProductAssociations(tx, product); err != nil {
			return err
		}
		if product.Productable != nil {
			return nil
		}
	}
	if tag == "" {
		// Product.Validate reports the missing productable.
		return nil
	}
	kind, ok := models.LookupProductable(tag)
	if !ok {
		fields.Add(ProductableKey, "is not included in the list")
		return nil
	}
	product.Productable = kind.New()
	return nil
}
