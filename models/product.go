package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable item in the catalog. Its type specific
// data lives in the productable record referenced by ProductableType
// and ProductableID.
type Product struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"not null" json:"name" validate:"present"`
	Description     string          `gorm:"type:text;not null" json:"description" validate:"present"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price" validate:"required,nonnegative,decimallt=100000000"`
	Status          ProductStatus   `gorm:"not null" json:"status" validate:"required,enum"`
	Image           string          `json:"image"`
	ProductableType string          `gorm:"not null;index:idx_products_productable" json:"-"`
	ProductableID   uint            `gorm:"not null;index:idx_products_productable" json:"-"`

	Productable Productable `gorm:"-" json:"-"`
	Categories  []Category  `gorm:"-" json:"-"`
}

func (p *Product) TableName() string {
	return "products"
}

// Validate checks the product fields and that a productable is attached.
// The productable itself is validated separately.
func (p *Product) Validate(_ *gorm.DB) FieldErrors {
	fields := Validate(p)
	if p.Productable == nil {
		fields.Add("productable", "must exist")
	}
	return fields
}

// CategoryNames returns the names of the loaded categories.
func (p *Product) CategoryNames() []string {
	names := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		names[i] = c.Name
	}
	return names
}

// CategoryIDs returns the ids of the loaded categories.
func (p *Product) CategoryIDs() []uint {
	ids := make([]uint, len(p.Categories))
	for i, c := range p.Categories {
		ids[i] = c.ID
	}
	return ids
}
