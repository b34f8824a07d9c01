package models

// ProductCategory is a join row between a product and a category.
type ProductCategory struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProductID  uint `gorm:"not null;index" json:"product_id"`
	CategoryID uint `gorm:"not null;index" json:"category_id"`
}

func (pc *ProductCategory) TableName() string {
	return "product_categories"
}
