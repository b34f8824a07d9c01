package models

// Category groups products. Products and categories are linked through
// ProductCategory join rows.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name" validate:"present"`
}

func (c *Category) TableName() string {
	return "categories"
}
