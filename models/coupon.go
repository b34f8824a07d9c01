package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon grants a discount until its due date.
type Coupon struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"not null;uniqueIndex" json:"code" validate:"present"`
	Status        CouponStatus    `gorm:"not null" json:"status" validate:"required,enum"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount_value" validate:"required,positive,decimallt=100000000"`
	DueDate       time.Time       `gorm:"not null" json:"due_date" validate:"required,future"`
}

func (c *Coupon) TableName() string {
	return "coupons"
}
