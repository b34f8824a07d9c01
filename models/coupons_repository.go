package models

import (
	"context"

	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/config"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CouponsRepository struct {
	db      *gorm.DB
	options loading.Options
}

func NewCouponsRepository(db *gorm.DB, paging config.PaginationConfig) *CouponsRepository {
	return &CouponsRepository{
		db: db,
		options: loadingOptions(paging,
			map[string]string{"code": "code"},
			map[string]string{"id": "id", "code": "code", "due_date": "due_date", "discount_value": "discount_value", "status": "status"},
		),
	}
}

func (r *CouponsRepository) ListCoupons(ctx context.Context, params loading.Params) (*loading.Result[Coupon], error) {
	return list[Coupon](ctx, r.db, params, r.options)
}

func (r *CouponsRepository) GetCoupon(ctx context.Context, id uint) (*Coupon, error) {
	return findByID[Coupon](ctx, r.db, id)
}

// SaveCoupon validates the coupon, including case-insensitive code
// uniqueness and a due date after now, then stores it.
func (r *CouponsRepository) SaveCoupon(ctx context.Context, coupon *Coupon) error {
	return save(ctx, r.db, coupon, func(tx *gorm.DB) FieldErrors {
		return validateCoupon(tx, coupon)
	})
}

func validateCoupon(tx *gorm.DB, coupon *Coupon) FieldErrors {
	fields := Validate(coupon)
	if coupon.Code != "" {
		dup, err := taken(tx, &Coupon{}, "code", coupon.Code, coupon.ID)
		if err != nil {
			fields.Add("base", err.Error())
		} else if dup {
			fields.Add("code", "has already been taken")
		}
	}
	return fields
}

func (r *CouponsRepository) DeleteCoupon(ctx context.Context, coupon *Coupon) error {
	return errors.Wrap(r.db.WithContext(ctx).Delete(coupon).Error, "delete coupon")
}
