package models

import (
	"context"

	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/config"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type LicensesRepository struct {
	db      *gorm.DB
	options loading.Options
}

func NewLicensesRepository(db *gorm.DB, paging config.PaginationConfig) *LicensesRepository {
	return &LicensesRepository{
		db: db,
		options: loadingOptions(paging,
			map[string]string{"key": "key"},
			map[string]string{"id": "id", "key": "key", "status": "status", "platform": "platform", "game_id": "game_id"},
		),
	}
}

func (r *LicensesRepository) ListLicenses(ctx context.Context, params loading.Params) (*loading.Result[License], error) {
	return list[License](ctx, r.db, params, r.options)
}

func (r *LicensesRepository) GetLicense(ctx context.Context, id uint) (*License, error) {
	return findByID[License](ctx, r.db, id)
}

// SaveLicense stores the license once it references an existing game.
func (r *LicensesRepository) SaveLicense(ctx context.Context, license *License) error {
	return save(ctx, r.db, license, func(tx *gorm.DB) FieldErrors {
		fields := Validate(license)
		if license.GameID != 0 {
			var count int64
			if err := tx.Model(&Game{}).Where("id = ?", license.GameID).Count(&count).Error; err != nil {
				fields.Add("base", err.Error())
			} else if count == 0 {
				fields.Add("game", "must exist")
			}
		} else {
			fields.Add("game", "must exist")
		}
		return fields
	})
}

func (r *LicensesRepository) DeleteLicense(ctx context.Context, license *License) error {
	return errors.Wrap(r.db.WithContext(ctx).Delete(license).Error, "delete license")
}
