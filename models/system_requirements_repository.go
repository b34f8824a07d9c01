package models

import (
	"context"

	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/config"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SystemRequirementsRepository struct {
	db      *gorm.DB
	options loading.Options
}

func NewSystemRequirementsRepository(db *gorm.DB, paging config.PaginationConfig) *SystemRequirementsRepository {
	return &SystemRequirementsRepository{
		db: db,
		options: loadingOptions(paging,
			map[string]string{"name": "name"},
			map[string]string{"id": "id", "name": "name"},
		),
	}
}

func (r *SystemRequirementsRepository) ListSystemRequirements(ctx context.Context, params loading.Params) (*loading.Result[SystemRequirement], error) {
	return list[SystemRequirement](ctx, r.db, params, r.options)
}

func (r *SystemRequirementsRepository) GetSystemRequirement(ctx context.Context, id uint) (*SystemRequirement, error) {
	return findByID[SystemRequirement](ctx, r.db, id)
}

func (r *SystemRequirementsRepository) SaveSystemRequirement(ctx context.Context, req *SystemRequirement) error {
	return save(ctx, r.db, req, func(tx *gorm.DB) FieldErrors {
		fields := Validate(req)
		if req.Name != "" {
			dup, err := taken(tx, &SystemRequirement{}, "name", req.Name, req.ID)
			if err != nil {
				fields.Add("base", err.Error())
			} else if dup {
				fields.Add("name", "has already been taken")
			}
		}
		return fields
	})
}

// DeleteSystemRequirement refuses to remove a requirement games still use.
func (r *SystemRequirementsRepository) DeleteSystemRequirement(ctx context.Context, req *SystemRequirement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var games int64
		if err := tx.Model(&Game{}).Where("system_requirement_id = ?", req.ID).Count(&games).Error; err != nil {
			return errors.Wrap(err, "count games")
		}
		if games > 0 {
			return &ValidationError{Fields: FieldErrors{
				"base": {"Cannot delete record because dependent games exist"},
			}}
		}
		return errors.Wrap(tx.Delete(req).Error, "delete system requirement")
	})
}
