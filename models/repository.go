package models

import (
	"context"
	"strings"

	"github.com/gamestore/store-admin/app/loading"
	"github.com/gamestore/store-admin/config"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

func findByID[T any](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var record T
	if err := db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find record")
	}
	return &record, nil
}

func list[T any](ctx context.Context, db *gorm.DB, params loading.Params, opts loading.Options) (*loading.Result[T], error) {
	return loading.Load[T](db.WithContext(ctx).Model(new(T)), params, opts)
}

// save validates record inside a transaction and creates or updates it.
func save(ctx context.Context, db *gorm.DB, record interface{}, validate func(tx *gorm.DB) FieldErrors) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AsValidationError(validate(tx)); err != nil {
			return err
		}
		return errors.Wrap(tx.Save(record).Error, "save record")
	})
}

// taken reports whether another row of model already uses value in column,
// compared case-insensitively.
func taken(tx *gorm.DB, model interface{}, column, value string, id uint) (bool, error) {
	var count int64
	q := tx.Model(model).Where("LOWER("+column+") = ?", strings.ToLower(value))
	if id != 0 {
		q = q.Where("id <> ?", id)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check uniqueness")
	}
	return count > 0, nil
}

func loadingOptions(paging config.PaginationConfig, searchable, orderable map[string]string) loading.Options {
	return loading.Options{
		Searchable: searchable,
		Orderable:  orderable,
		Defaults:   paging,
	}
}
