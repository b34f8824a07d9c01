package loading

import (
	"math"
	"sort"
	"strings"

	"github.com/gamestore/store-admin/config"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// Params is the loosely typed option bag of a list request.
type Params struct {
	// Search maps a field to a substring matched case-insensitively.
	Search map[string]string
	// Order maps a field to "asc" or "desc".
	Order map[string]string
	// Page and Length may hold anything; values that are not positive
	// integers fall back to the defaults.
	Page   interface{}
	Length interface{}
}

// Options whitelists the fields a collection can be searched and ordered
// by. Keys are public field names, values are columns.
type Options struct {
	Searchable map[string]string
	Orderable  map[string]string
	Defaults   config.PaginationConfig
}

// Pagination describes the page that was actually served.
type Pagination struct {
	Page       int   `json:"page"`
	Length     int   `json:"length"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Result[T any] struct {
	Records    []T
	Pagination Pagination
}

// Load filters, orders and pages query, which must already be scoped to
// the model of T. It only reads. Length is capped at the configured
// maximum and a page past the last one yields no records.
func Load[T any](query *gorm.DB, params Params, opts Options) (*Result[T], error) {
	page := positiveOr(params.Page, opts.Defaults.Page, config.DefaultPage)
	length := positiveOr(params.Length, opts.Defaults.Length, config.DefaultLength)
	maxLength := opts.Defaults.MaxLength
	if maxLength <= 0 {
		maxLength = config.DefaultMaxLength
	}
	if length > maxLength {
		length = maxLength
	}

	query = search(query, params.Search, opts.Searchable)
	base := query.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "count records")
	}

	pagination := Pagination{
		Page:       page,
		Length:     length,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(length))),
	}
	records := []T{}
	if page > pagination.TotalPages {
		return &Result[T]{Records: records, Pagination: pagination}, nil
	}

	// page is at most TotalPages here, so the offset never exceeds total.
	err := order(base, params.Order, opts.Orderable).
		Offset((page - 1) * length).
		Limit(length).
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "load records")
	}

	return &Result[T]{Records: records, Pagination: pagination}, nil
}

func positiveOr(v interface{}, configured, fallback int) int {
	if n, err := cast.ToIntE(v); err == nil && n > 0 {
		return n
	}
	if configured > 0 {
		return configured
	}
	return fallback
}

func search(query *gorm.DB, terms map[string]string, searchable map[string]string) *gorm.DB {
	for _, field := range sortedKeys(terms) {
		column, ok := searchable[field]
		if !ok {
			continue
		}
		term := terms[field]
		if strings.EqualFold(query.Dialector.Name(), "postgres") {
			query = query.Where(column+" ILIKE ?", "%"+term+"%")
		} else {
			query = query.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(term)+"%")
		}
	}
	return query
}

func order(query *gorm.DB, fields map[string]string, orderable map[string]string) *gorm.DB {
	for _, field := range sortedKeys(fields) {
		column, ok := orderable[field]
		if !ok {
			continue
		}
		switch dir := strings.ToLower(strings.TrimSpace(fields[field])); dir {
		case "asc", "desc":
			query = query.Order(column + " " + dir)
		}
	}
	return query.Order("id asc")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
