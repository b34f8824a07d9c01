package models

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"gorm.io/gorm"
)

// Productable is the sellable entity a product wraps. Games are the only
// variant today; new variants register themselves with RegisterProductable.
type Productable interface {
	// Kind is the type tag stored in products.productable_type.
	Kind() string
	PrimaryKey() uint
	Validate(tx *gorm.DB) FieldErrors
	Persist(tx *gorm.DB) error
	Destroy(tx *gorm.DB) error
	// PublicFields are merged into the product JSON.
	PublicFields() map[string]interface{}
}

// ProductableKind knows how to build and load one productable variant.
// Attributes lists the input keys the variant accepts.
type ProductableKind struct {
	New        func() Productable
	Find       func(tx *gorm.DB, ids []uint) (map[uint]Productable, error)
	Attributes []string
}

var (
	productablesMu sync.RWMutex
	productables   = map[string]ProductableKind{}
)

// RegisterProductable makes a variant available under tag.
func RegisterProductable(tag string, kind ProductableKind) {
	productablesMu.Lock()
	defer productablesMu.Unlock()
	productables[NormalizeProductableTag(tag)] = kind
}

// LookupProductable returns the variant registered for tag.
func LookupProductable(tag string) (ProductableKind, bool) {
	productablesMu.RLock()
	defer productablesMu.RUnlock()
	kind, ok := productables[NormalizeProductableTag(tag)]
	return kind, ok
}

// ProductableTags lists registered tags in order.
func ProductableTags() []string {
	productablesMu.RLock()
	defer productablesMu.RUnlock()
	tags := make([]string, 0, len(productables))
	for tag := range productables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// NormalizeProductableTag turns "Game", "game" or "GameBundle" into the
// snake case tag used for storage and JSON.
func NormalizeProductableTag(tag string) string {
	tag = strings.TrimSpace(tag)
	var b strings.Builder
	for i, r := range tag {
		if unicode.IsUpper(r) {
			if i > 0 && tag[i-1] != '_' {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
