package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the entity kind an asset belongs to. Each kind is also the
// slug namespace: slugs are unique within a kind, never across kinds.
type Kind string

const (
	KindCatalogItem Kind = "catalog_item"
	KindService     Kind = "service"
	KindCategory    Kind = "category"
	KindBanner      Kind = "banner"
)

// ValidKinds returns the set of valid asset kinds.
func ValidKinds() []Kind {
	return []Kind{KindCatalogItem, KindService, KindCategory, KindBanner}
}

// IsValidKind checks whether the given string names a valid asset kind.
func IsValidKind(s string) bool {
	for _, k := range ValidKinds() {
		if string(k) == s {
			return true
		}
	}
	return false
}

// ImageRef describes the stored, optimized image owned by an asset.
type ImageRef struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int64  `json:"size"`
}

// Asset is a canonicalized storefront entity: catalog item, service,
// category, or carousel banner. The slug is assigned once at creation from
// the name and never changes afterwards, even when the name does.
type Asset struct {
	ID          string           `json:"id"`
	Kind        Kind             `json:"kind"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description string           `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
	SortOrder   int              `json:"sort_order"`
	Active      bool             `json:"active"`
	Image       *ImageRef        `json:"image,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// HasPrice reports whether assets of the given kind carry a price.
func (k Kind) HasPrice() bool {
	return k == KindCatalogItem || k == KindService
}

// HasCategory reports whether assets of the given kind reference a parent
// category.
func (k Kind) HasCategory() bool {
	return k == KindCatalogItem
}
