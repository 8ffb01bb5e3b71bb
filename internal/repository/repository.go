// Package repository defines the persistence interfaces for assets.
package repository

import (
	"context"

	"github.com/glowmart/storefront/internal/domain"
)

// AssetFilter defines filter criteria for listing assets of one kind.
type AssetFilter struct {
	Active     *bool
	CategoryID *string
	Search     *string
	Page       int
	PerPage    int
}

// AssetRepository defines the interface for asset persistence operations.
// All lookups are scoped to a kind, matching the per-kind slug namespace.
type AssetRepository interface {
	// Create inserts a new asset. A unique-constraint collision surfaces
	// as an already-exists error naming the colliding field.
	Create(ctx context.Context, asset *domain.Asset) error

	// GetByID retrieves an asset by kind and identifier.
	GetByID(ctx context.Context, kind domain.Kind, id string) (*domain.Asset, error)

	// GetBySlug retrieves an asset by kind and slug.
	GetBySlug(ctx context.Context, kind domain.Kind, slug string) (*domain.Asset, error)

	// SlugExists reports whether a slug is taken within the kind,
	// optionally ignoring one asset id (for updates).
	SlugExists(ctx context.Context, kind domain.Kind, slug, excludeID string) (bool, error)

	// List returns assets of one kind matching the filter along with the
	// total count.
	List(ctx context.Context, kind domain.Kind, filter AssetFilter) ([]domain.Asset, int, error)

	// Update modifies an existing asset. The slug column is never
	// touched: slugs are permanent once assigned.
	Update(ctx context.Context, asset *domain.Asset) error

	// Delete removes an asset by kind and identifier.
	Delete(ctx context.Context, kind domain.Kind, id string) error
}
