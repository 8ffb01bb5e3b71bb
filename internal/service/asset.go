// Package service implements the asset ingestion pipeline: validate the
// upload, derive a unique slug, optimize the image, persist, and publish.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowmart/storefront/internal/domain"
	"github.com/glowmart/storefront/internal/event"
	"github.com/glowmart/storefront/internal/imaging"
	"github.com/glowmart/storefront/internal/repository"
	"github.com/glowmart/storefront/internal/slug"
	"github.com/glowmart/storefront/internal/storage"
	apperrors "github.com/glowmart/storefront/pkg/errors"
)

// AssetService coordinates the ingestion pipeline. An asset either commits
// fully, with its optimized blob stored and its row inserted, or not at all:
// every failure path removes whatever blob the attempt uploaded.
type AssetService struct {
	repo      repository.AssetRepository
	blobs     storage.Store
	publisher event.Publisher
	logger    *slog.Logger

	now     func() time.Time
	randHex func(n int) string
}

// Option customizes an AssetService. Tests use these to control time and
// randomness.
type Option func(*AssetService)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *AssetService) { s.now = now }
}

// WithRandHex replaces the random suffix generator.
func WithRandHex(f func(n int) string) Option {
	return func(s *AssetService) { s.randHex = f }
}

// NewAssetService creates a new asset service.
func NewAssetService(
	repo repository.AssetRepository,
	blobs storage.Store,
	publisher event.Publisher,
	logger *slog.Logger,
	opts ...Option,
) *AssetService {
	s := &AssetService{
		repo:      repo,
		blobs:     blobs,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		randHex:   defaultRandHex,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultRandHex(n int) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	if n > len(hex) {
		n = len(hex)
	}
	return hex[:n]
}

// ImageUpload carries the raw bytes of an uploaded image.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// IngestAssetInput holds the parameters for creating an asset.
type IngestAssetInput struct {
	Kind        domain.Kind
	Name        string
	Description string
	Price       *decimal.Decimal
	CategoryID  *string
	SortOrder   int
	Active      *bool
	Image       *ImageUpload
}

// UpdateAssetInput holds the parameters for updating an asset. Nil fields
// are left unchanged. The slug can never be updated.
type UpdateAssetInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *string
	SortOrder   *int
	Active      *bool
	Image       *ImageUpload
}

// IngestAsset runs the full pipeline for a new asset: input validation,
// image validation against the kind's policy, slug derivation and
// uniqueness resolution, image optimization, blob upload, and the database
// insert. The slug assigned here is permanent.
func (s *AssetService) IngestAsset(ctx context.Context, input *IngestAssetInput) (*domain.Asset, error) {
	policy := domain.PolicyFor(input.Kind)

	if err := validateIngestInput(input, policy); err != nil {
		return nil, err
	}

	// Validation runs against the original upload, before any resizing.
	if input.Image != nil {
		if _, err := imaging.Validate(input.Image.Data, policy); err != nil {
			return nil, err
		}
	}

	id := uuid.New().String()
	base := slug.GenerateWithFallback(input.Name, policy.FallbackSlug)

	finalSlug, exhausted, err := s.resolveSlug(ctx, input.Kind, base)
	if err != nil {
		return nil, err
	}

	now := s.now()
	asset := &domain.Asset{
		ID:          id,
		Kind:        input.Kind,
		Name:        input.Name,
		Slug:        finalSlug,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		SortOrder:   input.SortOrder,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Active != nil {
		asset.Active = *input.Active
	}

	if input.Image != nil {
		img, err := s.storeOptimized(ctx, input.Kind, id, input.Image.Data, policy)
		if err != nil {
			return nil, err
		}
		asset.Image = img
	}

	if err := s.persistNew(ctx, asset, base, exhausted); err != nil {
		s.cleanupBlob(ctx, asset.Image)
		return nil, err
	}

	if err := s.publisher.AssetIngested(ctx, asset); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish asset.ingested event",
			slog.String("asset_id", asset.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "asset ingested",
		slog.String("asset_id", asset.ID),
		slog.String("kind", string(asset.Kind)),
		slog.String("slug", asset.Slug),
		slog.Bool("has_image", asset.Image != nil),
	)
	return asset, nil
}

// persistNew inserts the asset, retrying exactly once when a concurrent
// ingestion claimed the slug between resolution and insert. The unique
// constraint on (kind, slug) is the arbiter; probing only shrinks the race
// window.
func (s *AssetService) persistNew(ctx context.Context, asset *domain.Asset, base string, exhausted bool) error {
	err := s.repo.Create(ctx, asset)
	if !isSlugConflict(err) {
		return err
	}

	s.logger.WarnContext(ctx, "slug claimed concurrently, re-resolving",
		slog.String("kind", string(asset.Kind)),
		slog.String("slug", asset.Slug),
	)

	retrySlug, retryExhausted, rerr := s.resolveSlug(ctx, asset.Kind, base)
	if rerr != nil {
		return rerr
	}
	asset.Slug = retrySlug

	err = s.repo.Create(ctx, asset)
	if isSlugConflict(err) {
		if exhausted || retryExhausted {
			return apperrors.SlugExhausted(asset.Slug)
		}
		return apperrors.PersistenceConflict(err)
	}
	return err
}

// GetAsset retrieves an asset by kind and ID.
func (s *AssetService) GetAsset(ctx context.Context, kind domain.Kind, id string) (*domain.Asset, error) {
	return s.repo.GetByID(ctx, kind, id)
}

// GetAssetBySlug retrieves an asset by kind and slug.
func (s *AssetService) GetAssetBySlug(ctx context.Context, kind domain.Kind, slugStr string) (*domain.Asset, error) {
	return s.repo.GetBySlug(ctx, kind, slugStr)
}

// ListAssetsInput holds filter criteria for listing assets of one kind.
type ListAssetsInput struct {
	Active       *bool
	CategorySlug string
	Search       *string
	Page         int
	PerPage      int
}

// ListAssets returns a page of assets. A category slug filter is resolved
// to its asset ID first, so callers can filter catalog items by the
// category's public identifier.
func (s *AssetService) ListAssets(ctx context.Context, kind domain.Kind, input ListAssetsInput) ([]domain.Asset, int, error) {
	filter := repository.AssetFilter{
		Active:  input.Active,
		Search:  input.Search,
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	if input.CategorySlug != "" {
		category, err := s.repo.GetBySlug(ctx, domain.KindCategory, input.CategorySlug)
		if err != nil {
			return nil, 0, err
		}
		filter.CategoryID = &category.ID
	}

	return s.repo.List(ctx, kind, filter)
}

// UpdateAsset applies a partial update. Renaming an asset never changes its
// slug: published URLs stay valid for the lifetime of the asset. A new image
// runs the same validate-optimize-store pipeline as ingestion, and the old
// blob is removed only after the database row has been updated.
func (s *AssetService) UpdateAsset(ctx context.Context, kind domain.Kind, id string, input *UpdateAssetInput) (*domain.Asset, error) {
	asset, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	policy := domain.PolicyFor(kind)

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		asset.Name = *input.Name
	}
	if input.Description != nil {
		asset.Description = *input.Description
	}
	if input.Price != nil {
		if err := validatePrice(kind, input.Price); err != nil {
			return nil, err
		}
		asset.Price = input.Price
	}
	if input.CategoryID != nil {
		if !kind.HasCategory() {
			return nil, apperrors.InvalidInput(fmt.Sprintf("%s assets do not belong to a category", kind))
		}
		asset.CategoryID = input.CategoryID
	}
	if input.SortOrder != nil {
		asset.SortOrder = *input.SortOrder
	}
	if input.Active != nil {
		asset.Active = *input.Active
	}

	var oldImage *domain.ImageRef
	if input.Image != nil {
		if _, err := imaging.Validate(input.Image.Data, policy); err != nil {
			return nil, err
		}
		img, err := s.storeOptimized(ctx, kind, id, input.Image.Data, policy)
		if err != nil {
			return nil, err
		}
		oldImage = asset.Image
		asset.Image = img
	}

	asset.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, asset); err != nil {
		if input.Image != nil {
			s.cleanupBlob(ctx, asset.Image)
		}
		return nil, err
	}

	// The row now points at the new blob; the old one is unreferenced.
	s.cleanupBlob(ctx, oldImage)

	if err := s.publisher.AssetUpdated(ctx, asset); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish asset.updated event",
			slog.String("asset_id", asset.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "asset updated",
		slog.String("asset_id", asset.ID),
		slog.String("kind", string(kind)),
		slog.Bool("image_replaced", input.Image != nil),
	)
	return asset, nil
}

// DeleteAsset removes the asset row, then its blob. The row goes first so a
// storage failure can never leave a live asset pointing at a missing image.
func (s *AssetService) DeleteAsset(ctx context.Context, kind domain.Kind, id string) error {
	asset, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return err
	}

	s.cleanupBlob(ctx, asset.Image)

	if err := s.publisher.AssetDeleted(ctx, asset); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish asset.deleted event",
			slog.String("asset_id", asset.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "asset deleted",
		slog.String("asset_id", asset.ID),
		slog.String("kind", string(kind)),
	)
	return nil
}

// storeOptimized optimizes the validated upload and writes it to the blob
// store. Every stored image gets a fresh key, so replacing an image never
// overwrites the blob a rollback might still need.
func (s *AssetService) storeOptimized(ctx context.Context, kind domain.Kind, id string, data []byte, policy domain.ImagePolicy) (*domain.ImageRef, error) {
	optimized, meta, err := imaging.Optimize(data, policy)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s-%s.jpg", kind, id, s.randHex(8))
	url, err := s.blobs.Put(ctx, storage.PutInput{
		Key:         key,
		ContentType: imaging.ContentType,
		Size:        int64(len(optimized)),
		Data:        bytes.NewReader(optimized),
	})
	if err != nil {
		return nil, fmt.Errorf("store optimized image: %w", err)
	}

	return &domain.ImageRef{
		Key:         key,
		URL:         url,
		ContentType: imaging.ContentType,
		Width:       meta.Width,
		Height:      meta.Height,
		Size:        int64(len(optimized)),
	}, nil
}

// cleanupBlob removes a blob that no committed row references. It runs on a
// context detached from the request, so a canceled upload still gets its
// orphan removed.
func (s *AssetService) cleanupBlob(ctx context.Context, img *domain.ImageRef) {
	if img == nil {
		return
	}
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.blobs.Delete(cleanupCtx, img.Key); err != nil {
		s.logger.ErrorContext(ctx, "failed to clean up blob",
			slog.String("key", img.Key),
			slog.String("error", err.Error()),
		)
	}
}

func validateIngestInput(input *IngestAssetInput, policy domain.ImagePolicy) error {
	if !domain.IsValidKind(string(input.Kind)) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown asset kind %q", input.Kind))
	}
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.InvalidInput("name is required")
	}
	if policy.ImageRequired && input.Image == nil {
		return apperrors.InvalidInput(fmt.Sprintf("%s assets require an image", input.Kind))
	}
	if input.Image != nil && len(input.Image.Data) == 0 {
		return apperrors.InvalidInput("image file is empty")
	}
	if err := validatePrice(input.Kind, input.Price); err != nil {
		return err
	}
	if input.CategoryID != nil && !input.Kind.HasCategory() {
		return apperrors.InvalidInput(fmt.Sprintf("%s assets do not belong to a category", input.Kind))
	}
	return nil
}

func validatePrice(kind domain.Kind, price *decimal.Decimal) error {
	if price == nil {
		return nil
	}
	if !kind.HasPrice() {
		return apperrors.InvalidInput(fmt.Sprintf("%s assets do not carry a price", kind))
	}
	if price.IsNegative() {
		return apperrors.InvalidInput("price must not be negative")
	}
	return nil
}

// isSlugConflict reports whether err is a unique violation on the slug
// column specifically. Name collisions are real client errors and must not
// trigger a retry.
func isSlugConflict(err error) bool {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	if !errors.Is(err, apperrors.ErrAlreadyExists) {
		return false
	}
	_, ok := appErr.Fields["slug"]
	return ok
}
