// Package postgres implements the asset repository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/glowmart/storefront/internal/domain"
	"github.com/glowmart/storefront/internal/repository"
	"github.com/glowmart/storefront/pkg/database"
	apperrors "github.com/glowmart/storefront/pkg/errors"
)

const (
	slugConstraint = "assets_kind_slug_key"
	nameConstraint = "assets_kind_name_key"
)

const assetColumns = `id, kind, name, slug, description, price, category_id, sort_order, is_active,
	image_key, image_url, image_content_type, image_width, image_height, image_size,
	created_at, updated_at`

// AssetRepository implements repository.AssetRepository using PostgreSQL.
type AssetRepository struct {
	db database.DBTX
}

// NewAssetRepository creates a new PostgreSQL-backed asset repository.
func NewAssetRepository(db database.DBTX) *AssetRepository {
	return &AssetRepository{db: db}
}

// Create inserts a new asset into the database.
func (r *AssetRepository) Create(ctx context.Context, a *domain.Asset) error {
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	ctx, end := database.TraceQuery(ctx, "assets.create", query)
	_, err := r.db.Exec(ctx, query, insertArgs(a)...)
	end(err)
	if err != nil {
		if appErr := uniqueViolation(err, a); appErr != nil {
			return appErr
		}
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

// GetByID retrieves an asset by kind and ID.
func (r *AssetRepository) GetByID(ctx context.Context, kind domain.Kind, id string) (*domain.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE kind = $1 AND id = $2`

	a, err := r.scanAsset(ctx, "assets.get_by_id", query, kind, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound(string(kind), id)
		}
		return nil, err
	}
	return a, nil
}

// GetBySlug retrieves an asset by kind and slug.
func (r *AssetRepository) GetBySlug(ctx context.Context, kind domain.Kind, slug string) (*domain.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE kind = $1 AND slug = $2`

	a, err := r.scanAsset(ctx, "assets.get_by_slug", query, kind, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound(string(kind), slug)
		}
		return nil, err
	}
	return a, nil
}

// SlugExists reports whether the slug is already taken within the kind.
func (r *AssetRepository) SlugExists(ctx context.Context, kind domain.Kind, slug, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM assets WHERE kind = $1 AND slug = $2)`
	args := []any{kind, slug}
	if excludeID != "" {
		query = `SELECT EXISTS (SELECT 1 FROM assets WHERE kind = $1 AND slug = $2 AND id <> $3)`
		args = append(args, excludeID)
	}

	ctx, end := database.TraceQuery(ctx, "assets.slug_exists", query)
	var exists bool
	err := r.db.QueryRow(ctx, query, args...).Scan(&exists)
	end(err)
	if err != nil {
		return false, fmt.Errorf("check slug existence: %w", err)
	}
	return exists, nil
}

// List returns assets of one kind matching the filter with the total count.
func (r *AssetRepository) List(ctx context.Context, kind domain.Kind, filter repository.AssetFilter) ([]domain.Asset, int, error) {
	conditions := []string{"kind = $1"}
	args := []any{kind}
	argIndex := 2

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argIndex))
		args = append(args, *filter.Active)
		argIndex++
	}

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	// Use count(*) OVER() for total count in a single query.
	query := fmt.Sprintf(`
		SELECT `+assetColumns+`,
			   count(*) OVER() AS total_count
		FROM assets
		WHERE %s
		ORDER BY sort_order ASC, created_at DESC
		LIMIT $%d OFFSET $%d`,
		strings.Join(conditions, " AND "), argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}
	args = append(args, limit, offset)

	ctx, end := database.TraceQuery(ctx, "assets.list", query)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var (
		assets     []domain.Asset
		totalCount int
	)

	for rows.Next() {
		a, extra, err := scanAssetRow(rows, true)
		if err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan asset row: %w", err)
		}
		totalCount = extra
		assets = append(assets, *a)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate asset rows: %w", err)
	}
	end(nil)

	if assets == nil {
		assets = []domain.Asset{}
	}
	return assets, totalCount, nil
}

// The slug column is intentionally absent from the SET list: once assigned,
// a slug never changes.
const updateAssetSQL = `
		UPDATE assets
		SET name = $1, description = $2, price = $3, category_id = $4, sort_order = $5,
		    is_active = $6, image_key = $7, image_url = $8, image_content_type = $9,
		    image_width = $10, image_height = $11, image_size = $12, updated_at = $13
		WHERE kind = $14 AND id = $15`

// Update modifies an existing asset.
func (r *AssetRepository) Update(ctx context.Context, a *domain.Asset) error {
	query := updateAssetSQL

	imgKey, imgURL, imgCT, imgW, imgH, imgSize := imageArgs(a.Image)

	ctx, end := database.TraceQuery(ctx, "assets.update", query)
	ct, err := r.db.Exec(ctx, query,
		a.Name,
		a.Description,
		priceArg(a.Price),
		a.CategoryID,
		a.SortOrder,
		a.Active,
		imgKey,
		imgURL,
		imgCT,
		imgW,
		imgH,
		imgSize,
		a.UpdatedAt,
		a.Kind,
		a.ID,
	)
	end(err)
	if err != nil {
		if appErr := uniqueViolation(err, a); appErr != nil {
			return appErr
		}
		return fmt.Errorf("update asset: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound(string(a.Kind), a.ID)
	}
	return nil
}

// Delete removes an asset from the database.
func (r *AssetRepository) Delete(ctx context.Context, kind domain.Kind, id string) error {
	query := `DELETE FROM assets WHERE kind = $1 AND id = $2`

	ctx, end := database.TraceQuery(ctx, "assets.delete", query)
	ct, err := r.db.Exec(ctx, query, kind, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound(string(kind), id)
	}
	return nil
}

// scanAsset executes a query expected to return a single asset row.
func (r *AssetRepository) scanAsset(ctx context.Context, op, query string, args ...any) (*domain.Asset, error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	row := r.db.QueryRow(ctx, query, args...)
	a, _, err := scanAssetRow(row, false)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssetRow(row rowScanner, withCount bool) (*domain.Asset, int, error) {
	var (
		a          domain.Asset
		price      decimal.NullDecimal
		imgKey     *string
		imgURL     *string
		imgCT      *string
		imgW       *int
		imgH       *int
		imgSize    *int64
		totalCount int
	)

	dest := []any{
		&a.ID,
		&a.Kind,
		&a.Name,
		&a.Slug,
		&a.Description,
		&price,
		&a.CategoryID,
		&a.SortOrder,
		&a.Active,
		&imgKey,
		&imgURL,
		&imgCT,
		&imgW,
		&imgH,
		&imgSize,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
	if withCount {
		dest = append(dest, &totalCount)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, 0, err
	}

	if price.Valid {
		a.Price = &price.Decimal
	}
	if imgKey != nil {
		img := domain.ImageRef{Key: *imgKey}
		if imgURL != nil {
			img.URL = *imgURL
		}
		if imgCT != nil {
			img.ContentType = *imgCT
		}
		if imgW != nil {
			img.Width = *imgW
		}
		if imgH != nil {
			img.Height = *imgH
		}
		if imgSize != nil {
			img.Size = *imgSize
		}
		a.Image = &img
	}
	return &a, totalCount, nil
}

func insertArgs(a *domain.Asset) []any {
	imgKey, imgURL, imgCT, imgW, imgH, imgSize := imageArgs(a.Image)
	return []any{
		a.ID,
		a.Kind,
		a.Name,
		a.Slug,
		a.Description,
		priceArg(a.Price),
		a.CategoryID,
		a.SortOrder,
		a.Active,
		imgKey,
		imgURL,
		imgCT,
		imgW,
		imgH,
		imgSize,
		a.CreatedAt,
		a.UpdatedAt,
	}
}

func imageArgs(img *domain.ImageRef) (key, url, ct *string, w, h *int, size *int64) {
	if img == nil {
		return nil, nil, nil, nil, nil, nil
	}
	return &img.Key, &img.URL, &img.ContentType, &img.Width, &img.Height, &img.Size
}

func priceArg(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *p, Valid: true}
}

// uniqueViolation maps a PostgreSQL unique-constraint violation (SQLSTATE
// 23505) to an already-exists error naming the colliding field, or nil when
// the error is something else.
func uniqueViolation(err error, a *domain.Asset) *apperrors.AppError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == nameConstraint {
			return apperrors.AlreadyExists(string(a.Kind), "name", a.Name)
		}
		return apperrors.AlreadyExists(string(a.Kind), "slug", a.Slug)
	}
	if err != nil && strings.Contains(err.Error(), "23505") {
		if strings.Contains(err.Error(), nameConstraint) {
			return apperrors.AlreadyExists(string(a.Kind), "name", a.Name)
		}
		return apperrors.AlreadyExists(string(a.Kind), "slug", a.Slug)
	}
	return nil
}
