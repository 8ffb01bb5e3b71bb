package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/glowmart/storefront/internal/domain"
	"github.com/glowmart/storefront/internal/repository"
	"github.com/glowmart/storefront/internal/storage"
	apperrors "github.com/glowmart/storefront/pkg/errors"
)

// --- Mock Repository ---

type mockAssetRepository struct {
	mock.Mock
}

func (m *mockAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *mockAssetRepository) GetByID(ctx context.Context, kind domain.Kind, id string) (*domain.Asset, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *mockAssetRepository) GetBySlug(ctx context.Context, kind domain.Kind, slug string) (*domain.Asset, error) {
	args := m.Called(ctx, kind, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *mockAssetRepository) SlugExists(ctx context.Context, kind domain.Kind, slug, excludeID string) (bool, error) {
	args := m.Called(ctx, kind, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAssetRepository) List(ctx context.Context, kind domain.Kind, filter repository.AssetFilter) ([]domain.Asset, int, error) {
	args := m.Called(ctx, kind, filter)
	return args.Get(0).([]domain.Asset), args.Int(1), args.Error(2)
}

func (m *mockAssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *mockAssetRepository) Delete(ctx context.Context, kind domain.Kind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

// --- Recording Publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) record(kind, slug string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, fmt.Sprintf("%s:%s", kind, slug))
	return nil
}

func (p *recordingPublisher) AssetIngested(_ context.Context, a *domain.Asset) error {
	return p.record("ingested", a.Slug)
}

func (p *recordingPublisher) AssetUpdated(_ context.Context, a *domain.Asset) error {
	return p.record("updated", a.Slug)
}

func (p *recordingPublisher) AssetDeleted(_ context.Context, a *domain.Asset) error {
	return p.record("deleted", a.Slug)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo repository.AssetRepository, store storage.Store, opts ...Option) (*AssetService, *recordingPublisher) {
	pub := &recordingPublisher{}
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithRandHex(func(int) string { return "abcd1234" }),
	}
	svc := NewAssetService(repo, store, pub, newTestLogger(), append(base, opts...)...)
	return svc, pub
}

func testImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 80, G: uint8(x % 256), B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func ingestInput(t *testing.T) *IngestAssetInput {
	t.Helper()
	price := decimal.RequireFromString("199.90")
	return &IngestAssetInput{
		Kind:        domain.KindCatalogItem,
		Name:        "Écran 4K",
		Description: "27 inch monitor",
		Price:       &price,
		Image:       &ImageUpload{Data: testImage(t, 1200, 800), ContentType: "image/jpeg"},
	}
}

// --- IngestAsset ---

func TestIngestAsset_Success(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, pub := newTestService(repo, store)

	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, "ecran-4k", "").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Asset")).Return(nil).Once()

	asset, err := svc.IngestAsset(context.Background(), ingestInput(t))
	require.NoError(t, err)

	assert.Equal(t, "ecran-4k", asset.Slug)
	assert.True(t, asset.Active)
	assert.Equal(t, testNow, asset.CreatedAt)
	require.NotNil(t, asset.Image)
	assert.Equal(t, "image/jpeg", asset.Image.ContentType)
	assert.Equal(t, 1200, asset.Image.Width)
	assert.Equal(t, 800, asset.Image.Height)

	// the optimized blob is in the store under the asset's key
	data, ok := store.Get(asset.Image.Key)
	require.True(t, ok)
	assert.Equal(t, int64(len(data)), asset.Image.Size)

	assert.Equal(t, []string{"ingested:ecran-4k"}, pub.events)
	repo.AssertExpectations(t)
}

func TestIngestAsset_ImageRequired(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	input := ingestInput(t)
	input.Image = nil

	_, err := svc.IngestAsset(context.Background(), input)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIngestAsset_CategoryImageOptional(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	repo.On("SlugExists", mock.Anything, domain.KindCategory, "peripherals", "").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	asset, err := svc.IngestAsset(context.Background(), &IngestAssetInput{
		Kind: domain.KindCategory,
		Name: "Peripherals",
	})
	require.NoError(t, err)
	assert.Nil(t, asset.Image)
	assert.Zero(t, store.Len())
}

func TestIngestAsset_RejectsInvalidImageBeforeAnySideEffect(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	input := ingestInput(t)
	input.Image = &ImageUpload{Data: testImage(t, 300, 300)}

	_, err := svc.IngestAsset(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidImage)
	assert.Zero(t, store.Len())
	repo.AssertNotCalled(t, "SlugExists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIngestAsset_PriceRejectedForBanner(t *testing.T) {
	repo := new(mockAssetRepository)
	svc, _ := newTestService(repo, storage.NewMemoryStore())

	price := decimal.NewFromInt(10)
	_, err := svc.IngestAsset(context.Background(), &IngestAssetInput{
		Kind:  domain.KindBanner,
		Name:  "Summer Sale",
		Price: &price,
		Image: &ImageUpload{Data: testImage(t, 1200, 600)},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestIngestAsset_SymbolOnlyNameUsesFallbackSlug(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, "item", "").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	input := ingestInput(t)
	input.Name = "!!!"

	asset, err := svc.IngestAsset(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "item", asset.Slug)
}

func TestIngestAsset_ProbesNumberedSuffixes(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, "ecran-4k", "").Return(true, nil).Once()
	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, "ecran-4k-1", "").Return(true, nil).Once()
	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, "ecran-4k-2", "").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	asset, err := svc.IngestAsset(context.Background(), ingestInput(t))
	require.NoError(t, err)
	assert.Equal(t, "ecran-4k-2", asset.Slug)
	repo.AssertExpectations(t)
}

func TestIngestAsset_RandomSuffixAfterProbeBound(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	// every numbered candidate is taken
	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, mock.Anything, "").Return(true, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Asset) bool {
		return a.Slug == "ecran-4k-abcd1234"
	})).Return(nil).Once()

	asset, err := svc.IngestAsset(context.Background(), ingestInput(t))
	require.NoError(t, err)
	assert.Equal(t, "ecran-4k-abcd1234", asset.Slug)
}

func TestIngestAsset_RetriesOnceOnConcurrentSlugClaim(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	// first resolution says the base is free, but a racing ingest claims it
	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, "ecran-4k", "").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Asset) bool {
		return a.Slug == "ecran-4k"
	})).Return(apperrors.AlreadyExists("catalog_item", "slug", "ecran-4k")).Once()

	// re-resolution sees the claim and moves to the next suffix
	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, "ecran-4k", "").Return(true, nil).Once()
	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, "ecran-4k-1", "").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Asset) bool {
		return a.Slug == "ecran-4k-1"
	})).Return(nil).Once()

	asset, err := svc.IngestAsset(context.Background(), ingestInput(t))
	require.NoError(t, err)
	assert.Equal(t, "ecran-4k-1", asset.Slug)
	assert.Equal(t, 1, store.Len())
	repo.AssertExpectations(t)
}

func TestIngestAsset_SecondConflictSurfacesAndCleansBlob(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, pub := newTestService(repo, store)

	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, mock.Anything, "").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("catalog_item", "slug", "ecran-4k")).Twice()

	_, err := svc.IngestAsset(context.Background(), ingestInput(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PERSISTENCE_CONFLICT", appErr.Code)

	// no committed row means no blob may survive
	assert.Zero(t, store.Len())
	assert.Empty(t, pub.events)
}

func TestIngestAsset_NameConflictDoesNotRetry(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, "ecran-4k", "").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("catalog_item", "name", "Écran 4K")).Once()

	_, err := svc.IngestAsset(context.Background(), ingestInput(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Zero(t, store.Len())
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestIngestAsset_DBFailureRemovesUploadedBlob(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, "ecran-4k", "").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	_, err := svc.IngestAsset(context.Background(), ingestInput(t))
	require.Error(t, err)
	assert.Zero(t, store.Len())
}

func TestIngestAsset_CanceledRequestStillRemovesBlob(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	ctx, cancel := context.WithCancel(context.Background())
	repo.On("SlugExists", mock.Anything, domain.KindCatalogItem, "ecran-4k", "").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		cancel()
	}).Return(context.Canceled).Once()

	_, err := svc.IngestAsset(ctx, ingestInput(t))
	require.Error(t, err)
	assert.Zero(t, store.Len())
}

// --- Concurrency ---

// inMemoryRepo enforces the (kind, slug) unique constraint the way the
// database does, so racing ingests exercise the real conflict path.
type inMemoryRepo struct {
	mu     sync.Mutex
	bySlug map[string]*domain.Asset
}

func newInMemoryRepo() *inMemoryRepo {
	return &inMemoryRepo{bySlug: make(map[string]*domain.Asset)}
}

func (r *inMemoryRepo) key(kind domain.Kind, slug string) string {
	return string(kind) + "/" + slug
}

func (r *inMemoryRepo) Create(_ context.Context, a *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.bySlug[r.key(a.Kind, a.Slug)]; taken {
		return apperrors.AlreadyExists(string(a.Kind), "slug", a.Slug)
	}
	cp := *a
	r.bySlug[r.key(a.Kind, a.Slug)] = &cp
	return nil
}

func (r *inMemoryRepo) GetByID(context.Context, domain.Kind, string) (*domain.Asset, error) {
	return nil, apperrors.ErrNotFound
}

func (r *inMemoryRepo) GetBySlug(_ context.Context, kind domain.Kind, slug string) (*domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.bySlug[r.key(kind, slug)]; ok {
		return a, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *inMemoryRepo) SlugExists(_ context.Context, kind domain.Kind, slug, _ string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bySlug[r.key(kind, slug)]
	return ok, nil
}

func (r *inMemoryRepo) List(context.Context, domain.Kind, repository.AssetFilter) ([]domain.Asset, int, error) {
	return []domain.Asset{}, 0, nil
}

func (r *inMemoryRepo) Update(context.Context, *domain.Asset) error { return nil }

func (r *inMemoryRepo) Delete(context.Context, domain.Kind, string) error { return nil }

func TestIngestAsset_ConcurrentSameNameGetDistinctSlugs(t *testing.T) {
	repo := newInMemoryRepo()
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	const n = 8
	img := testImage(t, 1200, 800)

	var wg sync.WaitGroup
	slugs := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			asset, err := svc.IngestAsset(context.Background(), &IngestAssetInput{
				Kind:  domain.KindCatalogItem,
				Name:  "Écran 4K",
				Image: &ImageUpload{Data: img},
			})
			errs[i] = err
			if err == nil {
				slugs[i] = asset.Slug
			}
		}(i)
	}
	wg.Wait()

	// a loser of both the first insert and its single retry surfaces a
	// conflict; everything that committed must hold a distinct slug and
	// exactly one blob, with no orphans left behind by the losers
	seen := make(map[string]bool)
	committed := 0
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			assert.ErrorIs(t, errs[i], apperrors.ErrConflict, "ingest %d", i)
			continue
		}
		committed++
		assert.False(t, seen[slugs[i]], "slug %q assigned twice", slugs[i])
		seen[slugs[i]] = true
	}
	assert.GreaterOrEqual(t, committed, 1)
	assert.Equal(t, committed, store.Len())
}

// --- UpdateAsset ---

func existingAsset() *domain.Asset {
	return &domain.Asset{
		ID:     "asset-1",
		Kind:   domain.KindCatalogItem,
		Name:   "Écran 4K",
		Slug:   "ecran-4k",
		Active: true,
		Image: &domain.ImageRef{
			Key: "catalog_item/asset-1-old.jpg",
			URL: "memory://assets/catalog_item/asset-1-old.jpg",
		},
		CreatedAt: testNow.Add(-24 * time.Hour),
		UpdatedAt: testNow.Add(-24 * time.Hour),
	}
}

func TestUpdateAsset_RenameKeepsSlug(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, pub := newTestService(repo, store)

	repo.On("GetByID", mock.Anything, domain.KindCatalogItem, "asset-1").Return(existingAsset(), nil).Once()
	repo.On("Update", mock.Anything, mock.MatchedBy(func(a *domain.Asset) bool {
		return a.Name == "Écran 4K Pro" && a.Slug == "ecran-4k"
	})).Return(nil).Once()

	name := "Écran 4K Pro"
	asset, err := svc.UpdateAsset(context.Background(), domain.KindCatalogItem, "asset-1", &UpdateAssetInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "ecran-4k", asset.Slug)
	assert.Equal(t, testNow, asset.UpdatedAt)
	assert.Equal(t, []string{"updated:ecran-4k"}, pub.events)
	repo.AssertExpectations(t)
}

func TestUpdateAsset_ReplaceImageDeletesOldBlob(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	existing := existingAsset()
	_, err := store.Put(context.Background(), storage.PutInput{
		Key:  existing.Image.Key,
		Data: bytes.NewReader([]byte("old")),
	})
	require.NoError(t, err)

	repo.On("GetByID", mock.Anything, domain.KindCatalogItem, "asset-1").Return(existing, nil).Once()
	repo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	asset, err := svc.UpdateAsset(context.Background(), domain.KindCatalogItem, "asset-1", &UpdateAssetInput{
		Image: &ImageUpload{Data: testImage(t, 1200, 800)},
	})
	require.NoError(t, err)
	require.NotNil(t, asset.Image)
	assert.NotEqual(t, "catalog_item/asset-1-old.jpg", asset.Image.Key)

	// only the new blob remains
	assert.Equal(t, 1, store.Len())
	_, ok := store.Get(asset.Image.Key)
	assert.True(t, ok)
}

func TestUpdateAsset_FailedPersistRollsBackNewBlob(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	existing := existingAsset()
	_, err := store.Put(context.Background(), storage.PutInput{
		Key:  existing.Image.Key,
		Data: bytes.NewReader([]byte("old")),
	})
	require.NoError(t, err)

	repo.On("GetByID", mock.Anything, domain.KindCatalogItem, "asset-1").Return(existing, nil).Once()
	repo.On("Update", mock.Anything, mock.Anything).Return(errors.New("deadlock detected")).Once()

	_, err = svc.UpdateAsset(context.Background(), domain.KindCatalogItem, "asset-1", &UpdateAssetInput{
		Image: &ImageUpload{Data: testImage(t, 1200, 800)},
	})
	require.Error(t, err)

	// the old blob is untouched, the new one is gone
	assert.Equal(t, []string{"catalog_item/asset-1-old.jpg"}, store.Keys())
}

func TestUpdateAsset_RejectsInvalidReplacementImage(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	repo.On("GetByID", mock.Anything, domain.KindCatalogItem, "asset-1").Return(existingAsset(), nil).Once()

	_, err := svc.UpdateAsset(context.Background(), domain.KindCatalogItem, "asset-1", &UpdateAssetInput{
		Image: &ImageUpload{Data: testImage(t, 500, 800)},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidImage)
	assert.Zero(t, store.Len())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// --- DeleteAsset ---

func TestDeleteAsset_RemovesRowThenBlob(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, pub := newTestService(repo, store)

	existing := existingAsset()
	_, err := store.Put(context.Background(), storage.PutInput{
		Key:  existing.Image.Key,
		Data: bytes.NewReader([]byte("old")),
	})
	require.NoError(t, err)

	repo.On("GetByID", mock.Anything, domain.KindCatalogItem, "asset-1").Return(existing, nil).Once()
	repo.On("Delete", mock.Anything, domain.KindCatalogItem, "asset-1").Return(nil).Once()

	require.NoError(t, svc.DeleteAsset(context.Background(), domain.KindCatalogItem, "asset-1"))
	assert.Zero(t, store.Len())
	assert.Equal(t, []string{"deleted:ecran-4k"}, pub.events)
}

func TestDeleteAsset_RowDeleteFailureKeepsBlob(t *testing.T) {
	repo := new(mockAssetRepository)
	store := storage.NewMemoryStore()
	svc, _ := newTestService(repo, store)

	existing := existingAsset()
	_, err := store.Put(context.Background(), storage.PutInput{
		Key:  existing.Image.Key,
		Data: bytes.NewReader([]byte("old")),
	})
	require.NoError(t, err)

	repo.On("GetByID", mock.Anything, domain.KindCatalogItem, "asset-1").Return(existing, nil).Once()
	repo.On("Delete", mock.Anything, domain.KindCatalogItem, "asset-1").Return(errors.New("timeout")).Once()

	require.Error(t, svc.DeleteAsset(context.Background(), domain.KindCatalogItem, "asset-1"))
	assert.Equal(t, 1, store.Len())
}

// --- ListAssets ---

func TestListAssets_ResolvesCategorySlug(t *testing.T) {
	repo := new(mockAssetRepository)
	svc, _ := newTestService(repo, storage.NewMemoryStore())

	category := &domain.Asset{ID: "cat-1", Kind: domain.KindCategory, Slug: "peripherals"}
	repo.On("GetBySlug", mock.Anything, domain.KindCategory, "peripherals").Return(category, nil).Once()
	repo.On("List", mock.Anything, domain.KindCatalogItem, mock.MatchedBy(func(f repository.AssetFilter) bool {
		return f.CategoryID != nil && *f.CategoryID == "cat-1"
	})).Return([]domain.Asset{}, 0, nil).Once()

	_, _, err := svc.ListAssets(context.Background(), domain.KindCatalogItem, ListAssetsInput{CategorySlug: "peripherals"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListAssets_UnknownCategorySlug(t *testing.T) {
	repo := new(mockAssetRepository)
	svc, _ := newTestService(repo, storage.NewMemoryStore())

	repo.On("GetBySlug", mock.Anything, domain.KindCategory, "nope").Return(nil, apperrors.NotFound("category", "nope")).Once()

	_, _, err := svc.ListAssets(context.Background(), domain.KindCatalogItem, ListAssetsInput{CategorySlug: "nope"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
