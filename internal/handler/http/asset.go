// Package http exposes the asset ingestion pipeline over REST.
package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/glowmart/storefront/internal/domain"
	"github.com/glowmart/storefront/internal/service"
	apperrors "github.com/glowmart/storefront/pkg/errors"
	"github.com/glowmart/storefront/pkg/httputil"
	"github.com/glowmart/storefront/pkg/validator"
)

// multipart form field overhead allowance on top of the image size limit
const formOverhead = 1 << 20

// AssetHandler handles HTTP requests for asset endpoints.
type AssetHandler struct {
	service       *service.AssetService
	logger        *slog.Logger
	maxUploadSize int64
}

// NewAssetHandler creates a new asset HTTP handler.
func NewAssetHandler(svc *service.AssetService, logger *slog.Logger, maxUploadSize int64) *AssetHandler {
	return &AssetHandler{
		service:       svc,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// --- Request DTOs ---

type createAssetRequest struct {
	Name        string `validate:"required,max=255"`
	Description string `validate:"max=4000"`
	CategoryID  string `validate:"omitempty,uuid"`
}

type updateCategoryField struct {
	CategoryID string `validate:"omitempty,uuid"`
}

// --- Handlers ---

// CreateAsset handles POST /api/v1/assets/{kind} (multipart/form-data).
func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindFromRequest(w, r)
	if !ok {
		return
	}

	form, img, ok := h.parseMultipart(w, r)
	if !ok {
		return
	}

	req := createAssetRequest{
		Name:        form.value("name"),
		Description: form.value("description"),
		CategoryID:  form.value("category_id"),
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.IngestAssetInput{
		Kind:        kind,
		Name:        req.Name,
		Description: req.Description,
		Image:       img,
	}
	if req.CategoryID != "" {
		input.CategoryID = &req.CategoryID
	}

	var err error
	if input.Price, err = form.price(); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if input.SortOrder, err = form.intValue("sort_order", 0); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if v, present := form.lookup("active"); present {
		active := v == "true" || v == "1"
		input.Active = &active
	}

	asset, err := h.service.IngestAsset(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: asset})
}

// UpdateAsset handles PUT /api/v1/assets/{kind}/{id} (multipart/form-data).
// Only fields present in the form are touched; the slug is never one of
// them.
func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindFromRequest(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	form, img, ok := h.parseMultipart(w, r)
	if !ok {
		return
	}

	input := &service.UpdateAssetInput{Image: img}
	if v, present := form.lookup("name"); present {
		input.Name = &v
	}
	if v, present := form.lookup("description"); present {
		input.Description = &v
	}
	if v, present := form.lookup("category_id"); present {
		if err := validator.Validate(updateCategoryField{CategoryID: v}); err != nil {
			httputil.WriteValidationError(w, err)
			return
		}
		input.CategoryID = &v
	}
	if _, present := form.lookup("price"); present {
		price, err := form.price()
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		input.Price = price
	}
	if _, present := form.lookup("sort_order"); present {
		n, err := form.intValue("sort_order", 0)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		input.SortOrder = &n
	}
	if v, present := form.lookup("active"); present {
		active := v == "true" || v == "1"
		input.Active = &active
	}

	asset, err := h.service.UpdateAsset(r.Context(), kind, id, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: asset})
}

// GetAsset handles GET /api/v1/assets/{kind}/{id}.
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindFromRequest(w, r)
	if !ok {
		return
	}

	asset, err := h.service.GetAsset(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: asset})
}

// GetAssetBySlug handles GET /api/v1/assets/{kind}/slug/{slug}.
func (h *AssetHandler) GetAssetBySlug(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindFromRequest(w, r)
	if !ok {
		return
	}

	asset, err := h.service.GetAssetBySlug(r.Context(), kind, chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: asset})
}

// ListAssets handles GET /api/v1/assets/{kind}.
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindFromRequest(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	input := service.ListAssetsInput{
		CategorySlug: q.Get("category"),
		Page:         1,
		PerPage:      20,
	}
	if v := q.Get("active"); v != "" {
		active := v == "true" || v == "1"
		input.Active = &active
	}
	if v := q.Get("search"); v != "" {
		input.Search = &v
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			input.Page = n
		}
	}
	if v := q.Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			input.PerPage = n
		}
	}

	assets, total, err := h.service.ListAssets(r.Context(), kind, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := httputil.NewPaginatedResponse(assets, total, input.Page, input.PerPage)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// DeleteAsset handles DELETE /api/v1/assets/{kind}/{id}.
func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteAsset(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func (h *AssetHandler) kindFromRequest(w http.ResponseWriter, r *http.Request) (domain.Kind, bool) {
	raw := chi.URLParam(r, "kind")
	if !domain.IsValidKind(raw) {
		httputil.WriteError(w, r, apperrors.NotFound("asset kind", raw), h.logger)
		return "", false
	}
	return domain.Kind(raw), true
}

// multipartForm wraps the parsed form values for presence-aware lookups.
type multipartForm struct {
	values map[string][]string
}

func (f multipartForm) lookup(key string) (string, bool) {
	vals, ok := f.values[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func (f multipartForm) value(key string) string {
	v, _ := f.lookup(key)
	return v
}

func (f multipartForm) price() (*decimal.Decimal, error) {
	raw, ok := f.lookup("price")
	if !ok || raw == "" {
		return nil, nil
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid price %q", raw))
	}
	return &price, nil
}

func (f multipartForm) intValue(key string, fallback int) (int, error) {
	raw, ok := f.lookup(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid %s %q", key, raw))
	}
	return n, nil
}

// parseMultipart parses the request body and reads the optional image file.
// Returns ok=false after writing an error response.
func (h *AssetHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (multipartForm, *service.ImageUpload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+formOverhead)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("failed to parse multipart form: "+err.Error()), h.logger)
		return multipartForm{}, nil, false
	}

	form := multipartForm{values: r.MultipartForm.Value}

	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return form, nil, true
		}
		httputil.WriteError(w, r, apperrors.InvalidInput("failed to read image file: "+err.Error()), h.logger)
		return multipartForm{}, nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("failed to read image file: "+err.Error()), h.logger)
		return multipartForm{}, nil, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return form, &service.ImageUpload{Data: data, ContentType: contentType}, true
}
