package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared across the service.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidImage  = errors.New("invalid image")
	ErrConflict      = errors.New("conflict")
	ErrInternal      = errors.New("internal error")
)

// AppError is a structured application error with an HTTP status mapping.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Status  int               `json:"-"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Fields:  map[string]string{field: fmt.Sprintf("%q is already taken", value)},
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// DecodeError creates a 400 error for bytes that are not a readable image.
func DecodeError(err error) *AppError {
	return &AppError{
		Code:    "DECODE_ERROR",
		Message: "uploaded file is not a supported image format",
		Fields:  map[string]string{"image": "must be a valid JPEG, PNG, GIF, or WebP image"},
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// ImageTooSmall creates a 422 error carrying the measured and required dimensions.
func ImageTooSmall(width, height, minWidth, minHeight int) *AppError {
	return &AppError{
		Code:    "IMAGE_TOO_SMALL",
		Message: fmt.Sprintf("image must be at least %dx%d pixels, got %dx%d", minWidth, minHeight, width, height),
		Fields: map[string]string{
			"image": fmt.Sprintf("minimum size is %dx%d pixels, current size is %dx%d", minWidth, minHeight, width, height),
		},
		Status: http.StatusUnprocessableEntity,
		Err:    ErrInvalidImage,
	}
}

// WrongOrientation creates a 422 error for a portrait image where landscape or
// square is required.
func WrongOrientation(width, height int) *AppError {
	return &AppError{
		Code:    "WRONG_ORIENTATION",
		Message: fmt.Sprintf("image width must be equal to or greater than its height, got %dx%d", width, height),
		Fields: map[string]string{
			"image": fmt.Sprintf("width must be >= height, current dimensions are %dx%d", width, height),
		},
		Status: http.StatusUnprocessableEntity,
		Err:    ErrInvalidImage,
	}
}

// ImageTooWide creates a 422 error for an image exceeding the aspect-ratio ceiling.
func ImageTooWide(width, height int, maxRatio float64) *AppError {
	ratio := 0.0
	if height > 0 {
		ratio = float64(width) / float64(height)
	}
	return &AppError{
		Code:    "IMAGE_TOO_WIDE",
		Message: fmt.Sprintf("image aspect ratio %.1f:1 exceeds the maximum of %.1f:1", ratio, maxRatio),
		Fields: map[string]string{
			"image": fmt.Sprintf("width must not exceed %.1fx the height, current dimensions are %dx%d", maxRatio, width, height),
		},
		Status: http.StatusUnprocessableEntity,
		Err:    ErrInvalidImage,
	}
}

// OptimizeError creates a 500 error for an internal re-encoding fault. The
// message deliberately carries no storage or codec detail; the wrapped error
// is for logs only.
func OptimizeError(err error) *AppError {
	return &AppError{
		Code:    "OPTIMIZE_ERROR",
		Message: "failed to process the uploaded image",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// SlugExhausted creates a 500 error for the practically unreachable case where
// slug resolution ran out of candidates.
func SlugExhausted(candidate string) *AppError {
	return &AppError{
		Code:    "SLUG_EXHAUSTED",
		Message: "could not allocate a unique identifier",
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("slug namespace exhausted for candidate %q: %w", candidate, ErrConflict),
	}
}

// PersistenceConflict creates a 409 error for a transaction that failed after
// its bounded retry, typically a racing unique-constraint violation.
func PersistenceConflict(err error) *AppError {
	return &AppError{
		Code:    "PERSISTENCE_CONFLICT",
		Message: "the resource was modified concurrently, please retry",
		Status:  http.StatusConflict,
		Err:     fmt.Errorf("%w: %w", ErrConflict, err),
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidImage):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
