// Package imaging validates and optimizes uploaded asset images.
//
// Validation always runs against the original dimensions of the upload, and
// optimization never relaxes a constraint: an image that fails validation is
// rejected before any pixel is touched.
package imaging

import (
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/glowmart/storefront/internal/domain"
	apperrors "github.com/glowmart/storefront/pkg/errors"
)

// Meta describes a decoded image.
type Meta struct {
	Width  int
	Height int
	Format string
}

// Validate decodes the image header and checks it against the policy. Checks
// run in a fixed order so a broken upload reports the most fundamental
// failure first: decodability, then minimum size, then orientation, then
// aspect ratio.
func Validate(data []byte, policy domain.ImagePolicy) (Meta, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Meta{}, apperrors.DecodeError(err)
	}
	meta := Meta{Width: cfg.Width, Height: cfg.Height, Format: format}

	if cfg.Width < policy.MinWidth || cfg.Height < policy.MinHeight {
		return meta, apperrors.ImageTooSmall(cfg.Width, cfg.Height, policy.MinWidth, policy.MinHeight)
	}
	if policy.RequireLandscape && cfg.Height > cfg.Width {
		return meta, apperrors.WrongOrientation(cfg.Width, cfg.Height)
	}
	if policy.MaxAspectRatio > 0 {
		if cfg.Height == 0 || float64(cfg.Width)/float64(cfg.Height) > policy.MaxAspectRatio {
			return meta, apperrors.ImageTooWide(cfg.Width, cfg.Height, policy.MaxAspectRatio)
		}
	}
	return meta, nil
}
