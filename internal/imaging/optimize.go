package imaging

import (
	"bytes"
	"image"
	"image/color"

	img "github.com/disintegration/imaging"

	"github.com/glowmart/storefront/internal/domain"
	apperrors "github.com/glowmart/storefront/pkg/errors"
)

// ContentType is the media type every optimized image is encoded as.
const ContentType = "image/jpeg"

const jpegQuality = 85

// Optimize re-encodes a validated upload into the canonical stored form:
// any alpha channel is flattened onto a white background, the image is
// downscaled with Lanczos resampling to fit the policy bounding box (never
// upscaled), and the result is written as JPEG at quality 85.
//
// Every failure is returned to the caller. A broken image must surface at
// upload time, not ship to the storefront half-processed.
func Optimize(data []byte, policy domain.ImagePolicy) ([]byte, Meta, error) {
	// Validate has already header-decoded the bytes, so a full-decode
	// failure here is a processing fault, not a malformed upload.
	src, err := img.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Meta{}, apperrors.OptimizeError(err)
	}

	flat := flatten(src)

	if policy.MaxWidth > 0 && policy.MaxHeight > 0 {
		flat = img.Fit(flat, policy.MaxWidth, policy.MaxHeight, img.Lanczos)
	}

	var buf bytes.Buffer
	if err := img.Encode(&buf, flat, img.JPEG, img.JPEGQuality(jpegQuality)); err != nil {
		return nil, Meta{}, apperrors.OptimizeError(err)
	}

	bounds := flat.Bounds()
	meta := Meta{Width: bounds.Dx(), Height: bounds.Dy(), Format: "jpeg"}
	return buf.Bytes(), meta, nil
}

// flatten composites the image onto an opaque white canvas so transparent
// regions come out white in the JPEG instead of black.
func flatten(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	canvas := img.New(bounds.Dx(), bounds.Dy(), color.White)
	return img.Overlay(canvas, src, image.Pt(0, 0), 1.0)
}
