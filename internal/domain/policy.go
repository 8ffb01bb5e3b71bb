package domain

// ImagePolicy holds the per-kind constraints an uploaded image must satisfy
// against its ORIGINAL dimensions, before any optimization, and the bounding
// box it is downscaled into afterwards.
type ImagePolicy struct {
	// Minimum original dimensions, inclusive.
	MinWidth  int
	MinHeight int

	// Bounding box the optimized image is scaled down to fit. Images
	// already inside the box are left at their original size.
	MaxWidth  int
	MaxHeight int

	// RequireLandscape rejects images whose height exceeds their width.
	// Square images pass.
	RequireLandscape bool

	// MaxAspectRatio rejects images wider than width/height ratio. Zero
	// means no ceiling.
	MaxAspectRatio float64

	// ImageRequired makes the upload mandatory at creation time.
	ImageRequired bool

	// FallbackSlug is the slug base used when a name transliterates to
	// nothing, e.g. a name written entirely in symbols.
	FallbackSlug string
}

var policies = map[Kind]ImagePolicy{
	KindCatalogItem: {
		MinWidth:         400,
		MinHeight:        400,
		MaxWidth:         1600,
		MaxHeight:        1600,
		RequireLandscape: true,
		ImageRequired:    true,
		FallbackSlug:     "item",
	},
	KindService: {
		MinWidth:         1,
		MinHeight:        1,
		MaxWidth:         1600,
		MaxHeight:        1600,
		RequireLandscape: true,
		ImageRequired:    true,
		FallbackSlug:     "service",
	},
	KindCategory: {
		MinWidth:         400,
		MinHeight:        400,
		MaxWidth:         1600,
		MaxHeight:        1600,
		RequireLandscape: true,
		ImageRequired:    false,
		FallbackSlug:     "category",
	},
	KindBanner: {
		MinWidth:         800,
		MinHeight:        600,
		MaxWidth:         1600,
		MaxHeight:        1600,
		RequireLandscape: true,
		MaxAspectRatio:   2.0,
		ImageRequired:    true,
		FallbackSlug:     "banner",
	},
}

// PolicyFor returns the image policy for the given kind. Unknown kinds get
// the strictest policy so a bad kind can never relax validation.
func PolicyFor(kind Kind) ImagePolicy {
	if p, ok := policies[kind]; ok {
		return p
	}
	return policies[KindCatalogItem]
}
