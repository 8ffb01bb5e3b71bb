// Package slug turns free-form asset names into stable URL identifiers.
package slug

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name. Unicode text is
// transliterated to its closest ASCII form before slugification, so names in
// any script produce a usable slug.
//
// Examples:
//   - "Écran 4K"      → "ecran-4k"
//   - "Kadın Giyim"   → "kadin-giyim"
//   - "Hello   World" → "hello-world"
//
// Returns the empty string when nothing survives transliteration, e.g. a
// name made entirely of symbols. Callers that need a non-empty slug should
// use GenerateWithFallback.
func Generate(name string) string {
	s := unidecode.Unidecode(strings.TrimSpace(name))
	s = strings.ToLower(s)
	s = slugRegexp.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateWithFallback creates a slug from name, substituting the fallback
// token when the name yields nothing. The fallback itself is slugified, so
// the result always contains only lowercase letters, digits, and hyphens.
func GenerateWithFallback(name, fallback string) string {
	if s := Generate(name); s != "" {
		return s
	}
	return Generate(fallback)
}
