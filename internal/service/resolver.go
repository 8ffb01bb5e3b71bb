package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glowmart/storefront/internal/domain"
)

// maxSlugProbes bounds the numbered-suffix search. Beyond it the resolver
// gives up on sequential candidates and appends a random suffix instead of
// probing forever.
const maxSlugProbes = 100

// resolveSlug finds a free slug within the kind's namespace. It tries the
// base first, then base-1 through base-100, and finally base-<random hex>.
// The returned bool reports whether the random fallback was needed.
//
// The result is a candidate, not a claim: only the database's unique
// constraint makes it final. Callers handle the insert-time conflict.
func (s *AssetService) resolveSlug(ctx context.Context, kind domain.Kind, base string) (string, bool, error) {
	candidate := base
	for i := 1; i <= maxSlugProbes+1; i++ {
		exists, err := s.repo.SlugExists(ctx, kind, candidate, "")
		if err != nil {
			return "", false, fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !exists {
			return candidate, false, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	random := fmt.Sprintf("%s-%s", base, s.randHex(8))
	s.logger.WarnContext(ctx, "slug namespace saturated, using random suffix",
		slog.String("kind", string(kind)),
		slog.String("base", base),
		slog.String("slug", random),
	)
	return random, true, nil
}
