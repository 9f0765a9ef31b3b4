package ports

import (
	"cargo-layout-service/internal/domain"
	"context"
)

// Contract for memoizing computed layouts keyed by an input digest.
// The layout engine itself is cache-free; the serving layer decides when a
// snapshot digest is worth looking up or storing.
type LayoutCache interface {
	// Return a cached result and whether the key was present.
	GetLayout(ctx context.Context, key string) (domain.LayoutResult, bool, error)
	// Store a result under the key, bounded by the cache's TTL policy.
	SetLayout(ctx context.Context, key string, result domain.LayoutResult) error
}
