package embedding

import (
	"context"

	"github.com/harborml/ragward/internal/telemetry"
)

// CachedEmbedder wraps an Embedder with the shared LRU cache. Concurrent
// misses for the same query may both call the backend; the second Put is a
// harmless overwrite with an identical vector.
type CachedEmbedder struct {
	inner   Embedder
	cache   *Cache
	metrics *telemetry.Metrics
}

func NewCachedEmbedder(inner Embedder, cache *Cache, metrics *telemetry.Metrics) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: cache, metrics: metrics}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.cache.Get(text); ok {
		if e.metrics != nil {
			e.metrics.RecordCacheLookup(true)
		}
		return vec, nil
	}
	if e.metrics != nil {
		e.metrics.RecordCacheLookup(false)
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Put(text, vec)
	return vec, nil
}
