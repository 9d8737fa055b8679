package rag

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CachedEmbedder memoizes embeddings of identical query texts for ttl.
type CachedEmbedder struct {
	inner Embedder
	cache *cache.Cache
}

func NewCachedEmbedder(inner Embedder, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.cache.Get(text); ok {
		return v.([]float32), nil
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.cache.SetDefault(text, vec)
	return vec, nil
}
