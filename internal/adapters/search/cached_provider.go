package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/internal/infrastructure/observability"
)

const searchCacheName = "search"

// CachedProvider wraps a SearchProvider with a response cache keyed by the full request
type CachedProvider struct {
	next    providers.SearchProvider
	cache   providers.CacheProvider
	ttl     int
	metrics *observability.Metrics
}

var _ providers.SearchProvider = (*CachedProvider)(nil)

// NewCachedProvider caches successful responses of next for ttlSeconds; metrics may be nil
func NewCachedProvider(next providers.SearchProvider, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, ttl: ttlSeconds, metrics: metrics}
}

// Name reports the wrapped provider
func (p *CachedProvider) Name() string {
	return p.next.Name()
}

// Search serves from cache when possible; cache failures fall through to the provider
func (p *CachedProvider) Search(ctx context.Context, input providers.SearchInput) (*providers.SearchOutput, error) {
	key := cacheKey(p.next.Name(), input)

	if data, err := p.cache.Get(ctx, key); err == nil {
		var out providers.SearchOutput
		if err := json.Unmarshal(data, &out); err == nil {
			observability.RecordCacheHit(ctx, p.metrics, searchCacheName)
			return &out, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cached search response")
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		log.Warn().Err(err).Msg("search cache lookup failed")
	}
	observability.RecordCacheMiss(ctx, p.metrics, searchCacheName)

	out, err := p.next.Search(ctx, input)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(out); err == nil {
		if err := p.cache.Set(ctx, key, data, p.ttl); err != nil {
			log.Warn().Err(err).Msg("failed to cache search response")
		}
	}
	return out, nil
}

func cacheKey(provider string, input providers.SearchInput) string {
	sum := sha256.Sum256([]byte(input.Keywords + "\x00" + input.UserLocation))
	return "search:" + provider + ":" + hex.EncodeToString(sum[:])
}
