package llm

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"loft/internal/logging"
)

const (
	defaultCacheMaxSize = 256
	defaultCacheTTL     = 5 * time.Minute
)

// CacheConfig configures classification response memoization.
type CacheConfig struct {
	MaxSize int           // maximum number of entries in the LRU cache
	TTL     time.Duration // how long a cached label remains valid
}

// DefaultCacheConfig returns the classification cache defaults.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxSize: defaultCacheMaxSize,
		TTL:     defaultCacheTTL,
	}
}

type cacheEntry struct {
	payload  Payload
	storedAt time.Time
}

// cachingClient memoizes classification responses keyed by the trimmed
// message, so re-asking an identical request skips one remote round trip.
// Generation calls are never cached: the open prompt is non-deterministic and
// the artifact must be produced fresh.
type cachingClient struct {
	delegate Client
	cache    *lru.Cache[string, cacheEntry]
	ttl      time.Duration
	logger   logging.Logger
	now      func() time.Time
}

var _ Client = (*cachingClient)(nil)

// WrapWithCache wraps a completion client with a classification LRU.
func WrapWithCache(client Client, config CacheConfig) Client {
	if config.MaxSize <= 0 {
		config.MaxSize = defaultCacheMaxSize
	}
	if config.TTL <= 0 {
		config.TTL = defaultCacheTTL
	}
	cache, err := lru.New[string, cacheEntry](config.MaxSize)
	if err != nil {
		// lru.New only fails on a non-positive size, which is guarded above.
		return client
	}
	return &cachingClient{
		delegate: client,
		cache:    cache,
		ttl:      config.TTL,
		logger:   logging.NewComponentLogger("llm-cache"),
		now:      time.Now,
	}
}

func (c *cachingClient) Generate(ctx context.Context, message string, purpose Purpose) (*Payload, error) {
	if purpose != PurposeClassification {
		return c.delegate.Generate(ctx, message, purpose)
	}

	key := strings.TrimSpace(message)
	if entry, ok := c.cache.Get(key); ok {
		if c.now().Sub(entry.storedAt) <= c.ttl {
			c.logger.Debug("Classification cache hit")
			payload := entry.payload
			return &payload, nil
		}
		c.cache.Remove(key)
	}

	payload, err := c.delegate.Generate(ctx, message, purpose)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cacheEntry{payload: *payload, storedAt: c.now()})
	return payload, nil
}
