package fetch

import (
	"context"
	"time"

	"github.com/klapacz/pg-error-codes/internal/cache"
	"github.com/klapacz/pg-error-codes/internal/logging"
)

// DefaultCacheTTL is how long a fetched remote catalog stays fresh.
const DefaultCacheTTL = 24 * time.Hour

// Cached serves remote catalogs from a cache and fills it on a miss. Local
// sources bypass the cache.
type Cached struct {
	Next  Fetcher
	Cache cache.Cache
	TTL   time.Duration
	// Refresh evicts any cached copy before fetching and stores the fresh body.
	Refresh bool
	Logger  logging.Logger
}

// Fetch implements Fetcher.
func (c *Cached) Fetch(ctx context.Context, source string) ([]byte, error) {
	if c.Cache == nil || !IsRemote(source) {
		return c.Next.Fetch(ctx, source)
	}
	logger := c.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	key := cache.ComputeKeyWithPrefix("errcodes", []byte(source))
	if c.Refresh {
		c.Cache.Delete(ctx, key)
		logger.Debug("catalog cache evicted", "source", source)
	} else if body, ok := c.Cache.Get(ctx, key); ok {
		logger.Debug("catalog cache hit", "source", source, "bytes", len(body))
		return body, nil
	}

	body, err := c.Next.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c.Cache.Set(ctx, key, body, ttl)
	logger.Debug("catalog cached", "source", source, "ttl", ttl)
	return body, nil
}
