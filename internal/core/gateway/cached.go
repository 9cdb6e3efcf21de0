package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/mohammed-shakir/restaurant-recommender/internal/cache/keys"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/observability"
)

// ResponseCache is the subset of redisstore.Client the decorator needs.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Cached serves repeated identical queries from Redis. Only successful
// results are stored; any cache failure falls through to the next Searcher.
type Cached struct {
	next      Searcher
	cache     ResponseCache
	ttl       time.Duration
	opTimeout time.Duration
	logger    *slog.Logger
}

var (
	_ Searcher     = (*Cached)(nil)
	_ BodySearcher = (*Cached)(nil)
)

var errNoBodyTransport = errors.New("gateway: wrapped searcher has no JSON body transport")

func NewCached(next Searcher, cache ResponseCache, ttl, opTimeout time.Duration, logger *slog.Logger) *Cached {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cached{next: next, cache: cache, ttl: ttl, opTimeout: opTimeout, logger: logger}
}

// returns context with timeout if set
func (c *Cached) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.opTimeout)
}

func (c *Cached) Search(ctx context.Context, params url.Values) (model.SearchResult, error) {
	return c.through(ctx, keys.SearchKey(params), func() (model.SearchResult, error) {
		return c.next.Search(ctx, params)
	})
}

// SearchBody caches POST searches under the hash of the encoded body. The
// wrapped searcher must implement BodySearcher.
func (c *Cached) SearchBody(ctx context.Context, body any) (model.SearchResult, error) {
	bs, ok := c.next.(BodySearcher)
	if !ok {
		return model.SearchResult{}, errNoBodyTransport
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return bs.SearchBody(ctx, body)
	}
	return c.through(ctx, keys.BodyKey(raw), func() (model.SearchResult, error) {
		return bs.SearchBody(ctx, body)
	})
}

func (c *Cached) through(ctx context.Context, key string, fetch func() (model.SearchResult, error)) (model.SearchResult, error) {
	if res, ok := c.lookup(ctx, key); ok {
		return res, nil
	}

	res, err := fetch()
	if err != nil {
		return res, err
	}

	b, err := json.Marshal(res)
	if err != nil {
		c.logger.WarnContext(ctx, "cache encode failed", "key", key, "err", err)
		return res, nil
	}
	sctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.cache.Set(sctx, key, b, c.ttl); err != nil {
		observability.IncCacheError()
		c.logger.WarnContext(ctx, "cache set failed", "key", key, "err", err)
	}
	return res, nil
}

func (c *Cached) lookup(ctx context.Context, key string) (model.SearchResult, bool) {
	gctx, cancel := c.withTimeout(ctx)
	defer cancel()

	b, found, err := c.cache.Get(gctx, key)
	switch {
	case err != nil:
		observability.IncCacheError()
		c.logger.WarnContext(ctx, "cache get failed, calling provider", "key", key, "err", err)
		return model.SearchResult{}, false
	case !found:
		observability.IncCacheMiss()
		return model.SearchResult{}, false
	}

	var res model.SearchResult
	if err := json.Unmarshal(b, &res); err != nil {
		observability.IncCacheError()
		c.logger.WarnContext(ctx, "cached entry undecodable", "key", key, "err", err)
		return model.SearchResult{}, false
	}
	if res.Restaurants == nil {
		res.Restaurants = []model.Restaurant{}
	}
	observability.IncCacheHit()
	c.logger.DebugContext(ctx, "cache hit", "key", key)
	return res, true
}
