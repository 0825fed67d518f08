package clinicapi

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CatalogLister is the read-only catalog surface of the backend.
type CatalogLister interface {
	ListAudiologists(ctx context.Context) ([]Audiologist, error)
	ListDiagnostics(ctx context.Context) ([]Diagnostic, error)
	ListDoctors(ctx context.Context) ([]Doctor, error)
	ListHospitals(ctx context.Context) ([]Hospital, error)
}

var _ CatalogLister = (*Client)(nil)
var _ CatalogLister = (*CachedCatalogs)(nil)

const cacheKeyPrefix = "clinicdesk:catalog:"

// CachedCatalogs serves catalogs from Redis and falls back to the wrapped
// lister on a miss. Redis failures are logged and never fail a call.
type CachedCatalogs struct {
	next CatalogLister
	rdb  redis.Cmdable
	ttl  time.Duration
	log  zerolog.Logger
}

// NewCachedCatalogs wraps next with a Redis cache whose entries expire after ttl.
func NewCachedCatalogs(next CatalogLister, rdb redis.Cmdable, ttl time.Duration, logger *zerolog.Logger) *CachedCatalogs {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &CachedCatalogs{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  l.With().Str("component", "catalog-cache").Logger(),
	}
}

func (c *CachedCatalogs) ListAudiologists(ctx context.Context) ([]Audiologist, error) {
	return cached(ctx, c, "audiologists", c.next.ListAudiologists)
}

func (c *CachedCatalogs) ListDiagnostics(ctx context.Context) ([]Diagnostic, error) {
	return cached(ctx, c, "diagnostics", c.next.ListDiagnostics)
}

func (c *CachedCatalogs) ListDoctors(ctx context.Context) ([]Doctor, error) {
	return cached(ctx, c, "doctors", c.next.ListDoctors)
}

func (c *CachedCatalogs) ListHospitals(ctx context.Context) ([]Hospital, error) {
	return cached(ctx, c, "hospitals", c.next.ListHospitals)
}

// Invalidate drops every cached catalog.
func (c *CachedCatalogs) Invalidate(ctx context.Context) error {
	keys := []string{
		cacheKeyPrefix + "audiologists",
		cacheKeyPrefix + "diagnostics",
		cacheKeyPrefix + "doctors",
		cacheKeyPrefix + "hospitals",
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func cached[T any](ctx context.Context, c *CachedCatalogs, name string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	key := cacheKeyPrefix + name

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []T
		if jsonErr := json.Unmarshal(raw, &items); jsonErr == nil {
			return items, nil
		}
		c.log.Warn().Str("key", key).Msg("dropping undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		return items, nil
	}
	if err := c.rdb.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return items, nil
}
