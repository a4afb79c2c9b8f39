package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	cacheVersionKey = "reports:version"
	bumpChannel     = "reports.bump"

	defaultSharedFetchTimeout = 10 * time.Second
)

// Cache wraps Redis based caching of report payloads with versioning controls.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A nil client or non-positive ttl
// disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Enabled reports whether payloads are stored.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, cacheVersionKey, ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}

// BuildKey composes the cache key with the current version.
func (c *Cache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if !c.Enabled() {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, ver), nil
}

// Bump invalidates every cached payload by incrementing the version and
// publishing the new value.
func (c *Cache) Bump(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	ver, err := c.client.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return 0, err
	}
	return ver, c.client.Publish(ctx, bumpChannel, ver).Err()
}

// CacheRecorder observes cache lookups.
type CacheRecorder interface {
	CacheResult(endpoint string, hit bool)
}

// CachedSource serves report payloads from the cache, falling through to the
// wrapped Source on a miss. Concurrent misses for the same key share one fetch,
// which outlives any single caller and is bounded by its own timeout.
type CachedSource struct {
	next         Source
	cache        *Cache
	logger       *slog.Logger
	recorder     CacheRecorder
	group        singleflight.Group
	fetchTimeout time.Duration
}

// NewCachedSource decorates next with cache.
func NewCachedSource(next Source, cache *Cache, logger *slog.Logger, recorder CacheRecorder) *CachedSource {
	return &CachedSource{next: next, cache: cache, logger: logger, recorder: recorder, fetchTimeout: defaultSharedFetchTimeout}
}

// WithFetchTimeout bounds shared fetches on a cache miss.
func (s *CachedSource) WithFetchTimeout(d time.Duration) *CachedSource {
	if d > 0 {
		s.fetchTimeout = d
	}
	return s
}

// FetchArray implements Source.
func (s *CachedSource) FetchArray(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if !s.cache.Enabled() {
		return s.next.FetchArray(ctx, path, query)
	}
	key, err := s.cache.BuildKey(ctx, "reports", path, query.Encode())
	if err != nil {
		s.warn("build report cache key", err)
		return s.next.FetchArray(ctx, path, query)
	}

	payload, err := s.cache.client.Get(ctx, key).Bytes()
	if err == nil {
		s.record(path, true)
		return json.RawMessage(payload), nil
	}
	if !errors.Is(err, redis.Nil) {
		s.warn("read report cache", err)
	}
	s.record(path, false)

	// Callers that join the fetch must not inherit the cancellation of the
	// caller that started it.
	detached := context.WithoutCancel(ctx)
	resultChan := s.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(detached, s.fetchTimeout)
		defer cancel()
		raw, err := s.next.FetchArray(fetchCtx, path, query)
		if err != nil {
			return nil, err
		}
		if err := s.cache.client.Set(fetchCtx, key, []byte(raw), s.cache.ttl).Err(); err != nil {
			s.warn("write report cache", err)
		}
		return raw, nil
	})
	select {
	case <-ctx.Done():
		return nil, &NetworkError{Endpoint: path, Err: ctx.Err()}
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}

// Refresh drops every cached payload.
func (s *CachedSource) Refresh(ctx context.Context) (int64, error) {
	return s.cache.Bump(ctx)
}

func (s *CachedSource) record(path string, hit bool) {
	if s.recorder != nil {
		s.recorder.CacheResult(endpointLabel(path), hit)
	}
}

func (s *CachedSource) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, slog.Any("error", err))
	}
}
