package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"postboard/app/logging"
	"postboard/app/metrics"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/redis/go-redis/v9"
)

// Cache stores raw response bodies keyed by request URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// NoCache never stores anything.
type NoCache struct{}

func (NoCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (NoCache) Set(context.Context, string, []byte, time.Duration) {}

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

// MemoryCache is an in-process cache backed by ristretto. Expiry is judged
// against an injectable clock.
type MemoryCache struct {
	store *ristretto.Cache[string, memoryEntry]
	now   func() time.Time
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock replaces time.Now for expiry decisions.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryCache) { m.now = now }
}

// NewMemoryCache creates a MemoryCache holding up to 64MB of bodies.
func NewMemoryCache(opts ...MemoryOption) (*MemoryCache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, memoryEntry]{
		NumCounters:        1e5,
		MaxCost:            64 << 20,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create memory cache: %w", err)
	}
	m := &MemoryCache{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	e, ok := m.store.Get(key)
	if ok && m.now().Before(e.expiresAt) {
		metrics.CacheLookups.WithLabelValues("memory", "hit").Inc()
		return e.body, true
	}
	if ok {
		m.store.Del(key)
	}
	metrics.CacheLookups.WithLabelValues("memory", "miss").Inc()
	return nil, false
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	entry := memoryEntry{body: value, expiresAt: m.now().Add(ttl)}
	m.store.SetWithTTL(key, entry, int64(len(value))+1, ttl)
	// Sets are buffered; wait so the entry is visible to the next Get.
	m.store.Wait()
}

// Clear drops every entry.
func (m *MemoryCache) Clear() {
	m.store.Clear()
}

// Close releases the ristretto goroutines.
func (m *MemoryCache) Close() {
	m.store.Close()
}

// RedisCache shares cached responses between processes.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisCache wraps an existing client. Keys are namespaced with "postboard:".
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "postboard:",
		logger: logging.Logger.With(slog.String("component", "redis_cache")),
	}
}

// DialRedis opens a client from either a bare address or a redis:// URL and
// pings it.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url %q: %w", addr, err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	body, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.WarnContext(ctx, "redis get failed", slog.String("key", key), slog.Any("error", err))
		}
		metrics.CacheLookups.WithLabelValues("redis", "miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("redis", "hit").Inc()
	return body, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "redis set failed", slog.String("key", key), slog.Any("error", err))
	}
}
