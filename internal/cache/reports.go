package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/analytics"
)

// ErrCacheMiss is returned when no fresh report is cached for a period.
var ErrCacheMiss = errors.New("cache miss")

const keyPrefix = "reports:"

// Client is the subset of redis.Cmdable the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Reports caches generated reports per period for a fixed TTL.
type Reports struct {
	client Client
	ttl    time.Duration
}

// NewReports returns a report cache. A non-positive ttl disables caching.
func NewReports(client Client, ttl time.Duration) *Reports {
	return &Reports{client: client, ttl: ttl}
}

func key(p analytics.Period) string { return keyPrefix + string(p) }

// Get returns the cached report for p, or ErrCacheMiss.
func (r *Reports) Get(ctx context.Context, p analytics.Period) (*analytics.Report, error) {
	if r.ttl <= 0 {
		return nil, ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, key(p)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key(p), err)
	}
	var rep analytics.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		// a payload from an older release; treat as a miss so it gets overwritten
		log.Printf("[cache] drop undecodable entry key=%s err=%v", key(p), err)
		return nil, ErrCacheMiss
	}
	return &rep, nil
}

// Set stores rep under its period.
func (r *Reports) Set(ctx context.Context, rep *analytics.Report) error {
	if r.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := r.client.Set(ctx, key(rep.Period), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key(rep.Period), err)
	}
	return nil
}

// Invalidate drops the cached report of every period.
func (r *Reports) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(analytics.Periods))
	for _, p := range analytics.Periods {
		keys = append(keys, key(p))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// Connect opens a Redis client for url and pings it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Printf("[cache] connected to redis %s", opt.Addr)
	return client, nil
}
