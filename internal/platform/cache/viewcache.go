package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Well-known view names. Mutating actions invalidate the views whose
// rendered data they touched; read services populate them on miss.
const (
	ViewBenchmarks      = "benchmarks"
	ViewAdminBenchmarks = "admin:benchmarks"
	ViewSubmissions     = "submissions"
	ViewAdminQueue      = "admin:queue"
)

// ViewBenchmark names the per-benchmark detail view.
func ViewBenchmark(id string) string {
	return "benchmark:" + id
}

// Key namespaces a view name into the Redis keyspace.
func Key(view string) string {
	return "view:" + view
}

// ViewCache stores assembled read views as JSON with a short TTL and
// supports explicit invalidation after mutations. A nil ViewCache is
// valid and disables caching, which keeps it out of the way in tests.
type ViewCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewViewCache(rdb *redis.Client, ttl time.Duration) *ViewCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ViewCache{rdb: rdb, ttl: ttl}
}

// Get unmarshals the cached view into dest and reports whether it was a hit.
func (c *ViewCache) Get(ctx context.Context, view string, dest interface{}) bool {
	if c == nil {
		return false
	}
	bs, err := c.rdb.Get(ctx, Key(view)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(bs, dest); err != nil {
		// Stale or corrupt entry; drop it and treat as a miss.
		c.rdb.Del(ctx, Key(view))
		return false
	}
	return true
}

func (c *ViewCache) Set(ctx context.Context, view string, payload interface{}) {
	if c == nil {
		return
	}
	bs, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.rdb.SetEx(ctx, Key(view), bs, c.ttl).Err(); err != nil {
		log.Printf("WARN: failed to cache view %s: %v", view, err)
	}
}

// Close releases the underlying Redis connection.
func (c *ViewCache) Close() {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Close()
	fmt.Println("Redis connection closed.")
}

// Invalidate drops the named views. Failures are logged, not returned:
// the TTL bounds the staleness window if a delete is missed.
func (c *ViewCache) Invalidate(ctx context.Context, views ...string) {
	if c == nil || len(views) == 0 {
		return
	}
	keys := make([]string, len(views))
	for i, v := range views {
		keys[i] = Key(v)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("WARN: failed to invalidate views %v: %v", views, err)
	}
}
