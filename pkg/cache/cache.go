// Package cache provides the content-addressed recommendation cache: a
// shared Redis store fronted per process by a bounded in-memory fallback.
// Cache unavailability is never a hard failure for callers.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// keyNamespace prefixes every cache key to avoid collisions with unrelated
// uses of the shared store.
const keyNamespace = "pathway_rec:"

// reprobeInterval is how long the remote store stays marked unavailable
// before an operation attempts it again.
const reprobeInterval = 30 * time.Second

// Key derives the deterministic content key for a submission. The key is a
// function of entry type and the answer set only - deliberately not of the
// submitting user - so identical submissions share a cached recommendation.
// Answer insertion order does not affect the key.
func Key(entryType string, answers map[string]string) string {
	material, _ := json.Marshal(struct {
		Answers   map[string]string `json:"answers"`
		EntryType string            `json:"entry_type"`
	}{Answers: answers, EntryType: entryType})

	digest := sha256.Sum256(material)
	return keyNamespace + hex.EncodeToString(digest[:])
}

// HealthStatus reports the cache layer's view of its stores.
type HealthStatus struct {
	Status         string `json:"status"` // "healthy", "fallback" or "unhealthy"
	Connected      bool   `json:"connected"`
	RedisVersion   string `json:"redis_version,omitempty"`
	Error          string `json:"error,omitempty"`
	FallbackActive bool   `json:"fallback_active"`
	FallbackSize   int    `json:"fallback_cache_size"`
}

// RecommendationCache is the process-wide cache handle. Construct once at
// startup and inject wherever cached payloads are read or written.
type RecommendationCache struct {
	remote *redis.Client // nil when Redis is not configured
	local  *localStore
	ttl    time.Duration
	logger *zap.Logger

	// remoteDownSince holds the unix-nano time of the last remote failure,
	// or 0 when the remote is considered available. It is an optimization
	// hint, not a correctness mechanism; a lost update costs one extra
	// failed remote attempt.
	remoteDownSince atomic.Int64
}

// New creates a RecommendationCache. remote may be nil, in which case the
// fallback store serves all traffic.
func New(remote *redis.Client, ttl time.Duration, fallbackMaxEntries int, logger *zap.Logger) *RecommendationCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RecommendationCache{
		remote: remote,
		local:  newLocalStore(fallbackMaxEntries),
		ttl:    ttl,
		logger: logger.Named("cache"),
	}
}

// Get attempts the shared store first, falling back to the in-process store
// on any remote failure. A miss in both returns (nil, false); remote errors
// never propagate to the caller.
func (c *RecommendationCache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	if c.remoteAvailable() {
		value, err := c.remote.Get(ctx, key).Result()
		switch {
		case err == nil:
			return json.RawMessage(value), true
		case err == redis.Nil:
			// A clean miss; don't consult the fallback, its content is a
			// subset of what the shared store has seen.
			return nil, false
		default:
			c.markRemoteDown(err)
		}
	}

	return c.local.Get(key)
}

// Set writes to the in-process store unconditionally so this worker has warm
// data even if Redis is down, then best-effort writes to the shared store.
func (c *RecommendationCache) Set(ctx context.Context, key string, payload json.RawMessage) {
	c.local.Set(key, payload, c.ttl)

	if !c.remoteAvailable() {
		return
	}
	if err := c.remote.Set(ctx, key, string(payload), c.ttl).Err(); err != nil {
		c.markRemoteDown(err)
	}
}

// Health probes the shared store. A successful probe clears the availability
// latch so subsequent operations use Redis again.
func (c *RecommendationCache) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		FallbackSize: c.local.Len(),
	}

	if c.remote == nil {
		status.Status = "fallback"
		status.FallbackActive = true
		return status
	}

	if err := c.remote.Ping(ctx).Err(); err != nil {
		c.markRemoteDown(err)
		status.Status = "unhealthy"
		status.Error = err.Error()
		status.FallbackActive = true
		return status
	}

	c.remoteDownSince.Store(0)
	status.Status = "healthy"
	status.Connected = true
	status.FallbackActive = false

	if info, err := c.remote.Info(ctx, "server").Result(); err == nil {
		status.RedisVersion = parseRedisVersion(info)
	}

	return status
}

// remoteAvailable reports whether the next operation should attempt Redis.
// After a failure the remote stays latched down for reprobeInterval, then a
// single operation re-probes it.
func (c *RecommendationCache) remoteAvailable() bool {
	if c.remote == nil {
		return false
	}
	downSince := c.remoteDownSince.Load()
	if downSince == 0 {
		return true
	}
	if time.Since(time.Unix(0, downSince)) < reprobeInterval {
		return false
	}
	// Give the remote another chance; it re-latches if still failing.
	c.remoteDownSince.Store(0)
	return true
}

func (c *RecommendationCache) markRemoteDown(err error) {
	c.remoteDownSince.Store(time.Now().UnixNano())
	c.logger.Warn("Remote cache unavailable, serving from fallback", zap.Error(err))
}

// parseRedisVersion extracts redis_version from an INFO server block.
func parseRedisVersion(info string) string {
	const prefix = "redis_version:"
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix)
		}
	}
	return ""
}
