package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rateLimitUserPrefix = "ratelimit:user:"
	rateLimitIPPrefix   = "ratelimit:ip:"
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// bucket describes a token bucket: refill rate, capacity, and how long an idle
// bucket lives before Redis drops it.
type bucket struct {
	perSecond float64
	burst     int
	idleTTL   time.Duration
}

func newBucket(perSecond float64, burst int) bucket {
	if burst < 1 {
		burst = 1
	}
	// An idle bucket is full again after burst/perSecond; keep it a little longer.
	refill := time.Duration(float64(burst) / perSecond * float64(time.Second))
	return bucket{perSecond: perSecond, burst: burst, idleTTL: refill + time.Second}
}

// tokenBucketScript refills and takes one token atomically. Times are in
// milliseconds so sub-second refill rates stay accurate.
//
// Returns {allowed, retry_after_ms, remaining_tokens}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])   -- tokens per millisecond
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])    -- unix milliseconds
	local ttl = tonumber(ARGV[4])    -- milliseconds

	local data = redis.call('HMGET', key, 'tokens', 'ts')
	local tokens = tonumber(data[1]) or burst
	local ts = tonumber(data[2]) or now

	tokens = math.min(burst, tokens + math.max(0, now - ts) * rate)

	local allowed = 0
	local retry_after = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'ts', now)
	redis.call('PEXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// CheckUserRateLimit takes a token from the caller's per-user bucket.
// A non-positive rate means unlimited.
func (c *Cache) CheckUserRateLimit(ctx context.Context, userID string, ratePerMinute, burst int) (*RateLimitResult, error) {
	if ratePerMinute <= 0 {
		return unlimited(burst), nil
	}
	return c.take(ctx, rateLimitUserPrefix+userID, newBucket(float64(ratePerMinute)/60, burst))
}

// CheckIPRateLimit takes a token from the bucket of a client IP. The IP is
// hashed before it becomes part of a key.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	if ratePerSecond <= 0 {
		return unlimited(burst), nil
	}
	return c.take(ctx, rateLimitIPPrefix+hashIP(ip), newBucket(float64(ratePerSecond), burst))
}

// take runs the bucket script. Errors are returned so the caller decides
// whether to fail open.
func (c *Cache) take(ctx context.Context, key string, b bucket) (*RateLimitResult, error) {
	now := time.Now()
	res, err := tokenBucketScript.Run(ctx, c.client, []string{key},
		b.perSecond/1000, b.burst, now.UnixMilli(), b.idleTTL.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", key, err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("rate limit %s: unexpected script reply %v", key, res)
	}

	remaining := res[2]
	missing := float64(int64(b.burst) - remaining)
	return &RateLimitResult{
		Allowed:    res[0] == 1,
		Remaining:  remaining,
		ResetAt:    now.Add(time.Duration(missing / b.perSecond * float64(time.Second))),
		RetryAfter: time.Duration(res[1]) * time.Millisecond,
	}, nil
}

func unlimited(burst int) *RateLimitResult {
	return &RateLimitResult{Allowed: true, Remaining: int64(burst), ResetAt: time.Now()}
}

// hashIP keys buckets by a truncated SHA-256 so raw addresses never reach Redis.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
