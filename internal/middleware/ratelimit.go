package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"flagfeed/pkg/constraints"
	"flagfeed/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// pollBucketScript is a token bucket kept in a single Redis hash per
// caller. Input: ARGV[1]=rate, ARGV[2]=capacity, ARGV[3]=now.
// Output: { allowed, remaining, retry_after }
var pollBucketScript = redis.NewScript(`
local bucket = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local state = redis.call("HMGET", bucket, "tokens", "ts")
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil then
    tokens = capacity
    ts = now
end

tokens = math.min(capacity, tokens + math.max(0, now - ts) * rate)

local allowed = 0
local retry_after = 0
if tokens >= 1 then
    allowed = 1
    tokens = tokens - 1
else
    retry_after = (1 - tokens) / rate
end

redis.call("HSET", bucket, "tokens", tokens, "ts", now)
redis.call("EXPIRE", bucket, math.ceil(capacity / rate * 2) + 1)

return { allowed, tokens, retry_after }
`)

// callerLimiter is the in-process fallback bucket used while Redis is
// unreachable.
type callerLimiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (l *callerLimiter) allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastSeen = time.Now()
	return l.limiter.Allow()
}

var (
	callerLimiters sync.Map
	reapOnce       sync.Once
)

func reapIdleLimiters() {
	reapOnce.Do(func() {
		go func() {
			for range time.Tick(10 * time.Minute) {
				now := time.Now()
				callerLimiters.Range(func(key, value any) bool {
					l := value.(*callerLimiter)
					l.mu.Lock()
					idle := now.Sub(l.lastSeen) > 10*time.Minute
					l.mu.Unlock()
					if idle {
						callerLimiters.Delete(key)
					}
					return true
				})
			}
		}()
	})
}

func fallbackLimiter(caller string, r rate.Limit, b int) *callerLimiter {
	reapIdleLimiters()

	if val, ok := callerLimiters.Load(caller); ok {
		return val.(*callerLimiter)
	}
	l := &callerLimiter{limiter: rate.NewLimiter(r, b), lastSeen: time.Now()}
	actual, _ := callerLimiters.LoadOrStore(caller, l)
	return actual.(*callerLimiter)
}

// pollerIdentity buckets authenticated clients by SDK key, so one fleet
// sharing a key shares a quota. Unauthenticated callers fall back to IP.
func pollerIdentity(c *gin.Context) string {
	if key := c.GetHeader(constraints.HeaderAPIKey); key != "" {
		return "key:" + key
	}
	return "ip:" + c.ClientIP()
}

// RateLimit throttles snapshot polling per caller via Redis, failing
// open to a local bucket when Redis is unreachable. Denied pollers get a
// Retry-After so well-behaved SDKs back off to it.
func RateLimit(rdb *redis.Client, requestsPerSecond int) gin.HandlerFunc {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	burst := requestsPerSecond

	return func(c *gin.Context) {
		caller := pollerIdentity(c)
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", requestsPerSecond))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 100*time.Millisecond)
		defer cancel()

		now := float64(time.Now().UnixMicro()) / 1e6
		result, err := pollBucketScript.Run(ctx, rdb,
			[]string{"flagfeed:poll:" + caller},
			float64(requestsPerSecond), float64(burst), now,
		).Result()

		if err != nil {
			logger.Warn("redis rate limit failed, using local bucket",
				zap.Error(err),
				zap.String("caller", caller))

			l := fallbackLimiter(caller, rate.Limit(requestsPerSecond), burst)
			if !l.allow() {
				c.Header("X-RateLimit-Remaining", "0")
				c.Header("Retry-After", "1")
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
				return
			}
			c.Next()
			return
		}

		res, ok := result.([]any)
		if !ok || len(res) != 3 {
			logger.Error("malformed rate limit reply", zap.Any("reply", result))
			c.Next() // fail open on protocol error
			return
		}

		remaining := toFloat(res[1])
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", int(remaining)))

		if toFloat(res[0]) != 1 {
			retryAfter := time.Duration(toFloat(res[2]) * float64(time.Second))
			if retryAfter < time.Second {
				retryAfter = time.Second
			}
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
			return
		}

		c.Next()
	}
}

func toFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	default:
		return 0
	}
}
