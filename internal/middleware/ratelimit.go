package middleware

import (
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/iliyamo/filmorate/internal/config"
)

// takeToken refills the bucket in KEYS[1] for the whole intervals elapsed
// since its last refill, then tries to take one token.  It returns
// {allowed, remaining, retry_after_ms}.  Refill and take run inside one
// script so that API instances sharing a Redis see one consistent bucket.
var takeToken = redis.NewScript(`
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])
local now = tonumber(ARGV[1])

local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens') or capacity)
local stamp = tonumber(redis.call('HGET', KEYS[1], 'stamp') or now)

local steps = math.floor(math.max(0, now - stamp) / interval)
if steps > 0 then
    tokens = math.min(capacity, tokens + steps * refill)
    stamp = stamp + steps * interval
end

local wait = 0
if tokens >= 1 then
    tokens = tokens - 1
else
    wait = math.max(1, stamp + interval - now)
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'stamp', stamp)
redis.call('EXPIRE', KEYS[1], ARGV[5])
if wait > 0 then
    return {0, tokens, wait}
end
return {1, tokens, 0}
`)

// RateLimiter hands out Echo middleware backed by Redis token buckets.  A
// disabled limiter, or one without a Redis client, lets every request
// through.  Redis failures fail open: limiting is never allowed to take the
// catalogue down.
type RateLimiter struct {
    cfg config.RateLimitConfig
    rdb *redis.Client
    log *zap.Logger
}

// NewRateLimiter returns a limiter for cfg.  rdb may be nil.
func NewRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client, log *zap.Logger) *RateLimiter {
    if log == nil {
        log = zap.NewNop()
    }
    return &RateLimiter{cfg: cfg, rdb: rdb, log: log}
}

func (l *RateLimiter) active() bool { return l != nil && l.cfg.Enabled && l.rdb != nil }

// General limits every request per client IP and route.
func (l *RateLimiter) General() echo.MiddlewareFunc {
    return l.limit("general", l.cfg.General, func(c echo.Context) string {
        return clientIP(c) + ":" + c.Request().Method + " " + c.Path()
    })
}

// Relations limits like and friendship mutations per client IP, across all
// films and users.
func (l *RateLimiter) Relations() echo.MiddlewareFunc {
    return l.limit("relations", l.cfg.Relations, clientIP)
}

func (l *RateLimiter) limit(class string, b config.Bucket, subject func(echo.Context) string) echo.MiddlewareFunc {
    if !l.active() {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    b = b.Normalized()
    ttl := max(int64(math.Ceil(l.cfg.TTL.Seconds())), 1)
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := bucketKey(l.cfg.Prefix, class, subject(c))
            res, err := takeToken.Run(c.Request().Context(), l.rdb, []string{key},
                time.Now().UnixMilli(), b.Capacity, b.Refill, b.Interval.Milliseconds(), ttl,
            ).Int64Slice()
            if err != nil || len(res) != 3 {
                l.log.Warn("rate limit check failed, allowing request",
                    zap.String("bucket", class), zap.String("key", key), zap.Error(err))
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(b.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
            if res[0] == 1 {
                return next(c)
            }

            retry := int(math.Ceil(float64(res[2]) / 1000))
            h.Set("Retry-After", strconv.Itoa(retry))
            l.log.Info("rate limited",
                zap.String("bucket", class), zap.String("key", key), zap.Int("retry_after_s", retry))
            return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
        }
    }
}

func bucketKey(prefix, class, subject string) string {
    return strings.Join([]string{prefix, class, subject}, ":")
}

func clientIP(c echo.Context) string {
    if ip := c.RealIP(); ip != "" {
        return ip
    }
    return "unknown"
}
