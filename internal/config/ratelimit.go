package config

import "time"

// Bucket describes one token bucket: it holds at most Capacity tokens and
// gains Refill tokens every Interval.
type Bucket struct {
    Capacity int
    Refill   int
    Interval time.Duration
}

// RateLimitConfig configures the Redis token buckets in front of the API.
// Every request draws from the General bucket, keyed by client IP and route.
// Like and friendship mutations additionally draw from the Relations bucket,
// which is keyed by client IP alone so that a client cannot spread a burst of
// relationship changes across many films or users.
type RateLimitConfig struct {
    Enabled   bool
    General   Bucket
    Relations Bucket
    TTL       time.Duration // idle buckets expire after this long
    Prefix    string
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.  Nonsensical values are
// raised to the smallest usable ones and TTL never undercuts the time a
// bucket needs to refill completely.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled: envBool("RATE_LIMIT_ENABLED", false),
        General: Bucket{
            Capacity: envInt("RATE_LIMIT_CAPACITY", 60),
            Refill:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
            Interval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        },
        Relations: Bucket{
            Capacity: envInt("RATE_LIMIT_RELATION_CAPACITY", 10),
            Refill:   envInt("RATE_LIMIT_RELATION_REFILL_TOKENS", 1),
            Interval: envDur("RATE_LIMIT_RELATION_REFILL_INTERVAL", 5*time.Second),
        },
        TTL:    envDur("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix: envStr("RATE_LIMIT_PREFIX", "rl"),
    }
    cfg.General = cfg.General.Normalized()
    cfg.Relations = cfg.Relations.Normalized()
    for _, b := range []Bucket{cfg.General, cfg.Relations} {
        if full := b.FullRefill(); cfg.TTL < full {
            cfg.TTL = full
        }
    }
    return cfg
}

// FullRefill is how long an empty bucket takes to fill up again.
func (b Bucket) FullRefill() time.Duration {
    steps := (b.Capacity + b.Refill - 1) / b.Refill
    return time.Duration(steps) * b.Interval
}

// Normalized raises zero or negative settings to the smallest usable values.
func (b Bucket) Normalized() Bucket {
    b.Capacity = max(b.Capacity, 1)
    b.Refill = max(b.Refill, 1)
    if b.Interval <= 0 {
        b.Interval = time.Second
    }
    return b
}
