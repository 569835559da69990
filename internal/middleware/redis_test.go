package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/filmorate/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func serve(e *echo.Echo, method, target, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if ip != "" {
		req.Header.Set(echo.HeaderXRealIP, ip)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

// cachedFilms serves a popular list whose body changes on every handler call,
// so a replayed response is distinguishable from a fresh one.
type cachedFilms struct {
	e     *echo.Echo
	calls int
}

func newCachedFilms(cfg config.CacheConfig, rdb *redis.Client) *cachedFilms {
	s := &cachedFilms{e: echo.New()}
	s.e.Use(RequestID(), NewRedisCache(cfg, rdb))
	s.e.GET("/films/popular", func(c echo.Context) error {
		s.calls++
		return c.JSON(http.StatusOK, echo.Map{"calls": s.calls})
	})
	s.e.GET("/films/:id", func(c echo.Context) error {
		s.calls++
		return c.String(http.StatusOK, strings.Repeat("x", 64))
	})
	s.e.PUT("/films/:id/like/:userId", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	s.e.DELETE("/films/:id/like/:userId", func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User hasn't liked this film"})
	})
	return s
}

func TestCacheHitReplaysBodyWithFreshRequestID(t *testing.T) {
	_, rdb := newRedis(t)
	s := newCachedFilms(cacheConfig(), rdb)

	first := serve(s.e, http.MethodGet, "/films/popular", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(s.e, http.MethodGet, "/films/popular", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))

	ids := second.Header().Values(echo.HeaderXRequestID)
	require.Len(t, ids, 1)
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), ids[0])
}

func TestSuccessfulWriteRetiresCachedReads(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := cacheConfig()
	s := newCachedFilms(cfg, rdb)

	serve(s.e, http.MethodGet, "/films/popular", "")
	require.Equal(t, "HIT", serve(s.e, http.MethodGet, "/films/popular", "").Header().Get("X-Cache"))

	require.Equal(t, http.StatusOK, serve(s.e, http.MethodPut, "/films/1/like/2", "").Code)
	gen, err := mr.Get(cfg.GenerationKey())
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	after := serve(s.e, http.MethodGet, "/films/popular", "")
	assert.Equal(t, "MISS", after.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":2}`, after.Body.String())
}

func TestRejectedWriteKeepsCachedReads(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := cacheConfig()
	s := newCachedFilms(cfg, rdb)

	serve(s.e, http.MethodGet, "/films/popular", "")
	require.Equal(t, http.StatusBadRequest, serve(s.e, http.MethodDelete, "/films/1/like/2", "").Code)
	assert.False(t, mr.Exists(cfg.GenerationKey()))

	assert.Equal(t, "HIT", serve(s.e, http.MethodGet, "/films/popular", "").Header().Get("X-Cache"))
	assert.Equal(t, 1, s.calls)
}

func TestOversizedResponseIsNotCached(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := cacheConfig()
	cfg.MaxBodyBytes = 16
	s := newCachedFilms(cfg, rdb)

	for i := 0; i < 2; i++ {
		rec := serve(s.e, http.MethodGet, "/films/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
		assert.Len(t, rec.Body.String(), 64)
	}
	assert.Equal(t, 2, s.calls)
	assert.Empty(t, mr.Keys())
}

func TestCacheFailsOpenWhenRedisIsDown(t *testing.T) {
	mr, rdb := newRedis(t)
	s := newCachedFilms(cacheConfig(), rdb)
	mr.Close()

	for i := 0; i < 2; i++ {
		rec := serve(s.e, http.MethodGet, "/films/popular", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, s.calls)
}

func limiterConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:   true,
		General:   config.Bucket{Capacity: 2, Refill: 1, Interval: time.Hour},
		Relations: config.Bucket{Capacity: 2, Refill: 1, Interval: time.Hour},
		TTL:       2 * time.Hour,
		Prefix:    "rl",
	}
}

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestGeneralBucketIsPerRoute(t *testing.T) {
	_, rdb := newRedis(t)
	l := NewRateLimiter(limiterConfig(), rdb, nil)
	e := echo.New()
	e.Use(l.General())
	e.GET("/films", ok)
	e.GET("/users", ok)

	first := serve(e, http.MethodGet, "/films", "10.0.0.1")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	require.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/films", "10.0.0.1").Code)

	blocked := serve(e, http.MethodGet, "/films", "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "3600", blocked.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, blocked.Body.String())

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/users", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/films", "10.0.0.2").Code)
}

func TestRelationsBucketIsSharedAcrossLikesAndFriends(t *testing.T) {
	mr, rdb := newRedis(t)
	l := NewRateLimiter(limiterConfig(), rdb, nil)
	e := echo.New()
	e.PUT("/films/:id/like/:userId", ok, l.Relations())
	e.PUT("/users/:id/friends/:friendId", ok, l.Relations())
	e.GET("/films/popular", ok)

	assert.Equal(t, http.StatusOK, serve(e, http.MethodPut, "/films/1/like/1", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodPut, "/users/1/friends/2", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(e, http.MethodPut, "/films/2/like/3", "10.0.0.1").Code)

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/films/popular", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodPut, "/films/2/like/3", "10.0.0.2").Code)

	assert.True(t, mr.Exists("rl:relations:10.0.0.1"))
	assert.Greater(t, mr.TTL("rl:relations:10.0.0.1"), time.Hour)
}

func TestBucketRefillsAfterInterval(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := limiterConfig()
	cfg.Relations = config.Bucket{Capacity: 1, Refill: 1, Interval: 100 * time.Millisecond}
	l := NewRateLimiter(cfg, rdb, nil)
	e := echo.New()
	e.PUT("/users/:id/friends/:friendId", ok, l.Relations())

	require.Equal(t, http.StatusOK, serve(e, http.MethodPut, "/users/1/friends/2", "").Code)
	blocked := serve(e, http.MethodPut, "/users/1/friends/2", "")
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "1", blocked.Header().Get("Retry-After"))

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodPut, "/users/1/friends/2", "").Code)
}

func TestRateLimiterFailsOpenWhenRedisIsDown(t *testing.T) {
	mr, rdb := newRedis(t)
	core, logs := observer.New(zap.WarnLevel)
	l := NewRateLimiter(limiterConfig(), rdb, zap.New(core))
	e := echo.New()
	e.Use(l.General())
	e.GET("/films", ok)
	mr.Close()

	for i := 0; i < 3; i++ {
		rec := serve(e, http.MethodGet, "/films", "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Remaining"))
	}
	assert.Equal(t, 3, logs.FilterMessage("rate limit check failed, allowing request").Len())
}

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	l := NewRateLimiter(limiterConfig(), nil, nil)
	e := echo.New()
	e.PUT("/films/:id/like/:userId", ok, l.Relations())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodPut, "/films/1/like/1", "").Code)
	}
}
