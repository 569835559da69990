package main

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"

    "github.com/iliyamo/filmorate/internal/config"
    "github.com/iliyamo/filmorate/internal/middleware"
    "github.com/iliyamo/filmorate/internal/router"
)

func TestNewServerWithoutRedis(t *testing.T) {
    cfg := config.Config{Env: "dev", Port: "0"}
    limiter := middleware.NewRateLimiter(config.RateLimitConfig{Enabled: true}, nil, nil)
    e := newServer(cfg, config.CacheConfig{Enabled: true}, limiter, nil, zap.NewNop())
    router.RegisterRoutes(e)

    req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)

    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "ok", rec.Body.String())
    assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
