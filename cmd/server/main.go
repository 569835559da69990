package main

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"
    "golang.org/x/sync/errgroup"

    "github.com/iliyamo/filmorate/internal/config"
    "github.com/iliyamo/filmorate/internal/handler"
    "github.com/iliyamo/filmorate/internal/logger"
    "github.com/iliyamo/filmorate/internal/middleware"
    "github.com/iliyamo/filmorate/internal/queue"
    "github.com/iliyamo/filmorate/internal/repository"
    "github.com/iliyamo/filmorate/internal/router"
    "github.com/iliyamo/filmorate/internal/service"
)

func main() {
    if err := run(); err != nil {
        fmt.Fprintf(os.Stderr, "filmorate: %v\n", err)
        os.Exit(1)
    }
}

func run() error {
    cfg, err := config.Load()
    if err != nil {
        return err
    }
    log, err := logger.New(cfg.Env, cfg.LogLevel)
    if err != nil {
        return fmt.Errorf("init logger: %w", err)
    }
    defer func() { _ = log.Sync() }()

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    cacheCfg := config.LoadCacheConfig()
    rlCfg := config.LoadRateLimitConfig()
    eventsCfg := config.LoadEventsConfig()

    var rdb *redis.Client
    if cacheCfg.Enabled || rlCfg.Enabled {
        rdb, err = config.NewRedisClient(ctx)
        if err != nil {
            log.Warn("redis unavailable, running without cache and rate limit", zap.Error(err))
            rdb = nil
        } else {
            defer rdb.Close()
            log.Info("redis connected", zap.Bool("cache", cacheCfg.Enabled), zap.Bool("rate_limit", rlCfg.Enabled))
        }
    }

    var publisher service.EventPublisher = queue.NopPublisher{}
    var amqpPublisher *queue.Publisher
    if eventsCfg.Enabled {
        amqpPublisher = queue.NewPublisher(eventsCfg.URL, eventsCfg.Queue, eventsCfg.Buffer, log.Named("events"))
        publisher = amqpPublisher
    }

    users := service.NewUserService(
        repository.NewUserRepo(repository.NewSequence()),
        repository.NewFriendshipRepo(),
        publisher, log.Named("users"),
    )
    films := service.NewFilmService(
        repository.NewFilmRepo(repository.NewSequence()),
        repository.NewLikeRepo(),
        users, publisher, log.Named("films"),
    )

    limiter := middleware.NewRateLimiter(rlCfg, rdb, log.Named("ratelimit"))
    e := newServer(cfg, cacheCfg, limiter, rdb, log)
    router.RegisterRoutes(e)
    router.RegisterFilms(e, handler.NewFilmHandler(films, cfg.PopularDefaultCount), limiter.Relations())
    router.RegisterUsers(e, handler.NewUserHandler(users), limiter.Relations())

    g, gctx := errgroup.WithContext(ctx)
    g.Go(func() error {
        addr := ":" + cfg.Port
        log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
        if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
            return fmt.Errorf("http server: %w", err)
        }
        return nil
    })
    g.Go(func() error {
        <-gctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
        defer cancel()
        log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
        return e.Shutdown(shutdownCtx)
    })
    if eventsCfg.Enabled {
        g.Go(func() error { return amqpPublisher.Run(gctx) })
        consumer := &queue.Consumer{
            URL:    eventsCfg.URL,
            Queue:  eventsCfg.Queue,
            LogDir: eventsCfg.LogDir,
            Log:    log.Named("activity"),
        }
        g.Go(func() error { return consumer.Run(gctx) })
    }
    return g.Wait()
}

// newServer builds the echo instance with the global middleware chain. Cache
// and rate limit middleware pass requests through untouched when disabled.
// The limiter's tighter relations bucket is attached per route by the router.
func newServer(cfg config.Config, cacheCfg config.CacheConfig, limiter *middleware.RateLimiter, rdb *redis.Client, log *zap.Logger) *echo.Echo {
    e := echo.New()
    e.HideBanner = true
    e.HidePort = true
    e.Debug = !cfg.IsProduction()

    e.Use(middleware.RequestID())
    e.Use(middleware.RequestLogger(log.Named("http")))
    e.Use(echomw.Recover())
    e.Use(limiter.General())
    e.Use(middleware.NewRedisCache(cacheCfg, rdb))
    return e
}
