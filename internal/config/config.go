package config // package config loads application configuration from environment variables

import (
    "fmt"
    "time"

    "github.com/joho/godotenv"
)

// Config holds the core runtime configuration.  Each field corresponds to an
// environment variable; concern-specific settings (cache, rate limit, events)
// live in their own loaders.
type Config struct {
    Env                 string        // application environment (e.g. "dev", "prod")
    Port                string        // HTTP port to listen on
    LogLevel            string        // optional zap level override (debug, info, warn, error)
    PopularDefaultCount int           // count used by GET /films/popular when ?count is omitted
    ShutdownTimeout     time.Duration // grace period for in-flight requests on shutdown
}

// Load reads configuration values from the environment and returns a Config.
// A .env file in the working directory is loaded first when present; real
// environment variables take precedence over it.
func Load() (Config, error) {
    _ = godotenv.Load()

    cfg := Config{
        Env:                 getenv("APP_ENV", "dev"),
        Port:                getenv("APP_PORT", "8080"),
        LogLevel:            getenv("LOG_LEVEL", ""),
        PopularDefaultCount: envInt("POPULAR_DEFAULT_COUNT", 10),
        ShutdownTimeout:     envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
    }
    if err := cfg.Validate(); err != nil {
        return Config{}, fmt.Errorf("config validation failed: %w", err)
    }
    return cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
    if c.Port == "" {
        return fmt.Errorf("APP_PORT is required")
    }
    if c.PopularDefaultCount <= 0 {
        return fmt.Errorf("POPULAR_DEFAULT_COUNT must be positive, got %d", c.PopularDefaultCount)
    }
    if c.ShutdownTimeout <= 0 {
        return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
    }
    return nil
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
    return c.Env == "prod" || c.Env == "production"
}
