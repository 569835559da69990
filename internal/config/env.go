package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

func envStr(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envBool(key string, def bool) bool {
    switch strings.ToLower(os.Getenv(key)) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return def
}

func envInt(key string, def int) int {
    if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
        return n
    }
    return def
}

func envDur(key string, def time.Duration) time.Duration {
    if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
        return d
    }
    return def
}
