// Package config loads runtime configuration from environment
// variables. The CLI loads a .env file first when one exists, so local
// development needs no exported shell state.
package config

import (
	"os"
	"strconv"
	"time"
)

// Client configures the API client side.
type Client struct {
	BaseURL      string        // backend base URL
	Timeout      time.Duration // per-request timeout
	PollInterval time.Duration // seat-map polling interval
}

// Backend configures the in-process reference backend.
type Backend struct {
	Port       string        // HTTP port for the demo command
	JWTSecret  string        // HS256 signing secret
	AccessTTL  time.Duration // access token lifetime
	RefreshTTL time.Duration // refresh cookie lifetime
	BcryptCost int           // password hash cost
	PageSize   int           // page size of list endpoints
	Cache      Cache
}

// Cache configures the Redis response cache for public GETs. Disabled
// or unreachable Redis degrades to no caching.
type Cache struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadClient reads client settings, with defaults suited to running
// against the demo backend.
func LoadClient() Client {
	return Client{
		BaseURL:      getenv("CINEBOOK_BASE_URL", "http://localhost:8084"),
		Timeout:      getdur("CINEBOOK_TIMEOUT", 30*time.Second),
		PollInterval: getdur("CINEBOOK_POLL_INTERVAL", 30*time.Second),
	}
}

// LoadBackend reads reference-backend settings. The secret default is
// for development only, like everything else about the demo backend.
func LoadBackend() Backend {
	return Backend{
		Port:       getenv("CINEBOOK_DEMO_PORT", "8084"),
		JWTSecret:  getenv("CINEBOOK_JWT_SECRET", "dev-secret-change-me"),
		AccessTTL:  getdur("CINEBOOK_ACCESS_TTL", 15*time.Minute),
		RefreshTTL: getdur("CINEBOOK_REFRESH_TTL", 7*24*time.Hour),
		BcryptCost: getint("CINEBOOK_BCRYPT_COST", 10),
		PageSize:   getint("CINEBOOK_PAGE_SIZE", 10),
		Cache: Cache{
			Enabled:      getenv("CACHE_ENABLED", "true") == "true",
			TTL:          getdur("CACHE_TTL", 30*time.Second),
			Prefix:       getenv("CACHE_PREFIX", "cinebook"),
			MaxBodyBytes: getint("CACHE_MAX_BODY_BYTES", 1<<20),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
