// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory sync job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of background sync workers.
	WorkerCount int `koanf:"worker_count"`

	// HistoryDepth caps how many submissions are fetched per user sync.
	HistoryDepth int `koanf:"history_depth"`

	// CatalogMinSize triggers a catalog seed when the problem store
	// holds fewer entries at startup.
	CatalogMinSize int `koanf:"catalog_min_size"`

	// SummaryTTL bounds how long a cached weakness summary stays fresh.
	SummaryTTL time.Duration `koanf:"summary_ttl"`

	// CacheBackend selects the upstream cache: "memory" or "redis".
	CacheBackend string `koanf:"cache_backend"`

	// RedisAddr is the redis host:port, used when CacheBackend is "redis".
	RedisAddr string `koanf:"redis_addr"`

	// UpstreamBaseURL overrides the Codeforces API base URL.
	UpstreamBaseURL string `koanf:"upstream_base_url"`

	// UpstreamTimeout bounds a single upstream HTTP request.
	UpstreamTimeout time.Duration `koanf:"upstream_timeout"`
}

// New creates a Config populated with defaults.
func New() *Config {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		QueueSize:       10_000,
		WorkerCount:     workers,
		HistoryDepth:    500,
		CatalogMinSize:  100,
		SummaryTTL:      24 * time.Hour,
		CacheBackend:    "memory",
		RedisAddr:       "localhost:6379",
		UpstreamBaseURL: "https://codeforces.com/api",
		UpstreamTimeout: 30 * time.Second,
	}
}
