package engine

import (
	"net/http"
	"time"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultUserAgent     = "TubeKit/0.1 (+https://example.invalid) go-http"
	DefaultFetchTimeout  = 15 * time.Second
	DefaultFetchMaxTries = 1
	DefaultFetchMaxBytes = 5 << 20
	DefaultUpstreamBurst = 5
	DefaultCacheTTL      = 60 * time.Second
)

// Config holds all engine configuration, injected from main.
type Config struct {
	UserAgent     string
	FetchTimeout  time.Duration
	FetchMaxTries int     // 1 = no retry
	FetchMaxBytes int64   // upstream body cap
	UpstreamRPS   float64 // <= 0 = unlimited
	UpstreamBurst int
	CacheTTL      time.Duration
	// DisableSingleflight restores independent computes for concurrent misses on one key.
	DisableSingleflight bool
	HTTPClient          *http.Client // nil = built from FetchTimeout
}

func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.FetchMaxTries <= 0 {
		c.FetchMaxTries = DefaultFetchMaxTries
	}
	if c.FetchMaxBytes <= 0 {
		c.FetchMaxBytes = DefaultFetchMaxBytes
	}
	if c.UpstreamBurst <= 0 {
		c.UpstreamBurst = DefaultUpstreamBurst
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = newFetchClient(c.FetchTimeout)
	}
	return c
}
