package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// slowOperation is the threshold above which TrackOperation logs a warning.
const slowOperation = 5 * time.Second

// Metrics tracks operational counters across the engine.
type Metrics struct {
	FeedRequests   atomic.Int64
	OEmbedRequests atomic.Int64
	FetchRequests  atomic.Int64
	FetchErrors    atomic.Int64
	FetchRetries   atomic.Int64
	ParseErrors    atomic.Int64
}

// metricKeys fixes the output order of FormatMetrics.
var metricKeys = []string{
	"feed_requests", "oembed_requests",
	"fetch_requests", "fetch_errors", "fetch_retries",
	"parse_errors",
	"feed_cache_hits", "feed_cache_misses", "feed_cache_entries",
	"oembed_cache_hits", "oembed_cache_misses", "oembed_cache_entries",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func (e *Engine) GetMetrics() map[string]int64 {
	m := e.metrics
	feeds := e.feeds.Stats()
	oembeds := e.oembeds.Stats()
	return map[string]int64{
		"feed_requests":        m.FeedRequests.Load(),
		"oembed_requests":      m.OEmbedRequests.Load(),
		"fetch_requests":       m.FetchRequests.Load(),
		"fetch_errors":         m.FetchErrors.Load(),
		"fetch_retries":        m.FetchRetries.Load(),
		"parse_errors":         m.ParseErrors.Load(),
		"feed_cache_hits":      feeds.Hits,
		"feed_cache_misses":    feeds.Misses,
		"feed_cache_entries":   int64(feeds.Entries),
		"oembed_cache_hits":    oembeds.Hits,
		"oembed_cache_misses":  oembeds.Misses,
		"oembed_cache_entries": int64(oembeds.Entries),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func (e *Engine) FormatMetrics() string {
	m := e.GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > slowOperation {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
