package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	PageFetches        atomic.Int64
	FetchErrors        atomic.Int64
	IdentityMismatches atomic.Int64
	IdentityRetries    atomic.Int64
	DegradedRecords    atomic.Int64
	PayloadHits        atomic.Int64
	PayloadMisses      atomic.Int64
	TextFallbacks      atomic.Int64
	ChannelsResolved   atomic.Int64
}

var metricKeys = []string{
	"page_fetches", "fetch_errors",
	"identity_mismatches", "identity_retries",
	"degraded_records", "channels_resolved",
	"payload_hits", "payload_misses", "text_fallbacks",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"page_fetches":        metrics.PageFetches.Load(),
		"fetch_errors":        metrics.FetchErrors.Load(),
		"identity_mismatches": metrics.IdentityMismatches.Load(),
		"identity_retries":    metrics.IdentityRetries.Load(),
		"degraded_records":    metrics.DegradedRecords.Load(),
		"channels_resolved":   metrics.ChannelsResolved.Load(),
		"payload_hits":        metrics.PayloadHits.Load(),
		"payload_misses":      metrics.PayloadMisses.Load(),
		"text_fallbacks":      metrics.TextFallbacks.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// LogMetrics writes the current counters as one structured log line.
func LogMetrics(msg string) {
	m := GetMetrics()
	attrs := make([]any, 0, len(metricKeys))
	for _, k := range metricKeys {
		attrs = append(attrs, slog.Int64(k, m[k]))
	}
	slog.Info(msg, attrs...)
}

// Incrementors for the channels sub-package.
func IncrIdentityMismatch() { metrics.IdentityMismatches.Add(1) }
func IncrIdentityRetry()    { metrics.IdentityRetries.Add(1) }
func IncrDegraded()         { metrics.DegradedRecords.Add(1) }
func IncrResolved()         { metrics.ChannelsResolved.Add(1) }
func IncrPayloadHit()       { metrics.PayloadHits.Add(1) }
func IncrPayloadMiss()      { metrics.PayloadMisses.Add(1) }
func IncrTextFallback()     { metrics.TextFallbacks.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
