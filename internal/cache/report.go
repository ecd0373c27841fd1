package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"radiodash/internal/core"
	"radiodash/internal/source"
)

const (
	// maxReports bounds memory when readers with many identities share one
	// cache (object keys, CLI runs over several files). A server process with
	// a single configured source never reaches it; eviction is logged.
	maxReports = 16

	// loadTimeout bounds a shared load independently of any caller.
	loadTimeout = 60 * time.Second
)

// ReportCache loads each report once per source identity and keeps it until
// it is explicitly invalidated. Failed loads are not stored.
type ReportCache struct {
	reports *LRUCache[*core.Report]
	group   singleflight.Group
	opts    core.ParseOptions
	now     func() time.Time
	logger  *slog.Logger
}

// NewReportCache builds a cache deriving reports with opts; now is called
// once per load and becomes the report's LoadedAt.
func NewReportCache(opts core.ParseOptions, now func() time.Time, logger *slog.Logger) *ReportCache {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportCache{
		reports: NewLRUCache(maxReports, func(key string, _ *core.Report) {
			logger.Info("Report evicted", "source", key)
		}),
		opts:   opts,
		now:    now,
		logger: logger,
	}
}

// Get returns the cached report for r, loading it on a miss. Concurrent
// misses for the same identity share one load. The shared load is detached
// from ctx and bounded by loadTimeout, so a cancelled caller only abandons
// its own wait.
func (c *ReportCache) Get(ctx context.Context, r source.Reader) (*core.Report, error) {
	key := r.Identity()
	if report, ok := c.reports.Get(key); ok {
		return report, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		if report, ok := c.reports.Get(key); ok {
			return report, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		start := time.Now()
		raw, err := r.ReadRows(loadCtx)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		report := core.NewReport(key, raw, c.now(), c.opts)
		c.reports.Set(key, report)
		c.logger.InfoContext(loadCtx, "Report loaded",
			"source", key,
			"rows", len(report.Rows),
			"skipped_rows", report.Stats.SkippedRows,
			"invalid_start_dates", report.Stats.InvalidStartDates,
			"invalid_end_dates", report.Stats.InvalidEndDates,
			"invalid_insertions", report.Stats.InvalidInsertions,
			"duration_ms", time.Since(start).Milliseconds())
		return report, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			c.logger.WarnContext(ctx, "Report load failed", "source", key, "error", res.Err, "shared", res.Shared)
			return nil, res.Err
		}
		return res.Val.(*core.Report), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for %s: %w", key, ctx.Err())
	}
}

// Invalidate drops the report cached for key.
func (c *ReportCache) Invalidate(key string) bool {
	removed := c.reports.Delete(key)
	c.logger.Info("Report cache invalidated", "source", key, "removed", removed)
	return removed
}

// Clear drops every cached report.
func (c *ReportCache) Clear() int {
	sources := c.reports.Keys()
	n := c.reports.Clear()
	c.logger.Info("Report cache cleared", "removed", n, "sources", sources)
	return n
}

// Size returns the number of cached reports.
func (c *ReportCache) Size() int {
	return c.reports.Size()
}
