package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"radiodash/internal/amqp"
	"radiodash/internal/cache"
	"radiodash/internal/core"
	"radiodash/internal/source"
)

// loadTimeout bounds how long one request waits for a report.
const loadTimeout = 30 * time.Second

// ReportService serves dashboard views of one configured source through
// the report cache.
type ReportService struct {
	reader source.Reader
	cache  *cache.ReportCache
	logger *slog.Logger
}

func NewReportService(reader source.Reader, reports *cache.ReportCache, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{reader: reader, cache: reports, logger: logger}
}

// Source returns the identity of the served report.
func (s *ReportService) Source() string {
	return s.reader.Identity()
}

// Report returns the cached report, loading it on first use.
func (s *ReportService) Report(ctx context.Context) (*core.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	return s.cache.Get(ctx, s.reader)
}

// View builds the dashboard for the given filters.
func (s *ReportService) View(ctx context.Context, f Filters) (View, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return View{}, fmt.Errorf("dashboard view: %w", err)
	}
	return BuildView(report, f), nil
}

// Reload drops the cached report for source, or every cached report when
// source is empty. It returns how many reports were dropped.
func (s *ReportService) Reload(src string) int {
	if src == "" {
		return s.cache.Clear()
	}
	if s.cache.Invalidate(src) {
		return 1
	}
	return 0
}

// HandleReload applies a reload command received from the message bus.
func (s *ReportService) HandleReload(ctx context.Context, msg *amqp.ReloadMessage) error {
	n := s.Reload(msg.Source)
	s.logger.InfoContext(ctx, "Reload command applied",
		"source", msg.Source,
		"requested_by", msg.RequestedBy,
		"requested_at", msg.Timestamp,
		"removed", n)
	return nil
}
