// Package services contains the business logic layer between transport
// handlers and the analysis packages.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"leanixcli/internal/analytics"
	"leanixcli/internal/config"
	"leanixcli/internal/dataprocessing"
	apperrors "leanixcli/internal/errors"
	"leanixcli/internal/infrastructure"
	"leanixcli/internal/quality"
	"leanixcli/pkg/contracts/domain"
)

// Broadcaster pushes events to connected dashboard clients.
type Broadcaster interface {
	Broadcast(eventType string, data interface{})
}

// AnalysisService runs the full analysis pipeline and caches the latest
// snapshot for the dashboard API.
type AnalysisService struct {
	cfg      *config.Config
	logger   *slog.Logger
	scorer   *quality.Scorer
	analyzer *analytics.Analyzer
	metrics  *infrastructure.Metrics
	hub      Broadcaster

	mu     sync.RWMutex
	latest *analytics.Snapshot
}

// NewAnalysisService creates an AnalysisService. The metrics and hub
// arguments may be nil; the service then skips instrumentation and
// event broadcasting.
func NewAnalysisService(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.Metrics, hub Broadcaster) *AnalysisService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = logger.With(slog.String("service", "analysis"))

	return &AnalysisService{
		cfg:      cfg,
		logger:   logger,
		scorer:   quality.NewScorer(logger),
		analyzer: analytics.NewAnalyzer(cfg.Analysis, logger),
		metrics:  metrics,
		hub:      hub,
	}
}

// Analyze loads the spreadsheet at path and runs the full pipeline.
// The resulting snapshot replaces the cached one. An empty path falls
// back to the configured input file.
func (s *AnalysisService) Analyze(ctx context.Context, path string) (*analytics.Snapshot, error) {
	start := time.Now()

	if path == "" {
		path = s.cfg.Paths.InputFile
	}

	s.logger.InfoContext(ctx, "starting analysis", slog.String("path", path))

	portfolio, err := dataprocessing.ParseFile(path, s.logger)
	if err != nil {
		s.observe(start, nil, err)
		return nil, err
	}

	snapshot := s.buildSnapshot(ctx, portfolio)

	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()

	s.observe(start, portfolio, nil)

	if s.hub != nil {
		s.hub.Broadcast("analysis:complete", map[string]interface{}{
			"source":       snapshot.Source,
			"records":      snapshot.Overview.Records,
			"quality":      snapshot.Quality.Label,
			"generated_at": snapshot.GeneratedAt.Format(time.RFC3339),
		})
	}

	s.logger.InfoContext(ctx, "analysis complete",
		slog.String("path", path),
		slog.Int("records", snapshot.Overview.Records),
		slog.Duration("elapsed", time.Since(start)))

	return snapshot, nil
}

func (s *AnalysisService) buildSnapshot(ctx context.Context, portfolio *domain.Portfolio) *analytics.Snapshot {
	return &analytics.Snapshot{
		GeneratedAt: time.Now(),
		Source:      portfolio.Source,
		Quality:     s.scorer.Score(ctx, portfolio),
		Overview:    s.analyzer.Overview(ctx, portfolio),
		Business:    s.analyzer.Business(ctx, portfolio),
		Security:    s.analyzer.Security(ctx, portfolio),
		Performance: s.analyzer.Performance(ctx, portfolio),
		Correlation: s.analyzer.Correlation(ctx, portfolio),
	}
}

func (s *AnalysisService) observe(start time.Time, portfolio *domain.Portfolio, err error) {
	if s.metrics == nil {
		return
	}
	records := 0
	if portfolio != nil {
		records = portfolio.RecordCount()
	}
	s.metrics.ObserveAnalysis(start, records, err)
}

// Latest returns the most recent analysis snapshot.
func (s *AnalysisService) Latest(ctx context.Context) (*analytics.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, apperrors.NewNotFoundError("analysis snapshot")
	}
	return s.latest, nil
}
