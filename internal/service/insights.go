package service

import (
	"context"
	"fmt"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/cache"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/insights"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/logger"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/models"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/repository"
)

type insightService struct {
	records repository.RecordRepository
	engine  *insights.Engine
	cache   *cache.InsightCache
	log     logger.Logger
}

// NewInsightService creates a new insight service wiring the record
// repository, the engine, and the report cache.
func NewInsightService(records repository.RecordRepository, engine *insights.Engine, reportCache *cache.InsightCache, log logger.Logger) InsightService {
	if log == nil {
		log = logger.Nop()
	}
	return &insightService{
		records: records,
		engine:  engine,
		cache:   reportCache,
		log:     log,
	}
}

// GetInsights serves the read-through path: cached report if valid,
// otherwise generate, store, and return.
func (s *insightService) GetInsights(ctx context.Context, userID string) (*models.InsightReport, error) {
	return s.cache.GetOrGenerate(userID, func() (*models.InsightReport, error) {
		return s.generate(ctx, userID)
	})
}

// RefreshInsights forces regeneration, replacing today's cached report.
func (s *insightService) RefreshInsights(ctx context.Context, userID string) (*models.InsightReport, error) {
	s.cache.Invalidate(userID)

	report, err := s.generate(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(userID, report)
	return report, nil
}

func (s *insightService) CacheStats() models.CacheStats {
	return s.cache.Stats()
}

func (s *insightService) generate(ctx context.Context, userID string) (*models.InsightReport, error) {
	usage, err := s.records.GetProductUsage(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product usage: %w", err)
	}
	sessions, err := s.records.GetModalitySessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get modality sessions: %w", err)
	}
	notes, err := s.records.GetProgressNotes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress notes: %w", err)
	}
	prefs, err := s.records.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	input := &models.InsightEngineInput{
		ProductUsageHistory: usage,
		ModalitySessions:    sessions,
		ProgressNotes:       notes,
		UserPreferences:     prefs,
	}

	report := s.engine.Generate(input, userID)
	s.log.WithContext(ctx).Info("generated insight report",
		logger.String("user_id", userID),
		logger.Int("insights", len(report.Insights)))
	return report, nil
}
