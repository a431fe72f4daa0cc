package service

import (
	"context"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/models"
)

// InsightService defines the interface for insight business logic.
type InsightService interface {
	// GetInsights returns the user's report, served from cache when a
	// fresh one exists for today.
	GetInsights(ctx context.Context, userID string) (*models.InsightReport, error)
	// RefreshInsights drops any cached report and generates a new one.
	RefreshInsights(ctx context.Context, userID string) (*models.InsightReport, error)
	// CacheStats returns a diagnostic snapshot of the insight cache.
	CacheStats() models.CacheStats
}
