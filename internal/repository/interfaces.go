// Package repository provides access to a user's raw activity records.
// The insight engine consumes these as already-materialized collections
// and performs no user filtering itself; the repository is responsible
// for returning only the requested user's records.
package repository

import (
	"context"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/models"
)

// RecordRepository defines the interface for activity record access.
type RecordRepository interface {
	GetProductUsage(ctx context.Context, userID string) ([]models.ProductUsageEntry, error)
	GetModalitySessions(ctx context.Context, userID string) ([]models.ModalitySession, error)
	GetProgressNotes(ctx context.Context, userID string) ([]models.ProgressNote, error)
	GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error)
}
