package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/models"
)

// userRecords is the on-disk layout: one JSON document per user.
type userRecords struct {
	ProductUsageHistory []models.ProductUsageEntry `json:"product_usage_history"`
	ModalitySessions    []models.ModalitySession   `json:"modality_sessions"`
	ProgressNotes       []models.ProgressNote      `json:"progress_notes"`
	Preferences         *models.UserPreferences    `json:"preferences,omitempty"`
}

// fileRecordRepository reads per-user record documents from a local
// directory. A missing document means the user simply has no history
// yet; a malformed document (including an unparseable date) fails
// loudly rather than silently mis-scoring.
type fileRecordRepository struct {
	dir string
}

// NewFileRecordRepository creates a repository over dir.
func NewFileRecordRepository(dir string) RecordRepository {
	return &fileRecordRepository{dir: dir}
}

func (r *fileRecordRepository) load(userID string) (*userRecords, error) {
	if userID == "" || strings.ContainsAny(userID, `/\.`) {
		return nil, fmt.Errorf("invalid user id %q", userID)
	}

	data, err := os.ReadFile(filepath.Join(r.dir, userID+".json"))
	if os.IsNotExist(err) {
		return &userRecords{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read records for user %s: %w", userID, err)
	}

	var records userRecords
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse records for user %s: %w", userID, err)
	}
	return &records, nil
}

func (r *fileRecordRepository) GetProductUsage(ctx context.Context, userID string) ([]models.ProductUsageEntry, error) {
	records, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	return records.ProductUsageHistory, nil
}

func (r *fileRecordRepository) GetModalitySessions(ctx context.Context, userID string) ([]models.ModalitySession, error) {
	records, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	return records.ModalitySessions, nil
}

func (r *fileRecordRepository) GetProgressNotes(ctx context.Context, userID string) ([]models.ProgressNote, error) {
	records, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	return records.ProgressNotes, nil
}

func (r *fileRecordRepository) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	records, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	return records.Preferences, nil
}
