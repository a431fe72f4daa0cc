package models

import "time"

// ProductUsageEntry is a single logged usage event for a supplement or
// product. Records are immutable once produced; the storage collaborator
// owns them.
type ProductUsageEntry struct {
	Date        time.Time `json:"date"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Completed   bool      `json:"completed"`
	// TimeLogged is the local wall-clock time of the entry in "HH:MM"
	// 24-hour format. Empty when the client did not record a time.
	TimeLogged string `json:"time_logged,omitempty"`
}

// ModalitySession is one therapeutic-modality session (e.g. a scalar
// frequency session) with its duration in minutes.
type ModalitySession struct {
	Type     string    `json:"type"`
	Date     time.Time `json:"date"`
	Duration int       `json:"duration"`
	Notes    string    `json:"notes,omitempty"`
}

// ProgressNote is a self-reported check-in. Biomarker keys are open-ended
// labels ("Energy", "Sleep", "Mood", ...) scored on a bounded 1-10 scale.
type ProgressNote struct {
	Date       time.Time          `json:"date"`
	Biomarkers map[string]float64 `json:"biomarkers"`
	Notes      string             `json:"notes,omitempty"`
}

// UserPreferences carries optional per-user settings supplied alongside
// the history collections. The engine currently ignores them.
type UserPreferences struct {
	Timezone        string   `json:"timezone,omitempty"`
	FocusBiomarkers []string `json:"focus_biomarkers,omitempty"`
}

// InsightEngineInput is the aggregate bundle passed by value into the
// engine for one evaluation. The engine never mutates it. The caller is
// responsible for supplying only one user's records per invocation.
type InsightEngineInput struct {
	ProductUsageHistory []ProductUsageEntry `json:"product_usage_history"`
	ModalitySessions    []ModalitySession   `json:"modality_sessions"`
	ProgressNotes       []ProgressNote      `json:"progress_notes"`
	UserPreferences     *UserPreferences    `json:"user_preferences,omitempty"`
}
