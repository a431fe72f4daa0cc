package models

import "time"

// InsightType identifies which detector produced an insight.
type InsightType string

const (
	InsightTypeProductConsistency InsightType = "product-consistency"
	InsightTypeEnergyModality     InsightType = "energy-modality"
	InsightTypeSleepProtocol      InsightType = "sleep-protocol"
	InsightTypeMoodVariability    InsightType = "mood-variability"
	InsightTypeImprovementTrend   InsightType = "improvement-trend"
	InsightTypeRoutineDrift       InsightType = "routine-drift"
)

// Insight is a single detector's narrative finding plus a suggested
// action. Produced by exactly one detector; immutable.
type Insight struct {
	Icon       string      `json:"icon"`
	Title      string      `json:"title"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion"`
	Type       InsightType `json:"type"`
	// Confidence is in [0,1]. Detectors only emit insights whose
	// underlying metric crossed their threshold, so any value here is
	// already validated as meaningful.
	Confidence float64 `json:"confidence"`
	DataPoints int     `json:"data_points,omitempty"`
}

// AnalysisWindow describes the rolling date range the detectors compared
// over for one report.
type AnalysisWindow struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DaysAnalyzed int       `json:"days_analyzed"`
}

// InsightReport is the prioritized top insights for one user at one
// evaluation time. It is the unit of caching and the unit returned to
// callers. Consumers must not assume a fixed insight count (0-3) or any
// ordering beyond "already prioritized".
type InsightReport struct {
	UserID         string         `json:"user_id"`
	Insights       []Insight      `json:"insights"`
	GeneratedAt    time.Time      `json:"generated_at"`
	AnalysisWindow AnalysisWindow `json:"analysis_window"`
}

// ShownInsight records that an insight of a given type was surfaced to
// the user at a point in time. Callers supply these to the history-aware
// prioritizer to damp repeats.
type ShownInsight struct {
	Type    InsightType `json:"type"`
	ShownAt time.Time   `json:"shown_at"`
}

// CacheStats is a diagnostic snapshot of the insight cache. Not used for
// correctness.
type CacheStats struct {
	TotalEntries   int     `json:"total_entries"`
	ValidEntries   int     `json:"valid_entries"`
	ExpiredEntries int     `json:"expired_entries"`
	CacheHitRate   float64 `json:"cache_hit_rate"`
	MemoryUsage    int64   `json:"memory_usage"`
}
