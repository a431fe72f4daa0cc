package insights

import (
	"time"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/models"
)

// Engine runs the detector battery over the rolling analysis window and
// assembles a prioritized report. It is stateless and pure apart from the
// injected clock, so the same input and clock always produce the same
// report (given a deterministic tie-breaker).
type Engine struct {
	clock       func() time.Time
	prioritizer *Prioritizer
	windowDays  int
}

// NewEngine creates an engine. clock may be nil to use wall-clock time;
// prioritizer may be nil for a deterministic, non-shuffling default.
func NewEngine(clock func() time.Time, prioritizer *Prioritizer) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if prioritizer == nil {
		prioritizer = NewPrioritizer(nil)
	}
	return &Engine{
		clock:       clock,
		prioritizer: prioritizer,
		windowDays:  DefaultWindowDays,
	}
}

// Generate evaluates all detectors against the input and returns the
// report for userID. A report with zero insights is a valid outcome, not
// an error: every detector abstains when its preconditions are unmet.
func (e *Engine) Generate(input *models.InsightEngineInput, userID string) *models.InsightReport {
	now := e.clock()
	w := NewWindow(now, e.windowDays)

	candidates := e.runBattery(input, w)
	selected := e.prioritizer.Select(candidates)

	return e.assemble(userID, selected, now, w)
}

// GenerateWithHistory is Generate with novelty re-weighting against
// previously shown insights.
func (e *Engine) GenerateWithHistory(input *models.InsightEngineInput, userID string, shown []models.ShownInsight) *models.InsightReport {
	now := e.clock()
	w := NewWindow(now, e.windowDays)

	candidates := e.runBattery(input, w)
	selected := e.prioritizer.SelectWithHistory(candidates, shown, now)

	return e.assemble(userID, selected, now, w)
}

func (e *Engine) runBattery(input *models.InsightEngineInput, w Window) []models.Insight {
	candidates := make([]models.Insight, 0, len(Battery()))
	for _, detect := range Battery() {
		if insight := detect(input, w); insight != nil {
			candidates = append(candidates, *insight)
		}
	}
	return candidates
}

func (e *Engine) assemble(userID string, selected []models.Insight, now time.Time, w Window) *models.InsightReport {
	if selected == nil {
		selected = []models.Insight{}
	}
	return &models.InsightReport{
		UserID:      userID,
		Insights:    selected,
		GeneratedAt: now,
		AnalysisWindow: models.AnalysisWindow{
			Start:        w.Start,
			End:          w.End,
			DaysAnalyzed: w.Days(),
		},
	}
}
