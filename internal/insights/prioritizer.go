package insights

import (
	"math/rand"
	"sort"
	"time"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/models"
)

const (
	// MaxReportInsights is the number of insights kept per report.
	MaxReportInsights = 3

	// RecentlyShownDays bounds how far back the history-aware
	// prioritizer considers an insight type "recently shown".
	RecentlyShownDays = 3

	// Re-weighting factors for the history-aware variant.
	repeatPenalty = 0.7
	noveltyBoost  = 1.3
)

// Prioritizer ranks detector outputs and selects the top few for a
// report. Ties on confidence break by sample size; residual ties break by
// the injected random source so the same report does not always surface
// identical insights in identical order. A nil source disables shuffling,
// which keeps selection fully deterministic for tests.
type Prioritizer struct {
	rng *rand.Rand
}

// NewPrioritizer creates a prioritizer with the given tie-breaking
// source. rng may be nil.
func NewPrioritizer(rng *rand.Rand) *Prioritizer {
	return &Prioritizer{rng: rng}
}

// Select returns the top MaxReportInsights candidates ordered by
// confidence descending, then data points descending.
func (p *Prioritizer) Select(candidates []models.Insight) []models.Insight {
	ranked := make([]models.Insight, len(candidates))
	copy(ranked, candidates)

	// Shuffle before the stable sort so fully tied insights land in
	// random order.
	if p.rng != nil {
		p.rng.Shuffle(len(ranked), func(i, j int) {
			ranked[i], ranked[j] = ranked[j], ranked[i]
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].DataPoints > ranked[j].DataPoints
	})

	if len(ranked) > MaxReportInsights {
		ranked = ranked[:MaxReportInsights]
	}
	return ranked
}

// SelectWithHistory re-weights candidates by novelty before the usual
// sort-and-slice: types shown within the last RecentlyShownDays are
// penalized, everything else is boosted. The adjusted score is used for
// ranking only; returned insights keep their original confidence so the
// [0,1] contract holds.
func (p *Prioritizer) SelectWithHistory(candidates []models.Insight, shown []models.ShownInsight, now time.Time) []models.Insight {
	cutoff := now.AddDate(0, 0, -RecentlyShownDays)
	recent := make(map[models.InsightType]bool)
	for _, s := range shown {
		if !s.ShownAt.Before(cutoff) {
			recent[s.Type] = true
		}
	}

	type scored struct {
		insight models.Insight
		score   float64
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		factor := noveltyBoost
		if recent[c.Type] {
			factor = repeatPenalty
		}
		ranked[i] = scored{insight: c, score: c.Confidence * factor}
	}

	if p.rng != nil {
		p.rng.Shuffle(len(ranked), func(i, j int) {
			ranked[i], ranked[j] = ranked[j], ranked[i]
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].insight.DataPoints > ranked[j].insight.DataPoints
	})

	n := len(ranked)
	if n > MaxReportInsights {
		n = MaxReportInsights
	}
	selected := make([]models.Insight, n)
	for i := 0; i < n; i++ {
		selected[i] = ranked[i].insight
	}
	return selected
}
