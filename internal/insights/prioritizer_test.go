package insights

import (
	"math/rand"
	"testing"
	"time"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/models"
)

func candidate(t models.InsightType, confidence float64, dataPoints int) models.Insight {
	return models.Insight{
		Title:      string(t),
		Type:       t,
		Confidence: confidence,
		DataPoints: dataPoints,
	}
}

func TestSelectOrdersByConfidence(t *testing.T) {
	p := NewPrioritizer(nil)
	selected := p.Select([]models.Insight{
		candidate(models.InsightTypeMoodVariability, 0.5, 7),
		candidate(models.InsightTypeProductConsistency, 0.9, 14),
		candidate(models.InsightTypeSleepProtocol, 0.7, 10),
	})

	want := []models.InsightType{
		models.InsightTypeProductConsistency,
		models.InsightTypeSleepProtocol,
		models.InsightTypeMoodVariability,
	}
	if len(selected) != len(want) {
		t.Fatalf("expected %d insights, got %d", len(want), len(selected))
	}
	for i, typ := range want {
		if selected[i].Type != typ {
			t.Errorf("position %d: expected %s, got %s", i, typ, selected[i].Type)
		}
	}
}

func TestSelectBreaksTiesByDataPoints(t *testing.T) {
	p := NewPrioritizer(nil)
	selected := p.Select([]models.Insight{
		candidate(models.InsightTypeMoodVariability, 0.8, 7),
		candidate(models.InsightTypeRoutineDrift, 0.8, 20),
	})

	if selected[0].Type != models.InsightTypeRoutineDrift {
		t.Errorf("expected the larger sample to rank first, got %s", selected[0].Type)
	}
}

func TestSelectCapsAtThree(t *testing.T) {
	p := NewPrioritizer(nil)
	selected := p.Select([]models.Insight{
		candidate(models.InsightTypeProductConsistency, 0.9, 14),
		candidate(models.InsightTypeEnergyModality, 0.8, 5),
		candidate(models.InsightTypeSleepProtocol, 0.7, 10),
		candidate(models.InsightTypeMoodVariability, 0.6, 7),
		candidate(models.InsightTypeImprovementTrend, 0.5, 24),
	})

	if len(selected) != MaxReportInsights {
		t.Fatalf("expected %d insights, got %d", MaxReportInsights, len(selected))
	}
	if selected[2].Type != models.InsightTypeSleepProtocol {
		t.Errorf("expected the fourth-ranked insight to be cut, got %s last", selected[2].Type)
	}
}

func TestSelectShuffleKeepsRankingStable(t *testing.T) {
	// Distinct confidences must produce the same order for any seed.
	candidates := []models.Insight{
		candidate(models.InsightTypeMoodVariability, 0.5, 7),
		candidate(models.InsightTypeProductConsistency, 0.9, 14),
		candidate(models.InsightTypeSleepProtocol, 0.7, 10),
	}

	for seed := int64(0); seed < 5; seed++ {
		p := NewPrioritizer(rand.New(rand.NewSource(seed)))
		selected := p.Select(candidates)
		if selected[0].Type != models.InsightTypeProductConsistency {
			t.Fatalf("seed %d: expected the highest confidence first, got %s", seed, selected[0].Type)
		}
	}
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	candidates := []models.Insight{
		candidate(models.InsightTypeMoodVariability, 0.5, 7),
		candidate(models.InsightTypeProductConsistency, 0.9, 14),
	}
	NewPrioritizer(nil).Select(candidates)

	if candidates[0].Type != models.InsightTypeMoodVariability {
		t.Error("expected the candidate slice to be left untouched")
	}
}

func TestSelectWithHistoryPenalizesRecentTypes(t *testing.T) {
	now := time.Date(2026, time.March, 18, 12, 0, 0, 0, time.UTC)
	shown := []models.ShownInsight{
		{Type: models.InsightTypeProductConsistency, ShownAt: now.AddDate(0, 0, -1)},
	}

	p := NewPrioritizer(nil)
	selected := p.SelectWithHistory([]models.Insight{
		candidate(models.InsightTypeProductConsistency, 0.9, 14), // 0.9 * 0.7 = 0.63
		candidate(models.InsightTypeMoodVariability, 0.6, 7),     // 0.6 * 1.3 = 0.78
	}, shown, now)

	if selected[0].Type != models.InsightTypeMoodVariability {
		t.Errorf("expected the novel type to outrank the repeat, got %s first", selected[0].Type)
	}
	if selected[0].Confidence != 0.6 || selected[1].Confidence != 0.9 {
		t.Errorf("expected original confidences to be preserved, got %f and %f",
			selected[0].Confidence, selected[1].Confidence)
	}
}

func TestSelectWithHistoryIgnoresOldHistory(t *testing.T) {
	now := time.Date(2026, time.March, 18, 12, 0, 0, 0, time.UTC)
	shown := []models.ShownInsight{
		{Type: models.InsightTypeProductConsistency, ShownAt: now.AddDate(0, 0, -5)},
	}

	p := NewPrioritizer(nil)
	selected := p.SelectWithHistory([]models.Insight{
		candidate(models.InsightTypeProductConsistency, 0.9, 14),
		candidate(models.InsightTypeMoodVariability, 0.6, 7),
	}, shown, now)

	if selected[0].Type != models.InsightTypeProductConsistency {
		t.Errorf("expected history older than %d days to carry no penalty, got %s first",
			RecentlyShownDays, selected[0].Type)
	}
}
