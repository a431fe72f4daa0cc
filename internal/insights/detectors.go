package insights

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/models"
)

const (
	// Product consistency
	MinWeekdayEntries   = 5
	MinWeekendEntries   = 2
	CompletionRateDelta = 0.30

	// Energy after modality
	MinScalarSessions   = 3
	MinEnergyPairs      = 3
	MinEnergySamples    = 5
	EnergyIncreaseDelta = 0.5

	// Sleep and morning protocol
	MinEarlyEntries    = 5
	MinPairedSleepDays = 7
	MinSleepGroupSize  = 3
	SleepDelta         = 0.5
	EarlyCutoffHour    = 10

	// Mood variability
	MinMoodSamples  = 5
	MoodStdDevDelta = 2.0

	// Improvement trend
	TrendSampleCap      = 14
	MinTrendSamples     = 7
	TrendPercentDelta   = 10.0
	MinImprovingMarkers = 3

	// Routine drift
	MinDriftEntries = 10
	DriftGapDelta   = 0.5
)

// trendBiomarkers is the fixed vocabulary the improvement-trend detector
// scans. Open-ended biomarker labels outside this list are ignored by it.
var trendBiomarkers = []string{"Energy", "Sleep", "Digestion", "Mood", "Focus", "Hydration"}

// Detector is a pure function of the input bundle and the analysis
// window. It returns nil when its preconditions (minimum sample size,
// minimum effect size) are unmet. All thresholds use strict-greater-than
// semantics: a metric exactly at the boundary does not fire.
type Detector func(input *models.InsightEngineInput, w Window) *models.Insight

// Battery returns the full detector battery in evaluation order.
func Battery() []Detector {
	return []Detector{
		DetectProductConsistency,
		DetectEnergyAfterModality,
		DetectSleepProtocol,
		DetectMoodVariability,
		DetectImprovementTrend,
		DetectRoutineDrift,
	}
}

// DetectProductConsistency compares weekday vs weekend completion rates
// and flags the weaker side when the gap exceeds CompletionRateDelta.
func DetectProductConsistency(input *models.InsightEngineInput, w Window) *models.Insight {
	var weekday, weekend []models.ProductUsageEntry
	for _, e := range input.ProductUsageHistory {
		if !w.Contains(e.Date) {
			continue
		}
		switch e.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekend = append(weekend, e)
		default:
			weekday = append(weekday, e)
		}
	}

	if len(weekday) < MinWeekdayEntries || len(weekend) < MinWeekendEntries {
		return nil
	}

	weekdayRate := completionRate(weekday)
	weekendRate := completionRate(weekend)
	diff := weekdayRate - weekendRate
	if math.Abs(diff) <= CompletionRateDelta {
		return nil
	}

	var message, suggestion string
	if diff > 0 {
		message = fmt.Sprintf("Your completion rate drops from %.0f%% on weekdays to %.0f%% on weekends.",
			weekdayRate*100, weekendRate*100)
		suggestion = "Set a weekend reminder or move your routine next to an existing weekend habit."
	} else {
		message = fmt.Sprintf("Your completion rate drops from %.0f%% on weekends to %.0f%% on weekdays.",
			weekendRate*100, weekdayRate*100)
		suggestion = "Anchor your protocol to a fixed point in your workday, like your first coffee."
	}

	return &models.Insight{
		Icon:       "📅",
		Title:      "Weekday vs Weekend Consistency",
		Message:    message,
		Suggestion: suggestion,
		Type:       models.InsightTypeProductConsistency,
		Confidence: math.Min(2*math.Abs(diff), 1),
		DataPoints: len(weekday) + len(weekend),
	}
}

// DetectEnergyAfterModality checks whether Energy self-reports the day
// after a scalar session run above the overall Energy average.
func DetectEnergyAfterModality(input *models.InsightEngineInput, w Window) *models.Insight {
	var sessions []models.ModalitySession
	for _, s := range input.ModalitySessions {
		if w.Contains(s.Date) && strings.Contains(strings.ToLower(s.Type), "scalar") {
			sessions = append(sessions, s)
		}
	}
	if len(sessions) < MinScalarSessions {
		return nil
	}

	energyByDay := make(map[string]float64)
	var allEnergy []float64
	for _, n := range input.ProgressNotes {
		if !w.Contains(n.Date) {
			continue
		}
		if v, ok := n.Biomarkers["Energy"]; ok {
			energyByDay[dayKey(n.Date)] = v
			allEnergy = append(allEnergy, v)
		}
	}

	var nextDay []float64
	for _, s := range sessions {
		if v, ok := energyByDay[dayKey(s.Date.AddDate(0, 0, 1))]; ok {
			nextDay = append(nextDay, v)
		}
	}

	if len(nextDay) < MinEnergyPairs || len(allEnergy) < MinEnergySamples {
		return nil
	}

	increase := mean(nextDay) - mean(allEnergy)
	if increase <= EnergyIncreaseDelta {
		return nil
	}

	return &models.Insight{
		Icon:  "⚡",
		Title: "Energy Lift After Scalar Sessions",
		Message: fmt.Sprintf("Your energy averages %.1f the day after a scalar session, %.1f points above your overall average.",
			mean(nextDay), increase),
		Suggestion: "Keep scheduling sessions ahead of days where you need the most energy.",
		Type:       models.InsightTypeEnergyModality,
		Confidence: math.Min(increase/2, 1),
		DataPoints: len(nextDay),
	}
}

// DetectSleepProtocol compares Sleep scores on days with an early-morning
// protocol entry (logged before EarlyCutoffHour) against the rest.
func DetectSleepProtocol(input *models.InsightEngineInput, w Window) *models.Insight {
	earlyDays := make(map[string]bool)
	earlyCount := 0
	for _, e := range input.ProductUsageHistory {
		if !w.Contains(e.Date) {
			continue
		}
		if h, ok := parseLoggedHour(e.TimeLogged); ok && h < EarlyCutoffHour {
			earlyCount++
			earlyDays[dayKey(e.Date)] = true
		}
	}
	if earlyCount < MinEarlyEntries {
		return nil
	}

	var early, other []float64
	for _, n := range input.ProgressNotes {
		if !w.Contains(n.Date) {
			continue
		}
		v, ok := n.Biomarkers["Sleep"]
		if !ok {
			continue
		}
		if earlyDays[dayKey(n.Date)] {
			early = append(early, v)
		} else {
			other = append(other, v)
		}
	}

	if len(early)+len(other) < MinPairedSleepDays ||
		len(early) < MinSleepGroupSize || len(other) < MinSleepGroupSize {
		return nil
	}

	diff := mean(early) - mean(other)
	if diff <= SleepDelta {
		return nil
	}

	return &models.Insight{
		Icon:  "🌙",
		Title: "Morning Protocol and Sleep",
		Message: fmt.Sprintf("On days you log your protocol before %d:00, your sleep score averages %.1f vs %.1f otherwise.",
			EarlyCutoffHour, mean(early), mean(other)),
		Suggestion: "Your sleep seems to benefit from an early routine. Protect your morning slot.",
		Type:       models.InsightTypeSleepProtocol,
		Confidence: math.Min(diff/2, 1),
		DataPoints: len(early) + len(other),
	}
}

// DetectMoodVariability flags large mood swings across the last 7 days.
// It uses the recency sub-window regardless of the main window length.
func DetectMoodVariability(input *models.InsightEngineInput, w Window) *models.Insight {
	recent := w.Recent(RecentWindowDays)

	var moods []float64
	for _, n := range input.ProgressNotes {
		if !recent.Contains(n.Date) {
			continue
		}
		if v, ok := n.Biomarkers["Mood"]; ok {
			moods = append(moods, v)
		}
	}
	if len(moods) < MinMoodSamples {
		return nil
	}

	sd := populationStdDev(moods)
	if sd <= MoodStdDevDelta {
		return nil
	}

	lo, hi := minMax(moods)
	return &models.Insight{
		Icon:  "🎭",
		Title: "Mood Swings This Week",
		Message: fmt.Sprintf("Your mood ranged from %.0f to %.0f over the past week, which is more variable than usual.",
			lo, hi),
		Suggestion: "Look at what differed between your best and worst days, like sleep or skipped products.",
		Type:       models.InsightTypeMoodVariability,
		Confidence: math.Min(sd/3, 1),
		DataPoints: len(moods),
	}
}

// DetectImprovementTrend looks for biomarkers whose recent half-mean beat
// the earlier half by more than TrendPercentDelta percent, and reports
// the single largest improver once enough markers are moving.
func DetectImprovementTrend(input *models.InsightEngineInput, w Window) *models.Insight {
	type improver struct {
		name    string
		change  float64
		samples int
	}

	var improving []improver
	for _, name := range trendBiomarkers {
		values := biomarkerSeries(input.ProgressNotes, w, name)
		if len(values) > TrendSampleCap {
			values = values[len(values)-TrendSampleCap:]
		}
		if len(values) < MinTrendSamples {
			continue
		}

		mid := len(values) / 2
		first := mean(values[:mid])
		if first == 0 {
			continue
		}
		change := (mean(values[mid:]) - first) / first * 100
		if change > TrendPercentDelta {
			improving = append(improving, improver{name: name, change: change, samples: len(values)})
		}
	}

	if len(improving) < MinImprovingMarkers {
		return nil
	}

	best := improving[0]
	dataPoints := 0
	for _, imp := range improving {
		dataPoints += imp.samples
		if imp.change > best.change {
			best = imp
		}
	}

	return &models.Insight{
		Icon:  "📈",
		Title: "Biomarkers Trending Up",
		Message: fmt.Sprintf("%d of your biomarkers are improving, led by %s (up %.0f%%).",
			len(improving), best.name, best.change),
		Suggestion: "Whatever you changed recently is working. Keep your current protocol steady.",
		Type:       models.InsightTypeImprovementTrend,
		Confidence: math.Min(float64(len(improving))/5, 1),
		DataPoints: dataPoints,
	}
}

// DetectRoutineDrift compares the average gap between consecutive usage
// entries in the first and second halves of the window.
func DetectRoutineDrift(input *models.InsightEngineInput, w Window) *models.Insight {
	var entries []models.ProductUsageEntry
	for _, e := range input.ProductUsageHistory {
		if w.Contains(e.Date) {
			entries = append(entries, e)
		}
	}
	if len(entries) < MinDriftEntries {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	gaps := make([]float64, 0, len(entries)-1)
	for i := 1; i < len(entries); i++ {
		gaps = append(gaps, entries[i].Date.Sub(entries[i-1].Date).Hours()/24)
	}

	mid := len(gaps) / 2
	increase := mean(gaps[mid:]) - mean(gaps[:mid])
	if increase <= DriftGapDelta {
		return nil
	}

	return &models.Insight{
		Icon:  "⏳",
		Title: "Routine Drifting",
		Message: fmt.Sprintf("The gap between your logged entries has grown by about %.1f days recently.",
			increase),
		Suggestion: "Pick your two most important products and recommit to just those for a week.",
		Type:       models.InsightTypeRoutineDrift,
		Confidence: math.Min(increase, 1),
		DataPoints: len(entries),
	}
}

// =============================================================================
// Helpers
// =============================================================================

func completionRate(entries []models.ProductUsageEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	completed := 0
	for _, e := range entries {
		if e.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(entries))
}

// biomarkerSeries collects one biomarker's values inside the window in
// chronological order.
func biomarkerSeries(notes []models.ProgressNote, w Window, name string) []float64 {
	type sample struct {
		date  time.Time
		value float64
	}
	var samples []sample
	for _, n := range notes {
		if !w.Contains(n.Date) {
			continue
		}
		if v, ok := n.Biomarkers[name]; ok {
			samples = append(samples, sample{date: n.Date, value: v})
		}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].date.Before(samples[j].date) })

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.value
	}
	return values
}

// parseLoggedHour parses the hour out of an "HH:MM" time string. Entries
// with no or unparseable logged time are treated as not-early rather than
// failing the whole evaluation.
func parseLoggedHour(logged string) (int, bool) {
	hh, _, found := strings.Cut(logged, ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
