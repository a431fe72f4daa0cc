// Package insights implements the insight generation engine: a rolling
// analysis window, a battery of independent pattern detectors, and a
// prioritization step that selects the top findings for a report.
package insights

import "time"

const (
	// DefaultWindowDays is the rolling analysis interval detectors
	// compare over.
	DefaultWindowDays = 14

	// RecentWindowDays is the narrower window used by detectors that
	// only care about recency.
	RecentWindowDays = 7
)

// Window is a closed analysis interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the rolling window of the given length ending at now.
func NewWindow(now time.Time, days int) Window {
	return Window{Start: now.AddDate(0, 0, -days), End: now}
}

// Recent returns the narrower sub-window sharing this window's end.
func (w Window) Recent(days int) Window {
	return Window{Start: w.End.AddDate(0, 0, -days), End: w.End}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the elapsed day count of the window.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}
