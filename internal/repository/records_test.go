package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleRecords = `{
  "product_usage_history": [
    {"date": "2026-03-17T08:15:00Z", "product_id": "prod-1", "product_name": "Magnesium Complex", "completed": true, "time_logged": "08:15"},
    {"date": "2026-03-18T21:40:00Z", "product_id": "prod-1", "completed": false}
  ],
  "modality_sessions": [
    {"type": "Scalar Frequency Session", "date": "2026-03-16T19:00:00Z", "duration": 30}
  ],
  "progress_notes": [
    {"date": "2026-03-17T22:00:00Z", "biomarkers": {"Energy": 7, "Sleep": 8.5}, "notes": "slept well"}
  ],
  "preferences": {"timezone": "America/Denver", "focus_biomarkers": ["Energy"]}
}`

func writeRecords(t *testing.T, dir, userID, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, userID+".json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileRepositoryReadsRecords(t *testing.T) {
	dir := t.TempDir()
	writeRecords(t, dir, "user-1", sampleRecords)
	repo := NewFileRecordRepository(dir)
	ctx := context.Background()

	usage, err := repo.GetProductUsage(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("expected 2 usage entries, got %d", len(usage))
	}
	if usage[0].ProductName != "Magnesium Complex" || usage[0].TimeLogged != "08:15" {
		t.Errorf("unexpected first entry: %+v", usage[0])
	}

	sessions, err := repo.GetModalitySessions(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Duration != 30 {
		t.Errorf("unexpected sessions: %+v", sessions)
	}

	notes, err := repo.GetProgressNotes(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 1 || notes[0].Biomarkers["Sleep"] != 8.5 {
		t.Errorf("unexpected notes: %+v", notes)
	}

	prefs, err := repo.GetPreferences(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefs == nil || prefs.Timezone != "America/Denver" {
		t.Errorf("unexpected preferences: %+v", prefs)
	}
}

func TestFileRepositoryMissingUser(t *testing.T) {
	repo := NewFileRecordRepository(t.TempDir())

	usage, err := repo.GetProductUsage(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("expected no error for a user without history, got %v", err)
	}
	if len(usage) != 0 {
		t.Errorf("expected empty history, got %d entries", len(usage))
	}

	prefs, err := repo.GetPreferences(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefs != nil {
		t.Errorf("expected nil preferences, got %+v", prefs)
	}
}

func TestFileRepositoryMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	writeRecords(t, dir, "user-1", `{"product_usage_history": [{"date": "yesterday"}]}`)
	repo := NewFileRecordRepository(dir)

	if _, err := repo.GetProductUsage(context.Background(), "user-1"); err == nil {
		t.Fatal("expected a malformed document to fail loudly")
	}
}

func TestFileRepositoryRejectsPathTraversal(t *testing.T) {
	repo := NewFileRecordRepository(t.TempDir())

	for _, userID := range []string{"", "../etc/passwd", "a/b", `a\b`, "user.1"} {
		if _, err := repo.GetProductUsage(context.Background(), userID); err == nil {
			t.Errorf("expected user id %q to be rejected", userID)
		}
	}
}
