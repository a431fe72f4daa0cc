package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/models"
)

// mockInsightService is a hand-rolled InsightService for handler tests.
type mockInsightService struct {
	report       *models.InsightReport
	err          error
	stats        models.CacheStats
	refreshCalls int
}

func (m *mockInsightService) GetInsights(ctx context.Context, userID string) (*models.InsightReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockInsightService) RefreshInsights(ctx context.Context, userID string) (*models.InsightReport, error) {
	m.refreshCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockInsightService) CacheStats() models.CacheStats {
	return m.stats
}

func setupRouter(svc *mockInsightService, withUser bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewInsightsHandler(svc, nil)

	router := gin.New()
	if withUser {
		router.Use(func(c *gin.Context) { c.Set("user_id", "user-1") })
	}
	router.GET("/api/v1/insights", h.GetInsights)
	router.POST("/api/v1/insights/refresh", h.RefreshInsights)
	router.GET("/api/v1/insights/cache/stats", h.GetCacheStats)
	return router
}

func sampleReport() *models.InsightReport {
	return &models.InsightReport{
		UserID: "user-1",
		Insights: []models.Insight{
			{
				Icon:       "🎭",
				Title:      "Mood Swings This Week",
				Type:       models.InsightTypeMoodVariability,
				Confidence: 1.0,
				DataPoints: 7,
			},
		},
	}
}

func TestGetInsightsReturnsReport(t *testing.T) {
	svc := &mockInsightService{report: sampleReport()}
	router := setupRouter(svc, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var report models.InsightReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if report.UserID != "user-1" || len(report.Insights) != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestGetInsightsWithoutUser(t *testing.T) {
	svc := &mockInsightService{report: sampleReport()}
	router := setupRouter(svc, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a user id, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected a problem document, got %s", ct)
	}
}

func TestGetInsightsServiceFailure(t *testing.T) {
	svc := &mockInsightService{err: errors.New("records unavailable")}
	router := setupRouter(svc, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRefreshInsights(t *testing.T) {
	svc := &mockInsightService{report: sampleReport()}
	router := setupRouter(svc, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/refresh", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.refreshCalls != 1 {
		t.Errorf("expected one refresh call, got %d", svc.refreshCalls)
	}
}

func TestGetCacheStats(t *testing.T) {
	svc := &mockInsightService{stats: models.CacheStats{TotalEntries: 2, ValidEntries: 1, ExpiredEntries: 1, CacheHitRate: 0.75}}
	router := setupRouter(svc, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/cache/stats", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var stats models.CacheStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.TotalEntries != 2 || stats.CacheHitRate != 0.75 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
