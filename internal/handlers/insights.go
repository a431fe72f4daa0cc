package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/apierror"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/logger"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/service"
)

// InsightsHandler handles insight-related HTTP requests.
type InsightsHandler struct {
	insightService service.InsightService
	log            logger.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(insightService service.InsightService, log logger.Logger) *InsightsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InsightsHandler{insightService: insightService, log: log}
}

func (h *InsightsHandler) userID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID(c)))
		return "", false
	}
	return userID.(string), true
}

func requestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return c.GetHeader("X-Request-ID")
}

// GetInsights returns the user's current insight report.
// GET /api/v1/insights
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	report, err := h.insightService.GetInsights(c.Request.Context(), userID)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("failed to get insights", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID(c)))
		return
	}

	c.JSON(http.StatusOK, report)
}

// RefreshInsights forces regeneration of the user's report.
// POST /api/v1/insights/refresh
func (h *InsightsHandler) RefreshInsights(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	report, err := h.insightService.RefreshInsights(c.Request.Context(), userID)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("failed to refresh insights", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID(c)))
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetCacheStats returns a diagnostic snapshot of the insight cache.
// GET /api/v1/insights/cache/stats
func (h *InsightsHandler) GetCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.insightService.CacheStats())
}
