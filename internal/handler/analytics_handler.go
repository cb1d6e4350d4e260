package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/response"
	"github.com/brightpath/institute-api/internal/service"
	"github.com/brightpath/institute-api/internal/validator"
)

// AnalyticsHandler collects page events and serves the daily counters.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	log              zerolog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		log:              log.With().Str("component", "analytics_handler").Logger(),
	}
}

// RecordEvent godoc
// POST /api/analytics/events
func (h *AnalyticsHandler) RecordEvent(c *gin.Context) {
	var req model.AnalyticsEvent
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.analyticsService.Record(c.Request.Context(), req); err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"recorded": true})
}

// GetSummary godoc
// GET /api/admin/analytics?days=N
// Returns per-day counters for the last N days (default 7), oldest first.
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"days": "days must be a number",
		})
		return
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), days)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"days": summary})
}
