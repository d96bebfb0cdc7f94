package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/admitdesk/admission-api/internal/dto"
	"github.com/admitdesk/admission-api/internal/middleware"
	appErrors "github.com/admitdesk/admission-api/pkg/errors"
	"github.com/admitdesk/admission-api/pkg/response"
)

type insightService interface {
	SummarizeTrends(ctx context.Context) (*dto.TrendInsight, bool, error)
	SuggestTalkingPoints(ctx context.Context, courseID string) (*dto.TalkingPoints, error)
}

// InsightHandler serves AI-generated admission insights.
type InsightHandler struct {
	service insightService
}

// NewInsightHandler constructs the handler.
func NewInsightHandler(service insightService) *InsightHandler {
	return &InsightHandler{service: service}
}

// Trends godoc
// @Summary Summarize enquiry trends
// @Tags Insights
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /insights/trends [get]
func (h *InsightHandler) Trends(c *gin.Context) {
	insight, cached, err := h.service.SummarizeTrends(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, insight, nil, middleware.ExtractMeta(c))
}

// TalkingPoints godoc
// @Summary Suggest counselling talking points for a course
// @Tags Insights
// @Produce json
// @Param courseId query string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /insights/talking-points [get]
func (h *InsightHandler) TalkingPoints(c *gin.Context) {
	courseID := strings.TrimSpace(c.Query("courseId"))
	if courseID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseId is required"))
		return
	}

	points, err := h.service.SuggestTalkingPoints(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, points, nil)
}
