package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/admitdesk/admission-api/internal/dto"
	"github.com/admitdesk/admission-api/internal/middleware"
	"github.com/admitdesk/admission-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context) (*dto.AdminDashboardResponse, bool, error)
}

// DashboardHandler serves aggregated admission metrics.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Admin dashboard summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, cached, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}
