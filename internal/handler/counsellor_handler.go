package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/admitdesk/admission-api/internal/models"
	"github.com/admitdesk/admission-api/pkg/response"
)

type counsellorService interface {
	List(ctx context.Context) []models.Counsellor
	Get(ctx context.Context, id string) (*models.Counsellor, error)
	ToggleAvailability(ctx context.Context, id string) (*models.Counsellor, error)
}

// CounsellorHandler exposes the counsellor roster over HTTP.
type CounsellorHandler struct {
	service counsellorService
}

// NewCounsellorHandler constructs the handler.
func NewCounsellorHandler(service counsellorService) *CounsellorHandler {
	return &CounsellorHandler{service: service}
}

// List godoc
// @Summary List counsellors with availability
// @Tags Counsellors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /counsellors [get]
func (h *CounsellorHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.List(c.Request.Context()), nil)
}

// Get godoc
// @Summary Fetch a single counsellor
// @Tags Counsellors
// @Produce json
// @Param id path string true "Counsellor ID"
// @Success 200 {object} response.Envelope
// @Router /counsellors/{id} [get]
func (h *CounsellorHandler) Get(c *gin.Context) {
	counsellor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counsellor, nil)
}

// ToggleAvailability godoc
// @Summary Toggle a counsellor's availability
// @Tags Counsellors
// @Produce json
// @Param id path string true "Counsellor ID"
// @Success 200 {object} response.Envelope
// @Router /counsellors/{id}/availability/toggle [post]
func (h *CounsellorHandler) ToggleAvailability(c *gin.Context) {
	counsellor, err := h.service.ToggleAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counsellor, nil)
}
