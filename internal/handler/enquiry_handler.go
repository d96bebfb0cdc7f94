package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/admitdesk/admission-api/internal/models"
	appErrors "github.com/admitdesk/admission-api/pkg/errors"
	"github.com/admitdesk/admission-api/pkg/response"
)

type enquiryService interface {
	Submit(ctx context.Context, req models.SubmitEnquiryRequest) (*models.Enquiry, error)
	Get(ctx context.Context, id string) (*models.Enquiry, error)
	List(ctx context.Context, filter models.EnquiryFilter) []models.Enquiry
	StartSession(ctx context.Context, id string) (*models.Enquiry, error)
	CompleteSession(ctx context.Context, id string) (*models.Enquiry, error)
	RequestVisit(ctx context.Context, id string) (*models.Enquiry, error)
	CompleteVisit(ctx context.Context, id string) (*models.Enquiry, error)
}

// EnquiryHandler exposes the enquiry lifecycle over HTTP.
type EnquiryHandler struct {
	service enquiryService
}

// NewEnquiryHandler constructs the handler.
func NewEnquiryHandler(service enquiryService) *EnquiryHandler {
	return &EnquiryHandler{service: service}
}

// Submit godoc
// @Summary Submit a new admission enquiry
// @Tags Enquiries
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /enquiries [post]
func (h *EnquiryHandler) Submit(c *gin.Context) {
	var req models.SubmitEnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid enquiry payload"))
		return
	}

	enquiry, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enquiry)
}

// List godoc
// @Summary List enquiries
// @Tags Enquiries
// @Produce json
// @Param status query string false "Filter by status"
// @Param counsellorId query string false "Filter by assigned counsellor"
// @Param courseId query string false "Filter by course"
// @Param visitQueue query boolean false "Only requested, uncompleted campus visits"
// @Success 200 {object} response.Envelope
// @Router /enquiries [get]
func (h *EnquiryHandler) List(c *gin.Context) {
	filter := models.EnquiryFilter{
		CounsellorID: strings.TrimSpace(c.Query("counsellorId")),
		CourseID:     strings.TrimSpace(c.Query("courseId")),
		VisitQueue:   c.Query("visitQueue") == "true",
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := models.EnquiryStatus(strings.ToUpper(raw))
		filter.Status = &status
	}

	// Counsellors see their own case load unless they ask for the full list.
	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleCounsellor && filter.CounsellorID == "" && c.Query("all") != "true" {
		filter.CounsellorID = claims.CounsellorID
	}

	enquiries := h.service.List(c.Request.Context(), filter)
	response.JSON(c, http.StatusOK, enquiries, nil)
}

// Get godoc
// @Summary Fetch a single enquiry
// @Tags Enquiries
// @Produce json
// @Param id path string true "Enquiry ID"
// @Success 200 {object} response.Envelope
// @Router /enquiries/{id} [get]
func (h *EnquiryHandler) Get(c *gin.Context) {
	enquiry, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enquiry, nil)
}

// StartSession godoc
// @Summary Start the counselling session for an assigned enquiry
// @Tags Enquiries
// @Produce json
// @Param id path string true "Enquiry ID"
// @Success 200 {object} response.Envelope
// @Router /enquiries/{id}/session/start [post]
func (h *EnquiryHandler) StartSession(c *gin.Context) {
	enquiry, err := h.service.StartSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enquiry, nil)
}

// CompleteSession godoc
// @Summary Complete an ongoing counselling session
// @Tags Enquiries
// @Produce json
// @Param id path string true "Enquiry ID"
// @Success 200 {object} response.Envelope
// @Router /enquiries/{id}/session/complete [post]
func (h *EnquiryHandler) CompleteSession(c *gin.Context) {
	enquiry, err := h.service.CompleteSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enquiry, nil)
}

// RequestVisit godoc
// @Summary Request a campus visit after a completed session
// @Tags Visits
// @Produce json
// @Param id path string true "Enquiry ID"
// @Success 200 {object} response.Envelope
// @Router /enquiries/{id}/visit/request [post]
func (h *EnquiryHandler) RequestVisit(c *gin.Context) {
	enquiry, err := h.service.RequestVisit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enquiry, nil)
}

// CompleteVisit godoc
// @Summary Mark a requested campus visit as completed
// @Tags Visits
// @Produce json
// @Param id path string true "Enquiry ID"
// @Success 200 {object} response.Envelope
// @Router /enquiries/{id}/visit/complete [post]
func (h *EnquiryHandler) CompleteVisit(c *gin.Context) {
	enquiry, err := h.service.CompleteVisit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enquiry, nil)
}
