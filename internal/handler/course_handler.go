package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/admitdesk/admission-api/internal/models"
	"github.com/admitdesk/admission-api/pkg/response"
)

type courseCatalog interface {
	ListCourses() []models.Course
}

// CourseHandler serves the static course catalog.
type CourseHandler struct {
	catalog courseCatalog
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(catalog courseCatalog) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

// List godoc
// @Summary List courses offered by the university
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.ListCourses(), nil)
}
