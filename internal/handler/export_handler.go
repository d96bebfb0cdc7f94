package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/admitdesk/admission-api/internal/service"
	appErrors "github.com/admitdesk/admission-api/pkg/errors"
	"github.com/admitdesk/admission-api/pkg/response"
)

type exportService interface {
	EnquiryRegister(ctx context.Context, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams enquiry register exports.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Enquiries godoc
// @Summary Export the enquiry register
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} file
// @Router /exports/enquiries [get]
func (h *ExportHandler) Enquiries(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.FormatCSV))))
	if format != service.FormatCSV && format != service.FormatPDF {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}

	result, err := h.service.EnquiryRegister(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
