package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/admitdesk/admission-api/pkg/errors"
	"github.com/admitdesk/admission-api/pkg/export"
)

// ExportFormat selects the render target for the enquiry register.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes plus response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Archiver keeps a durable copy of rendered exports. Nil disables archiving.
type Archiver interface {
	Save(filename string, data []byte) (string, error)
}

// ExportService renders the enquiry register for admin download.
type ExportService struct {
	store   entityStore
	catalog courseCatalog
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	archive Archiver
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(st entityStore, catalog courseCatalog, archive Archiver, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:   st,
		catalog: catalog,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		archive: archive,
		logger:  logger,
		now:     time.Now,
	}
}

// EnquiryRegister renders every enquiry into the requested format.
func (s *ExportService) EnquiryRegister(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	dataset := s.buildDataset()
	stamp := s.now().UTC().Format("20060102-150405")

	var result *ExportResult
	switch format {
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		result = &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("enquiries-%s.csv", stamp),
		}
	case FormatPDF:
		content, err := s.pdf.Render(dataset, "Admission Enquiry Register")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		result = &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("enquiries-%s.pdf", stamp),
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	if s.archive != nil {
		if _, err := s.archive.Save(result.Filename, result.Content); err != nil {
			s.logger.Warn("export archive write failed", zap.String("filename", result.Filename), zap.Error(err))
		}
	}
	return result, nil
}

func (s *ExportService) buildDataset() export.Dataset {
	headers := []string{"ID", "Student", "Parent", "Course", "School", "Category", "Status", "Counsellor", "Created", "Visit"}
	enquiries := s.store.Enquiries()

	rows := make([]map[string]string, 0, len(enquiries))
	for _, e := range enquiries {
		courseName, school := e.CourseID, ""
		if course, ok := s.catalog.CourseByID(e.CourseID); ok {
			courseName, school = course.Name, course.School
		}
		visit := "-"
		if e.VisitCompleted {
			visit = "completed"
		} else if e.VisitRequested {
			visit = "requested"
		}
		rows = append(rows, map[string]string{
			"ID":         e.ID,
			"Student":    e.StudentName,
			"Parent":     e.ParentName,
			"Course":     courseName,
			"School":     school,
			"Category":   string(e.Category),
			"Status":     string(e.Status),
			"Counsellor": e.CounsellorID,
			"Created":    e.CreatedAt.UTC().Format(time.RFC3339),
			"Visit":      visit,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
