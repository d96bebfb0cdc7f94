package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/admitdesk/admission-api/internal/dto"
	"github.com/admitdesk/admission-api/internal/models"
)

const dashboardCacheKey = "dash:admin"

// DashboardCachePattern matches every dashboard cache entry; the store
// observer invalidates it after each mutation.
const DashboardCachePattern = "dash:*"

// DashboardService composes the admin aggregate view over the entity store.
type DashboardService struct {
	store   entityStore
	catalog courseCatalog
	cache   *CacheService
	logger  *zap.Logger
	now     func() time.Time
	ttl     time.Duration
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(st entityStore, catalog courseCatalog, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: st, catalog: catalog, cache: cache, logger: logger, now: time.Now, ttl: ttl}
}

// Summary returns the admin dashboard and whether it was served from cache.
func (s *DashboardService) Summary(ctx context.Context) (*dto.AdminDashboardResponse, bool, error) {
	if s.cache != nil {
		var cached dto.AdminDashboardResponse
		hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	summary := s.compose()

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, false, nil
}

func (s *DashboardService) compose() *dto.AdminDashboardResponse {
	enquiries := s.store.Enquiries()
	counsellors := s.store.Counsellors()

	statusCounts := make(map[models.EnquiryStatus]int, len(models.EnquiryStatuses))
	courseCounts := make(map[string]int)
	visits := dto.VisitSummary{}
	var waitTotal time.Duration
	waited := 0

	for _, e := range enquiries {
		statusCounts[e.Status]++
		courseCounts[e.CourseID]++
		if e.VisitRequested {
			visits.Requested++
		}
		if e.VisitCompleted {
			visits.Completed++
		}
		if e.VisitRequested && !e.VisitCompleted {
			visits.PendingTours++
		}
		if e.SessionStartTime != nil {
			waitTotal += e.SessionStartTime.Sub(e.CreatedAt)
			waited++
		}
	}

	statuses := make([]dto.StatusCount, 0, len(models.EnquiryStatuses))
	for _, status := range models.EnquiryStatuses {
		if count := statusCounts[status]; count > 0 {
			statuses = append(statuses, dto.StatusCount{Status: string(status), Count: count})
		}
	}

	courses := make([]dto.CourseCount, 0, len(courseCounts))
	for _, course := range s.catalog.ListCourses() {
		courses = append(courses, dto.CourseCount{
			CourseID:   course.ID,
			CourseName: course.Name,
			School:     course.School,
			Count:      courseCounts[course.ID],
		})
	}

	available := 0
	for _, c := range counsellors {
		if c.IsAvailable {
			available++
		}
	}

	summary := &dto.AdminDashboardResponse{
		TotalEnquiries:       len(enquiries),
		StatusCounts:         statuses,
		CourseCounts:         courses,
		AvailableCounsellors: available,
		TotalCounsellors:     len(counsellors),
		Visits:               visits,
		GeneratedAt:          s.now().UTC(),
	}
	if waited > 0 {
		summary.AverageWaitMinutes = waitTotal.Minutes() / float64(waited)
	}
	if len(enquiries) > 0 {
		summary.ConversionRate = float64(statusCounts[models.EnquiryCompleted]) / float64(len(enquiries))
	}
	return summary
}
