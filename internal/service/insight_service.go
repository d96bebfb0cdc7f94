package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/admitdesk/admission-api/internal/dto"
	"github.com/admitdesk/admission-api/internal/models"
	appErrors "github.com/admitdesk/admission-api/pkg/errors"
	"github.com/admitdesk/admission-api/pkg/jobs"
)

const (
	trendCacheKey = "insight:trends"
	trendWindow   = 10

	// JobTypeTrendRefresh is enqueued by the store observer after mutations.
	JobTypeTrendRefresh = "trend_refresh"
)

// Static degraded-mode responses. The engine never depends on the advisory
// service being reachable.
var (
	fallbackTrendSummary  = "Unable to analyze trends at this time."
	fallbackTalkingPoints = []string{
		"Focus on curriculum",
		"Mention placement records",
		"Discuss faculty expertise",
	}
)

type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// InsightService wraps the advisory AI text service. Every method succeeds:
// failures degrade to static fallback text and are only logged.
type InsightService struct {
	store   entityStore
	catalog courseCatalog
	client  textGenerator
	cache   *CacheService
	logger  *zap.Logger
	now     func() time.Time
	ttl     time.Duration
	enabled bool
}

// NewInsightService constructs an InsightService. A nil client behaves like a
// permanently failing one.
func NewInsightService(st entityStore, catalog courseCatalog, client textGenerator, cache *CacheService, ttl time.Duration, enabled bool, logger *zap.Logger) *InsightService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightService{
		store:   st,
		catalog: catalog,
		client:  client,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
		ttl:     ttl,
		enabled: enabled,
	}
}

// SummarizeTrends returns the cached or freshly generated trend summary and
// whether the cache served it.
func (s *InsightService) SummarizeTrends(ctx context.Context) (*dto.TrendInsight, bool, error) {
	if s.cache != nil {
		var cached dto.TrendInsight
		hit, err := s.cache.Get(ctx, trendCacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}
	insight := s.generateTrends(ctx)
	s.cacheTrends(ctx, insight)
	return insight, false, nil
}

// RefreshTrends recomputes the trend summary and overwrites the cache. It is
// the handler behind the background refresh job.
func (s *InsightService) RefreshTrends(ctx context.Context, _ jobs.Job) error {
	insight := s.generateTrends(ctx)
	if insight.Fallback {
		// Do not overwrite a good cached summary with fallback text.
		return fmt.Errorf("trend refresh degraded to fallback")
	}
	s.cacheTrends(ctx, insight)
	return nil
}

// SuggestTalkingPoints returns advisory talking points for a catalog course.
func (s *InsightService) SuggestTalkingPoints(ctx context.Context, courseID string) (*dto.TalkingPoints, error) {
	course, ok := s.catalog.CourseByID(courseID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	result := &dto.TalkingPoints{CourseID: course.ID, CourseName: course.Name}

	if !s.enabled || s.client == nil {
		result.Points = append([]string(nil), fallbackTalkingPoints...)
		result.Fallback = true
		return result, nil
	}

	prompt := fmt.Sprintf("Provide 3 quick talking points for a counsellor speaking to a student interested in %s. Respond with a JSON array of strings only.", course.Name)
	raw, err := s.client.Generate(ctx, prompt)
	if err == nil {
		var points []string
		if jsonErr := json.Unmarshal([]byte(extractJSONArray(raw)), &points); jsonErr == nil && len(points) > 0 {
			result.Points = points
			return result, nil
		}
		err = fmt.Errorf("unparseable talking points payload")
	}

	s.logger.Warn("talking points generation failed", zap.String("course_id", courseID), zap.Error(err))
	result.Points = append([]string(nil), fallbackTalkingPoints...)
	result.Fallback = true
	return result, nil
}

func (s *InsightService) generateTrends(ctx context.Context) *dto.TrendInsight {
	insight := &dto.TrendInsight{GeneratedAt: s.now().UTC()}

	if !s.enabled || s.client == nil {
		insight.Summary = fallbackTrendSummary
		insight.Fallback = true
		return insight
	}

	enquiries := s.store.Enquiries()
	if len(enquiries) > trendWindow {
		enquiries = enquiries[len(enquiries)-trendWindow:]
	}
	data, err := json.Marshal(recentForPrompt(enquiries))
	if err == nil {
		prompt := fmt.Sprintf("Analyze the following university admission enquiries and provide a short summary of trends (which courses are popular, what's the average wait time, and one recommendation for the admin). Data: %s", data)
		var summary string
		summary, err = s.client.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(summary) != "" {
			insight.Summary = strings.TrimSpace(summary)
			return insight
		}
	}

	s.logger.Warn("trend summary generation failed", zap.Error(err))
	insight.Summary = fallbackTrendSummary
	insight.Fallback = true
	return insight
}

func (s *InsightService) cacheTrends(ctx context.Context, insight *dto.TrendInsight) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, trendCacheKey, insight, s.ttl); err != nil {
		s.logger.Warn("trend insight cache write failed", zap.Error(err))
	}
}

type promptEnquiry struct {
	CourseID  string `json:"course_id"`
	Category  string `json:"category"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// recentForPrompt strips personal fields before anything leaves the process.
func recentForPrompt(enquiries []models.Enquiry) []promptEnquiry {
	out := make([]promptEnquiry, len(enquiries))
	for i, e := range enquiries {
		out[i] = promptEnquiry{
			CourseID:  e.CourseID,
			Category:  string(e.Category),
			Status:    string(e.Status),
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
	}
	return out
}

// extractJSONArray tolerates models that wrap the array in prose or fences.
func extractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
