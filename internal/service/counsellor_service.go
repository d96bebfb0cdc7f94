package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/admitdesk/admission-api/internal/models"
	"github.com/admitdesk/admission-api/internal/store"
	appErrors "github.com/admitdesk/admission-api/pkg/errors"
)

// CounsellorService manages the counsellor roster.
type CounsellorService struct {
	store  entityStore
	logger *zap.Logger
}

// NewCounsellorService constructs a CounsellorService instance.
func NewCounsellorService(st entityStore, logger *zap.Logger) *CounsellorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CounsellorService{store: st, logger: logger}
}

// List returns the roster in seed order.
func (s *CounsellorService) List(ctx context.Context) []models.Counsellor {
	return s.store.Counsellors()
}

// Get returns a single counsellor.
func (s *CounsellorService) Get(ctx context.Context, id string) (*models.Counsellor, error) {
	for _, c := range s.store.Counsellors() {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "counsellor not found")
}

// ToggleAvailability flips a counsellor's availability. Becoming available
// triggers an allocation pass. A counsellor holding an active enquiry cannot
// be toggled back to available; completing the session frees them.
func (s *CounsellorService) ToggleAvailability(ctx context.Context, id string) (*models.Counsellor, error) {
	err := s.store.Update(ctx, func(st *store.State) (bool, error) {
		cons := st.FindCounsellor(id)
		if cons == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "counsellor not found")
		}
		if !cons.IsAvailable && cons.CurrentEnquiryID != "" {
			return false, appErrors.Clone(appErrors.ErrPreconditionFailed, "counsellor has an active enquiry; complete the session first")
		}
		cons.IsAvailable = !cons.IsAvailable
		return cons.IsAvailable, nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("counsellor availability toggled",
		zap.String("counsellor_id", id),
		zap.Bool("is_available", updated.IsAvailable))
	return updated, nil
}
