package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/admitdesk/admission-api/internal/models"
	"github.com/admitdesk/admission-api/internal/store"
	appErrors "github.com/admitdesk/admission-api/pkg/errors"
)

type entityStore interface {
	Update(ctx context.Context, fn func(st *store.State) (bool, error)) error
	Enquiries() []models.Enquiry
	Counsellors() []models.Counsellor
	Users() []models.User
}

type courseCatalog interface {
	CourseByID(id string) (models.Course, bool)
	ListCourses() []models.Course
}

// EnquiryService is the lifecycle controller for admission enquiries. Every
// operation is atomic against the entity store: it either applies fully
// (mutation, allocation pass, commit) or not at all.
type EnquiryService struct {
	store     entityStore
	catalog   courseCatalog
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnquiryService constructs an EnquiryService instance.
func NewEnquiryService(st entityStore, catalog courseCatalog, validate *validator.Validate, logger *zap.Logger) *EnquiryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnquiryService{store: st, catalog: catalog, validator: validate, logger: logger, now: time.Now}
}

// Submit validates the form, creates the enquiry in PENDING and triggers an
// allocation pass. Validation failures create nothing.
func (s *EnquiryService) Submit(ctx context.Context, req models.SubmitEnquiryRequest) (*models.Enquiry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enquiry submission")
	}
	if _, ok := s.catalog.CourseByID(req.CourseID); !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownCourse, "course "+req.CourseID+" is not in the catalog")
	}

	enquiry := models.Enquiry{
		ID:                 uuid.NewString(),
		StudentName:        req.StudentName,
		ParentName:         req.ParentName,
		LastSchoolAttended: req.LastSchoolAttended,
		Address:            req.Address,
		State:              req.State,
		Pincode:            req.Pincode,
		Phone:              req.Phone,
		Email:              req.Email,
		CourseID:           req.CourseID,
		Category:           models.Category(req.Category),
		Marks12th:          req.Marks12th,
		GradMarks:          req.GradMarks,
		Status:             models.EnquiryPending,
		CreatedAt:          s.now().UTC(),
	}

	err := s.store.Update(ctx, func(st *store.State) (bool, error) {
		st.Enquiries = append(st.Enquiries, enquiry)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	created := s.findByID(enquiry.ID)
	if created == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "enquiry lost after commit")
	}
	s.logger.Info("enquiry submitted",
		zap.String("enquiry_id", created.ID),
		zap.String("course_id", created.CourseID),
		zap.String("status", string(created.Status)))
	return created, nil
}

// StartSession moves an ASSIGNED enquiry to ONGOING and stamps the start time.
func (s *EnquiryService) StartSession(ctx context.Context, id string) (*models.Enquiry, error) {
	err := s.store.Update(ctx, func(st *store.State) (bool, error) {
		enq := st.FindEnquiry(id)
		if enq == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "enquiry not found")
		}
		if enq.Status != models.EnquiryAssigned {
			return false, appErrors.Clone(appErrors.ErrPreconditionFailed, "session can only start on an assigned enquiry")
		}
		start := s.now().UTC()
		enq.Status = models.EnquiryOngoing
		enq.SessionStartTime = &start
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return s.findByID(id), nil
}

// CompleteSession finishes an ONGOING session, frees the linked counsellor
// and immediately re-runs allocation so waiting enquiries can take the slot.
func (s *EnquiryService) CompleteSession(ctx context.Context, id string) (*models.Enquiry, error) {
	err := s.store.Update(ctx, func(st *store.State) (bool, error) {
		enq := st.FindEnquiry(id)
		if enq == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "enquiry not found")
		}
		if enq.Status != models.EnquiryOngoing {
			return false, appErrors.Clone(appErrors.ErrPreconditionFailed, "only an ongoing session can be completed")
		}
		end := s.now().UTC()
		enq.Status = models.EnquiryCompleted
		enq.SessionEndTime = &end
		if enq.CounsellorID != "" {
			if cons := st.FindCounsellor(enq.CounsellorID); cons != nil {
				cons.IsAvailable = true
				cons.CurrentEnquiryID = ""
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.findByID(id), nil
}

// RequestVisit flags a completed enquiry for a campus visit.
func (s *EnquiryService) RequestVisit(ctx context.Context, id string) (*models.Enquiry, error) {
	err := s.store.Update(ctx, func(st *store.State) (bool, error) {
		enq := st.FindEnquiry(id)
		if enq == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "enquiry not found")
		}
		if enq.Status != models.EnquiryCompleted {
			return false, appErrors.Clone(appErrors.ErrPreconditionFailed, "campus visits require a completed session")
		}
		if enq.VisitRequested {
			return false, appErrors.Clone(appErrors.ErrConflict, "visit already requested")
		}
		enq.VisitRequested = true
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return s.findByID(id), nil
}

// CompleteVisit marks a requested campus visit as done.
func (s *EnquiryService) CompleteVisit(ctx context.Context, id string) (*models.Enquiry, error) {
	err := s.store.Update(ctx, func(st *store.State) (bool, error) {
		enq := st.FindEnquiry(id)
		if enq == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "enquiry not found")
		}
		if !enq.VisitRequested {
			return false, appErrors.Clone(appErrors.ErrPreconditionFailed, "no visit has been requested")
		}
		if enq.VisitCompleted {
			return false, appErrors.Clone(appErrors.ErrConflict, "visit already completed")
		}
		enq.VisitCompleted = true
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return s.findByID(id), nil
}

// Get returns a single enquiry.
func (s *EnquiryService) Get(ctx context.Context, id string) (*models.Enquiry, error) {
	if enq := s.findByID(id); enq != nil {
		return enq, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "enquiry not found")
}

// List returns enquiries matching the filter, in insertion order.
func (s *EnquiryService) List(ctx context.Context, filter models.EnquiryFilter) []models.Enquiry {
	all := s.store.Enquiries()
	out := make([]models.Enquiry, 0, len(all))
	for _, e := range all {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.CounsellorID != "" && e.CounsellorID != filter.CounsellorID {
			continue
		}
		if filter.CourseID != "" && e.CourseID != filter.CourseID {
			continue
		}
		if filter.VisitQueue && (!e.VisitRequested || e.VisitCompleted) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *EnquiryService) findByID(id string) *models.Enquiry {
	for _, e := range s.store.Enquiries() {
		if e.ID == id {
			found := e
			return &found
		}
	}
	return nil
}
