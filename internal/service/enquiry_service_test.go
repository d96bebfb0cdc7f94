package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/admission-api/internal/models"
	appErrors "github.com/admitdesk/admission-api/pkg/errors"
)

func TestSubmitAssignsImmediatelyWhenCounsellorFree(t *testing.T) {
	st, cat := newTestStore(t, soetCounsellor("c1"))
	svc := NewEnquiryService(st, cat, nil, nil)

	enq := mustSubmit(t, svc, "cse")

	assert.NotEmpty(t, enq.ID)
	assert.Equal(t, models.EnquiryAssigned, enq.Status)
	assert.Equal(t, "c1", enq.CounsellorID)

	counsellors := st.Counsellors()
	require.Len(t, counsellors, 1)
	assert.False(t, counsellors[0].IsAvailable)
	assert.Equal(t, enq.ID, counsellors[0].CurrentEnquiryID)
}

func TestSubmitStaysPendingWithoutSpecialist(t *testing.T) {
	// The roster only covers engineering; a pharmacy enquiry has to wait.
	st, cat := newTestStore(t, soetCounsellor("c1"))
	svc := NewEnquiryService(st, cat, nil, nil)

	enq := mustSubmit(t, svc, "bpharm")

	assert.Equal(t, models.EnquiryPending, enq.Status)
	assert.Empty(t, enq.CounsellorID)
	assert.True(t, st.Counsellors()[0].IsAvailable)
}

func TestSubmitRejectsInvalidPayload(t *testing.T) {
	st, cat := newTestStore(t)
	svc := NewEnquiryService(st, cat, nil, nil)

	req := validSubmission("cse")
	req.Pincode = "12"
	_, err := svc.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, st.Enquiries())

	req = validSubmission("cse")
	req.Category = "INVALID"
	_, err = svc.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, st.Enquiries())
}

func TestSubmitRejectsUnknownCourse(t *testing.T) {
	st, cat := newTestStore(t)
	svc := NewEnquiryService(st, cat, nil, nil)

	_, err := svc.Submit(context.Background(), validSubmission("no-such-course"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownCourse.Code, appErrors.FromError(err).Code)
	assert.Empty(t, st.Enquiries())
}

func TestSessionLifecycle(t *testing.T) {
	st, cat := newTestStore(t, soetCounsellor("c1"))
	svc := NewEnquiryService(st, cat, nil, nil)
	at := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	svc.now = frozenClock(at)

	enq := mustSubmit(t, svc, "cse")

	started, err := svc.StartSession(context.Background(), enq.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnquiryOngoing, started.Status)
	require.NotNil(t, started.SessionStartTime)
	assert.Equal(t, at, *started.SessionStartTime)
	// Counsellor stays booked for the whole session.
	assert.False(t, st.Counsellors()[0].IsAvailable)

	done, err := svc.CompleteSession(context.Background(), enq.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnquiryCompleted, done.Status)
	require.NotNil(t, done.SessionEndTime)
	// History keeps the counsellor link.
	assert.Equal(t, "c1", done.CounsellorID)
	assert.True(t, st.Counsellors()[0].IsAvailable)
	assert.Empty(t, st.Counsellors()[0].CurrentEnquiryID)
}

func TestCompleteSessionReallocatesFreedCounsellor(t *testing.T) {
	st, cat := newTestStore(t, soetCounsellor("c1"))
	svc := NewEnquiryService(st, cat, nil, nil)

	first := mustSubmit(t, svc, "cse")
	waiting := mustSubmit(t, svc, "cse-ai")
	require.Equal(t, models.EnquiryPending, waiting.Status)

	_, err := svc.StartSession(context.Background(), first.ID)
	require.NoError(t, err)
	_, err = svc.CompleteSession(context.Background(), first.ID)
	require.NoError(t, err)

	// The freed counsellor is handed straight to the waiting enquiry.
	next, err := svc.Get(context.Background(), waiting.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnquiryAssigned, next.Status)
	assert.Equal(t, "c1", next.CounsellorID)
	assert.False(t, st.Counsellors()[0].IsAvailable)
}

func TestStartSessionRequiresAssigned(t *testing.T) {
	st, cat := newTestStore(t)
	svc := NewEnquiryService(st, cat, nil, nil)

	pending := mustSubmit(t, svc, "cse")
	_, err := svc.StartSession(context.Background(), pending.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)

	_, err = svc.StartSession(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCompleteSessionRequiresOngoing(t *testing.T) {
	st, cat := newTestStore(t, soetCounsellor("c1"))
	svc := NewEnquiryService(st, cat, nil, nil)

	enq := mustSubmit(t, svc, "cse")
	_, err := svc.CompleteSession(context.Background(), enq.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	// Failed transition leaves the assignment intact.
	assert.False(t, st.Counsellors()[0].IsAvailable)
}

func TestVisitPipeline(t *testing.T) {
	st, cat := newTestStore(t, soetCounsellor("c1"))
	svc := NewEnquiryService(st, cat, nil, nil)

	enq := mustSubmit(t, svc, "cse")
	_, err := svc.StartSession(context.Background(), enq.ID)
	require.NoError(t, err)
	_, err = svc.CompleteSession(context.Background(), enq.ID)
	require.NoError(t, err)

	requested, err := svc.RequestVisit(context.Background(), enq.ID)
	require.NoError(t, err)
	assert.True(t, requested.VisitRequested)
	assert.False(t, requested.VisitCompleted)

	_, err = svc.RequestVisit(context.Background(), enq.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	completed, err := svc.CompleteVisit(context.Background(), enq.ID)
	require.NoError(t, err)
	assert.True(t, completed.VisitCompleted)

	_, err = svc.CompleteVisit(context.Background(), enq.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRequestVisitNeedsCompletedSession(t *testing.T) {
	st, cat := newTestStore(t, soetCounsellor("c1"))
	svc := NewEnquiryService(st, cat, nil, nil)

	enq := mustSubmit(t, svc, "cse")
	_, err := svc.RequestVisit(context.Background(), enq.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestCompleteVisitNeedsRequest(t *testing.T) {
	st, cat := newTestStore(t, soetCounsellor("c1"))
	svc := NewEnquiryService(st, cat, nil, nil)

	enq := mustSubmit(t, svc, "cse")
	_, err := svc.StartSession(context.Background(), enq.ID)
	require.NoError(t, err)
	_, err = svc.CompleteSession(context.Background(), enq.ID)
	require.NoError(t, err)

	_, err = svc.CompleteVisit(context.Background(), enq.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestListFilters(t *testing.T) {
	st, cat := newTestStore(t, soetCounsellor("c1"))
	svc := NewEnquiryService(st, cat, nil, nil)

	assigned := mustSubmit(t, svc, "cse")
	pending := mustSubmit(t, svc, "bpharm")

	all := svc.List(context.Background(), models.EnquiryFilter{})
	assert.Len(t, all, 2)

	status := models.EnquiryPending
	onlyPending := svc.List(context.Background(), models.EnquiryFilter{Status: &status})
	require.Len(t, onlyPending, 1)
	assert.Equal(t, pending.ID, onlyPending[0].ID)

	byCounsellor := svc.List(context.Background(), models.EnquiryFilter{CounsellorID: "c1"})
	require.Len(t, byCounsellor, 1)
	assert.Equal(t, assigned.ID, byCounsellor[0].ID)

	byCourse := svc.List(context.Background(), models.EnquiryFilter{CourseID: "bpharm"})
	require.Len(t, byCourse, 1)
	assert.Equal(t, pending.ID, byCourse[0].ID)

	assert.Empty(t, svc.List(context.Background(), models.EnquiryFilter{VisitQueue: true}))
}

func TestVisitQueueFilter(t *testing.T) {
	st, cat := newTestStore(t, soetCounsellor("c1"))
	svc := NewEnquiryService(st, cat, nil, nil)

	enq := mustSubmit(t, svc, "cse")
	_, err := svc.StartSession(context.Background(), enq.ID)
	require.NoError(t, err)
	_, err = svc.CompleteSession(context.Background(), enq.ID)
	require.NoError(t, err)
	_, err = svc.RequestVisit(context.Background(), enq.ID)
	require.NoError(t, err)

	queue := svc.List(context.Background(), models.EnquiryFilter{VisitQueue: true})
	require.Len(t, queue, 1)

	_, err = svc.CompleteVisit(context.Background(), enq.ID)
	require.NoError(t, err)
	assert.Empty(t, svc.List(context.Background(), models.EnquiryFilter{VisitQueue: true}))
}

func TestGetUnknownEnquiry(t *testing.T) {
	st, cat := newTestStore(t)
	svc := NewEnquiryService(st, cat, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
