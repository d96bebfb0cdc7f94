package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/admitdesk/admission-api/internal/catalog"
	"github.com/admitdesk/admission-api/internal/models"
	"github.com/admitdesk/admission-api/internal/store"
)

// newTestStore builds a live in-memory store with the given roster. The nil
// snapshot repository disables persistence, which is exactly what unit tests
// want.
func newTestStore(t *testing.T, counsellors ...models.Counsellor) (*store.Store, *catalog.Provider) {
	t.Helper()
	cat := catalog.NewProvider()
	st := store.New(nil, cat, nil)
	if len(counsellors) > 0 {
		require.NoError(t, st.Update(context.Background(), func(state *store.State) (bool, error) {
			state.Counsellors = append(state.Counsellors, counsellors...)
			return false, nil
		}))
	}
	return st, cat
}

func soetCounsellor(id string) models.Counsellor {
	return models.Counsellor{
		ID:                 id,
		Name:               "Test Counsellor " + id,
		SpecializedSchools: []string{"SOET"},
		IsAvailable:        true,
	}
}

func validSubmission(courseID string) models.SubmitEnquiryRequest {
	return models.SubmitEnquiryRequest{
		StudentName:        "Asha Rao",
		ParentName:         "Vikram Rao",
		LastSchoolAttended: "DPS Gurugram",
		Address:            "14 MG Road",
		State:              "Haryana",
		Pincode:            "122001",
		Phone:              "9876543210",
		Email:              "vikram.rao@example.com",
		CourseID:           courseID,
		Category:           "GEN",
		Marks12th:          "88%",
	}
}

func addUsers(t *testing.T, st *store.Store, users ...models.User) {
	t.Helper()
	require.NoError(t, st.Update(context.Background(), func(state *store.State) (bool, error) {
		state.Users = append(state.Users, users...)
		return false, nil
	}))
}

func mustSubmit(t *testing.T, svc *EnquiryService, courseID string) *models.Enquiry {
	t.Helper()
	enq, err := svc.Submit(context.Background(), validSubmission(courseID))
	require.NoError(t, err)
	return enq
}

func frozenClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
