package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/admission-api/internal/models"
)

type fakeCourses map[string]string

func (f fakeCourses) SchoolByCourse(id string) (string, bool) {
	school, ok := f[id]
	return school, ok
}

type fakeSnapshots struct {
	data    map[string][]byte
	loadErr error
	saveErr error
	saves   int
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{data: map[string][]byte{}}
}

func (f *fakeSnapshots) Load(_ context.Context, key string, dest interface{}) (bool, error) {
	if f.loadErr != nil {
		return false, f.loadErr
	}
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeSnapshots) Save(_ context.Context, key string, value interface{}) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

type fakeSeeder struct {
	counsellors []models.Counsellor
	users       []models.User
}

func (f *fakeSeeder) ListSeedCounsellors() []models.Counsellor { return f.counsellors }
func (f *fakeSeeder) ListSeedUsers() []models.User             { return f.users }

var storeCourses = fakeCourses{"btech-cse": "SOET"}

func seededStore(t *testing.T, snaps SnapshotRepository) *Store {
	t.Helper()
	st := New(snaps, storeCourses, nil)
	seed := &fakeSeeder{
		counsellors: []models.Counsellor{
			{ID: "c1", Name: "Counsellor One", SpecializedSchools: []string{"SOET"}, IsAvailable: true},
		},
		users: []models.User{
			{Email: "admin@krmu.edu", Role: models.RoleAdmin},
		},
	}
	require.NoError(t, st.Load(context.Background(), seed))
	return st
}

func TestLoadSeedsWhenSnapshotsEmpty(t *testing.T) {
	snaps := newFakeSnapshots()
	st := seededStore(t, snaps)

	assert.Empty(t, st.Enquiries())
	require.Len(t, st.Counsellors(), 1)
	require.Len(t, st.Users(), 1)

	// Load persists the initial state so the next boot restores instead of reseeding.
	assert.Contains(t, snaps.data, KeyEnquiries)
	assert.Contains(t, snaps.data, KeyCounsellors)
	assert.Contains(t, snaps.data, KeyUsers)
}

func TestLoadRestoresSnapshotOverSeed(t *testing.T) {
	snaps := newFakeSnapshots()
	raw, err := json.Marshal([]models.Counsellor{{ID: "c9", Name: "Restored", IsAvailable: true}})
	require.NoError(t, err)
	snaps.data[KeyCounsellors] = raw

	st := seededStore(t, snaps)

	counsellors := st.Counsellors()
	require.Len(t, counsellors, 1)
	assert.Equal(t, "c9", counsellors[0].ID)
}

func TestLoadRunsAllocationPass(t *testing.T) {
	snaps := newFakeSnapshots()
	raw, err := json.Marshal([]models.Enquiry{{
		ID:        "e1",
		CourseID:  "btech-cse",
		Status:    models.EnquiryPending,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)
	snaps.data[KeyEnquiries] = raw

	var reported int
	st := New(snaps, storeCourses, nil)
	st.OnAllocate(func(assigned int) { reported = assigned })
	seed := &fakeSeeder{counsellors: []models.Counsellor{
		{ID: "c1", SpecializedSchools: []string{"SOET"}, IsAvailable: true},
	}}
	require.NoError(t, st.Load(context.Background(), seed))

	enquiries := st.Enquiries()
	require.Len(t, enquiries, 1)
	assert.Equal(t, models.EnquiryAssigned, enquiries[0].Status)
	assert.Equal(t, "c1", enquiries[0].CounsellorID)
	assert.Equal(t, 1, reported)
}

func TestLoadFailsOnSnapshotError(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.loadErr = errors.New("connection refused")
	st := New(snaps, storeCourses, nil)

	err := st.Load(context.Background(), &fakeSeeder{})
	assert.Error(t, err)
}

func TestUpdateCommitsDespiteSaveFailure(t *testing.T) {
	snaps := newFakeSnapshots()
	st := seededStore(t, snaps)
	snaps.saveErr = errors.New("disk full")

	err := st.Update(context.Background(), func(state *State) (bool, error) {
		state.Enquiries = append(state.Enquiries, models.Enquiry{ID: "e1", Status: models.EnquiryPending})
		return false, nil
	})
	require.NoError(t, err)

	// In-memory state stays authoritative even when persistence degrades.
	assert.Len(t, st.Enquiries(), 1)
}

func TestUpdateErrorAborts(t *testing.T) {
	snaps := newFakeSnapshots()
	st := seededStore(t, snaps)
	before := snaps.saves

	wantErr := errors.New("validation failed")
	err := st.Update(context.Background(), func(state *State) (bool, error) {
		return false, wantErr
	})
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, before, snaps.saves)
}

func TestObserversFireInRegistrationOrder(t *testing.T) {
	st := seededStore(t, newFakeSnapshots())

	var order []string
	st.Subscribe(func() { order = append(order, "first") })
	st.Subscribe(func() { order = append(order, "second") })

	require.NoError(t, st.Update(context.Background(), func(state *State) (bool, error) {
		return false, nil
	}))

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestObserversMayReadBack(t *testing.T) {
	st := seededStore(t, newFakeSnapshots())

	var seen int
	st.Subscribe(func() { seen = len(st.Enquiries()) })

	require.NoError(t, st.Update(context.Background(), func(state *State) (bool, error) {
		state.Enquiries = append(state.Enquiries, models.Enquiry{ID: "e1"})
		return false, nil
	}))

	assert.Equal(t, 1, seen)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	st := seededStore(t, newFakeSnapshots())

	calls := 0
	unsubscribe := st.Subscribe(func() { calls++ })

	require.NoError(t, st.Update(context.Background(), func(state *State) (bool, error) { return false, nil }))
	unsubscribe()
	require.NoError(t, st.Update(context.Background(), func(state *State) (bool, error) { return false, nil }))

	assert.Equal(t, 1, calls)
}

func TestAccessorsReturnCopies(t *testing.T) {
	st := seededStore(t, newFakeSnapshots())

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, st.Update(context.Background(), func(state *State) (bool, error) {
		state.Enquiries = append(state.Enquiries, models.Enquiry{ID: "e1", SessionStartTime: &start})
		return false, nil
	}))

	enquiries := st.Enquiries()
	*enquiries[0].SessionStartTime = time.Time{}
	enquiries[0].ID = "mutated"

	fresh := st.Enquiries()
	assert.Equal(t, "e1", fresh[0].ID)
	assert.Equal(t, start, *fresh[0].SessionStartTime)

	counsellors := st.Counsellors()
	counsellors[0].SpecializedSchools[0] = "mutated"
	assert.Equal(t, "SOET", st.Counsellors()[0].SpecializedSchools[0])
}
