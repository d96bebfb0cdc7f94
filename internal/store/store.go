// Package store owns the canonical in-memory collections of enquiries,
// counsellors and user accounts. Every mutation runs under one lock and ends
// with a commit: snapshot the three collections to durable storage
// (best-effort) and notify every subscribed observer.
package store

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/admitdesk/admission-api/internal/allocation"
	"github.com/admitdesk/admission-api/internal/models"
)

// Snapshot keys in the durable store.
const (
	KeyEnquiries   = "enquiries"
	KeyCounsellors = "counsellors"
	KeyUsers       = "users"
)

// SnapshotRepository persists and restores keyed JSON snapshots.
type SnapshotRepository interface {
	Load(ctx context.Context, key string, dest interface{}) (bool, error)
	Save(ctx context.Context, key string, value interface{}) error
}

// Seeder supplies initial data when no snapshot exists.
type Seeder interface {
	ListSeedCounsellors() []models.Counsellor
	ListSeedUsers() []models.User
}

// State is the mutable view handed to Update callbacks. Callbacks must
// validate before mutating: a returned error aborts the commit but does not
// roll slices back.
type State struct {
	Enquiries   []models.Enquiry
	Counsellors []models.Counsellor
	Users       []models.User
}

// FindEnquiry returns a pointer into the live state, or nil.
func (st *State) FindEnquiry(id string) *models.Enquiry {
	for i := range st.Enquiries {
		if st.Enquiries[i].ID == id {
			return &st.Enquiries[i]
		}
	}
	return nil
}

// FindCounsellor returns a pointer into the live state, or nil.
func (st *State) FindCounsellor(id string) *models.Counsellor {
	for i := range st.Counsellors {
		if st.Counsellors[i].ID == id {
			return &st.Counsellors[i]
		}
	}
	return nil
}

// FindUser looks an account up by email, case-insensitively.
func (st *State) FindUser(email string) *models.User {
	for i := range st.Users {
		if strings.EqualFold(st.Users[i].Email, email) {
			return &st.Users[i]
		}
	}
	return nil
}

type observer struct {
	id int
	fn func()
}

// Store is the authoritative entity store. Constructed once at startup and
// passed by handle to every consumer.
type Store struct {
	mu        sync.Mutex
	state     State
	snapshots SnapshotRepository
	courses   allocation.CourseSchools
	logger    *zap.Logger

	observers  []observer
	nextObsID  int
	onAllocate func(assigned int)
}

// OnAllocate registers a callback invoked with the number of enquiries an
// allocation pass assigned. Set before Load; not safe to change while serving.
func (s *Store) OnAllocate(fn func(assigned int)) {
	s.onAllocate = fn
}

// New constructs a Store. Call Load before serving traffic.
func New(snapshots SnapshotRepository, courses allocation.CourseSchools, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{snapshots: snapshots, courses: courses, logger: logger}
}

// Load restores the three snapshots, falling back to catalog seeds for any
// key that has no snapshot yet, then runs one allocation pass so a restart
// never leaves assignable enquiries stuck in PENDING.
func (s *Store) Load(ctx context.Context, seed Seeder) error {
	s.mu.Lock()

	found, err := s.snapshots.Load(ctx, KeyEnquiries, &s.state.Enquiries)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !found {
		s.state.Enquiries = []models.Enquiry{}
	}

	found, err = s.snapshots.Load(ctx, KeyCounsellors, &s.state.Counsellors)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !found {
		s.state.Counsellors = seed.ListSeedCounsellors()
	}

	found, err = s.snapshots.Load(ctx, KeyUsers, &s.state.Users)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !found {
		s.state.Users = seed.ListSeedUsers()
	}

	assigned := allocation.Assign(s.state.Enquiries, s.state.Counsellors, s.courses)
	s.persistLocked(ctx)
	s.mu.Unlock()

	if assigned > 0 {
		s.logger.Info("allocation pass on load assigned pending enquiries", zap.Int("assigned", assigned))
	}
	s.reportAllocation(assigned)
	s.notify()
	return nil
}

// Update executes fn atomically against the live state. When fn reports that
// capacity may have changed, an allocation pass runs before the commit. The
// commit persists the snapshot (log-and-continue on failure; the in-memory
// state stays the source of truth) and then notifies every observer in
// registration order.
func (s *Store) Update(ctx context.Context, fn func(st *State) (allocate bool, err error)) error {
	s.mu.Lock()

	allocate, err := fn(&s.state)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	assigned := 0
	if allocate {
		assigned = allocation.Assign(s.state.Enquiries, s.state.Counsellors, s.courses)
	}

	s.persistLocked(ctx)
	s.mu.Unlock()

	s.reportAllocation(assigned)
	s.notify()
	return nil
}

func (s *Store) reportAllocation(assigned int) {
	if assigned > 0 && s.onAllocate != nil {
		s.onAllocate(assigned)
	}
}

// Enquiries returns a copy of all enquiries.
func (s *Store) Enquiries() []models.Enquiry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Enquiry, len(s.state.Enquiries))
	for i, e := range s.state.Enquiries {
		out[i] = copyEnquiry(e)
	}
	return out
}

// Counsellors returns a copy of the roster.
func (s *Store) Counsellors() []models.Counsellor {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Counsellor, len(s.state.Counsellors))
	for i, c := range s.state.Counsellors {
		schools := make([]string, len(c.SpecializedSchools))
		copy(schools, c.SpecializedSchools)
		c.SpecializedSchools = schools
		out[i] = c
	}
	return out
}

// Users returns a copy of all accounts.
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.state.Users))
	copy(out, s.state.Users)
	return out
}

// Subscribe registers a callback invoked after every committed mutation.
// The returned closure removes the observer.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObsID
	s.nextObsID++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.observers {
			if s.observers[i].id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, KeyEnquiries, s.state.Enquiries); err != nil {
		s.logger.Warn("enquiry snapshot write failed", zap.Error(err))
	}
	if err := s.snapshots.Save(ctx, KeyCounsellors, s.state.Counsellors); err != nil {
		s.logger.Warn("counsellor snapshot write failed", zap.Error(err))
	}
	if err := s.snapshots.Save(ctx, KeyUsers, s.state.Users); err != nil {
		s.logger.Warn("user snapshot write failed", zap.Error(err))
	}
}

// notify runs outside the state lock so observers may read back through the
// accessors.
func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), len(s.observers))
	for i, o := range s.observers {
		fns[i] = o.fn
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func copyEnquiry(e models.Enquiry) models.Enquiry {
	if e.SessionStartTime != nil {
		t := *e.SessionStartTime
		e.SessionStartTime = &t
	}
	if e.SessionEndTime != nil {
		t := *e.SessionEndTime
		e.SessionEndTime = &t
	}
	return e
}
