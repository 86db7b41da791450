package service

import (
	"context"
	"sync"
	"testing"

	"eventplanner/internal/models"
	"eventplanner/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	getPasswordHashFn func(context.Context, uint) (string, error)
	createFn          func(context.Context, *models.User) error
	updateProfileFn   func(context.Context, uint, repository.ProfileChanges) (repository.Result, error)
	updatePasswordFn  func(context.Context, uint, string) (repository.Result, error)
	setRoleFn         func(context.Context, uint, models.Role) (repository.Result, error)
	deactivateFn      func(context.Context, uint) (repository.Result, error)
	listByRoleFn      func(context.Context, models.Role) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetPasswordHash(ctx context.Context, id uint) (string, error) {
	return s.getPasswordHashFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, id uint, changes repository.ProfileChanges) (repository.Result, error) {
	return s.updateProfileFn(ctx, id, changes)
}
func (s *userRepoStub) UpdatePassword(ctx context.Context, id uint, hash string) (repository.Result, error) {
	return s.updatePasswordFn(ctx, id, hash)
}
func (s *userRepoStub) SetRole(ctx context.Context, id uint, role models.Role) (repository.Result, error) {
	return s.setRoleFn(ctx, id, role)
}
func (s *userRepoStub) Deactivate(ctx context.Context, id uint) (repository.Result, error) {
	return s.deactivateFn(ctx, id)
}
func (s *userRepoStub) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.listByRoleFn(ctx, role)
}

var matched = repository.Result{Matched: true}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:         func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:      func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:   func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getPasswordHashFn: func(_ context.Context, _ uint) (string, error) { return "", nil },
		createFn:          func(_ context.Context, _ *models.User) error { return nil },
		updateProfileFn: func(_ context.Context, _ uint, _ repository.ProfileChanges) (repository.Result, error) {
			return matched, nil
		},
		updatePasswordFn: func(_ context.Context, _ uint, _ string) (repository.Result, error) { return matched, nil },
		setRoleFn:        func(_ context.Context, _ uint, _ models.Role) (repository.Result, error) { return matched, nil },
		deactivateFn:     func(_ context.Context, _ uint) (repository.Result, error) { return matched, nil },
		listByRoleFn:     func(_ context.Context, _ models.Role) ([]models.User, error) { return nil, nil },
	}
}

// venueRepoStub is a stub for repository.VenueRepository.
type venueRepoStub struct {
	createFn      func(context.Context, *models.Venue) error
	getByIDFn     func(context.Context, uint) (*models.Venue, error)
	existsFn      func(context.Context, uint) (bool, error)
	listFn        func(context.Context) ([]models.Venue, error)
	updateFn      func(context.Context, uint, repository.VenueChanges) (repository.Result, error)
	deleteFn      func(context.Context, uint) (repository.Result, error)
	countActiveFn func(context.Context, uint) (int64, error)
}

func (s *venueRepoStub) Create(ctx context.Context, venue *models.Venue) error {
	return s.createFn(ctx, venue)
}
func (s *venueRepoStub) GetByID(ctx context.Context, id uint) (*models.Venue, error) {
	return s.getByIDFn(ctx, id)
}
func (s *venueRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *venueRepoStub) List(ctx context.Context) ([]models.Venue, error) {
	return s.listFn(ctx)
}
func (s *venueRepoStub) Update(ctx context.Context, id uint, changes repository.VenueChanges) (repository.Result, error) {
	return s.updateFn(ctx, id, changes)
}
func (s *venueRepoStub) Delete(ctx context.Context, id uint) (repository.Result, error) {
	return s.deleteFn(ctx, id)
}
func (s *venueRepoStub) CountActiveEvents(ctx context.Context, id uint) (int64, error) {
	return s.countActiveFn(ctx, id)
}

func noopVenueRepo() *venueRepoStub {
	return &venueRepoStub{
		createFn:  func(_ context.Context, _ *models.Venue) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Venue, error) { return &models.Venue{ID: id}, nil },
		existsFn:  func(_ context.Context, _ uint) (bool, error) { return true, nil },
		listFn:    func(_ context.Context) ([]models.Venue, error) { return nil, nil },
		updateFn: func(_ context.Context, _ uint, _ repository.VenueChanges) (repository.Result, error) {
			return matched, nil
		},
		deleteFn:      func(_ context.Context, _ uint) (repository.Result, error) { return matched, nil },
		countActiveFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// eventRepoStub is a stub for repository.EventRepository.
type eventRepoStub struct {
	createFn        func(context.Context, *models.Event) error
	getByIDFn       func(context.Context, uint) (*models.Event, error)
	listFn          func(context.Context, repository.EventFilter) ([]models.Event, error)
	listByCreatorFn func(context.Context, uint) ([]models.Event, error)
	updateFn        func(context.Context, uint, repository.EventChanges) (repository.Result, error)
	cancelFn        func(context.Context, uint) (repository.Result, error)
}

func (s *eventRepoStub) Create(ctx context.Context, event *models.Event) error {
	return s.createFn(ctx, event)
}
func (s *eventRepoStub) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	return s.getByIDFn(ctx, id)
}
func (s *eventRepoStub) List(ctx context.Context, filter repository.EventFilter) ([]models.Event, error) {
	return s.listFn(ctx, filter)
}
func (s *eventRepoStub) ListByCreator(ctx context.Context, userID uint) ([]models.Event, error) {
	return s.listByCreatorFn(ctx, userID)
}
func (s *eventRepoStub) Update(ctx context.Context, id uint, changes repository.EventChanges) (repository.Result, error) {
	return s.updateFn(ctx, id, changes)
}
func (s *eventRepoStub) Cancel(ctx context.Context, id uint) (repository.Result, error) {
	return s.cancelFn(ctx, id)
}

func noopEventRepo() *eventRepoStub {
	return &eventRepoStub{
		createFn:        func(_ context.Context, _ *models.Event) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.Event, error) { return nil, nil },
		listFn:          func(_ context.Context, _ repository.EventFilter) ([]models.Event, error) { return nil, nil },
		listByCreatorFn: func(_ context.Context, _ uint) ([]models.Event, error) { return nil, nil },
		updateFn: func(_ context.Context, _ uint, _ repository.EventChanges) (repository.Result, error) {
			return matched, nil
		},
		cancelFn: func(_ context.Context, _ uint) (repository.Result, error) { return matched, nil },
	}
}

// attendeeRepoStub is an in-memory repository.AttendeeRepository keyed by (user, event).
type attendeeRepoStub struct {
	mu     sync.Mutex
	rows   map[[2]uint]*models.Attendee
	nextID uint

	createFn func(context.Context, *models.Attendee) error
}

func newAttendeeRepoStub() *attendeeRepoStub {
	return &attendeeRepoStub{rows: make(map[[2]uint]*models.Attendee)}
}

func (s *attendeeRepoStub) Find(_ context.Context, userID, eventID uint) (*models.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.rows[[2]uint{userID, eventID}]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *attendeeRepoStub) Create(ctx context.Context, a *models.Attendee) error {
	if s.createFn != nil {
		if err := s.createFn(ctx, a); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uint{a.UserID, a.EventID}
	if _, ok := s.rows[key]; ok {
		return repository.ErrDuplicate
	}
	s.nextID++
	a.ID = s.nextID
	cp := *a
	s.rows[key] = &cp
	return nil
}

func (s *attendeeRepoStub) UpdateStatus(_ context.Context, userID, eventID uint, status models.RSVPStatus) (repository.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[[2]uint{userID, eventID}]
	if !ok {
		return repository.Result{}, nil
	}
	a.RSVPStatus = status
	return matched, nil
}

func (s *attendeeRepoStub) Delete(_ context.Context, userID, eventID uint) (repository.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uint{userID, eventID}
	if _, ok := s.rows[key]; !ok {
		return repository.Result{}, nil
	}
	delete(s.rows, key)
	return matched, nil
}

func (s *attendeeRepoStub) ListByEvent(_ context.Context, eventID uint) ([]models.EventAttendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EventAttendee, 0)
	for _, a := range s.rows {
		if a.EventID == eventID {
			out = append(out, models.EventAttendee{ID: a.ID, UserID: a.UserID, EventID: a.EventID, RSVPStatus: a.RSVPStatus})
		}
	}
	return out, nil
}

func (s *attendeeRepoStub) ListByUser(_ context.Context, _ uint) ([]models.UserRSVP, error) {
	return nil, nil
}

func (s *attendeeRepoStub) Stats(_ context.Context, eventID uint) (models.EventStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st models.EventStats
	for _, a := range s.rows {
		if a.EventID != eventID {
			continue
		}
		st.TotalResponses++
		switch a.RSVPStatus {
		case models.RSVPYes:
			st.Confirmed++
		case models.RSVPMaybe:
			st.Maybe++
		case models.RSVPNo:
			st.Declined++
		case models.RSVPWaitlist:
			st.Waitlisted++
		}
	}
	return st, nil
}

type publishedRSVP struct {
	creatorID, eventID, userID uint
	status                     models.RSVPStatus
}

type notifierStub struct {
	mu   sync.Mutex
	sent []publishedRSVP
	err  error
}

func (n *notifierStub) PublishRSVP(_ context.Context, creatorID, eventID, userID uint, status models.RSVPStatus) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, publishedRSVP{creatorID, eventID, userID, status})
	return n.err
}

func assertKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	appErr := models.AsAppError(err)
	assert.Equal(t, kind, appErr.Kind, "unexpected error: %v", err)
}
