package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventplanner/internal/models"
	"eventplanner/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm duplicated key", errors.Join(errors.New("insert"), gorm.ErrDuplicatedKey), true},
		{"sqlite message", errors.New("UNIQUE constraint failed: users.email"), true},
		{"postgres message", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintError(tt.err))
		})
	}
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError(nil))
	assert.ErrorIs(t, wrapError(gorm.ErrDuplicatedKey), ErrDuplicate)

	err := wrapError(errors.New("boom"))
	require.Error(t, err)
	assert.Equal(t, models.KindInternal, models.AsAppError(err).Kind)
}

func TestVenueRepository_ListQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVenueRepository(db)

	mock.ExpectQuery(`SELECT venues\.\*`).WillReturnError(errors.New("connection reset"))

	venues, err := repo.List(context.Background())
	assert.Nil(t, venues)
	require.Error(t, err)
	assert.Equal(t, models.KindInternal, models.AsAppError(err).Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByIDQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectQuery(`SELECT events\.\*`).WillReturnError(errors.New("connection reset"))

	event, err := repo.GetByID(context.Background(), 7)
	assert.Nil(t, event)
	require.Error(t, err)
	assert.Equal(t, models.KindInternal, models.AsAppError(err).Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendeeRepository_StatsQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAttendeeRepository(db)

	mock.ExpectQuery(`COUNT\(CASE WHEN rsvp_status = 'yes'`).
		WithArgs(3).
		WillReturnError(errors.New("connection reset"))

	stats, err := repo.Stats(context.Background(), 3)
	assert.Equal(t, models.EventStats{}, stats)
	require.Error(t, err)
	assert.Equal(t, models.KindInternal, models.AsAppError(err).Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendeeRepository_CreateDuplicatePostgres(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAttendeeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "attendees"`).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_attendees_user_event"`))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Attendee{UserID: 1, EventID: 2, RSVPStatus: models.RSVPYes})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueRepository_SQLite(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewVenueRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner", models.RoleOrganizer, "secret123")
	hall := &models.Venue{Name: "Zeta Hall", Location: "1 Main Street", Capacity: 200}
	require.NoError(t, repo.Create(ctx, hall))
	arena := testutil.CreateVenue(t, db, "Alpha Arena", 5000)

	future := time.Now().Add(48 * time.Hour)
	testutil.CreateEvent(t, db, "Published", owner, hall, future, models.EventPublished)
	testutil.CreateEvent(t, db, "Draft", owner, hall, future, models.EventDraft)
	testutil.CreateEvent(t, db, "Cancelled", owner, hall, future, models.EventCancelled)

	t.Run("list ordered by name with published count", func(t *testing.T) {
		venues, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, venues, 2)
		assert.Equal(t, arena.ID, venues[0].ID)
		assert.Equal(t, int64(0), venues[0].ActiveEvents)
		assert.Equal(t, hall.ID, venues[1].ID)
		assert.Equal(t, int64(1), venues[1].ActiveEvents)
	})

	t.Run("count active includes drafts", func(t *testing.T) {
		n, err := repo.CountActiveEvents(ctx, hall.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("get missing", func(t *testing.T) {
		v, err := repo.GetByID(ctx, 9999)
		assert.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("partial update", func(t *testing.T) {
		capacity := 300
		res, err := repo.Update(ctx, hall.ID, VenueChanges{Capacity: &capacity})
		require.NoError(t, err)
		assert.True(t, res.Matched)

		v, err := repo.GetByID(ctx, hall.ID)
		require.NoError(t, err)
		assert.Equal(t, 300, v.Capacity)
		assert.Equal(t, "Zeta Hall", v.Name)

		res, err = repo.Update(ctx, 9999, VenueChanges{Capacity: &capacity})
		require.NoError(t, err)
		assert.False(t, res.Matched)
	})

	t.Run("delete", func(t *testing.T) {
		res, err := repo.Delete(ctx, arena.ID)
		require.NoError(t, err)
		assert.True(t, res.Matched)

		ok, err := repo.Exists(ctx, arena.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		res, err = repo.Delete(ctx, arena.ID)
		require.NoError(t, err)
		assert.False(t, res.Matched)
	})
}

func TestEventRepository_SQLite(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser, "secret123")
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser, "secret123")
	venue := testutil.CreateVenue(t, db, "Community Hall", 120)

	now := time.Now().UTC().Truncate(time.Second)
	later := &models.Event{
		Title:       "Later",
		Description: "A later event for the list.",
		DateTime:    now.Add(72 * time.Hour),
		VenueID:     &venue.ID,
		CreatedBy:   alice.ID,
	}
	require.NoError(t, repo.Create(ctx, later))
	assert.Equal(t, models.EventPublished, later.Status)

	sooner := testutil.CreateEvent(t, db, "Sooner", bob, nil, now.Add(24*time.Hour), models.EventDraft)
	past := testutil.CreateEvent(t, db, "Past", alice, venue, now.Add(-24*time.Hour), models.EventCompleted)

	require.NoError(t, db.Create(&models.Attendee{UserID: bob.ID, EventID: later.ID, RSVPStatus: models.RSVPYes}).Error)
	require.NoError(t, db.Create(&models.Attendee{UserID: alice.ID, EventID: later.ID, RSVPStatus: models.RSVPMaybe}).Error)

	t.Run("detail joins venue and creator", func(t *testing.T) {
		e, err := repo.GetByID(ctx, later.ID)
		require.NoError(t, err)
		require.NotNil(t, e)
		require.NotNil(t, e.VenueName)
		assert.Equal(t, "Community Hall", *e.VenueName)
		require.NotNil(t, e.VenueCapacity)
		assert.Equal(t, 120, *e.VenueCapacity)
		assert.Equal(t, "alice", e.CreatorUsername)
		assert.Equal(t, "alice@example.com", e.CreatorEmail)
		assert.Equal(t, int64(1), e.ConfirmedAttendees)
	})

	t.Run("event without venue", func(t *testing.T) {
		e, err := repo.GetByID(ctx, sooner.ID)
		require.NoError(t, err)
		assert.Nil(t, e.VenueName)
		assert.Nil(t, e.VenueLocation)
	})

	t.Run("upcoming ordered by date", func(t *testing.T) {
		events, err := repo.List(ctx, EventFilter{UpcomingOnly: true, Now: now})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, sooner.ID, events[0].ID)
		assert.Equal(t, later.ID, events[1].ID)
		assert.Empty(t, events[0].CreatorEmail)
	})

	t.Run("filters and pagination", func(t *testing.T) {
		events, err := repo.List(ctx, EventFilter{CreatedBy: alice.ID})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, past.ID, events[0].ID)

		events, err = repo.List(ctx, EventFilter{Status: models.EventDraft})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, sooner.ID, events[0].ID)

		events, err = repo.List(ctx, EventFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, sooner.ID, events[0].ID)
	})

	t.Run("by creator includes every status", func(t *testing.T) {
		events, err := repo.ListByCreator(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("update and cancel", func(t *testing.T) {
		title := "Later, renamed"
		res, err := repo.Update(ctx, later.ID, EventChanges{Title: &title})
		require.NoError(t, err)
		assert.True(t, res.Matched)

		res, err = repo.Update(ctx, 9999, EventChanges{Title: &title})
		require.NoError(t, err)
		assert.False(t, res.Matched)

		res, err = repo.Cancel(ctx, later.ID)
		require.NoError(t, err)
		assert.True(t, res.Matched)

		e, err := repo.GetByID(ctx, later.ID)
		require.NoError(t, err)
		assert.Equal(t, title, e.Title)
		assert.Equal(t, models.EventCancelled, e.Status)
	})
}

func TestAttendeeRepository_SQLite(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAttendeeRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", models.RoleUser, "secret123")
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser, "secret123")
	venue := testutil.CreateVenue(t, db, "Garden", 50)
	event := testutil.CreateEvent(t, db, "Picnic", alice, venue, time.Now().Add(24*time.Hour), models.EventPublished)

	require.NoError(t, repo.Create(ctx, &models.Attendee{UserID: bob.ID, EventID: event.ID, RSVPStatus: models.RSVPYes}))

	t.Run("second insert for the pair is a duplicate", func(t *testing.T) {
		err := repo.Create(ctx, &models.Attendee{UserID: bob.ID, EventID: event.ID, RSVPStatus: models.RSVPNo})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("find and update", func(t *testing.T) {
		a, err := repo.Find(ctx, bob.ID, event.ID)
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, models.RSVPYes, a.RSVPStatus)

		res, err := repo.UpdateStatus(ctx, bob.ID, event.ID, models.RSVPMaybe)
		require.NoError(t, err)
		assert.True(t, res.Matched)

		a, err = repo.Find(ctx, bob.ID, event.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RSVPMaybe, a.RSVPStatus)

		missing, err := repo.Find(ctx, alice.ID, event.ID)
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("stats add up", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.Attendee{UserID: alice.ID, EventID: event.ID, RSVPStatus: models.RSVPWaitlist}))

		stats, err := repo.Stats(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EventStats{Maybe: 1, Waitlisted: 1, TotalResponses: 2}, stats)
		assert.Equal(t, stats.TotalResponses, stats.Confirmed+stats.Maybe+stats.Declined+stats.Waitlisted)
	})

	t.Run("list by event joins users", func(t *testing.T) {
		list, err := repo.ListByEvent(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		usernames := []string{list[0].Username, list[1].Username}
		assert.ElementsMatch(t, []string{"alice", "bob"}, usernames)
	})

	t.Run("list by user joins event and venue", func(t *testing.T) {
		list, err := repo.ListByUser(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Picnic", list[0].Title)
		assert.Equal(t, models.EventPublished, list[0].EventStatus)
		require.NotNil(t, list[0].VenueName)
		assert.Equal(t, "Garden", *list[0].VenueName)
	})

	t.Run("delete", func(t *testing.T) {
		res, err := repo.Delete(ctx, bob.ID, event.ID)
		require.NoError(t, err)
		assert.True(t, res.Matched)

		res, err = repo.Delete(ctx, bob.ID, event.ID)
		require.NoError(t, err)
		assert.False(t, res.Matched)
	})

	t.Run("empty event stats are zero", func(t *testing.T) {
		stats, err := repo.Stats(ctx, 9999)
		require.NoError(t, err)
		assert.Equal(t, models.EventStats{}, stats)
	})
}
