package service

import (
	"context"
	"testing"

	"eventplanner/internal/models"
	"eventplanner/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin     = &models.User{ID: 1, Role: models.RoleAdmin}
	organizer = &models.User{ID: 2, Role: models.RoleOrganizer}
	member    = &models.User{ID: 3, Role: models.RoleUser}
)

func TestVenueService_Create(t *testing.T) {
	t.Parallel()
	valid := CreateVenueInput{Name: "Main Hall", Location: "12 High Street", Capacity: 250}

	t.Run("plain user is refused before persistence", func(t *testing.T) {
		t.Parallel()
		venues := noopVenueRepo()
		venues.createFn = func(_ context.Context, _ *models.Venue) error {
			t.Fatal("create must not be called")
			return nil
		}
		_, err := NewVenueService(venues).Create(context.Background(), member, valid)
		assertKind(t, err, models.KindAuthorization)
		assert.Equal(t, "Not authorized to create venues", models.AsAppError(err).Message)
	})

	t.Run("organizer may create", func(t *testing.T) {
		t.Parallel()
		venues := noopVenueRepo()
		venues.createFn = func(_ context.Context, v *models.Venue) error {
			v.ID = 4
			return nil
		}
		venue, err := NewVenueService(venues).Create(context.Background(), organizer, valid)
		require.NoError(t, err)
		assert.Equal(t, uint(4), venue.ID)
	})

	t.Run("capacity bounds", func(t *testing.T) {
		t.Parallel()
		for _, capacity := range []int{0, -1, 100001} {
			in := valid
			in.Capacity = capacity
			_, err := NewVenueService(noopVenueRepo()).Create(context.Background(), admin, in)
			assertKind(t, err, models.KindValidation)
		}
	})

	t.Run("trimmed name too short", func(t *testing.T) {
		t.Parallel()
		in := valid
		in.Name = "  A  "
		_, err := NewVenueService(noopVenueRepo()).Create(context.Background(), admin, in)
		assertKind(t, err, models.KindValidation)
	})
}

func TestVenueService_Update(t *testing.T) {
	t.Parallel()

	t.Run("admin only", func(t *testing.T) {
		t.Parallel()
		_, err := NewVenueService(noopVenueRepo()).Update(context.Background(), organizer, 1, UpdateVenueInput{})
		assertKind(t, err, models.KindAuthorization)
	})

	t.Run("missing venue", func(t *testing.T) {
		t.Parallel()
		venues := noopVenueRepo()
		venues.updateFn = func(_ context.Context, _ uint, _ repository.VenueChanges) (repository.Result, error) {
			return repository.Result{}, nil
		}
		_, err := NewVenueService(venues).Update(context.Background(), admin, 99, UpdateVenueInput{Name: strPtr("New name")})
		assertKind(t, err, models.KindNotFound)
	})
}

func TestVenueService_Delete(t *testing.T) {
	t.Parallel()

	t.Run("guarded by active events", func(t *testing.T) {
		t.Parallel()
		venues := noopVenueRepo()
		venues.countActiveFn = func(_ context.Context, _ uint) (int64, error) { return 2, nil }
		venues.deleteFn = func(_ context.Context, _ uint) (repository.Result, error) {
			t.Fatal("delete must not be called")
			return repository.Result{}, nil
		}
		err := NewVenueService(venues).Delete(context.Background(), admin, 1)
		assertKind(t, err, models.KindBusinessRule)
		assert.Equal(t, "Cannot delete venue with active events", models.AsAppError(err).Message)
	})

	t.Run("deletes idle venue", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, NewVenueService(noopVenueRepo()).Delete(context.Background(), admin, 1))
	})

	t.Run("missing venue", func(t *testing.T) {
		t.Parallel()
		venues := noopVenueRepo()
		venues.deleteFn = func(_ context.Context, _ uint) (repository.Result, error) { return repository.Result{}, nil }
		err := NewVenueService(venues).Delete(context.Background(), admin, 1)
		assertKind(t, err, models.KindNotFound)
	})

	t.Run("non-admin", func(t *testing.T) {
		t.Parallel()
		err := NewVenueService(noopVenueRepo()).Delete(context.Background(), organizer, 1)
		assertKind(t, err, models.KindAuthorization)
	})
}
