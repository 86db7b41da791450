package service

import (
	"context"
	"testing"

	"eventplanner/internal/models"
	"eventplanner/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func TestUserService_Me(t *testing.T) {
	t.Parallel()
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return nil, nil }

	_, err := NewUserService(users, bcrypt.MinCost).Me(context.Background(), 5)
	assertKind(t, err, models.KindNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	current := &models.User{ID: 1, Username: "alice", Email: "alice@example.com"}
	base := func() *userRepoStub {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			cp := *current
			return &cp, nil
		}
		return users
	}

	t.Run("email in use by another user", func(t *testing.T) {
		t.Parallel()
		users := base()
		users.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) { return &models.User{ID: 2}, nil }
		_, err := NewUserService(users, bcrypt.MinCost).UpdateProfile(context.Background(), 1,
			UpdateProfileInput{Email: strPtr("bob@example.com")})
		assertKind(t, err, models.KindConflict)
	})

	t.Run("username in use by another user", func(t *testing.T) {
		t.Parallel()
		users := base()
		users.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) { return &models.User{ID: 2}, nil }
		_, err := NewUserService(users, bcrypt.MinCost).UpdateProfile(context.Background(), 1,
			UpdateProfileInput{Username: strPtr("bob")})
		assertKind(t, err, models.KindConflict)
	})

	t.Run("normalizes and forwards changes", func(t *testing.T) {
		t.Parallel()
		users := base()
		var got repository.ProfileChanges
		users.updateProfileFn = func(_ context.Context, _ uint, c repository.ProfileChanges) (repository.Result, error) {
			got = c
			return matched, nil
		}
		_, err := NewUserService(users, bcrypt.MinCost).UpdateProfile(context.Background(), 1,
			UpdateProfileInput{Name: strPtr("  Alice A  "), Email: strPtr(" NEW@Example.com")})
		require.NoError(t, err)
		require.NotNil(t, got.Name)
		assert.Equal(t, "Alice A", *got.Name)
		assert.Equal(t, "new@example.com", *got.Email)
		assert.Nil(t, got.Username)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		_, err := NewUserService(base(), bcrypt.MinCost).UpdateProfile(context.Background(), 1,
			UpdateProfileInput{Email: strPtr("not-an-email"), Name: strPtr("A")})
		assertKind(t, err, models.KindValidation)
		assert.Len(t, models.AsAppError(err).Fields, 2)
	})
}

func TestUserService_UpdatePassword(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getPasswordHashFn = func(_ context.Context, _ uint) (string, error) { return string(hash), nil }
		err := NewUserService(users, bcrypt.MinCost).UpdatePassword(context.Background(), 1,
			UpdatePasswordInput{CurrentPassword: "nope1234", NewPassword: "newpass1"})
		assertKind(t, err, models.KindAuthentication)
		assert.Equal(t, "Current password is incorrect", models.AsAppError(err).Message)
	})

	t.Run("weak new password", func(t *testing.T) {
		t.Parallel()
		err := NewUserService(noopUserRepo(), bcrypt.MinCost).UpdatePassword(context.Background(), 1,
			UpdatePasswordInput{CurrentPassword: "secret123", NewPassword: "abcdefg"})
		assertKind(t, err, models.KindValidation)
	})

	t.Run("stores new hash", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getPasswordHashFn = func(_ context.Context, _ uint) (string, error) { return string(hash), nil }
		var stored string
		users.updatePasswordFn = func(_ context.Context, _ uint, h string) (repository.Result, error) {
			stored = h
			return matched, nil
		}
		err := NewUserService(users, bcrypt.MinCost).UpdatePassword(context.Background(), 1,
			UpdatePasswordInput{CurrentPassword: "secret123", NewPassword: "newpass1"})
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("newpass1")))
	})
}

func TestUserService_AdminOperations(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email == "erin@example.com" {
			return &models.User{ID: 9, Email: email, Role: models.RoleUser}, nil
		}
		return nil, nil
	}
	var roleSet models.Role
	users.setRoleFn = func(_ context.Context, _ uint, r models.Role) (repository.Result, error) {
		roleSet = r
		return matched, nil
	}
	svc := NewUserService(users, bcrypt.MinCost)

	u, err := svc.SetRoleByEmail(context.Background(), "erin@example.com", models.RoleOrganizer)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, u.Role)
	assert.Equal(t, models.RoleOrganizer, roleSet)

	_, err = svc.SetRoleByEmail(context.Background(), "erin@example.com", models.Role("root"))
	assertKind(t, err, models.KindValidation)

	err = svc.DeactivateByEmail(context.Background(), "missing@example.com")
	assertKind(t, err, models.KindNotFound)

	assert.NoError(t, svc.DeactivateByEmail(context.Background(), "erin@example.com"))
}
