package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    *AppError
		status int
		code   string
	}{
		{NewValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{NewBusinessRuleError("nope"), http.StatusBadRequest, "BUSINESS_RULE"},
		{NewAuthenticationError("who"), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{NewAuthorizationError("no"), http.StatusForbidden, "FORBIDDEN"},
		{NewNotFoundError("Event"), http.StatusNotFound, "NOT_FOUND"},
		{NewConflictError("dup"), http.StatusConflict, "CONFLICT"},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.status, tt.err.Kind.Status())
			assert.Equal(t, tt.code, tt.err.Kind.String())
		})
	}
}

func TestAsAppError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, AsAppError(nil))

	notFound := NewNotFoundError("Venue")
	wrapped := fmt.Errorf("loading: %w", notFound)
	got := AsAppError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.Equal(t, "Venue not found", got.Message)

	plain := errors.New("connection reset")
	got = AsAppError(plain)
	assert.Equal(t, KindInternal, got.Kind)
	assert.ErrorIs(t, got, plain)
}

func TestUserHasRole(t *testing.T) {
	t.Parallel()

	var nilUser *User
	assert.False(t, nilUser.HasRole(RoleAdmin))
	assert.False(t, nilUser.IsAdmin())

	u := &User{Role: RoleOrganizer}
	assert.True(t, u.HasRole(RoleAdmin, RoleOrganizer))
	assert.False(t, u.IsAdmin())
	assert.True(t, RoleOrganizer.Valid())
	assert.False(t, Role("root").Valid())
}
