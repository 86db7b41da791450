package service

import (
	"context"
	"errors"
	"strings"

	"eventplanner/internal/models"
	"eventplanner/internal/repository"
	"eventplanner/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

type UpdateProfileInput struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Username *string `json:"username" validate:"omitempty,min=3,max=30,username"`
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Me returns the active user with id userID.
func (s *UserService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User")
	}
	return user, nil
}

func trimPtr(p *string, lower bool) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if lower {
		v = strings.ToLower(v)
	}
	return &v
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	in.Name = trimPtr(in.Name, false)
	in.Email = trimPtr(in.Email, true)
	in.Username = trimPtr(in.Username, false)
	if err := validation.Check(in); err != nil {
		return nil, err
	}

	current, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != current.Email {
		other, err := s.users.GetByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != userID {
			return nil, models.NewConflictError("Email is already in use")
		}
	}
	if in.Username != nil && *in.Username != current.Username {
		other, err := s.users.GetByUsername(ctx, *in.Username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != userID {
			return nil, models.NewConflictError("Username is already taken")
		}
	}

	res, err := s.users.UpdateProfile(ctx, userID, repository.ProfileChanges{
		Name:     in.Name,
		Email:    in.Email,
		Username: in.Username,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewConflictError("Email or username is already in use")
		}
		return nil, err
	}
	if !res.Matched {
		return nil, models.NewNotFoundError("User")
	}
	return s.Me(ctx, userID)
}

func (s *UserService) UpdatePassword(ctx context.Context, userID uint, in UpdatePasswordInput) error {
	if err := validation.Check(in); err != nil {
		return err
	}

	hash, err := s.users.GetPasswordHash(ctx, userID)
	if err != nil {
		return err
	}
	if hash == "" {
		return models.NewNotFoundError("User")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(in.CurrentPassword)); err != nil {
		return models.NewAuthenticationError("Current password is incorrect")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.bcryptCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	res, err := s.users.UpdatePassword(ctx, userID, string(newHash))
	if err != nil {
		return err
	}
	if !res.Matched {
		return models.NewNotFoundError("User")
	}
	return nil
}

func (s *UserService) byEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User")
	}
	return user, nil
}

// SetRoleByEmail changes the role of the active user with the given email.
func (s *UserService) SetRoleByEmail(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, models.NewValidationError("Invalid role",
			models.FieldError{Field: "role", Message: "role must be one of: user, organizer, admin"})
	}
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.SetRole(ctx, user.ID, role); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (s *UserService) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.users.ListByRole(ctx, role)
}

// DeactivateByEmail soft-deletes the active user with the given email.
func (s *UserService) DeactivateByEmail(ctx context.Context, email string) error {
	user, err := s.byEmail(ctx, email)
	if err != nil {
		return err
	}
	res, err := s.users.Deactivate(ctx, user.ID)
	if err != nil {
		return err
	}
	if !res.Matched {
		return models.NewNotFoundError("User")
	}
	return nil
}
