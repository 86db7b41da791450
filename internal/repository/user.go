package repository

import (
	"context"
	"strings"

	"eventplanner/internal/cache"
	"eventplanner/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users. Lookups only see active users
// and return nil, nil when nothing matches.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetPasswordHash(ctx context.Context, id uint) (string, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id uint, changes ProfileChanges) (Result, error)
	UpdatePassword(ctx context.Context, id uint, hash string) (Result, error)
	SetRole(ctx context.Context, id uint, role models.Role) (Result, error)
	Deactivate(ctx context.Context, id uint) (Result, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

// ProfileChanges carries the profile columns to update. Nil fields are left alone.
type ProfileChanges struct {
	Name     *string
	Email    *string
	Username *string
}

func (p ProfileChanges) columns() map[string]any {
	cols := make(map[string]any, 3)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Username != nil {
		cols["username"] = *p.Username
	}
	return cols
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

// NewUserRepository returns a new UserRepository implementation. store may be nil.
func NewUserRepository(db *gorm.DB, store *cache.Store) UserRepository {
	return &userRepository{db: db, cache: store}
}

func (r *userRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("is_active = ?", true)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return cache.Aside(ctx, r.cache, cache.UserKey(id), cache.UserTTL, func() (*models.User, error) {
		var user models.User
		if err := r.active(ctx).First(&user, id).Error; err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, models.NewInternalError(err)
		}
		return &user, nil
	})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.active(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.active(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetPasswordHash reads the hash directly; cached users never carry it.
func (r *userRepository) GetPasswordHash(ctx context.Context, id uint) (string, error) {
	var hashes []string
	if err := r.active(ctx).Model(&models.User{}).Where("id = ?", id).Limit(1).Pluck("password", &hashes).Error; err != nil {
		return "", models.NewInternalError(err)
	}
	if len(hashes) == 0 {
		return "", nil
	}
	return hashes[0], nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	return wrapError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) update(ctx context.Context, id uint, cols map[string]any) (Result, error) {
	res, err := resultOf(r.active(ctx).Model(&models.User{}).Where("id = ?", id).Updates(cols))
	if err == nil && res.Matched {
		r.cache.InvalidateUser(ctx, id)
	}
	return res, err
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, changes ProfileChanges) (Result, error) {
	if changes.Email != nil {
		lowered := strings.ToLower(*changes.Email)
		changes.Email = &lowered
	}
	cols := changes.columns()
	if len(cols) == 0 {
		u, err := r.GetByID(ctx, id)
		return Result{Matched: u != nil}, err
	}
	return r.update(ctx, id, cols)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hash string) (Result, error) {
	return r.update(ctx, id, map[string]any{"password": hash})
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role models.Role) (Result, error) {
	return r.update(ctx, id, map[string]any{"role": role})
}

// Deactivate soft-deletes the user and mangles username and email so both can be registered again.
func (r *userRepository) Deactivate(ctx context.Context, id uint) (Result, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil || user == nil {
		return Result{}, err
	}

	suffix := uuid.New().String()[:8]
	return r.update(ctx, id, map[string]any{
		"is_active": false,
		"username":  user.Username + "_deleted_" + suffix,
		"email":     "deleted_" + suffix + "_" + user.Email,
	})
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.active(ctx).Where("role = ?", role).Order("id ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
