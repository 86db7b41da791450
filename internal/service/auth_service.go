// Package service holds the business rules of the API, between HTTP handlers and repositories.
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"eventplanner/internal/models"
	"eventplanner/internal/observability"
	"eventplanner/internal/repository"
	"eventplanner/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenIssuer   = "eventplanner-api"
	TokenAudience = "eventplanner-client"

	defaultTokenTTL = 7 * 24 * time.Hour
)

// AuthConfig configures token signing and password hashing.
type AuthConfig struct {
	Secret     string
	ExpiresIn  time.Duration
	BcryptCost int
}

type AuthService struct {
	users repository.UserRepository
	cfg   AuthConfig
	now   func() time.Time
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,password"`
	Name     string `json:"name" validate:"omitempty,min=2,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func NewAuthService(users repository.UserRepository, cfg AuthConfig) *AuthService {
	if cfg.ExpiresIn <= 0 {
		cfg.ExpiresIn = defaultTokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, cfg: cfg, now: time.Now}
}

func recordAuth(action, outcome string) {
	observability.AuthAttempts.WithLabelValues(action, outcome).Inc()
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	span, ctx := observability.NewSpan(ctx, "auth.register")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Check(in); err != nil {
		recordAuth("register", "invalid")
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if existing != nil {
		recordAuth("register", "conflict")
		return nil, models.NewConflictError("User with this email already exists")
	}
	existing, err = s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if existing != nil {
		recordAuth("register", "conflict")
		return nil, models.NewConflictError("Username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Name:     in.Name,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			recordAuth("register", "conflict")
			return nil, models.NewConflictError("User with this email or username already exists")
		}
		span.SetError(err)
		return nil, err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	recordAuth("register", "success")
	return &AuthResult{User: user, Token: token}, nil
}

// dummyHash is compared against when the email is unknown so both failure paths cost one bcrypt compare.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password-1"), bcrypt.DefaultCost)
	return h
})

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	span, ctx := observability.NewSpan(ctx, "auth.login")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Check(in); err != nil {
		recordAuth("login", "invalid")
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	hash := dummyHash()
	if user != nil {
		hash = []byte(user.Password)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(in.Password)); err != nil || user == nil {
		recordAuth("login", "failure")
		return nil, models.NewAuthenticationError("Invalid credentials")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	recordAuth("login", "success")
	return &AuthResult{User: user, Token: token}, nil
}

// IssueToken signs an HS256 JWT whose subject is the user id.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	if s.cfg.Secret == "" {
		return "", models.NewInternalError(errors.New("JWT secret not configured"))
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.ExpiresIn)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return signed, nil
}

// ParseToken verifies signature, issuer, audience and expiry and returns the user id.
func (s *AuthService) ParseToken(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(s.cfg.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, models.NewAuthenticationError("Invalid or expired token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewAuthenticationError("Invalid token subject")
	}
	return uint(id), nil
}
