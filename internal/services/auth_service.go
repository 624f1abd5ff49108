// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/luxe-clothing/storefront/internal/config"
	"github.com/luxe-clothing/storefront/internal/models"
	"github.com/luxe-clothing/storefront/internal/repository"
	"github.com/luxe-clothing/storefront/internal/utils"
)

// Identity is the authenticated caller. Handlers build it from the verified
// token and pass it to every operation that acts on the caller's data.
type Identity struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   models.UserRole
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.UserRoleAdmin
}

// IdentityFromClaims converts verified token claims.
func IdentityFromClaims(claims *utils.JWTClaims) (Identity, error) {
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, &AuthError{Reason: "Token is not valid."}
	}
	return Identity{
		UserID: id,
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   models.UserRole(claims.Role),
	}, nil
}

// WelcomeNotifier sends the post-registration email.
type WelcomeNotifier interface {
	SendWelcomeEmail(user *models.User) error
}

type AuthService struct {
	users    repository.UserRepo
	notifier WelcomeNotifier
	cfg      *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewAuthService(users repository.UserRepo, notifier WelcomeNotifier, cfg *config.Config) *AuthService {
	return &AuthService{
		users:    users,
		notifier: notifier,
		cfg:      cfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existing != nil {
		return nil, &ConflictError{Message: "User already exists with this email"}
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  models.UserRoleUser,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, &ConflictError{Message: "User already exists with this email"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	if s.notifier != nil {
		go func(u models.User) {
			if err := s.notifier.SendWelcomeEmail(&u); err != nil {
				logrus.WithError(err).WithField("user_id", u.ID).Warn("Failed to send welcome email")
			}
		}(*user)
	}

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if user == nil || user.CheckPassword(req.Password) != nil {
		return nil, &AuthError{Reason: "Invalid email or password"}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("User logged in")

	return &AuthResponse{Token: token, User: user}, nil
}

// Me reloads the caller. A token for a user that no longer exists is an
// authentication failure, not a missing resource.
func (s *AuthService) Me(ctx context.Context, caller Identity) (*models.User, error) {
	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		return nil, &AuthError{Reason: "User not found"}
	}
	return user, nil
}

// EnsureAdmin creates the configured admin account unless the password is
// unset or the email is already taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, admin config.AdminConfig) error {
	if admin.Password == "" {
		return nil
	}
	email := normalizeEmail(admin.Email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if existing != nil {
		return nil
	}

	user := &models.User{
		Name:  "Administrator",
		Email: email,
		Role:  models.UserRoleAdmin,
	}
	if err := user.SetPassword(admin.Password); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.Create(ctx, user); err != nil && !errors.Is(err, repository.ErrDuplicateEmail) {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	logrus.WithField("email", email).Info("Admin account created")
	return nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token, err := utils.GenerateJWT(user.ID, user.Name, user.Email, string(user.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, nil
}
