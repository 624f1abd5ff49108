package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/luxe-clothing/storefront/internal/config"
	"github.com/luxe-clothing/storefront/internal/models"
	"github.com/luxe-clothing/storefront/internal/repository"
	"github.com/luxe-clothing/storefront/internal/utils"
)

type welcomeRecorder struct {
	sent chan string
}

func (w *welcomeRecorder) SendWelcomeEmail(user *models.User) error {
	w.sent <- user.Email
	return nil
}

type AuthServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	repo     *repository.Repository
	welcome  *welcomeRecorder
	service  *AuthService
	password string
}

func (s *AuthServiceTestSuite) SetupTest() {
	utils.SetJWTSecret("auth-service-test")
	s.ctx = context.Background()
	s.repo = repository.NewMemory()
	s.welcome = &welcomeRecorder{sent: make(chan string, 4)}
	s.service = NewAuthService(s.repo.Users, s.welcome, &config.Config{
		JWT: config.JWTConfig{AccessTokenTTL: 1},
	})
	s.password = "secret123"
}

func (s *AuthServiceTestSuite) register(email string) *AuthResponse {
	resp, err := s.service.Register(s.ctx, &RegisterRequest{
		Name:     "Jane Doe",
		Email:    email,
		Password: s.password,
	})
	s.Require().NoError(err)
	return resp
}

func (s *AuthServiceTestSuite) TestRegisterIssuesToken() {
	resp := s.register("  Jane@Example.com ")

	s.Equal("jane@example.com", resp.User.Email)
	s.Equal(models.UserRoleUser, resp.User.Role)

	claims, err := utils.ValidateJWT(resp.Token)
	s.Require().NoError(err)
	s.Equal(resp.User.ID.String(), claims.UserID)
	s.Equal("user", claims.Role)

	select {
	case email := <-s.welcome.sent:
		s.Equal("jane@example.com", email)
	case <-time.After(2 * time.Second):
		s.Fail("welcome email was not sent")
	}
}

func (s *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	s.register("jane@example.com")

	_, err := s.service.Register(s.ctx, &RegisterRequest{
		Name:     "Someone Else",
		Email:    "JANE@example.com",
		Password: "another1",
	})

	s.ErrorIs(err, ErrConflict)
}

func (s *AuthServiceTestSuite) TestRegisterValidation() {
	_, err := s.service.Register(s.ctx, &RegisterRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "12345",
	})
	s.ErrorIs(err, ErrValidation)

	_, err = s.service.Register(s.ctx, &RegisterRequest{
		Name:     "Jane",
		Email:    "not-an-email",
		Password: "123456",
	})
	s.ErrorIs(err, ErrValidation)
}

func (s *AuthServiceTestSuite) TestLogin() {
	registered := s.register("jane@example.com")

	resp, err := s.service.Login(s.ctx, &LoginRequest{Email: "Jane@example.com", Password: s.password})
	s.Require().NoError(err)
	s.Equal(registered.User.ID, resp.User.ID)
	s.NotEmpty(resp.Token)

	_, err = s.service.Login(s.ctx, &LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	s.ErrorIs(err, ErrAuth)

	_, err = s.service.Login(s.ctx, &LoginRequest{Email: "nobody@example.com", Password: s.password})
	s.ErrorIs(err, ErrAuth)
}

func (s *AuthServiceTestSuite) TestMe() {
	registered := s.register("jane@example.com")

	user, err := s.service.Me(s.ctx, Identity{UserID: registered.User.ID})
	s.Require().NoError(err)
	s.Equal("Jane Doe", user.Name)

	_, err = s.service.Me(s.ctx, Identity{UserID: uuid.New()})
	s.ErrorIs(err, ErrAuth)
}

func (s *AuthServiceTestSuite) TestEnsureAdmin() {
	s.Require().NoError(s.service.EnsureAdmin(s.ctx, config.AdminConfig{Email: "admin@luxe.com"}))
	missing, err := s.repo.Users.GetByEmail(s.ctx, "admin@luxe.com")
	s.Require().NoError(err)
	s.Nil(missing)

	admin := config.AdminConfig{Email: "Admin@Luxe.com", Password: "adminpass"}
	s.Require().NoError(s.service.EnsureAdmin(s.ctx, admin))
	s.Require().NoError(s.service.EnsureAdmin(s.ctx, admin))

	user, err := s.repo.Users.GetByEmail(s.ctx, "admin@luxe.com")
	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.Equal(models.UserRoleAdmin, user.Role)

	resp, err := s.service.Login(s.ctx, &LoginRequest{Email: "admin@luxe.com", Password: "adminpass"})
	s.Require().NoError(err)
	s.True(Identity{Role: resp.User.Role}.IsAdmin())
}

func TestIdentityFromClaims(t *testing.T) {
	id := uuid.New()

	identity, err := IdentityFromClaims(&utils.JWTClaims{UserID: id.String(), Name: "Jane", Email: "jane@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.UserID != id || !identity.IsAdmin() {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	if _, err := IdentityFromClaims(&utils.JWTClaims{UserID: "garbage"}); err == nil {
		t.Fatal("expected an error for a malformed user id")
	}
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
