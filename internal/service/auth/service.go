package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/rentfolio/api/internal/apperror"
	"github.com/rentfolio/api/internal/domain"
	"github.com/rentfolio/api/internal/repository"
	"github.com/rentfolio/api/internal/validate"
	"github.com/rentfolio/api/pkg/config"
	"github.com/rentfolio/api/pkg/crypto"
	jwtpkg "github.com/rentfolio/api/pkg/jwt"
)

// invalidCredentials is returned for both unknown email and wrong password
// so callers cannot enumerate accounts.
const invalidCredentials = "Invalid email or password"

// dummyHash keeps login cost roughly constant when the email is unknown.
var dummyHash, _ = crypto.HashPassword("rentfolio-dummy-credential")

// SignUpInput carries registration attributes.
type SignUpInput struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=30"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is a session token plus the authenticated user.
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Service handles signup and login.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
	cfg    config.APIConfig
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{users: users, logger: logger, cfg: cfg}
}

// SignUp registers a new user. The email must be unused; uniqueness is
// decided by the store constraint, not a read-before-write check.
func (s Service) SignUp(ctx context.Context, input SignUpInput) (*domain.User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal("failed to process credentials", err)
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperror.Conflict("email already registered", apperror.Issue{
				Path:    []string{"email"},
				Message: "Email already in use",
			})
		}
		return nil, apperror.Internal("failed to create user", err)
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates a user and issues a session token.
func (s Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn a hash comparison anyway so unknown emails cost the
			// same as wrong passwords.
			_ = crypto.ComparePassword(dummyHash, input.Password)
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	if err := crypto.ComparePassword(user.PasswordHash, input.Password); err != nil {
		return nil, apperror.Unauthorized(invalidCredentials)
	}
	token, err := jwtpkg.GenerateToken(user.ID, user.Name, user.Email, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, apperror.Internal("failed to issue token", err)
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResult{Token: token, User: user}, nil
}
