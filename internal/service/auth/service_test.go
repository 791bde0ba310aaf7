package auth

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rentfolio/api/internal/apperror"
	"github.com/rentfolio/api/internal/domain"
	"github.com/rentfolio/api/internal/repository"
	"github.com/rentfolio/api/pkg/config"
	jwtpkg "github.com/rentfolio/api/pkg/jwt"
)

type userRepoStub struct {
	byEmail map[string]*domain.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{byEmail: make(map[string]*domain.User)}
}

func (s *userRepoStub) CreateUser(_ context.Context, user *domain.User) error {
	if _, exists := s.byEmail[user.Email]; exists {
		return &repository.DuplicateError{Constraint: "users_email_key"}
	}
	s.byEmail[user.Email] = user
	return nil
}

func (s *userRepoStub) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (s *userRepoStub) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.APIConfig {
	return config.APIConfig{JWTSecret: "test-secret", TokenTTL: 7 * 24 * time.Hour}
}

func TestSignUpThenLoginRoundTrip(t *testing.T) {
	svc := New(newUserRepoStub(), newLogger(), testConfig())

	user, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.ID == "" || user.Name != "Alice" || user.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if string(user.PasswordHash) == "password1" {
		t.Fatal("plaintext password persisted")
	}

	result, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "password1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected session token")
	}
	claims, err := jwtpkg.Parse(result.Token, "test-secret")
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Name != user.Name {
		t.Fatalf("token identity mismatch: %+v", claims)
	}
}

func TestSignUpDuplicateEmailConflicts(t *testing.T) {
	svc := New(newUserRepoStub(), newLogger(), testConfig())

	input := SignUpInput{Name: "Alice", Email: "a@x.com", Password: "password1"}
	if _, err := svc.SignUp(context.Background(), input); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	// Other field values don't matter; the email collision decides it.
	input.Name = "Someone Else"
	input.Password = "differentpass"
	_, err := svc.SignUp(context.Background(), input)
	if !apperror.IsCode(err, apperror.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	appErr, _ := apperror.From(err)
	if len(appErr.Issues) != 1 || appErr.Issues[0].Path[0] != "email" {
		t.Fatalf("expected email issue, got %+v", appErr.Issues)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc := New(newUserRepoStub(), newLogger(), testConfig())

	cases := []struct {
		name  string
		input SignUpInput
		field string
	}{
		{"short name", SignUpInput{Name: "Al", Email: "a@x.com", Password: "password1"}, "name"},
		{"bad email", SignUpInput{Name: "Alice", Email: "not-an-email", Password: "password1"}, "email"},
		{"short password", SignUpInput{Name: "Alice", Email: "a@x.com", Password: "short"}, "password"},
		{"long password", SignUpInput{Name: "Alice", Email: "a@x.com", Password: strings.Repeat("p", 31)}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SignUp(context.Background(), tc.input)
			if !apperror.IsCode(err, apperror.CodeBadRequest) {
				t.Fatalf("expected validation error, got %v", err)
			}
			appErr, _ := apperror.From(err)
			if len(appErr.Issues) == 0 || appErr.Issues[0].Path[0] != tc.field {
				t.Fatalf("expected issue on %q, got %+v", tc.field, appErr.Issues)
			}
		})
	}
}

func TestSignUpNormalizesEmail(t *testing.T) {
	repo := newUserRepoStub()
	svc := New(repo, newLogger(), testConfig())

	user, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Alice",
		Email:    "Alice@Example.COM",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not lowercased: %q", user.Email)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "ALICE@example.com", Password: "password1"}); err != nil {
		t.Fatalf("login with differently-cased email: %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := New(newUserRepoStub(), newLogger(), testConfig())
	if _, err := svc.SignUp(context.Background(), SignUpInput{Name: "Alice", Email: "a@x.com", Password: "password1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, unknownErr := svc.Login(context.Background(), LoginInput{Email: "nobody@x.com", Password: "password1"})
	_, wrongPassErr := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "wrongpassword"})

	for _, err := range []error{unknownErr, wrongPassErr} {
		if !apperror.IsCode(err, apperror.CodeUnauthorized) {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	}
	unknownApp, _ := apperror.From(unknownErr)
	wrongApp, _ := apperror.From(wrongPassErr)
	if unknownApp.Message != wrongApp.Message {
		t.Fatalf("login failures distinguishable: %q vs %q", unknownApp.Message, wrongApp.Message)
	}
}
