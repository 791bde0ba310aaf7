package property

import (
	"context"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/rentfolio/api/internal/apperror"
	"github.com/rentfolio/api/internal/domain"
	"github.com/rentfolio/api/internal/repository"
	"github.com/rentfolio/api/internal/validate"
	"github.com/rentfolio/api/pkg/config"
	jwtpkg "github.com/rentfolio/api/pkg/jwt"
)

// CreateInput encapsulates property creation attributes.
type CreateInput struct {
	Name           string `json:"name" validate:"required"`
	Location       string `json:"location" validate:"required"`
	Units          int    `json:"units" validate:"required,min=1"`
	AdditionalInfo string `json:"additional_info"`
}

// Service orchestrates owner-scoped property management. Ownership is
// derived only from the verified token subject, never from client input.
type Service struct {
	properties repository.PropertyRepository
	logger     *slog.Logger
	cfg        config.APIConfig
}

// New returns a property service.
func New(properties repository.PropertyRepository, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{properties: properties, logger: logger, cfg: cfg}
}

// Create registers a new property for the token's subject.
func (s Service) Create(ctx context.Context, token string, input CreateInput) (*domain.Property, error) {
	claims, err := s.authorize(token)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	property := &domain.Property{
		ID:             uuid.NewString(),
		OwnerID:        claims.UserID,
		Name:           strings.TrimSpace(input.Name),
		Location:       strings.TrimSpace(input.Location),
		Units:          input.Units,
		AdditionalInfo: strings.TrimSpace(input.AdditionalInfo),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.properties.CreateProperty(ctx, property); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperror.Conflict("property already registered at this location", apperror.Issue{
				Path:    []string{"property"},
				Message: "A property with the same location already exists",
			})
		}
		return nil, apperror.Internal("failed to create property", err)
	}
	s.logger.Info("property created", "property_id", property.ID, "owner_id", property.OwnerID)
	return property, nil
}

// ListForOwner returns all properties owned by the token's subject.
func (s Service) ListForOwner(ctx context.Context, token string) ([]domain.Property, error) {
	claims, err := s.authorize(token)
	if err != nil {
		return nil, err
	}
	properties, err := s.properties.ListPropertiesByOwner(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.Internal("failed to list properties", err)
	}
	return properties, nil
}

// authorize verifies the bearer token. Verification is pure: signature and
// expiry only, no store lookup. Failures carry a sanitized message.
func (s Service) authorize(token string) (*jwtpkg.Claims, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, apperror.Unauthorized("No token provided")
	}
	claims, err := jwtpkg.Parse(trimmed, s.cfg.JWTSecret)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}
