package repository

import (
	"context"

	"github.com/rentfolio/api/internal/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// PropertyRepository persists owner-scoped properties.
type PropertyRepository interface {
	CreateProperty(ctx context.Context, property *domain.Property) error
	ListPropertiesByOwner(ctx context.Context, ownerID string) ([]domain.Property, error)
}
