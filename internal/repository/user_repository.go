package repository

import (
	"context"

	"github.com/kittipat/movietix/internal/domain"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create persists a new user
	Create(ctx context.Context, user *domain.User) error
	// ExistsByUsername reports whether a username is taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// GetByUsernameWithRole loads a user together with its role name and the
	// role's permission names. Returns nil when the user does not exist.
	GetByUsernameWithRole(ctx context.Context, username string) (*domain.UserWithRole, error)
	// GetByIDWithRole is GetByUsernameWithRole keyed by id
	GetByIDWithRole(ctx context.Context, id string) (*domain.UserWithRole, error)
}
