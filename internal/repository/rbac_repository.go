package repository

import (
	"context"

	"github.com/kittipat/movietix/internal/domain"
)

// PermissionRepository defines the interface for permission data access
type PermissionRepository interface {
	// List retrieves permissions with pagination
	List(ctx context.Context, limit, offset int) ([]*domain.Permission, int64, error)

	// GetByID retrieves a permission by id, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Permission, error)

	// ExistsByName reports whether a permission with the name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ResolveNames maps permission names to ids, preserving input order.
	// Returns domain.ErrPermissionNotFound when any name is unknown.
	ResolveNames(ctx context.Context, names []string) ([]string, error)

	// Create persists a new permission
	Create(ctx context.Context, permission *domain.Permission) error

	// Update modifies a permission's description
	Update(ctx context.Context, permission *domain.Permission) error

	// Delete removes a permission
	Delete(ctx context.Context, id string) error
}

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	// List retrieves roles with their permission names, paginated
	List(ctx context.Context, limit, offset int) ([]*domain.Role, int64, error)

	// GetByID retrieves a role with its permission names, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Role, error)

	// GetByName retrieves a role by name, nil when absent
	GetByName(ctx context.Context, name string) (*domain.Role, error)

	// ExistsByName reports whether a role with the name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// Create persists a role and attaches the given permission ids atomically
	Create(ctx context.Context, role *domain.Role, permissionIDs []string) error

	// Update rewrites a role's name and replaces its permission set atomically
	Update(ctx context.Context, role *domain.Role, permissionIDs []string) error

	// Delete removes a role
	Delete(ctx context.Context, id string) error
}
