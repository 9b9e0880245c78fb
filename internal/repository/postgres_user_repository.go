package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/pkg/telemetry"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userWithRoleQuery = `
	SELECT
		u.id, u.username, u.password, u.age, u.role_id, u.created_at, u.updated_at,
		r.name,
		COALESCE(array_agg(p.name ORDER BY p.name) FILTER (WHERE p.name IS NOT NULL), '{}')
	FROM users u
	JOIN roles r ON r.id = u.role_id
	LEFT JOIN role_permissions rp ON rp.role_id = r.id
	LEFT JOIN permissions p ON p.id = rp.permission_id
`

// Create persists a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.create")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", user.ID))

	query := `
		INSERT INTO users (id, username, password, age, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Age,
		user.RoleID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create user: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ExistsByUsername reports whether a username is taken
func (r *PostgresUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.exists_by_username")
	defer span.End()

	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return exists, nil
}

// GetByUsernameWithRole loads a user with its role and permission snapshot
func (r *PostgresUserRepository) GetByUsernameWithRole(ctx context.Context, username string) (*domain.UserWithRole, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.get_by_username_with_role")
	defer span.End()

	query := userWithRoleQuery + `
	WHERE u.username = $1
	GROUP BY u.id, r.name
	`

	user, err := r.scanUserWithRole(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return user, nil
}

// GetByIDWithRole loads a user with its role and permission snapshot by id
func (r *PostgresUserRepository) GetByIDWithRole(ctx context.Context, id string) (*domain.UserWithRole, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.user.get_by_id_with_role")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	query := userWithRoleQuery + `
	WHERE u.id = $1
	GROUP BY u.id, r.name
	`

	user, err := r.scanUserWithRole(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

func (r *PostgresUserRepository) scanUserWithRole(row pgx.Row) (*domain.UserWithRole, error) {
	user := &domain.UserWithRole{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Age,
		&user.RoleID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.RoleName,
		&user.Permissions,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Ensure PostgresUserRepository implements UserRepository
var _ UserRepository = (*PostgresUserRepository)(nil)
