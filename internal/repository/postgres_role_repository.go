package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/pkg/telemetry"
)

const roleWithPermissionsQuery = `
	SELECT r.id, r.name, r.created_at, r.updated_at,
	       COALESCE(array_agg(p.name ORDER BY p.name) FILTER (WHERE p.name IS NOT NULL), '{}') AS permissions
	FROM roles r
	LEFT JOIN role_permissions rp ON rp.role_id = r.id
	LEFT JOIN permissions p ON p.id = rp.permission_id
`

// PostgresRoleRepository implements RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoleRepository creates a new PostgresRoleRepository
func NewPostgresRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{pool: pool}
}

// List returns one page of roles with their permission names plus the total count
func (r *PostgresRoleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Role, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.role.list")
	defer span.End()

	span.SetAttributes(attribute.Int("limit", limit), attribute.Int("offset", offset))

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM roles").Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}

	query := roleWithPermissionsQuery + `
	GROUP BY r.id
	ORDER BY r.name
	LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role := &domain.Role{}
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt, &role.Permissions); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, 0, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("error iterating roles: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(roles)))
	span.SetStatus(codes.Ok, "")
	return roles, total, nil
}

// GetByID retrieves a role with its permission names
func (r *PostgresRoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.role.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("role_id", id))

	query := roleWithPermissionsQuery + `
	WHERE r.id = $1
	GROUP BY r.id`

	role, err := r.scanRole(ctx, query, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if role == nil {
		span.SetStatus(codes.Ok, "not found")
		return nil, nil
	}

	span.SetStatus(codes.Ok, "")
	return role, nil
}

// GetByName retrieves a role by its name
func (r *PostgresRoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.role.get_by_name")
	defer span.End()

	span.SetAttributes(attribute.String("role_name", name))

	query := roleWithPermissionsQuery + `
	WHERE r.name = $1
	GROUP BY r.id`

	role, err := r.scanRole(ctx, query, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if role == nil {
		span.SetStatus(codes.Ok, "not found")
		return nil, nil
	}

	span.SetStatus(codes.Ok, "")
	return role, nil
}

func (r *PostgresRoleRepository) scanRole(ctx context.Context, query string, arg any) (*domain.Role, error) {
	role := &domain.Role{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt, &role.Permissions,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// ExistsByName reports whether a role with the name exists
func (r *PostgresRoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.role.exists_by_name")
	defer span.End()

	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM roles WHERE name = $1)", name).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check role existence: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return exists, nil
}

// Create persists a role and attaches its permissions in one transaction
func (r *PostgresRoleRepository) Create(ctx context.Context, role *domain.Role, permissionIDs []string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.role.create")
	defer span.End()

	span.SetAttributes(attribute.String("role_id", role.ID), attribute.Int("permission_count", len(permissionIDs)))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"INSERT INTO roles (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		role.ID, role.Name, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create role: %w", err)
	}

	if err := attachPermissions(ctx, tx, role.ID, permissionIDs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Update rewrites a role's name and replaces its permission set in one transaction
func (r *PostgresRoleRepository) Update(ctx context.Context, role *domain.Role, permissionIDs []string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.role.update")
	defer span.End()

	span.SetAttributes(attribute.String("role_id", role.ID), attribute.Int("permission_count", len(permissionIDs)))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		"UPDATE roles SET name = $2, updated_at = $3 WHERE id = $1",
		role.ID, role.Name, time.Now(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update role: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrRoleNotFound
	}

	if _, err := tx.Exec(ctx, "DELETE FROM role_permissions WHERE role_id = $1", role.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to clear role permissions: %w", err)
	}

	if err := attachPermissions(ctx, tx, role.ID, permissionIDs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func attachPermissions(ctx context.Context, tx pgx.Tx, roleID string, permissionIDs []string) error {
	for _, permissionID := range permissionIDs {
		_, err := tx.Exec(ctx,
			"INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)",
			roleID, permissionID,
		)
		if err != nil {
			return fmt.Errorf("failed to attach permission: %w", err)
		}
	}
	return nil
}

// Delete removes a role
func (r *PostgresRoleRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.role.delete")
	defer span.End()

	span.SetAttributes(attribute.String("role_id", id))

	result, err := r.pool.Exec(ctx, "DELETE FROM roles WHERE id = $1", id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete role: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrRoleNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Ensure PostgresRoleRepository implements RoleRepository
var _ RoleRepository = (*PostgresRoleRepository)(nil)
