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

// PostgresPermissionRepository implements PermissionRepository using PostgreSQL
type PostgresPermissionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPermissionRepository creates a new PostgresPermissionRepository
func NewPostgresPermissionRepository(pool *pgxpool.Pool) *PostgresPermissionRepository {
	return &PostgresPermissionRepository{pool: pool}
}

// List returns one page of permissions plus the total count
func (r *PostgresPermissionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Permission, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.permission.list")
	defer span.End()

	span.SetAttributes(attribute.Int("limit", limit), attribute.Int("offset", offset))

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM permissions").Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to count permissions: %w", err)
	}

	query := `
		SELECT id, name, description, created_at, updated_at
		FROM permissions
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var permissions []*domain.Permission
	for rows.Next() {
		permission := &domain.Permission{}
		if err := rows.Scan(
			&permission.ID, &permission.Name, &permission.Description,
			&permission.CreatedAt, &permission.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, 0, fmt.Errorf("failed to scan permission: %w", err)
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("error iterating permissions: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(permissions)))
	span.SetStatus(codes.Ok, "")
	return permissions, total, nil
}

// GetByID retrieves a permission by its id
func (r *PostgresPermissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.permission.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("permission_id", id))

	permission := &domain.Permission{}
	err := r.pool.QueryRow(ctx,
		"SELECT id, name, description, created_at, updated_at FROM permissions WHERE id = $1", id,
	).Scan(&permission.ID, &permission.Name, &permission.Description, &permission.CreatedAt, &permission.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return permission, nil
}

// ExistsByName reports whether a permission with the name exists
func (r *PostgresPermissionRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.permission.exists_by_name")
	defer span.End()

	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM permissions WHERE name = $1)", name).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check permission existence: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return exists, nil
}

// ResolveNames maps permission names to ids in input order
func (r *PostgresPermissionRepository) ResolveNames(ctx context.Context, names []string) ([]string, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.permission.resolve_names")
	defer span.End()

	span.SetAttributes(attribute.Int("name_count", len(names)))

	if len(names) == 0 {
		span.SetStatus(codes.Ok, "")
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, "SELECT id, name FROM permissions WHERE name = ANY($1)", names)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to resolve permission names: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]string, len(names))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		byName[name] = id
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("error iterating permissions: %w", err)
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			span.SetStatus(codes.Error, "unknown permission name")
			return nil, domain.ErrPermissionNotFound
		}
		ids = append(ids, id)
	}

	span.SetStatus(codes.Ok, "")
	return ids, nil
}

// Create persists a new permission
func (r *PostgresPermissionRepository) Create(ctx context.Context, permission *domain.Permission) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.permission.create")
	defer span.End()

	span.SetAttributes(attribute.String("permission_id", permission.ID))

	query := `
		INSERT INTO permissions (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		permission.ID, permission.Name, permission.Description,
		permission.CreatedAt, permission.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create permission: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Update rewrites a permission's description
func (r *PostgresPermissionRepository) Update(ctx context.Context, permission *domain.Permission) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.permission.update")
	defer span.End()

	span.SetAttributes(attribute.String("permission_id", permission.ID))

	result, err := r.pool.Exec(ctx,
		"UPDATE permissions SET description = $2, updated_at = $3 WHERE id = $1",
		permission.ID, permission.Description, time.Now(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update permission: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrPermissionNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete removes a permission
func (r *PostgresPermissionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.permission.delete")
	defer span.End()

	span.SetAttributes(attribute.String("permission_id", id))

	result, err := r.pool.Exec(ctx, "DELETE FROM permissions WHERE id = $1", id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete permission: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrPermissionNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Ensure PostgresPermissionRepository implements PermissionRepository
var _ PermissionRepository = (*PostgresPermissionRepository)(nil)
