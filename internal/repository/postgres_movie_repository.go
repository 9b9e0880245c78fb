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

// PostgresMovieRepository implements MovieRepository using PostgreSQL
type PostgresMovieRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMovieRepository creates a new PostgresMovieRepository
func NewPostgresMovieRepository(pool *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{pool: pool}
}

// List returns one page of movies plus the total match count
func (r *PostgresMovieRepository) List(ctx context.Context, name string, limit, offset int) ([]*domain.Movie, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.movie.list")
	defer span.End()

	span.SetAttributes(attribute.Int("limit", limit), attribute.Int("offset", offset))

	filter := "%" + name + "%"

	var total int64
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM movies WHERE ($1 = '%%' OR name ILIKE $1)", filter,
	).Scan(&total)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	query := `
		SELECT id, name, age_restriction, created_at, updated_at
		FROM movies
		WHERE ($1 = '%%' OR name ILIKE $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, filter, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	var movies []*domain.Movie
	for rows.Next() {
		movie := &domain.Movie{}
		if err := rows.Scan(&movie.ID, &movie.Name, &movie.AgeRestriction, &movie.CreatedAt, &movie.UpdatedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, 0, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("error iterating movies: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(movies)))
	span.SetStatus(codes.Ok, "")
	return movies, total, nil
}

// GetByID retrieves a movie by its id
func (r *PostgresMovieRepository) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.movie.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", id))

	movie := &domain.Movie{}
	err := r.pool.QueryRow(ctx,
		"SELECT id, name, age_restriction, created_at, updated_at FROM movies WHERE id = $1", id,
	).Scan(&movie.ID, &movie.Name, &movie.AgeRestriction, &movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return movie, nil
}

// ExistsByID reports whether the movie exists
func (r *PostgresMovieRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.movie.exists_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", id))

	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM movies WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check movie existence: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return exists, nil
}

// ExistsByName reports whether a movie with the name exists
func (r *PostgresMovieRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.movie.exists_by_name")
	defer span.End()

	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM movies WHERE name = $1)", name).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check movie name existence: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return exists, nil
}

// Create persists a new movie
func (r *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.movie.create")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", movie.ID))

	query := `
		INSERT INTO movies (id, name, age_restriction, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, movie.ID, movie.Name, movie.AgeRestriction, movie.CreatedAt, movie.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create movie: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Update rewrites a movie's mutable fields
func (r *PostgresMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.movie.update")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", movie.ID))

	query := `
		UPDATE movies SET name = $2, age_restriction = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, movie.ID, movie.Name, movie.AgeRestriction, time.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update movie: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrMovieNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete removes a movie
func (r *PostgresMovieRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.movie.delete")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", id))

	result, err := r.pool.Exec(ctx, "DELETE FROM movies WHERE id = $1", id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrMovieNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Ensure PostgresMovieRepository implements MovieRepository
var _ MovieRepository = (*PostgresMovieRepository)(nil)
