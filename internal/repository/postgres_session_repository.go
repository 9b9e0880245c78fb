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

// PostgresSessionRepository implements SessionRepository using PostgreSQL
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository
func NewPostgresSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// ListByMovie returns one page of a movie's sessions plus the total count
func (r *PostgresSessionRepository) ListByMovie(ctx context.Context, movieID string, limit, offset int) ([]*domain.Session, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.list_by_movie")
	defer span.End()

	span.SetAttributes(
		attribute.String("movie_id", movieID),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	var total int64
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM sessions WHERE movie_id = $1", movieID,
	).Scan(&total)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := `
		SELECT id, movie_id, date, time_slot, room_number, created_at, updated_at
		FROM sessions
		WHERE movie_id = $1
		ORDER BY date, time_slot
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, movieID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		session := &domain.Session{}
		if err := rows.Scan(
			&session.ID, &session.MovieID, &session.Date, &session.TimeSlot,
			&session.RoomNumber, &session.CreatedAt, &session.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("error iterating sessions: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(sessions)))
	span.SetStatus(codes.Ok, "")
	return sessions, total, nil
}

// GetByID retrieves a session by id scoped to its movie
func (r *PostgresSessionRepository) GetByID(ctx context.Context, movieID, sessionID string) (*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", movieID), attribute.String("session_id", sessionID))

	query := `
		SELECT id, movie_id, date, time_slot, room_number, created_at, updated_at
		FROM sessions
		WHERE id = $1 AND movie_id = $2
	`

	session := &domain.Session{}
	err := r.pool.QueryRow(ctx, query, sessionID, movieID).Scan(
		&session.ID, &session.MovieID, &session.Date, &session.TimeSlot,
		&session.RoomNumber, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return session, nil
}

// Find retrieves a session by id regardless of movie
func (r *PostgresSessionRepository) Find(ctx context.Context, sessionID string) (*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.find")
	defer span.End()

	span.SetAttributes(attribute.String("session_id", sessionID))

	query := `
		SELECT id, movie_id, date, time_slot, room_number, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`

	session := &domain.Session{}
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&session.ID, &session.MovieID, &session.Date, &session.TimeSlot,
		&session.RoomNumber, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return session, nil
}

// ExistsForMovie reports whether the session belongs to the movie
func (r *PostgresSessionRepository) ExistsForMovie(ctx context.Context, movieID, sessionID string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.exists_for_movie")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", movieID), attribute.String("session_id", sessionID))

	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1 AND movie_id = $2)", sessionID, movieID,
	).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return exists, nil
}

// ExistsSlot reports whether a room is already booked for the date and time slot
func (r *PostgresSessionRepository) ExistsSlot(ctx context.Context, date time.Time, timeSlot string, roomNumber int) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.exists_slot")
	defer span.End()

	span.SetAttributes(
		attribute.String("time_slot", timeSlot),
		attribute.Int("room_number", roomNumber),
	)

	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM sessions WHERE date = $1 AND time_slot = $2 AND room_number = $3)",
		date, timeSlot, roomNumber,
	).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check slot availability: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return exists, nil
}

// Create persists a new session
func (r *PostgresSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.create")
	defer span.End()

	span.SetAttributes(attribute.String("session_id", session.ID))

	query := `
		INSERT INTO sessions (id, movie_id, date, time_slot, room_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		session.ID, session.MovieID, session.Date, session.TimeSlot,
		session.RoomNumber, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create session: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Update rewrites a session's mutable fields
func (r *PostgresSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.update")
	defer span.End()

	span.SetAttributes(attribute.String("session_id", session.ID))

	query := `
		UPDATE sessions SET date = $3, time_slot = $4, room_number = $5, updated_at = $6
		WHERE id = $1 AND movie_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		session.ID, session.MovieID, session.Date, session.TimeSlot, session.RoomNumber, time.Now(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update session: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrSessionNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete removes a session scoped to its movie
func (r *PostgresSessionRepository) Delete(ctx context.Context, movieID, sessionID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.session.delete")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", movieID), attribute.String("session_id", sessionID))

	result, err := r.pool.Exec(ctx, "DELETE FROM sessions WHERE id = $1 AND movie_id = $2", sessionID, movieID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrSessionNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Ensure PostgresSessionRepository implements SessionRepository
var _ SessionRepository = (*PostgresSessionRepository)(nil)
