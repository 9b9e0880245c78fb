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

// PostgresWatchHistoryRepository implements WatchHistoryRepository using PostgreSQL
type PostgresWatchHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresWatchHistoryRepository creates a new PostgresWatchHistoryRepository
func NewPostgresWatchHistoryRepository(pool *pgxpool.Pool) *PostgresWatchHistoryRepository {
	return &PostgresWatchHistoryRepository{pool: pool}
}

// ListForSession returns one page of the user's watch history for a session
// plus the total count
func (r *PostgresWatchHistoryRepository) ListForSession(ctx context.Context, userID, movieID, sessionID string, limit, offset int) ([]*domain.WatchHistoryEntry, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.watch_history.list_for_session")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("movie_id", movieID),
		attribute.String("session_id", sessionID),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	var total int64
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM watch_histories WHERE user_id = $1 AND movie_id = $2 AND session_id = $3",
		userID, movieID, sessionID,
	).Scan(&total)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to count watch histories: %w", err)
	}

	query := `
		SELECT id, user_id, session_id, movie_id, watched_at
		FROM watch_histories
		WHERE user_id = $1 AND movie_id = $2 AND session_id = $3
		ORDER BY watched_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query, userID, movieID, sessionID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to list watch histories: %w", err)
	}
	defer rows.Close()

	var entries []*domain.WatchHistoryEntry
	for rows.Next() {
		entry := &domain.WatchHistoryEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.SessionID, &entry.MovieID, &entry.WatchedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, 0, fmt.Errorf("failed to scan watch history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("error iterating watch histories: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(entries)))
	span.SetStatus(codes.Ok, "")
	return entries, total, nil
}

// GetByID retrieves a watch history entry owned by the user
func (r *PostgresWatchHistoryRepository) GetByID(ctx context.Context, userID, entryID string) (*domain.WatchHistoryEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.watch_history.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID), attribute.String("entry_id", entryID))

	entry := &domain.WatchHistoryEntry{}
	err := r.pool.QueryRow(ctx,
		"SELECT id, user_id, session_id, movie_id, watched_at FROM watch_histories WHERE id = $1 AND user_id = $2",
		entryID, userID,
	).Scan(&entry.ID, &entry.UserID, &entry.SessionID, &entry.MovieID, &entry.WatchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get watch history entry: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return entry, nil
}

// Create persists a new watch history entry
func (r *PostgresWatchHistoryRepository) Create(ctx context.Context, entry *domain.WatchHistoryEntry) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.watch_history.create")
	defer span.End()

	span.SetAttributes(attribute.String("entry_id", entry.ID))

	query := `
		INSERT INTO watch_histories (id, user_id, session_id, movie_id, watched_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, entry.ID, entry.UserID, entry.SessionID, entry.MovieID, entry.WatchedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create watch history entry: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Ensure PostgresWatchHistoryRepository implements WatchHistoryRepository
var _ WatchHistoryRepository = (*PostgresWatchHistoryRepository)(nil)
