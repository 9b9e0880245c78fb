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

// PostgresTicketRepository implements TicketRepository using PostgreSQL
type PostgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository creates a new PostgresTicketRepository
func NewPostgresTicketRepository(pool *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{pool: pool}
}

// ListByUser returns one page of the user's tickets plus the total count
func (r *PostgresTicketRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Ticket, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.list_by_user")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	var total int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tickets WHERE user_id = $1", userID).Scan(&total)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	query := `
		SELECT id, user_id, session_id, is_used, purchase_date
		FROM tickets
		WHERE user_id = $1
		ORDER BY purchase_date DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket := &domain.Ticket{}
		if err := rows.Scan(&ticket.ID, &ticket.UserID, &ticket.SessionID, &ticket.IsUsed, &ticket.PurchaseDate); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, 0, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("error iterating tickets: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(tickets)))
	span.SetStatus(codes.Ok, "")
	return tickets, total, nil
}

// GetByID retrieves a ticket owned by the user
func (r *PostgresTicketRepository) GetByID(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID), attribute.String("ticket_id", ticketID))

	ticket := &domain.Ticket{}
	err := r.pool.QueryRow(ctx,
		"SELECT id, user_id, session_id, is_used, purchase_date FROM tickets WHERE id = $1 AND user_id = $2",
		ticketID, userID,
	).Scan(&ticket.ID, &ticket.UserID, &ticket.SessionID, &ticket.IsUsed, &ticket.PurchaseDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return ticket, nil
}

// Create persists a new ticket
func (r *PostgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.create")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", ticket.ID))

	query := `
		INSERT INTO tickets (id, user_id, session_id, is_used, purchase_date)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		ticket.ID, ticket.UserID, ticket.SessionID, ticket.IsUsed, ticket.PurchaseDate,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// FindUnused retrieves the oldest unused ticket for the user and session
func (r *PostgresTicketRepository) FindUnused(ctx context.Context, userID, sessionID string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.find_unused")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID), attribute.String("session_id", sessionID))

	query := `
		SELECT id, user_id, session_id, is_used, purchase_date
		FROM tickets
		WHERE user_id = $1 AND session_id = $2 AND is_used = FALSE
		ORDER BY purchase_date
		LIMIT 1
	`

	ticket := &domain.Ticket{}
	err := r.pool.QueryRow(ctx, query, userID, sessionID).Scan(
		&ticket.ID, &ticket.UserID, &ticket.SessionID, &ticket.IsUsed, &ticket.PurchaseDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "not found")
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to find unused ticket: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return ticket, nil
}

// MarkUsed consumes the ticket with a conditional update. The WHERE clause
// on is_used makes concurrent consumers race on a single row version: the
// loser sees zero rows affected.
func (r *PostgresTicketRepository) MarkUsed(ctx context.Context, ticketID string) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.mark_used")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", ticketID))

	result, err := r.pool.Exec(ctx,
		"UPDATE tickets SET is_used = TRUE WHERE id = $1 AND is_used = FALSE", ticketID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to mark ticket used: %w", err)
	}

	span.SetAttributes(attribute.Int64("rows_affected", result.RowsAffected()))
	span.SetStatus(codes.Ok, "")
	return result.RowsAffected(), nil
}

// Ensure PostgresTicketRepository implements TicketRepository
var _ TicketRepository = (*PostgresTicketRepository)(nil)
