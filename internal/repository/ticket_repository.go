package repository

import (
	"context"

	"github.com/kittipat/movietix/internal/domain"
)

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// ListByUser retrieves a user's tickets with pagination
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Ticket, int64, error)

	// GetByID retrieves a ticket owned by the user, nil when absent
	GetByID(ctx context.Context, userID, ticketID string) (*domain.Ticket, error)

	// Create persists a new ticket
	Create(ctx context.Context, ticket *domain.Ticket) error

	// FindUnused retrieves the oldest unused ticket the user holds for the
	// session, nil when the user has no ticket at all for it
	FindUnused(ctx context.Context, userID, sessionID string) (*domain.Ticket, error)

	// MarkUsed flips the ticket to used only if it is still unused, and
	// returns the number of rows the update touched. Zero means another
	// request already consumed it.
	MarkUsed(ctx context.Context, ticketID string) (int64, error)
}

// WatchHistoryRepository defines the interface for watch history data access
type WatchHistoryRepository interface {
	// ListForSession retrieves the user's watch history for one session of
	// one movie with pagination
	ListForSession(ctx context.Context, userID, movieID, sessionID string, limit, offset int) ([]*domain.WatchHistoryEntry, int64, error)

	// GetByID retrieves a watch history entry owned by the user, nil when absent
	GetByID(ctx context.Context, userID, entryID string) (*domain.WatchHistoryEntry, error)

	// Create persists a new watch history entry
	Create(ctx context.Context, entry *domain.WatchHistoryEntry) error
}
