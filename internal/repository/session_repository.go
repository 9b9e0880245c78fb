package repository

import (
	"context"
	"time"

	"github.com/kittipat/movietix/internal/domain"
)

// SessionRepository defines the interface for screening session data access
type SessionRepository interface {
	// ListByMovie retrieves sessions of a movie with pagination
	ListByMovie(ctx context.Context, movieID string, limit, offset int) ([]*domain.Session, int64, error)

	// GetByID retrieves a session by id scoped to a movie, nil when absent
	GetByID(ctx context.Context, movieID, sessionID string) (*domain.Session, error)

	// Find retrieves a session by id regardless of movie, nil when absent
	Find(ctx context.Context, sessionID string) (*domain.Session, error)

	// ExistsForMovie reports whether the session belongs to the movie
	ExistsForMovie(ctx context.Context, movieID, sessionID string) (bool, error)

	// ExistsSlot reports whether a room is already booked for the date and time slot
	ExistsSlot(ctx context.Context, date time.Time, timeSlot string, roomNumber int) (bool, error)

	// Create persists a new session
	Create(ctx context.Context, session *domain.Session) error

	// Update modifies an existing session
	Update(ctx context.Context, session *domain.Session) error

	// Delete removes a session scoped to a movie
	Delete(ctx context.Context, movieID, sessionID string) error
}
