package repository

import (
	"context"

	"github.com/kittipat/movietix/internal/domain"
)

// MovieRepository defines the interface for movie persistence
type MovieRepository interface {
	// List returns one page of movies, optionally filtered by name substring,
	// together with the unfiltered-page total
	List(ctx context.Context, name string, limit, offset int) ([]*domain.Movie, int64, error)
	// GetByID returns nil when the movie does not exist
	GetByID(ctx context.Context, id string) (*domain.Movie, error)
	// ExistsByID reports whether the movie exists
	ExistsByID(ctx context.Context, id string) (bool, error)
	// ExistsByName reports whether a movie with the name exists
	ExistsByName(ctx context.Context, name string) (bool, error)
	// Create persists a new movie
	Create(ctx context.Context, movie *domain.Movie) error
	// Update rewrites name and age restriction; domain.ErrMovieNotFound when absent
	Update(ctx context.Context, movie *domain.Movie) error
	// Delete removes a movie; domain.ErrMovieNotFound when absent
	Delete(ctx context.Context, id string) error
}
