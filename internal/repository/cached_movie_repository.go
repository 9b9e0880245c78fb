package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/pkg/redis"
)

const (
	movieDetailKeyPrefix = "movie:detail:"
	movieExistsKeyPrefix = "movie:exists:"

	movieCacheTTL = 5 * time.Minute
)

// CachedMovieRepository wraps MovieRepository with Redis read-through caching
// for the hot lookups (detail and existence checks on the watch path). List
// queries and writes go straight to the database; writes invalidate.
type CachedMovieRepository struct {
	repo  MovieRepository
	cache *redis.Client
}

// NewCachedMovieRepository creates a new CachedMovieRepository
func NewCachedMovieRepository(repo MovieRepository, cache *redis.Client) *CachedMovieRepository {
	return &CachedMovieRepository{repo: repo, cache: cache}
}

// List delegates to the underlying repository
func (r *CachedMovieRepository) List(ctx context.Context, name string, limit, offset int) ([]*domain.Movie, int64, error) {
	return r.repo.List(ctx, name, limit, offset)
}

// GetByID retrieves a movie by id with caching
func (r *CachedMovieRepository) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	cacheKey := movieDetailKeyPrefix + id
	cached, err := r.cache.Get(ctx, cacheKey).Result()
	if err == nil && cached != "" {
		var movie domain.Movie
		if err := json.Unmarshal([]byte(cached), &movie); err == nil {
			return &movie, nil
		}
	}

	movie, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, nil
	}

	if data, err := json.Marshal(movie); err == nil {
		// cache failures are non-fatal; the database remains authoritative
		_ = r.cache.Set(ctx, cacheKey, data, movieCacheTTL).Err()
	}

	return movie, nil
}

// ExistsByID reports whether the movie exists, with caching. Only positive
// results are cached so a freshly created movie is visible immediately.
func (r *CachedMovieRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	cacheKey := movieExistsKeyPrefix + id
	if cached, err := r.cache.Get(ctx, cacheKey).Result(); err == nil && cached == "1" {
		return true, nil
	}

	exists, err := r.repo.ExistsByID(ctx, id)
	if err != nil {
		return false, err
	}

	if exists {
		_ = r.cache.Set(ctx, cacheKey, "1", movieCacheTTL).Err()
	}

	return exists, nil
}

// ExistsByName delegates to the underlying repository
func (r *CachedMovieRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.repo.ExistsByName(ctx, name)
}

// Create persists a new movie
func (r *CachedMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	return r.repo.Create(ctx, movie)
}

// Update rewrites a movie and invalidates its cache entries
func (r *CachedMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	if err := r.repo.Update(ctx, movie); err != nil {
		return err
	}
	r.invalidate(ctx, movie.ID)
	return nil
}

// Delete removes a movie and invalidates its cache entries
func (r *CachedMovieRepository) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedMovieRepository) invalidate(ctx context.Context, id string) {
	_ = r.cache.Del(ctx, movieDetailKeyPrefix+id, movieExistsKeyPrefix+id).Err()
}

// Ensure CachedMovieRepository implements MovieRepository
var _ MovieRepository = (*CachedMovieRepository)(nil)
