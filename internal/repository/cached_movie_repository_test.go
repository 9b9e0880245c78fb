package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/pkg/redis"
)

// countingMovieRepository records how many times each lookup hits the
// underlying store, so cache hits are observable.
type countingMovieRepository struct {
	movies      map[string]*domain.Movie
	getCalls    int
	existsCalls int
}

func newCountingMovieRepository() *countingMovieRepository {
	return &countingMovieRepository{movies: make(map[string]*domain.Movie)}
}

func (r *countingMovieRepository) List(ctx context.Context, name string, limit, offset int) ([]*domain.Movie, int64, error) {
	var movies []*domain.Movie
	for _, movie := range r.movies {
		movies = append(movies, movie)
	}
	return movies, int64(len(movies)), nil
}

func (r *countingMovieRepository) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	r.getCalls++
	return r.movies[id], nil
}

func (r *countingMovieRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.existsCalls++
	_, ok := r.movies[id]
	return ok, nil
}

func (r *countingMovieRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, movie := range r.movies {
		if movie.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *countingMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	r.movies[movie.ID] = movie
	return nil
}

func (r *countingMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	if _, ok := r.movies[movie.ID]; !ok {
		return domain.ErrMovieNotFound
	}
	r.movies[movie.ID] = movie
	return nil
}

func (r *countingMovieRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.movies[id]; !ok {
		return domain.ErrMovieNotFound
	}
	delete(r.movies, id)
	return nil
}

func newCachedFixture(t *testing.T) (*countingMovieRepository, *CachedMovieRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	backend := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = backend.Close() })

	store := newCountingMovieRepository()
	cached := NewCachedMovieRepository(store, redis.NewClientFromBackend(backend))
	return store, cached
}

func TestCachedMovieRepository_GetByID(t *testing.T) {
	store, cached := newCachedFixture(t)
	store.movies["movie-1"] = &domain.Movie{ID: "movie-1", Name: "Heat", AgeRestriction: 18}

	t.Run("first read goes to the store", func(t *testing.T) {
		movie, err := cached.GetByID(context.Background(), "movie-1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if movie == nil || movie.Name != "Heat" {
			t.Fatalf("GetByID() = %+v", movie)
		}
		if store.getCalls != 1 {
			t.Errorf("store calls = %d, want 1", store.getCalls)
		}
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		movie, err := cached.GetByID(context.Background(), "movie-1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if movie == nil || movie.Name != "Heat" || movie.AgeRestriction != 18 {
			t.Errorf("GetByID() cached = %+v", movie)
		}
		if store.getCalls != 1 {
			t.Errorf("store calls = %d, want 1", store.getCalls)
		}
	})

	t.Run("missing movie is not cached", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			movie, err := cached.GetByID(context.Background(), "no-such-movie")
			if err != nil || movie != nil {
				t.Fatalf("GetByID() = %+v, %v", movie, err)
			}
		}
		if store.getCalls != 3 {
			t.Errorf("store calls = %d, want 3", store.getCalls)
		}
	})
}

func TestCachedMovieRepository_ExistsByID(t *testing.T) {
	store, cached := newCachedFixture(t)
	store.movies["movie-1"] = &domain.Movie{ID: "movie-1", Name: "Heat"}

	t.Run("positive result is cached", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			exists, err := cached.ExistsByID(context.Background(), "movie-1")
			if err != nil || !exists {
				t.Fatalf("ExistsByID() = %v, %v", exists, err)
			}
		}
		if store.existsCalls != 1 {
			t.Errorf("store calls = %d, want 1", store.existsCalls)
		}
	})

	t.Run("negative result is not cached", func(t *testing.T) {
		before := store.existsCalls
		for i := 0; i < 2; i++ {
			exists, err := cached.ExistsByID(context.Background(), "movie-2")
			if err != nil || exists {
				t.Fatalf("ExistsByID() = %v, %v", exists, err)
			}
		}
		if store.existsCalls != before+2 {
			t.Errorf("store calls = %d, want %d", store.existsCalls, before+2)
		}

		// Once the movie appears it is visible on the next check.
		store.movies["movie-2"] = &domain.Movie{ID: "movie-2", Name: "Ronin"}
		exists, err := cached.ExistsByID(context.Background(), "movie-2")
		if err != nil || !exists {
			t.Fatalf("ExistsByID() after create = %v, %v", exists, err)
		}
	})
}

func TestCachedMovieRepository_Invalidation(t *testing.T) {
	store, cached := newCachedFixture(t)
	store.movies["movie-1"] = &domain.Movie{ID: "movie-1", Name: "Heat", AgeRestriction: 18}

	if _, err := cached.GetByID(context.Background(), "movie-1"); err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if _, err := cached.ExistsByID(context.Background(), "movie-1"); err != nil {
		t.Fatalf("ExistsByID() error = %v", err)
	}

	t.Run("update drops stale entries", func(t *testing.T) {
		updated := &domain.Movie{ID: "movie-1", Name: "Heat", AgeRestriction: 13}
		if err := cached.Update(context.Background(), updated); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		movie, err := cached.GetByID(context.Background(), "movie-1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if movie.AgeRestriction != 13 {
			t.Errorf("AgeRestriction = %d, want 13 after invalidation", movie.AgeRestriction)
		}
	})

	t.Run("delete drops entries", func(t *testing.T) {
		if err := cached.Delete(context.Background(), "movie-1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		movie, err := cached.GetByID(context.Background(), "movie-1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if movie != nil {
			t.Errorf("GetByID() after delete = %+v, want nil", movie)
		}

		exists, err := cached.ExistsByID(context.Background(), "movie-1")
		if err != nil || exists {
			t.Errorf("ExistsByID() after delete = %v, %v", exists, err)
		}
	})
}
