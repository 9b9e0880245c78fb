package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/internal/dto"
	"github.com/kittipat/movietix/internal/repository"
	"github.com/kittipat/movietix/pkg/telemetry"
)

// MovieService defines the interface for movie catalog operations
type MovieService interface {
	// List retrieves movies with optional name filter and pagination
	List(ctx context.Context, query *dto.MovieListQuery) ([]*domain.Movie, int64, error)
	// Get retrieves a movie by id
	Get(ctx context.Context, id string) (*domain.Movie, error)
	// Create adds a movie to the catalog
	Create(ctx context.Context, req *dto.CreateMovieRequest) (*domain.Movie, error)
	// Update modifies a movie
	Update(ctx context.Context, id string, req *dto.UpdateMovieRequest) (*domain.Movie, error)
	// Delete removes a movie
	Delete(ctx context.Context, id string) error
}

// movieService implements MovieService
type movieService struct {
	movieRepo repository.MovieRepository
}

// NewMovieService creates a new MovieService
func NewMovieService(movieRepo repository.MovieRepository) MovieService {
	return &movieService{movieRepo: movieRepo}
}

// List retrieves movies with optional name filter and pagination
func (s *movieService) List(ctx context.Context, query *dto.MovieListQuery) ([]*domain.Movie, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.movie.list")
	defer span.End()

	query.Normalize()
	movies, total, err := s.movieRepo.List(ctx, query.Name, query.Limit(), query.Offset())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(movies)))
	span.SetStatus(codes.Ok, "")
	return movies, total, nil
}

// Get retrieves a movie by id
func (s *movieService) Get(ctx context.Context, id string) (*domain.Movie, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.movie.get")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", id))

	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if movie == nil {
		span.SetStatus(codes.Error, "movie not found")
		return nil, domain.ErrMovieNotFound
	}

	span.SetStatus(codes.Ok, "")
	return movie, nil
}

// Create adds a movie to the catalog
func (s *movieService) Create(ctx context.Context, req *dto.CreateMovieRequest) (*domain.Movie, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.movie.create")
	defer span.End()

	exists, err := s.movieRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if exists {
		span.SetStatus(codes.Error, "movie already exists")
		return nil, domain.ErrMovieAlreadyExists
	}

	now := time.Now()
	movie := &domain.Movie{
		ID:             uuid.New().String(),
		Name:           req.Name,
		AgeRestriction: req.AgeRestriction,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.movieRepo.Create(ctx, movie); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("movie_id", movie.ID))
	span.SetStatus(codes.Ok, "")
	return movie, nil
}

// Update modifies a movie
func (s *movieService) Update(ctx context.Context, id string, req *dto.UpdateMovieRequest) (*domain.Movie, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.movie.update")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", id))

	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if movie == nil {
		span.SetStatus(codes.Error, "movie not found")
		return nil, domain.ErrMovieNotFound
	}

	movie.Name = req.Name
	movie.AgeRestriction = req.AgeRestriction
	movie.UpdatedAt = time.Now()

	if err := s.movieRepo.Update(ctx, movie); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return movie, nil
}

// Delete removes a movie
func (s *movieService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.movie.delete")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", id))

	if err := s.movieRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
