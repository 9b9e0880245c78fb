package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/internal/dto"
	"github.com/kittipat/movietix/internal/repository"
	"github.com/kittipat/movietix/pkg/telemetry"
)

// sessionDateLayout is the wire format for session dates
const sessionDateLayout = "2006-01-02"

// SessionService defines the interface for screening session operations
type SessionService interface {
	// List retrieves a movie's sessions with pagination
	List(ctx context.Context, movieID string, p *dto.Pagination) ([]*domain.Session, int64, error)
	// Get retrieves a session by id scoped to a movie
	Get(ctx context.Context, movieID, sessionID string) (*domain.Session, error)
	// Create schedules a new session for a movie
	Create(ctx context.Context, movieID string, req *dto.CreateSessionRequest) (*domain.Session, error)
	// Update reschedules a session
	Update(ctx context.Context, movieID, sessionID string, req *dto.UpdateSessionRequest) (*domain.Session, error)
	// Delete removes a session
	Delete(ctx context.Context, movieID, sessionID string) error
}

// sessionService implements SessionService
type sessionService struct {
	sessionRepo repository.SessionRepository
	movieRepo   repository.MovieRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(sessionRepo repository.SessionRepository, movieRepo repository.MovieRepository) SessionService {
	return &sessionService{sessionRepo: sessionRepo, movieRepo: movieRepo}
}

// List retrieves a movie's sessions with pagination
func (s *sessionService) List(ctx context.Context, movieID string, p *dto.Pagination) ([]*domain.Session, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.session.list")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", movieID))

	if err := s.requireMovie(ctx, movieID); err != nil {
		span.SetStatus(codes.Error, "movie not found")
		return nil, 0, err
	}

	p.Normalize()
	sessions, total, err := s.sessionRepo.ListByMovie(ctx, movieID, p.Limit(), p.Offset())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(sessions)))
	span.SetStatus(codes.Ok, "")
	return sessions, total, nil
}

// Get retrieves a session by id scoped to a movie
func (s *sessionService) Get(ctx context.Context, movieID, sessionID string) (*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.session.get")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", movieID), attribute.String("session_id", sessionID))

	if err := s.requireMovie(ctx, movieID); err != nil {
		span.SetStatus(codes.Error, "movie not found")
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, movieID, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if session == nil {
		span.SetStatus(codes.Error, "session not found")
		return nil, domain.ErrSessionNotFound
	}

	span.SetStatus(codes.Ok, "")
	return session, nil
}

// Create schedules a new session for a movie. A room can hold only one
// session per date and time slot across all movies.
func (s *sessionService) Create(ctx context.Context, movieID string, req *dto.CreateSessionRequest) (*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.session.create")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", movieID))

	if err := s.requireMovie(ctx, movieID); err != nil {
		span.SetStatus(codes.Error, "movie not found")
		return nil, err
	}

	date, err := parseSessionDate(req.Date)
	if err != nil {
		span.SetStatus(codes.Error, "bad date")
		return nil, err
	}

	booked, err := s.sessionRepo.ExistsSlot(ctx, date, req.TimeSlot, req.RoomNumber)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if booked {
		span.SetStatus(codes.Error, "room already booked")
		return nil, domain.ErrRoomAlreadyBooked
	}

	now := time.Now()
	session := &domain.Session{
		ID:         uuid.New().String(),
		MovieID:    movieID,
		Date:       date,
		TimeSlot:   req.TimeSlot,
		RoomNumber: req.RoomNumber,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("session_id", session.ID))
	span.SetStatus(codes.Ok, "")
	return session, nil
}

// Update reschedules a session
func (s *sessionService) Update(ctx context.Context, movieID, sessionID string, req *dto.UpdateSessionRequest) (*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.session.update")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", movieID), attribute.String("session_id", sessionID))

	session, err := s.Get(ctx, movieID, sessionID)
	if err != nil {
		span.SetStatus(codes.Error, "session not found")
		return nil, err
	}

	date, err := parseSessionDate(req.Date)
	if err != nil {
		span.SetStatus(codes.Error, "bad date")
		return nil, err
	}

	slotChanged := !session.Date.Equal(date) || session.TimeSlot != req.TimeSlot || session.RoomNumber != req.RoomNumber
	if slotChanged {
		booked, err := s.sessionRepo.ExistsSlot(ctx, date, req.TimeSlot, req.RoomNumber)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if booked {
			span.SetStatus(codes.Error, "room already booked")
			return nil, domain.ErrRoomAlreadyBooked
		}
	}

	session.Date = date
	session.TimeSlot = req.TimeSlot
	session.RoomNumber = req.RoomNumber
	session.UpdatedAt = time.Now()

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return session, nil
}

// Delete removes a session
func (s *sessionService) Delete(ctx context.Context, movieID, sessionID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.session.delete")
	defer span.End()

	span.SetAttributes(attribute.String("movie_id", movieID), attribute.String("session_id", sessionID))

	if err := s.requireMovie(ctx, movieID); err != nil {
		span.SetStatus(codes.Error, "movie not found")
		return err
	}

	if err := s.sessionRepo.Delete(ctx, movieID, sessionID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *sessionService) requireMovie(ctx context.Context, movieID string) error {
	exists, err := s.movieRepo.ExistsByID(ctx, movieID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrMovieNotFound
	}
	return nil
}

func parseSessionDate(value string) (time.Time, error) {
	if date, err := time.Parse(sessionDateLayout, value); err == nil {
		return date, nil
	}
	date, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrValidation, value)
	}
	return date, nil
}
