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

// WatchService consumes tickets and records watch history. Consumption is
// the only writer of Ticket.IsUsed and the only creator of history entries.
type WatchService interface {
	// Consume spends the caller's ticket for the session and records a
	// watch history entry. Under concurrent calls for the same ticket
	// exactly one succeeds; the rest get domain.ErrTicketAlreadyUsed.
	Consume(ctx context.Context, principal *domain.Principal, movieID, sessionID string) (*domain.WatchHistoryEntry, error)
	// ListHistory retrieves the caller's watch history for one session of
	// one movie with pagination
	ListHistory(ctx context.Context, userID, movieID, sessionID string, p *dto.Pagination) ([]*domain.WatchHistoryEntry, int64, error)
	// GetHistory retrieves one of the caller's watch history entries,
	// scoped to the session it was recorded under
	GetHistory(ctx context.Context, userID, movieID, sessionID, entryID string) (*domain.WatchHistoryEntry, error)
}

// watchService implements WatchService
type watchService struct {
	movieRepo   repository.MovieRepository
	sessionRepo repository.SessionRepository
	ticketRepo  repository.TicketRepository
	historyRepo repository.WatchHistoryRepository
}

// NewWatchService creates a new WatchService
func NewWatchService(
	movieRepo repository.MovieRepository,
	sessionRepo repository.SessionRepository,
	ticketRepo repository.TicketRepository,
	historyRepo repository.WatchHistoryRepository,
) WatchService {
	return &watchService{
		movieRepo:   movieRepo,
		sessionRepo: sessionRepo,
		ticketRepo:  ticketRepo,
		historyRepo: historyRepo,
	}
}

// Consume spends a ticket. The checks run in a fixed order so each failure
// mode maps to one status: unknown movie, unknown session, no ticket, then
// the conditional update that settles concurrent attempts.
func (s *watchService) Consume(ctx context.Context, principal *domain.Principal, movieID, sessionID string) (*domain.WatchHistoryEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.watch.consume")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", principal.ID),
		attribute.String("movie_id", movieID),
		attribute.String("session_id", sessionID),
	)

	if err := s.requireSession(ctx, movieID, sessionID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ticket, err := s.ticketRepo.FindUnused(ctx, principal.ID, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if ticket == nil {
		span.SetStatus(codes.Error, "no ticket")
		return nil, domain.ErrNoTicketForSession
	}

	// The update is conditioned on is_used still being false, so two
	// requests racing on the same ticket settle at the database: the loser
	// sees zero rows and must not write a history entry.
	affected, err := s.ticketRepo.MarkUsed(ctx, ticket.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "ticket already used")
		return nil, domain.ErrTicketAlreadyUsed
	}

	entry := &domain.WatchHistoryEntry{
		ID:        uuid.New().String(),
		UserID:    principal.ID,
		SessionID: sessionID,
		MovieID:   movieID,
		WatchedAt: time.Now(),
	}

	if err := s.historyRepo.Create(ctx, entry); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("ticket_id", ticket.ID), attribute.String("entry_id", entry.ID))
	span.SetStatus(codes.Ok, "")
	return entry, nil
}

// ListHistory retrieves the user's watch history for one session of a movie
func (s *watchService) ListHistory(ctx context.Context, userID, movieID, sessionID string, p *dto.Pagination) ([]*domain.WatchHistoryEntry, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.watch.list_history")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("movie_id", movieID),
		attribute.String("session_id", sessionID),
	)

	if err := s.requireSession(ctx, movieID, sessionID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	p.Normalize()
	entries, total, err := s.historyRepo.ListForSession(ctx, userID, movieID, sessionID, p.Limit(), p.Offset())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(entries)))
	span.SetStatus(codes.Ok, "")
	return entries, total, nil
}

// GetHistory retrieves one watch history entry owned by the user. The entry
// must belong to the session named in the path or it is reported absent.
func (s *watchService) GetHistory(ctx context.Context, userID, movieID, sessionID, entryID string) (*domain.WatchHistoryEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.watch.get_history")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("movie_id", movieID),
		attribute.String("session_id", sessionID),
		attribute.String("entry_id", entryID),
	)

	if err := s.requireSession(ctx, movieID, sessionID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	entry, err := s.historyRepo.GetByID(ctx, userID, entryID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if entry == nil || entry.MovieID != movieID || entry.SessionID != sessionID {
		span.SetStatus(codes.Error, "entry not found")
		return nil, domain.ErrWatchEntryNotFound
	}

	span.SetStatus(codes.Ok, "")
	return entry, nil
}

// requireSession verifies the movie exists and the session belongs to it, in
// that order, so an unknown movie reports before an unknown session.
func (s *watchService) requireSession(ctx context.Context, movieID, sessionID string) error {
	exists, err := s.movieRepo.ExistsByID(ctx, movieID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrMovieNotFound
	}

	belongs, err := s.sessionRepo.ExistsForMovie(ctx, movieID, sessionID)
	if err != nil {
		return err
	}
	if !belongs {
		return domain.ErrSessionNotFound
	}

	return nil
}
