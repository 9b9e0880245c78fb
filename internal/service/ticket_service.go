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

// TicketService defines the interface for ticket purchase operations
type TicketService interface {
	// List retrieves the calling user's tickets with pagination
	List(ctx context.Context, userID string, p *dto.Pagination) ([]*domain.Ticket, int64, error)
	// Get retrieves one of the calling user's tickets
	Get(ctx context.Context, userID, ticketID string) (*domain.Ticket, error)
	// Create purchases a ticket for a session
	Create(ctx context.Context, userID string, req *dto.CreateTicketRequest) (*domain.Ticket, error)
}

// ticketService implements TicketService
type ticketService struct {
	ticketRepo  repository.TicketRepository
	sessionRepo repository.SessionRepository
}

// NewTicketService creates a new TicketService
func NewTicketService(ticketRepo repository.TicketRepository, sessionRepo repository.SessionRepository) TicketService {
	return &ticketService{ticketRepo: ticketRepo, sessionRepo: sessionRepo}
}

// List retrieves the user's tickets with pagination
func (s *ticketService) List(ctx context.Context, userID string, p *dto.Pagination) ([]*domain.Ticket, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.list")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	p.Normalize()
	tickets, total, err := s.ticketRepo.ListByUser(ctx, userID, p.Limit(), p.Offset())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("count", len(tickets)))
	span.SetStatus(codes.Ok, "")
	return tickets, total, nil
}

// Get retrieves one of the user's tickets
func (s *ticketService) Get(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.get")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID), attribute.String("ticket_id", ticketID))

	ticket, err := s.ticketRepo.GetByID(ctx, userID, ticketID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if ticket == nil {
		span.SetStatus(codes.Error, "ticket not found")
		return nil, domain.ErrTicketNotFound
	}

	span.SetStatus(codes.Ok, "")
	return ticket, nil
}

// Create purchases a ticket binding the user to a session
func (s *ticketService) Create(ctx context.Context, userID string, req *dto.CreateTicketRequest) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ticket.create")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID), attribute.String("session_id", req.SessionID))

	session, err := s.sessionRepo.Find(ctx, req.SessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if session == nil {
		span.SetStatus(codes.Error, "session not found")
		return nil, domain.ErrSessionNotFound
	}

	ticket := &domain.Ticket{
		ID:           uuid.New().String(),
		UserID:       userID,
		SessionID:    req.SessionID,
		IsUsed:       false,
		PurchaseDate: time.Now(),
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("ticket_id", ticket.ID))
	span.SetStatus(codes.Ok, "")
	return ticket, nil
}
