package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/internal/dto"
)

// mockMovieRepository is a mock implementation of MovieRepository
type mockMovieRepository struct {
	movies map[string]*domain.Movie
}

func newMockMovieRepository() *mockMovieRepository {
	return &mockMovieRepository{movies: make(map[string]*domain.Movie)}
}

func (r *mockMovieRepository) List(ctx context.Context, name string, limit, offset int) ([]*domain.Movie, int64, error) {
	var movies []*domain.Movie
	for _, movie := range r.movies {
		movies = append(movies, movie)
	}
	return movies, int64(len(movies)), nil
}

func (r *mockMovieRepository) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	return r.movies[id], nil
}

func (r *mockMovieRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, ok := r.movies[id]
	return ok, nil
}

func (r *mockMovieRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, movie := range r.movies {
		if movie.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	r.movies[movie.ID] = movie
	return nil
}

func (r *mockMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	if _, ok := r.movies[movie.ID]; !ok {
		return domain.ErrMovieNotFound
	}
	r.movies[movie.ID] = movie
	return nil
}

func (r *mockMovieRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.movies[id]; !ok {
		return domain.ErrMovieNotFound
	}
	delete(r.movies, id)
	return nil
}

// mockSessionRepository is a mock implementation of SessionRepository
type mockSessionRepository struct {
	sessions map[string]*domain.Session
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]*domain.Session)}
}

func (r *mockSessionRepository) ListByMovie(ctx context.Context, movieID string, limit, offset int) ([]*domain.Session, int64, error) {
	var sessions []*domain.Session
	for _, session := range r.sessions {
		if session.MovieID == movieID {
			sessions = append(sessions, session)
		}
	}
	return sessions, int64(len(sessions)), nil
}

func (r *mockSessionRepository) GetByID(ctx context.Context, movieID, sessionID string) (*domain.Session, error) {
	session := r.sessions[sessionID]
	if session == nil || session.MovieID != movieID {
		return nil, nil
	}
	return session, nil
}

func (r *mockSessionRepository) Find(ctx context.Context, sessionID string) (*domain.Session, error) {
	return r.sessions[sessionID], nil
}

func (r *mockSessionRepository) ExistsForMovie(ctx context.Context, movieID, sessionID string) (bool, error) {
	session, _ := r.GetByID(ctx, movieID, sessionID)
	return session != nil, nil
}

func (r *mockSessionRepository) ExistsSlot(ctx context.Context, date time.Time, timeSlot string, roomNumber int) (bool, error) {
	for _, session := range r.sessions {
		if session.Date.Equal(date) && session.TimeSlot == timeSlot && session.RoomNumber == roomNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *mockSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	if _, ok := r.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *mockSessionRepository) Delete(ctx context.Context, movieID, sessionID string) error {
	session, _ := r.GetByID(ctx, movieID, sessionID)
	if session == nil {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

// mockTicketRepository models the storage-level compare-and-swap: MarkUsed
// flips is_used under a lock and reports how many rows changed, like the
// conditional UPDATE does.
type mockTicketRepository struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
}

func newMockTicketRepository() *mockTicketRepository {
	return &mockTicketRepository{tickets: make(map[string]*domain.Ticket)}
}

func (r *mockTicketRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Ticket, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tickets []*domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.UserID == userID {
			tickets = append(tickets, ticket)
		}
	}
	return tickets, int64(len(tickets)), nil
}

func (r *mockTicketRepository) GetByID(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket := r.tickets[ticketID]
	if ticket == nil || ticket.UserID != userID {
		return nil, nil
	}
	copied := *ticket
	return &copied, nil
}

func (r *mockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *mockTicketRepository) FindUnused(ctx context.Context, userID, sessionID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.tickets {
		if ticket.UserID == userID && ticket.SessionID == sessionID && !ticket.IsUsed {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *mockTicketRepository) MarkUsed(ctx context.Context, ticketID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket := r.tickets[ticketID]
	if ticket == nil || ticket.IsUsed {
		return 0, nil
	}
	ticket.IsUsed = true
	return 1, nil
}

// mockWatchHistoryRepository is a mock implementation of WatchHistoryRepository
type mockWatchHistoryRepository struct {
	mu      sync.Mutex
	entries map[string]*domain.WatchHistoryEntry
}

func newMockWatchHistoryRepository() *mockWatchHistoryRepository {
	return &mockWatchHistoryRepository{entries: make(map[string]*domain.WatchHistoryEntry)}
}

func (r *mockWatchHistoryRepository) ListForSession(ctx context.Context, userID, movieID, sessionID string, limit, offset int) ([]*domain.WatchHistoryEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []*domain.WatchHistoryEntry
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.MovieID == movieID && entry.SessionID == sessionID {
			entries = append(entries, entry)
		}
	}
	return entries, int64(len(entries)), nil
}

func (r *mockWatchHistoryRepository) GetByID(ctx context.Context, userID, entryID string) (*domain.WatchHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := r.entries[entryID]
	if entry == nil || entry.UserID != userID {
		return nil, nil
	}
	return entry, nil
}

func (r *mockWatchHistoryRepository) Create(ctx context.Context, entry *domain.WatchHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *mockWatchHistoryRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

type watchFixture struct {
	movieRepo   *mockMovieRepository
	sessionRepo *mockSessionRepository
	ticketRepo  *mockTicketRepository
	historyRepo *mockWatchHistoryRepository
	svc         WatchService
	principal   *domain.Principal
}

func newWatchFixture() *watchFixture {
	f := &watchFixture{
		movieRepo:   newMockMovieRepository(),
		sessionRepo: newMockSessionRepository(),
		ticketRepo:  newMockTicketRepository(),
		historyRepo: newMockWatchHistoryRepository(),
		principal: &domain.Principal{
			ID:       "user-1",
			Username: "carol",
			Role: domain.RoleClaim{
				Name:        domain.RoleCustomer,
				Permissions: []string{"create:watch-history"},
			},
		},
	}
	f.svc = NewWatchService(f.movieRepo, f.sessionRepo, f.ticketRepo, f.historyRepo)

	f.movieRepo.movies["movie-1"] = &domain.Movie{ID: "movie-1", Name: "Heat"}
	f.sessionRepo.sessions["session-1"] = &domain.Session{ID: "session-1", MovieID: "movie-1"}
	return f
}

func (f *watchFixture) addTicket(id string) {
	_ = f.ticketRepo.Create(context.Background(), &domain.Ticket{
		ID:           id,
		UserID:       "user-1",
		SessionID:    "session-1",
		PurchaseDate: time.Now(),
	})
}

func TestWatchService_Consume(t *testing.T) {
	t.Run("successful consumption", func(t *testing.T) {
		f := newWatchFixture()
		f.addTicket("ticket-1")

		entry, err := f.svc.Consume(context.Background(), f.principal, "movie-1", "session-1")
		if err != nil {
			t.Fatalf("Consume() error = %v", err)
		}

		if entry.UserID != "user-1" || entry.MovieID != "movie-1" || entry.SessionID != "session-1" {
			t.Errorf("Consume() entry = %+v", entry)
		}
		if entry.WatchedAt.IsZero() {
			t.Error("Consume() WatchedAt is zero")
		}

		ticket, _ := f.ticketRepo.GetByID(context.Background(), "user-1", "ticket-1")
		if !ticket.IsUsed {
			t.Error("Consume() did not mark the ticket used")
		}
		if f.historyRepo.count() != 1 {
			t.Errorf("Consume() history count = %d, want 1", f.historyRepo.count())
		}
	})

	t.Run("unknown movie", func(t *testing.T) {
		f := newWatchFixture()
		f.addTicket("ticket-1")

		_, err := f.svc.Consume(context.Background(), f.principal, "no-such-movie", "session-1")
		if !errors.Is(err, domain.ErrMovieNotFound) {
			t.Errorf("Consume() error = %v, want %v", err, domain.ErrMovieNotFound)
		}
		if f.historyRepo.count() != 0 {
			t.Error("Consume() wrote history on failure")
		}
	})

	t.Run("session of another movie", func(t *testing.T) {
		f := newWatchFixture()
		f.addTicket("ticket-1")
		f.movieRepo.movies["movie-2"] = &domain.Movie{ID: "movie-2", Name: "Ronin"}

		_, err := f.svc.Consume(context.Background(), f.principal, "movie-2", "session-1")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("Consume() error = %v, want %v", err, domain.ErrSessionNotFound)
		}
	})

	t.Run("no ticket for session", func(t *testing.T) {
		f := newWatchFixture()

		_, err := f.svc.Consume(context.Background(), f.principal, "movie-1", "session-1")
		if !errors.Is(err, domain.ErrNoTicketForSession) {
			t.Errorf("Consume() error = %v, want %v", err, domain.ErrNoTicketForSession)
		}
	})

	t.Run("second consumption fails", func(t *testing.T) {
		f := newWatchFixture()
		f.addTicket("ticket-1")

		if _, err := f.svc.Consume(context.Background(), f.principal, "movie-1", "session-1"); err != nil {
			t.Fatalf("first Consume() error = %v", err)
		}

		_, err := f.svc.Consume(context.Background(), f.principal, "movie-1", "session-1")
		if !errors.Is(err, domain.ErrNoTicketForSession) && !errors.Is(err, domain.ErrTicketAlreadyUsed) {
			t.Errorf("second Consume() error = %v, want no-ticket or already-used", err)
		}
		if f.historyRepo.count() != 1 {
			t.Errorf("history count = %d, want 1", f.historyRepo.count())
		}
	})

	t.Run("lost race maps to already used", func(t *testing.T) {
		f := newWatchFixture()
		f.addTicket("ticket-1")

		// Flip the flag between FindUnused and MarkUsed by consuming the
		// row directly, as a concurrent request would.
		affected, err := f.ticketRepo.MarkUsed(context.Background(), "ticket-1")
		if err != nil || affected != 1 {
			t.Fatalf("MarkUsed() = %d, %v", affected, err)
		}

		_, err = f.svc.Consume(context.Background(), f.principal, "movie-1", "session-1")
		if !errors.Is(err, domain.ErrNoTicketForSession) {
			t.Errorf("Consume() error = %v, want %v", err, domain.ErrNoTicketForSession)
		}
	})
}

func TestWatchService_Consume_Concurrent(t *testing.T) {
	f := newWatchFixture()
	f.addTicket("ticket-1")

	const attempts = 32

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Consume(context.Background(), f.principal, "movie-1", "session-1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, rejections int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrTicketAlreadyUsed), errors.Is(err, domain.ErrNoTicketForSession):
			rejections++
		default:
			t.Errorf("Consume() unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if rejections != attempts-1 {
		t.Errorf("rejections = %d, want %d", rejections, attempts-1)
	}
	if f.historyRepo.count() != 1 {
		t.Errorf("history count = %d, want exactly 1", f.historyRepo.count())
	}
}

func TestWatchService_History(t *testing.T) {
	f := newWatchFixture()
	f.addTicket("ticket-1")

	// A second session with its own consumed ticket, to prove scoping.
	f.sessionRepo.sessions["session-2"] = &domain.Session{ID: "session-2", MovieID: "movie-1"}
	_ = f.ticketRepo.Create(context.Background(), &domain.Ticket{
		ID: "ticket-2", UserID: "user-1", SessionID: "session-2", PurchaseDate: time.Now(),
	})

	entry, err := f.svc.Consume(context.Background(), f.principal, "movie-1", "session-1")
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if _, err := f.svc.Consume(context.Background(), f.principal, "movie-1", "session-2"); err != nil {
		t.Fatalf("Consume() second session error = %v", err)
	}

	t.Run("list is scoped to the session in the path", func(t *testing.T) {
		p := &dto.Pagination{}
		entries, total, err := f.svc.ListHistory(context.Background(), "user-1", "movie-1", "session-1", p)
		if err != nil {
			t.Fatalf("ListHistory() error = %v", err)
		}
		if total != 1 || len(entries) != 1 {
			t.Fatalf("ListHistory() = %d entries, total %d, want 1/1", len(entries), total)
		}
		if entries[0].SessionID != "session-1" {
			t.Errorf("ListHistory() entry SessionID = %v, want session-1", entries[0].SessionID)
		}
	})

	t.Run("list under unknown movie", func(t *testing.T) {
		_, _, err := f.svc.ListHistory(context.Background(), "user-1", "no-such-movie", "session-1", &dto.Pagination{})
		if !errors.Is(err, domain.ErrMovieNotFound) {
			t.Errorf("ListHistory() error = %v, want %v", err, domain.ErrMovieNotFound)
		}
	})

	t.Run("list under session of another movie", func(t *testing.T) {
		f.movieRepo.movies["movie-2"] = &domain.Movie{ID: "movie-2", Name: "Ronin"}
		_, _, err := f.svc.ListHistory(context.Background(), "user-1", "movie-2", "session-1", &dto.Pagination{})
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Errorf("ListHistory() error = %v, want %v", err, domain.ErrSessionNotFound)
		}
	})

	t.Run("get own entry", func(t *testing.T) {
		got, err := f.svc.GetHistory(context.Background(), "user-1", "movie-1", "session-1", entry.ID)
		if err != nil {
			t.Fatalf("GetHistory() error = %v", err)
		}
		if got.ID != entry.ID {
			t.Errorf("GetHistory() ID = %v, want %v", got.ID, entry.ID)
		}
	})

	t.Run("entry hidden under the wrong session", func(t *testing.T) {
		_, err := f.svc.GetHistory(context.Background(), "user-1", "movie-1", "session-2", entry.ID)
		if !errors.Is(err, domain.ErrWatchEntryNotFound) {
			t.Errorf("GetHistory() error = %v, want %v", err, domain.ErrWatchEntryNotFound)
		}
	})

	t.Run("other user's entry hidden", func(t *testing.T) {
		_, err := f.svc.GetHistory(context.Background(), "user-2", "movie-1", "session-1", entry.ID)
		if !errors.Is(err, domain.ErrWatchEntryNotFound) {
			t.Errorf("GetHistory() error = %v, want %v", err, domain.ErrWatchEntryNotFound)
		}
	})
}
