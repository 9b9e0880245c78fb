package di

import (
	"github.com/kittipat/movietix/internal/handler"
	"github.com/kittipat/movietix/internal/repository"
	"github.com/kittipat/movietix/internal/router"
	"github.com/kittipat/movietix/internal/service"
	"github.com/kittipat/movietix/pkg/config"
	"github.com/kittipat/movietix/pkg/database"
	"github.com/kittipat/movietix/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	UserRepo       repository.UserRepository
	RoleRepo       repository.RoleRepository
	PermissionRepo repository.PermissionRepository
	MovieRepo      repository.MovieRepository
	SessionRepo    repository.SessionRepository
	TicketRepo     repository.TicketRepository
	HistoryRepo    repository.WatchHistoryRepository

	// Services
	AuthService       service.AuthService
	MovieService      service.MovieService
	SessionService    service.SessionService
	RoleService       service.RoleService
	PermissionService service.PermissionService
	TicketService     service.TicketService
	WatchService      service.WatchService

	// Handlers
	Handlers *router.Handlers
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB     *database.PostgresDB
	Redis  *redis.Client
	Config *config.Config
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Redis: cfg.Redis,
	}

	// Repositories
	c.UserRepo = repository.NewPostgresUserRepository(c.DB.Pool())
	c.RoleRepo = repository.NewPostgresRoleRepository(c.DB.Pool())
	c.PermissionRepo = repository.NewPostgresPermissionRepository(c.DB.Pool())
	c.SessionRepo = repository.NewPostgresSessionRepository(c.DB.Pool())
	c.TicketRepo = repository.NewPostgresTicketRepository(c.DB.Pool())
	c.HistoryRepo = repository.NewPostgresWatchHistoryRepository(c.DB.Pool())

	pgMovieRepo := repository.NewPostgresMovieRepository(c.DB.Pool())
	if c.Redis != nil {
		c.MovieRepo = repository.NewCachedMovieRepository(pgMovieRepo, c.Redis)
	} else {
		c.MovieRepo = pgMovieRepo
	}

	// Services
	c.AuthService = service.NewAuthService(c.UserRepo, c.RoleRepo, &service.AuthServiceConfig{
		JWTSecret:         cfg.Config.JWT.Secret,
		AccessTokenExpiry: cfg.Config.JWT.AccessTokenTTL,
	})
	c.MovieService = service.NewMovieService(c.MovieRepo)
	c.SessionService = service.NewSessionService(c.SessionRepo, c.MovieRepo)
	c.RoleService = service.NewRoleService(c.RoleRepo, c.PermissionRepo)
	c.PermissionService = service.NewPermissionService(c.PermissionRepo)
	c.TicketService = service.NewTicketService(c.TicketRepo, c.SessionRepo)
	c.WatchService = service.NewWatchService(c.MovieRepo, c.SessionRepo, c.TicketRepo, c.HistoryRepo)

	// Handlers
	c.Handlers = &router.Handlers{
		Health:     handler.NewHealthHandler(c.DB, c.Redis),
		Auth:       handler.NewAuthHandler(c.AuthService),
		Movie:      handler.NewMovieHandler(c.MovieService),
		Session:    handler.NewSessionHandler(c.SessionService),
		Role:       handler.NewRoleHandler(c.RoleService),
		Permission: handler.NewPermissionHandler(c.PermissionService),
		Ticket:     handler.NewTicketHandler(c.TicketService),
		Watch:      handler.NewWatchHandler(c.WatchService),
	}

	return c
}
