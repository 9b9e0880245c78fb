package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kittipat/movietix/internal/handler"
	"github.com/kittipat/movietix/internal/middleware"
	"github.com/kittipat/movietix/internal/service"
)

// Route declares one endpoint with its guard requirements. Public routes
// skip authentication entirely; a route with an empty Permission admits any
// authenticated caller.
type Route struct {
	Method     string
	Path       string
	Public     bool
	Permission string
	Handler    gin.HandlerFunc
}

// Handlers bundles all endpoint handlers for registration
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Movie      *handler.MovieHandler
	Session    *handler.SessionHandler
	Role       *handler.RoleHandler
	Permission *handler.PermissionHandler
	Ticket     *handler.TicketHandler
	Watch      *handler.WatchHandler
}

// Routes is the single authoritative table of every endpoint and what it
// requires. Guards read route requirements from here, not from handler
// metadata, so the whole authorization surface is reviewable in one place.
func Routes(h *Handlers) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/health", Public: true, Handler: h.Health.Health},

		{Method: http.MethodPost, Path: "/auth/register", Public: true, Handler: h.Auth.Register},
		{Method: http.MethodPost, Path: "/auth/login", Public: true, Handler: h.Auth.Login},
		{Method: http.MethodGet, Path: "/auth/profile", Handler: h.Auth.Profile},

		{Method: http.MethodGet, Path: "/movies", Permission: "view:movies", Handler: h.Movie.List},
		{Method: http.MethodGet, Path: "/movies/:movieId", Permission: "view:movie", Handler: h.Movie.Get},
		{Method: http.MethodPost, Path: "/movies", Permission: "create:movie", Handler: h.Movie.Create},
		{Method: http.MethodPatch, Path: "/movies/:movieId", Permission: "update:movie", Handler: h.Movie.Update},
		{Method: http.MethodDelete, Path: "/movies/:movieId", Permission: "delete:movie", Handler: h.Movie.Delete},

		{Method: http.MethodGet, Path: "/movies/:movieId/sessions", Permission: "view:sessions", Handler: h.Session.List},
		{Method: http.MethodGet, Path: "/movies/:movieId/sessions/:sessionId", Permission: "view:session", Handler: h.Session.Get},
		{Method: http.MethodPost, Path: "/movies/:movieId/sessions", Permission: "create:session", Handler: h.Session.Create},
		{Method: http.MethodPatch, Path: "/movies/:movieId/sessions/:sessionId", Permission: "update:session", Handler: h.Session.Update},
		{Method: http.MethodDelete, Path: "/movies/:movieId/sessions/:sessionId", Permission: "delete:session", Handler: h.Session.Delete},

		{Method: http.MethodGet, Path: "/roles", Permission: "view:roles", Handler: h.Role.List},
		{Method: http.MethodGet, Path: "/roles/:roleId", Permission: "view:role", Handler: h.Role.Get},
		{Method: http.MethodPost, Path: "/roles", Permission: "create:role", Handler: h.Role.Create},
		{Method: http.MethodPatch, Path: "/roles/:roleId", Permission: "update:role", Handler: h.Role.Update},
		{Method: http.MethodDelete, Path: "/roles/:roleId", Permission: "delete:role", Handler: h.Role.Delete},

		{Method: http.MethodGet, Path: "/permissions", Permission: "view:permissions", Handler: h.Permission.List},
		{Method: http.MethodGet, Path: "/permissions/:permissionId", Permission: "view:permission", Handler: h.Permission.Get},
		{Method: http.MethodPost, Path: "/permissions", Permission: "create:permission", Handler: h.Permission.Create},
		{Method: http.MethodPatch, Path: "/permissions/:permissionId", Permission: "update:permission", Handler: h.Permission.Update},
		{Method: http.MethodDelete, Path: "/permissions/:permissionId", Permission: "delete:permission", Handler: h.Permission.Delete},

		{Method: http.MethodGet, Path: "/tickets", Permission: "view:tickets", Handler: h.Ticket.List},
		{Method: http.MethodGet, Path: "/tickets/:ticketId", Permission: "view:ticket", Handler: h.Ticket.Get},
		{Method: http.MethodPost, Path: "/tickets", Permission: "create:ticket", Handler: h.Ticket.Create},

		{Method: http.MethodPost, Path: "/movies/:movieId/sessions/:sessionId/watch", Permission: "create:watch-history", Handler: h.Watch.Watch},
		{Method: http.MethodGet, Path: "/movies/:movieId/sessions/:sessionId/watch", Permission: "view:watch-histories", Handler: h.Watch.ListHistory},
		{Method: http.MethodGet, Path: "/movies/:movieId/sessions/:sessionId/watch/:watchHistoryId", Permission: "view:watch-history", Handler: h.Watch.GetHistory},
	}
}

// Register wires every route with its guard chain: TokenGuard first, then
// RequirePermission when the route declares one, then the handler.
func Register(engine *gin.Engine, auth service.AuthService, h *Handlers) {
	for _, route := range Routes(h) {
		chain := []gin.HandlerFunc{middleware.TokenGuard(auth, route.Public)}
		if route.Permission != "" {
			chain = append(chain, middleware.RequirePermission(route.Permission))
		}
		chain = append(chain, route.Handler)
		engine.Handle(route.Method, route.Path, chain...)
	}
}
