package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kittipat/movietix/internal/dto"
	"github.com/kittipat/movietix/internal/service"
	"github.com/kittipat/movietix/pkg/response"
)

// SessionHandler handles screening session endpoints nested under a movie
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// List handles GET /movies/:movieId/sessions
func (h *SessionHandler) List(c *gin.Context) {
	var p dto.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sessions, total, err := h.sessionService.List(c.Request.Context(), c.Param("movieId"), &p)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, dto.NewPaginated(sessions, total, p))
}

// Get handles GET /movies/:movieId/sessions/:sessionId
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessionService.Get(c.Request.Context(), c.Param("movieId"), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, session)
}

// Create handles POST /movies/:movieId/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), c.Param("movieId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, session)
}

// Update handles PATCH /movies/:movieId/sessions/:sessionId
func (h *SessionHandler) Update(c *gin.Context) {
	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	session, err := h.sessionService.Update(c.Request.Context(), c.Param("movieId"), c.Param("sessionId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, session)
}

// Delete handles DELETE /movies/:movieId/sessions/:sessionId
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessionService.Delete(c.Request.Context(), c.Param("movieId"), c.Param("sessionId")); err != nil {
		respondError(c, err)
		return
	}

	response.NoContent(c)
}
