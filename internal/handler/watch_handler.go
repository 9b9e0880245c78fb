package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kittipat/movietix/internal/dto"
	"github.com/kittipat/movietix/internal/middleware"
	"github.com/kittipat/movietix/internal/service"
	"github.com/kittipat/movietix/pkg/response"
)

// WatchHandler handles ticket consumption and watch history endpoints
type WatchHandler struct {
	watchService service.WatchService
}

// NewWatchHandler creates a new WatchHandler
func NewWatchHandler(watchService service.WatchService) *WatchHandler {
	return &WatchHandler{watchService: watchService}
}

// Watch handles POST /movies/:movieId/sessions/:sessionId/watch. It spends
// one of the caller's tickets for the session and records the viewing.
func (h *WatchHandler) Watch(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		response.Error(c, http.StatusUnauthorized, "Authorization is missing or invalid.")
		return
	}

	entry, err := h.watchService.Consume(c.Request.Context(), principal, c.Param("movieId"), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, entry)
}

// ListHistory handles GET /movies/:movieId/sessions/:sessionId/watch
func (h *WatchHandler) ListHistory(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		response.Error(c, http.StatusUnauthorized, "Authorization is missing or invalid.")
		return
	}

	var p dto.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entries, total, err := h.watchService.ListHistory(c.Request.Context(), principal.ID, c.Param("movieId"), c.Param("sessionId"), &p)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, dto.NewPaginated(entries, total, p))
}

// GetHistory handles GET /movies/:movieId/sessions/:sessionId/watch/:watchHistoryId
func (h *WatchHandler) GetHistory(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		response.Error(c, http.StatusUnauthorized, "Authorization is missing or invalid.")
		return
	}

	entry, err := h.watchService.GetHistory(c.Request.Context(), principal.ID, c.Param("movieId"), c.Param("sessionId"), c.Param("watchHistoryId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, entry)
}
