package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kittipat/movietix/internal/dto"
	"github.com/kittipat/movietix/internal/middleware"
	"github.com/kittipat/movietix/internal/service"
	"github.com/kittipat/movietix/pkg/response"
)

// TicketHandler handles ticket purchase endpoints. All operations are scoped
// to the authenticated caller; one user cannot see another's tickets.
type TicketHandler struct {
	ticketService service.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// List handles GET /tickets
func (h *TicketHandler) List(c *gin.Context) {
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

	tickets, total, err := h.ticketService.List(c.Request.Context(), principal.ID, &p)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, dto.NewPaginated(tickets, total, p))
}

// Get handles GET /tickets/:ticketId
func (h *TicketHandler) Get(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		response.Error(c, http.StatusUnauthorized, "Authorization is missing or invalid.")
		return
	}

	ticket, err := h.ticketService.Get(c.Request.Context(), principal.ID, c.Param("ticketId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, ticket)
}

// Create handles POST /tickets
func (h *TicketHandler) Create(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if principal == nil {
		response.Error(c, http.StatusUnauthorized, "Authorization is missing or invalid.")
		return
	}

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ticket, err := h.ticketService.Create(c.Request.Context(), principal.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, ticket)
}
