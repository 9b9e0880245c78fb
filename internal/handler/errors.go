package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kittipat/movietix/internal/domain"
	"github.com/kittipat/movietix/pkg/logger"
	"github.com/kittipat/movietix/pkg/response"
)

// domainStatus maps a domain error to its HTTP status and client message
var domainStatus = []struct {
	err     error
	status  int
	message string
}{
	{domain.ErrUserAlreadyExists, http.StatusConflict, "Username already exists"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username or password"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrMovieNotFound, http.StatusNotFound, "Movie not found"},
	{domain.ErrMovieAlreadyExists, http.StatusConflict, "Movie already exists"},
	{domain.ErrSessionNotFound, http.StatusNotFound, "Session not found"},
	{domain.ErrRoomAlreadyBooked, http.StatusConflict, "The room is already booked for this date and time slot."},
	{domain.ErrRoleNotFound, http.StatusNotFound, "Role not found"},
	{domain.ErrRoleAlreadyExists, http.StatusConflict, "Role already exists"},
	{domain.ErrPermissionNotFound, http.StatusNotFound, "Permission not found"},
	{domain.ErrPermissionAlreadyExists, http.StatusConflict, "Permission already exists"},
	{domain.ErrTicketNotFound, http.StatusNotFound, "Ticket not found"},
	{domain.ErrNoTicketForSession, http.StatusUnauthorized, "User does not have a ticket for this session"},
	{domain.ErrTicketAlreadyUsed, http.StatusConflict, "Ticket has already been used"},
	{domain.ErrWatchEntryNotFound, http.StatusNotFound, "Watch history entry not found"},
}

// respondError translates a service error into the uniform envelope.
// Unrecognized errors become a 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			response.Error(c, m.status, m.message)
			return
		}
	}
	if errors.Is(err, domain.ErrValidation) {
		response.BadRequest(c, err.Error())
		return
	}

	logger.Get().Error("unhandled service error", zap.Error(err))
	response.InternalError(c)
}
