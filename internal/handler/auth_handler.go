package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kittipat/movietix/internal/dto"
	"github.com/kittipat/movietix/internal/middleware"
	"github.com/kittipat/movietix/internal/service"
	"github.com/kittipat/movietix/pkg/response"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, dto.TokenResponse{Token: token})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, dto.TokenResponse{Token: token})
}

// Profile handles GET /auth/profile. It echoes the snapshot the caller's
// token was issued with, not the current database state.
func (h *AuthHandler) Profile(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	response.OK(c, dto.NewProfileResponse(principal))
}
