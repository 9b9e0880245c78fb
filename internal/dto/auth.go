package dto

import "github.com/kittipat/movietix/internal/domain"

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Age      int    `json:"age" binding:"required,gte=0"`
	RoleID   string `json:"roleId"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued credential
type TokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse echoes the verified principal back to the caller
type ProfileResponse struct {
	ID       string           `json:"id"`
	Username string           `json:"username"`
	Age      int              `json:"age"`
	Role     domain.RoleClaim `json:"role"`
}

// NewProfileResponse builds a ProfileResponse from a principal
func NewProfileResponse(p *domain.Principal) ProfileResponse {
	return ProfileResponse{
		ID:       p.ID,
		Username: p.Username,
		Age:      p.Age,
		Role:     p.Role,
	}
}
