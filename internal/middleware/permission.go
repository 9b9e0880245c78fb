package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kittipat/movietix/pkg/response"
)

const msgForbidden = "You do not have permission to access this resource."

// RequirePermission denies the request unless the verified principal's
// snapshot contains the named permission. The match is exact and
// case-sensitive against the permissions frozen into the token at login.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		if principal == nil || !principal.HasPermission(permission) {
			response.AbortError(c, http.StatusForbidden, msgForbidden)
			return
		}
		c.Next()
	}
}
