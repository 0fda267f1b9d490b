package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"localstay/internal/domain"
	"localstay/internal/pkg/response"
)

// RequireCapability lets the request through only when the caller's role
// grants the capability. Must run after JWTAuth.
func RequireCapability(capability domain.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		if !id.Can(capability) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly requires the owner-verification capability held by admins.
func AdminOnly() gin.HandlerFunc {
	return RequireCapability(domain.CapVerifyOwners)
}
