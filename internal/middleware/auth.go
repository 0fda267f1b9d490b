package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"localstay/internal/domain"
	"localstay/internal/pkg/jwt"
	"localstay/internal/pkg/response"
)

const identityKey = "identity"

// JWTAuth resolves the bearer token into the caller's identity. Handlers read
// it back with CurrentIdentity; "user_id" and "role" are set for logging.
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		id, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Could not validate credentials")
			c.Abort()
			return
		}

		SetIdentity(c, id)
		c.Next()
	}
}

func SetIdentity(c *gin.Context, id domain.Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.ID)
	c.Set("role", string(id.Role))
}

// CurrentIdentity returns the identity stored by JWTAuth.
func CurrentIdentity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
