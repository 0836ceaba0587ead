package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OfficialEseosa/panther-watch/internal/service"
	"github.com/OfficialEseosa/panther-watch/pkg/jwt"
	"github.com/OfficialEseosa/panther-watch/pkg/response"
)

// Context keys set by Auth.
const (
	UserIDKey  = "user_id"
	EmailKey   = "email"
	IsAdminKey = "is_admin"
)

// Auth verifies the Supabase bearer token and loads (upserting on first
// sight) the local user row. Downstream handlers read the user ID and
// admin flag from the context.
func Auth(verifier *jwt.Verifier, users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := verifier.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		user, err := users.EnsureUser(c.Request.Context(), claims)
		if err != nil {
			response.InternalError(c)
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.UserID)
		c.Set(EmailKey, user.Email)
		c.Set(IsAdminKey, user.IsAdmin)

		c.Next()
	}
}

// AdminOnly gates a route group to admin users. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(IsAdminKey) {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
