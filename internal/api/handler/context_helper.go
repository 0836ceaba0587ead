package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OfficialEseosa/panther-watch/internal/api/middleware"
	"github.com/OfficialEseosa/panther-watch/pkg/response"
)

// MustGetUserID extracts the authenticated user's ID from the context.
// Writes a 401 and returns false when the auth middleware did not run;
// the caller should return immediately in that case.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		response.Unauthorized(c, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "not authenticated")
		return "", false
	}
	return s, true
}
