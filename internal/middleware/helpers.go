// internal/middleware/helpers.go
package middleware

import (
	"taskdesk/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserKey      = "user"
	ctxRequestIDKey = "request_id"
)

// GetUser returns the user RequireAuth saw when it admitted the request.
func GetUser(c *gin.Context) (auth.User, bool) {
	v, exists := c.Get(ctxUserKey)
	if !exists {
		return auth.User{}, false
	}

	u, ok := v.(auth.User)
	return u, ok
}

// MustGetUser gets the user from context or panics
func MustGetUser(c *gin.Context) auth.User {
	u, ok := GetUser(c)
	if !ok {
		panic("user not found in context")
	}
	return u
}

// GetRequestID returns the id LoggingMiddleware assigned.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestIDKey)
}
