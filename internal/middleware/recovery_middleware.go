// internal/middleware/recovery_middleware.go
package middleware

import (
	"net/http"

	"taskdesk/internal/pkg/navigation"
	"taskdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware is the console's error boundary: a panicking handler
// answers with a generic message and a reload target instead of a dropped
// connection.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", GetRequestID(c)),
				)
				response.Error(c, http.StatusInternalServerError, "something went wrong", nil, gin.H{
					"reload": navigation.RouteRoot.String(),
				})
			}
		}()
		c.Next()
	}
}
