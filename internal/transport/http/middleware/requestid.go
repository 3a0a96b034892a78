package middleware

import (
	"github.com/ErlanBelekov/content-gateway/internal/reqctx"
	"github.com/gin-gonic/gin"
)

// RequestID injects a request ID and the client IP into the context, and echoes
// the ID in the response header. An incoming X-Request-ID is preserved;
// otherwise a new UUID v4 is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = reqctx.NewRequestID()
		}

		ctx := reqctx.WithRequestID(c.Request.Context(), id)
		ctx = reqctx.WithClientIP(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
