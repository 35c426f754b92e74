package middleware

import "github.com/gin-gonic/gin"

// SSEMiddleware sets the response headers for an event-stream endpoint.
// The handler behind it is expected to write "data:" frames and flush.
func SSEMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")

		c.Next()
	}
}
