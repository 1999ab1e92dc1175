package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// setupIds -
func setupIds(engine *gin.Engine) {
	engine.Use(RequestIDMiddleware(""))
}

// GetRequestID retrieves the request ID from Gin context
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// RequestIDMiddleware keeps the caller's request id or assigns one, and
// echoes it back in the response headers
func RequestIDMiddleware(headerName string) gin.HandlerFunc {
	if headerName == "" {
		headerName = requestIDHeader
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader(headerName)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.New().String()
		}
		c.Header(headerName, requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}
