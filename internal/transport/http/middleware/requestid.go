package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artmarket/internal/transport/http/ez"
)

const HeaderRequestID = "X-Request-ID"

// RequestID echoes the caller's X-Request-ID or mints one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(HeaderRequestID)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Set(ez.KeyRequestID, rid)
		c.Next()
	}
}
