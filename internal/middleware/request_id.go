package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jt828/hello-observability/pkg/snowflake"
)

const (
	RequestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

func RequestID(gen snowflake.Snowflake) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strconv.FormatInt(gen.Generate(), 10)
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
