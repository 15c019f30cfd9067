package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jt828/hello-observability/pkg/apperror"
	"github.com/jt828/hello-observability/pkg/observability"
)

// StatusClientClosedRequest is used when the client disconnected before the
// response was ready. Nothing is written to the connection in that case.
const StatusClientClosedRequest = 499

type errorResponse struct {
	Error string `json:"error"`
}

func ErrorHandler(log observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", observability.String("panic", fmt.Sprintf("%v", r)), observability.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()

		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		err := last.Err

		switch {
		case errors.Is(err, apperror.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.Is(err, apperror.ErrInvalidArgument):
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, context.Canceled):
			log.Warn("request cancelled", observability.Err(err), observability.String("path", c.Request.URL.Path))
			c.AbortWithStatus(StatusClientClosedRequest)
		default:
			log.Error("unhandled error", observability.Err(err), observability.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		}
	}
}

// NotFound turns unmatched routes into apperror.ErrNotFound for ErrorHandler.
func NotFound(c *gin.Context) {
	_ = c.Error(fmt.Errorf("route %s %s: %w", c.Request.Method, c.Request.URL.Path, apperror.ErrNotFound))
}
