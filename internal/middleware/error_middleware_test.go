package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jt828/hello-observability/internal/middleware"
	"github.com/jt828/hello-observability/pkg/apperror"
	"github.com/jt828/hello-observability/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logCall struct {
	msg    string
	fields []observability.Field
}

type mockLogger struct {
	errorCalls []logCall
	warnCalls  []logCall
}

func (m *mockLogger) Debug(msg string, fields ...observability.Field) {}
func (m *mockLogger) Error(msg string, fields ...observability.Field) {
	m.errorCalls = append(m.errorCalls, logCall{msg, fields})
}
func (m *mockLogger) Fatal(msg string, fields ...observability.Field) {}
func (m *mockLogger) Info(msg string, fields ...observability.Field)  {}
func (m *mockLogger) Warn(msg string, fields ...observability.Field) {
	m.warnCalls = append(m.warnCalls, logCall{msg, fields})
}
func (m *mockLogger) With(fields ...observability.Field) observability.Logger { return m }

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(log observability.Logger, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.Use(middleware.ErrorHandler(log))
	engine.GET("/test", handler)
	engine.NoRoute(middleware.NotFound)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	return rec
}

func TestErrorHandler(t *testing.T) {
	t.Run("no error passes through unchanged", func(t *testing.T) {
		log := &mockLogger{}

		rec := serve(log, func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
		assert.Len(t, log.errorCalls, 0)
	})

	t.Run("wrapped ErrNotFound maps to 404", func(t *testing.T) {
		log := &mockLogger{}

		rec := serve(log, func(c *gin.Context) {
			_ = c.Error(fmt.Errorf("greeting lookup: %w", apperror.ErrNotFound))
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"greeting lookup: not found"}`, rec.Body.String())
		assert.Len(t, log.errorCalls, 0)
	})

	t.Run("ErrInvalidArgument maps to 400", func(t *testing.T) {
		log := &mockLogger{}

		rec := serve(log, func(c *gin.Context) { _ = c.Error(apperror.ErrInvalidArgument) })

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"invalid argument"}`, rec.Body.String())
	})

	t.Run("cancelled request is logged as a warning and gets 499", func(t *testing.T) {
		log := &mockLogger{}

		rec := serve(log, func(c *gin.Context) {
			_ = c.Error(fmt.Errorf("simulated work interrupted: %w", context.Canceled))
		})

		assert.Equal(t, middleware.StatusClientClosedRequest, rec.Code)
		assert.Len(t, log.errorCalls, 0)
		require.Len(t, log.warnCalls, 1)
		assert.Equal(t, "request cancelled", log.warnCalls[0].msg)
	})

	t.Run("unknown error maps to 500 with generic message and is logged", func(t *testing.T) {
		log := &mockLogger{}
		unknownErr := errors.New("registry exploded")

		rec := serve(log, func(c *gin.Context) { _ = c.Error(unknownErr) })

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
		require.Len(t, log.errorCalls, 1)
		assert.Equal(t, "unhandled error", log.errorCalls[0].msg)
		assert.Contains(t, log.errorCalls[0].fields, observability.Err(unknownErr))
		assert.Contains(t, log.errorCalls[0].fields, observability.String("path", "/test"))
	})

	t.Run("panic is recovered as 500", func(t *testing.T) {
		log := &mockLogger{}

		rec := serve(log, func(c *gin.Context) { panic("boom") })

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Len(t, log.errorCalls, 1)
		assert.Equal(t, "panic recovered", log.errorCalls[0].msg)
		assert.Contains(t, log.errorCalls[0].fields, observability.String("panic", "boom"))
	})
}

func TestNotFound(t *testing.T) {
	log := &mockLogger{}
	engine := gin.New()
	engine.Use(middleware.ErrorHandler(log))
	engine.NoRoute(middleware.NotFound)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"route GET /nope: not found"}`, rec.Body.String())
}
