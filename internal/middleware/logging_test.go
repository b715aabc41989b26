package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"siva-proposals-backend/internal/middleware"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(middleware.RequestLogger(zap.New(core)))
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	req, _ := http.NewRequest("GET", "/missing", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, "req-42", entry.ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusNotFound), entry.ContextMap()["status"])
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(zap.NewNop()))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest("GET", "/ok", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)
}
