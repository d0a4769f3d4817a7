package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func findRequestEntry(t *testing.T, recorded *observer.ObservedLogs) *observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			e := entry
			return &e
		}
	}
	return nil
}

func serveWithLogging(level zapcore.Level, method, target string, handler gin.HandlerFunc, pre ...gin.HandlerFunc) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	router := gin.New()
	for _, mw := range pre {
		router.Use(mw)
	}
	router.Use(GinMiddleware(zap.New(core)))
	router.Handle(method, "/customers", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w, recorded
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("logs 2xx at info", func(t *testing.T) {
		w, recorded := serveWithLogging(zapcore.InfoLevel, "GET", "/customers", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		assert.Equal(t, http.StatusOK, w.Code)
		entry := findRequestEntry(t, recorded)
		require.NotNil(t, entry)
		assert.Equal(t, zapcore.InfoLevel, entry.Level)
	})

	t.Run("logs 4xx at warn", func(t *testing.T) {
		w, recorded := serveWithLogging(zapcore.WarnLevel, "GET", "/customers", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false})
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		entry := findRequestEntry(t, recorded)
		require.NotNil(t, entry)
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
	})

	t.Run("logs 5xx at error", func(t *testing.T) {
		w, recorded := serveWithLogging(zapcore.ErrorLevel, "GET", "/customers", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		entry := findRequestEntry(t, recorded)
		require.NotNil(t, entry)
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	})

	t.Run("carries request_id from upstream middleware", func(t *testing.T) {
		_, recorded := serveWithLogging(zapcore.InfoLevel, "GET", "/customers",
			func(c *gin.Context) { c.JSON(http.StatusOK, nil) },
			func(c *gin.Context) {
				c.Set("request_id", "req-42")
				c.Next()
			})

		entry := findRequestEntry(t, recorded)
		require.NotNil(t, entry)

		found := false
		for _, field := range entry.Context {
			if field.Key == "request_id" {
				found = true
				assert.Equal(t, "req-42", field.String)
			}
		}
		assert.True(t, found, "request_id should be a log field")
	})

	t.Run("includes query string when present", func(t *testing.T) {
		_, recorded := serveWithLogging(zapcore.InfoLevel, "GET", "/customers?search=hopper&page=1", func(c *gin.Context) {
			c.JSON(http.StatusOK, nil)
		})

		entry := findRequestEntry(t, recorded)
		require.NotNil(t, entry)

		found := false
		for _, field := range entry.Context {
			if field.Key == "query" {
				found = true
				assert.Contains(t, field.String, "search=hopper")
			}
		}
		assert.True(t, found, "query should be a log field")
	})

	t.Run("records the standard field set", func(t *testing.T) {
		_, recorded := serveWithLogging(zapcore.InfoLevel, "POST", "/customers", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

		entry := findRequestEntry(t, recorded)
		require.NotNil(t, entry)

		keys := make(map[string]struct{}, len(entry.Context))
		for _, field := range entry.Context {
			keys[field.Key] = struct{}{}
		}
		for _, want := range []string{"status", "latency", "client_ip", "user_agent", "method", "path"} {
			assert.Contains(t, keys, want)
		}
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/boom", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "Panic recovered", logs[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the request-scoped logger", func(t *testing.T) {
		core, _ := observer.New(zapcore.InfoLevel)

		var got *zap.Logger
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/customers", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.JSON(http.StatusOK, nil)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/customers", nil))

		assert.NotNil(t, got)
	})

	t.Run("falls back to a nop logger", func(t *testing.T) {
		var got *zap.Logger
		router := gin.New()
		router.GET("/customers", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.JSON(http.StatusOK, nil)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/customers", nil))

		require.NotNil(t, got)
		assert.NotPanics(t, func() {
			got.Info("nop")
		})
	})
}
