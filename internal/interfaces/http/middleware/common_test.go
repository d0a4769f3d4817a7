package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRouter(cfg CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/customers", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doCORS(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/customers", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS_DefaultConfig(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/customers", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	t.Run("cross-origin request gets no CORS headers", func(t *testing.T) {
		w := doCORS(router, "GET", "http://malicious.example")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("same-origin request passes", func(t *testing.T) {
		w := doCORS(router, "GET", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("preflight is answered even without CORS headers", func(t *testing.T) {
		w := doCORS(router, "OPTIONS", "http://somewhere.example")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestCORSWithConfig(t *testing.T) {
	t.Run("whitelisted origin is echoed with credentials", func(t *testing.T) {
		router := corsRouter(CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000", "http://app.example.com"},
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
		})

		for _, origin := range []string{"http://localhost:3000", "http://app.example.com"} {
			w := doCORS(router, "GET", origin)
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		}
	})

	t.Run("origin outside the whitelist gets no headers", func(t *testing.T) {
		router := corsRouter(CORSConfig{AllowOrigins: []string{"http://allowed.example"}})

		w := doCORS(router, "GET", "http://not-allowed.example")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("empty whitelist rejects every cross-origin request", func(t *testing.T) {
		router := corsRouter(CORSConfig{
			AllowOrigins: []string{},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type"},
		})

		w := doCORS(router, "GET", "http://any-origin.example")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("wildcard allows all origins but never credentials", func(t *testing.T) {
		router := corsRouter(CORSConfig{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
		})

		w := doCORS(router, "GET", "http://any-origin.example")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("max-age is emitted in seconds", func(t *testing.T) {
		for _, tc := range []struct {
			duration time.Duration
			expected string
		}{
			{time.Hour, "3600"},
			{12 * time.Hour, "43200"},
			{30 * time.Second, "30"},
		} {
			router := corsRouter(CORSConfig{
				AllowOrigins: []string{"http://localhost:3000"},
				AllowMethods: []string{"GET"},
				AllowHeaders: []string{"Content-Type"},
				MaxAge:       tc.duration,
			})

			w := doCORS(router, "GET", "http://localhost:3000")
			assert.Equal(t, tc.expected, w.Header().Get("Access-Control-Max-Age"))
		}
	})

	t.Run("expose headers are joined", func(t *testing.T) {
		router := corsRouter(CORSConfig{
			AllowOrigins:  []string{"http://localhost:3000"},
			AllowMethods:  []string{"GET"},
			AllowHeaders:  []string{"Content-Type"},
			ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Limit"},
		})

		w := doCORS(router, "GET", "http://localhost:3000")
		assert.Equal(t, "X-Request-ID, X-RateLimit-Limit", w.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("preflight from whitelisted origin carries the full policy", func(t *testing.T) {
		router := corsRouter(CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "PUT"},
			AllowHeaders: []string{"Content-Type", "Authorization"},
		})

		w := doCORS(router, "OPTIONS", "http://localhost:3000")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("preflight from disallowed origin still gets 204, no headers", func(t *testing.T) {
		router := corsRouter(CORSConfig{
			AllowOrigins: []string{"http://allowed.example"},
			AllowMethods: []string{"GET", "POST"},
		})

		w := doCORS(router, "OPTIONS", "http://not-allowed.example")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	assert.Empty(t, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowMethods, "GET")
	assert.Contains(t, cfg.AllowMethods, "POST")
	assert.Contains(t, cfg.AllowHeaders, "Content-Type")
	assert.Contains(t, cfg.AllowHeaders, "Authorization")
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/customers", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates an ID when none is supplied", func(t *testing.T) {
		w := doCORS(router, "GET", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.NotEmpty(t, w.Body.String())
	})

	t.Run("propagates a caller-supplied ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/customers", nil)
		req.Header.Set("X-Request-ID", "upstream-id-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "upstream-id-42", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "upstream-id-42", w.Body.String())
	})
}

func TestGenerateRequestID(t *testing.T) {
	id1 := generateRequestID()
	id2 := generateRequestID()

	assert.NotEqual(t, id1, id2)
	assert.Len(t, id1, 32)
}

func secureRouter(cfg SecurityConfig) *gin.Engine {
	router := gin.New()
	router.Use(SecureWithConfig(cfg))
	router.GET("/customers", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestSecure_Defaults(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	router.GET("/customers", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := doCORS(router, "GET", "")

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))

	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "frame-ancestors 'none'")

	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	permPolicy := w.Header().Get("Permissions-Policy")
	assert.Contains(t, permPolicy, "camera=()")
	assert.Contains(t, permPolicy, "microphone=()")
}

func TestSecureWithConfig(t *testing.T) {
	t.Run("custom CSP directive", func(t *testing.T) {
		w := doCORS(secureRouter(SecurityConfig{
			CSPEnabled:   true,
			CSPDirective: "default-src 'none'; script-src 'self'",
		}), "GET", "")

		assert.Equal(t, "default-src 'none'; script-src 'self'", w.Header().Get("Content-Security-Policy"))
		assert.Empty(t, w.Header().Get("Permissions-Policy"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("HSTS with all flags", func(t *testing.T) {
		w := doCORS(secureRouter(SecurityConfig{
			HSTSEnabled:           true,
			HSTSMaxAge:            63072000,
			HSTSIncludeSubdomains: true,
			HSTSPreload:           true,
		}), "GET", "")

		assert.Equal(t, "max-age=63072000; includeSubDomains; preload", w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("HSTS with max-age only", func(t *testing.T) {
		w := doCORS(secureRouter(SecurityConfig{
			HSTSEnabled: true,
			HSTSMaxAge:  31536000,
		}), "GET", "")

		assert.Equal(t, "max-age=31536000", w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("custom Permissions-Policy", func(t *testing.T) {
		w := doCORS(secureRouter(SecurityConfig{
			PermissionsPolicyEnabled:   true,
			PermissionsPolicyDirective: "geolocation=(self), microphone=()",
		}), "GET", "")

		assert.Equal(t, "geolocation=(self), microphone=()", w.Header().Get("Permissions-Policy"))
	})

	t.Run("optional headers off leaves the baseline intact", func(t *testing.T) {
		w := doCORS(secureRouter(SecurityConfig{}), "GET", "")

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Empty(t, w.Header().Get("Content-Security-Policy"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, w.Header().Get("Permissions-Policy"))
	})

	t.Run("everything enabled", func(t *testing.T) {
		w := doCORS(secureRouter(SecurityConfig{
			HSTSEnabled:                true,
			HSTSMaxAge:                 31536000,
			HSTSIncludeSubdomains:      true,
			CSPEnabled:                 true,
			CSPDirective:               "default-src 'self'",
			PermissionsPolicyEnabled:   true,
			PermissionsPolicyDirective: "camera=(), microphone=()",
		}), "GET", "")

		assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
		assert.Equal(t, "camera=(), microphone=()", w.Header().Get("Permissions-Policy"))
	})
}

func TestDefaultSecurityConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()

	assert.False(t, cfg.HSTSEnabled)
	assert.Equal(t, 31536000, cfg.HSTSMaxAge)
	assert.True(t, cfg.HSTSIncludeSubdomains)
	assert.False(t, cfg.HSTSPreload)

	assert.True(t, cfg.CSPEnabled)
	assert.Contains(t, cfg.CSPDirective, "default-src 'self'")
	assert.Contains(t, cfg.CSPDirective, "frame-ancestors 'none'")

	assert.True(t, cfg.PermissionsPolicyEnabled)
	assert.Contains(t, cfg.PermissionsPolicyDirective, "camera=()")
}
