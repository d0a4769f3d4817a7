// Package middleware provides HTTP middleware for the CRM system.
package middleware

import (
	"context"
	"strings"

	"github.com/crmcore/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	// Enabled controls whether profiling labels are added to requests.
	Enabled bool
	// SkipPaths are exact paths that don't need profiling labels.
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't need profiling labels.
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips health probes, metrics scrapes and the
// documentation routes.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/healthz", "/ready", "/metrics"},
		SkipPathPrefixes: []string{"/swagger", "/api-docs"},
	}
}

func (cfg ProfilingConfig) skips(path string) bool {
	for _, skip := range cfg.SkipPaths {
		if path == skip {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Profiling returns profiling middleware with default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig attaches Pyroscope labels to the request context so
// profiles can be filtered by dimension in the Pyroscope UI:
//   - controller: resource name derived from the route (e.g. "customers")
//   - route: matched route pattern (e.g. "/api/v1/customers/:id")
//   - method: HTTP method
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}

	return func(c *gin.Context) {
		if cfg.skips(c.Request.URL.Path) {
			c.Next()
			return
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 3)

	if method := c.Request.Method; method != "" {
		labels[telemetry.ProfilingLabelMethod] = method
	}

	// The matched route pattern, not the raw path, keeps cardinality low.
	route := c.FullPath()
	if route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}
	if controller := controllerFromRoute(route); controller != "" {
		labels[telemetry.ProfilingLabelController] = controller
	}

	return labels
}

// controllerFromRoute picks the resource segment out of the route pattern:
// the first segment that is not empty, not "api", not a version like "v1",
// and not a path parameter. "/api/v1/customers/:id/credit" yields "customers".
func controllerFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		switch {
		case part == "" || part == "api":
		case isVersionSegment(part):
		case strings.HasPrefix(part, ":") || strings.HasPrefix(part, "{"):
		default:
			return part
		}
	}
	return ""
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
