// Package telemetry provides Pyroscope continuous profiling integration.
package telemetry

import (
	"context"
	"maps"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Label keys for profiling dimensions.
const (
	// ProfilingLabelController is the label key for the handler/controller name.
	ProfilingLabelController = "controller"
	// ProfilingLabelRoute is the label key for the route pattern.
	ProfilingLabelRoute = "route"
	// ProfilingLabelMethod is the label key for the HTTP method.
	ProfilingLabelMethod = "method"
	// ProfilingLabelOperation is the label key for the operation name.
	ProfilingLabelOperation = "operation"
	// ProfilingLabelRegion is the label key for code regions (e.g. "db_query").
	ProfilingLabelRegion = "region"
)

// MaxLabelValueLength caps label values so a runaway value cannot blow up
// series cardinality in Pyroscope.
const MaxLabelValueLength = 128

// HighCardinalityLabels are label keys sanitizeLabels silently drops: one
// series per customer or request would exhaust Pyroscope memory.
//
// Do not modify this map at runtime.
var HighCardinalityLabels = map[string]bool{
	"customer_id": true,
	"request_id":  true,
	"trace_id":    true,
	"span_id":     true,
	"session_id":  true,
}

// labelPairs copies, sanitizes, and flattens a label map into the
// alternating key/value slice both label APIs expect. The copy makes it
// safe for callers to reuse their map afterwards.
func labelPairs(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}
	copied := make(map[string]string, len(labels))
	maps.Copy(copied, labels)
	return sanitizeLabels(copied)
}

// WithProfilingLabels runs fn with Pyroscope labels attached, letting the
// profile be sliced by those dimensions in the UI:
//
//	telemetry.WithProfilingLabels(ctx, map[string]string{
//	    "controller": "CustomerHandler",
//	    "operation":  "CreateCustomer",
//	}, func(c context.Context) {
//	    importCustomers(c)
//	})
//
// High-cardinality keys like customer_id or request_id are dropped; see
// HighCardinalityLabels.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// WithPprofLabels does the same through Go's native pprof label API, for
// callers that need the labels visible to standard Go profiling tools.
// pyroscope.TagWrapper and pprof.Do produce identical label behavior.
func WithPprofLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pprof.Do(ctx, pprof.Labels(pairs...), fn)
}

// ProfilingScope accumulates labels incrementally before running a function
// under them.
type ProfilingScope struct {
	labels map[string]string
}

// NewProfilingScope creates a new ProfilingScope with an initial set of labels.
func NewProfilingScope(labels map[string]string) *ProfilingScope {
	scope := &ProfilingScope{labels: make(map[string]string)}
	maps.Copy(scope.labels, labels)
	return scope
}

// WithLabel adds a single label to the scope.
func (s *ProfilingScope) WithLabel(key, value string) *ProfilingScope {
	s.labels[key] = value
	return s
}

// WithController adds the controller label.
func (s *ProfilingScope) WithController(controller string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelController, controller)
}

// WithRoute adds the route label.
func (s *ProfilingScope) WithRoute(route string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelRoute, route)
}

// WithMethod adds the method label.
func (s *ProfilingScope) WithMethod(method string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelMethod, method)
}

// WithOperation adds the operation label.
func (s *ProfilingScope) WithOperation(operation string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelOperation, operation)
}

// WithRegion adds the region label for code regions.
func (s *ProfilingScope) WithRegion(region string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelRegion, region)
}

// Labels returns a copy of the current labels.
func (s *ProfilingScope) Labels() map[string]string {
	result := make(map[string]string, len(s.labels))
	maps.Copy(result, s.labels)
	return result
}

// Run executes the function with the accumulated labels.
func (s *ProfilingScope) Run(ctx context.Context, fn func(context.Context)) {
	WithProfilingLabels(ctx, s.labels, fn)
}

// sanitizeLabels turns a label map into alternating key/value pairs:
// empty keys and values and high-cardinality keys are dropped, values are
// truncated to MaxLabelValueLength, keys are normalized to snake_case, and
// key order is sorted so output is deterministic.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		if key == "" || value == "" || HighCardinalityLabels[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		if sanitized := sanitizeLabelKey(key); sanitized != "" {
			pairs = append(pairs, sanitized, value)
		}
	}
	return pairs
}

// sanitizeLabelKey lowercases the key, maps spaces and dashes to
// underscores, and strips anything outside [a-z0-9_].
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")

	result := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			result = append(result, c)
		}
	}
	return string(result)
}

// HTTPRequestLabels builds the standard label set for HTTP request profiling.
func HTTPRequestLabels(controller, route, method string) map[string]string {
	labels := make(map[string]string, 3)
	if controller != "" {
		labels[ProfilingLabelController] = controller
	}
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}
	return labels
}

// OperationLabels creates labels for a named operation.
func OperationLabels(operation string, extraLabels map[string]string) map[string]string {
	labels := make(map[string]string, len(extraLabels)+1)
	labels[ProfilingLabelOperation] = operation
	maps.Copy(labels, extraLabels)
	return labels
}

// RegionLabels creates labels for a code region (e.g. database, external API).
func RegionLabels(region string, extraLabels map[string]string) map[string]string {
	labels := make(map[string]string, len(extraLabels)+1)
	labels[ProfilingLabelRegion] = region
	maps.Copy(labels, extraLabels)
	return labels
}
