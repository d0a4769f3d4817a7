package telemetry_test

import (
	"context"
	"runtime/pprof"
	"strings"
	"sync"
	"testing"

	"github.com/crmcore/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// appliedLabels runs fn under WithProfilingLabels and captures the pprof
// labels visible inside the callback, so sanitization can be asserted on
// what actually got applied.
func appliedLabels(t *testing.T, labels map[string]string) map[string]string {
	t.Helper()

	got := make(map[string]string)
	called := false
	telemetry.WithProfilingLabels(context.Background(), labels, func(c context.Context) {
		called = true
		pprof.ForLabels(c, func(key, value string) bool {
			got[key] = value
			return true
		})
	})
	require.True(t, called, "labelled function must always run")
	return got
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("nil and empty maps still run the function", func(t *testing.T) {
		assert.Empty(t, appliedLabels(t, nil))
		assert.Empty(t, appliedLabels(t, map[string]string{}))
	})

	t.Run("labels are visible inside the callback", func(t *testing.T) {
		got := appliedLabels(t, map[string]string{
			"controller": "CustomerHandler",
			"method":     "GET",
			"route":      "/api/v1/customers",
		})

		assert.Equal(t, "CustomerHandler", got["controller"])
		assert.Equal(t, "GET", got["method"])
		assert.Equal(t, "/api/v1/customers", got["route"])
	})

	t.Run("high-cardinality keys are dropped", func(t *testing.T) {
		got := appliedLabels(t, map[string]string{
			"controller":  "CustomerHandler",
			"customer_id": "cust-456",
			"request_id":  "req-abc",
			"session_id":  "sess-123",
		})

		assert.Equal(t, "CustomerHandler", got["controller"])
		assert.NotContains(t, got, "customer_id")
		assert.NotContains(t, got, "request_id")
		assert.NotContains(t, got, "session_id")
	})

	t.Run("long values are truncated", func(t *testing.T) {
		got := appliedLabels(t, map[string]string{
			"controller": strings.Repeat("x", 200),
		})

		assert.Len(t, got["controller"], telemetry.MaxLabelValueLength)
	})

	t.Run("empty keys and values are dropped", func(t *testing.T) {
		got := appliedLabels(t, map[string]string{
			"controller": "CustomerHandler",
			"method":     "",
			"":           "value",
		})

		assert.Equal(t, map[string]string{"controller": "CustomerHandler"}, got)
	})

	t.Run("keys are normalized to snake_case", func(t *testing.T) {
		got := appliedLabels(t, map[string]string{
			"My Custom-Key": "value",
		})

		assert.Equal(t, "value", got["my_custom_key"])
	})
}

func TestWithPprofLabels(t *testing.T) {
	t.Run("labels reach the pprof context", func(t *testing.T) {
		var got string
		telemetry.WithPprofLabels(context.Background(), map[string]string{
			"controller": "CustomerHandler",
			"method":     "POST",
		}, func(c context.Context) {
			got, _ = pprof.Label(c, "controller")
		})

		assert.Equal(t, "CustomerHandler", got)
	})

	t.Run("nil and empty maps still run the function", func(t *testing.T) {
		for _, labels := range []map[string]string{nil, {}} {
			called := false
			telemetry.WithPprofLabels(context.Background(), labels, func(c context.Context) {
				called = true
			})
			assert.True(t, called)
		}
	})
}

func TestProfilingScope(t *testing.T) {
	t.Run("builder accumulates every label kind", func(t *testing.T) {
		labels := telemetry.NewProfilingScope(nil).
			WithController("CustomerHandler").
			WithRoute("/api/v1/customers").
			WithMethod("GET").
			WithOperation("ListCustomers").
			WithRegion("db_query").
			Labels()

		assert.Equal(t, "CustomerHandler", labels[telemetry.ProfilingLabelController])
		assert.Equal(t, "/api/v1/customers", labels[telemetry.ProfilingLabelRoute])
		assert.Equal(t, "GET", labels[telemetry.ProfilingLabelMethod])
		assert.Equal(t, "ListCustomers", labels[telemetry.ProfilingLabelOperation])
		assert.Equal(t, "db_query", labels[telemetry.ProfilingLabelRegion])
	})

	t.Run("initial labels seed the scope", func(t *testing.T) {
		scope := telemetry.NewProfilingScope(map[string]string{
			"controller": "InitialController",
			"method":     "GET",
		}).WithRoute("/api/v1/customers")

		labels := scope.Labels()
		assert.Equal(t, "InitialController", labels["controller"])
		assert.Equal(t, "GET", labels["method"])
		assert.Equal(t, "/api/v1/customers", labels["route"])
	})

	t.Run("later writes overwrite", func(t *testing.T) {
		scope := telemetry.NewProfilingScope(map[string]string{"controller": "InitialController"}).
			WithController("NewController")

		assert.Equal(t, "NewController", scope.Labels()["controller"])
	})

	t.Run("custom labels via WithLabel", func(t *testing.T) {
		scope := telemetry.NewProfilingScope(nil).WithLabel("custom_key", "custom_value")

		assert.Equal(t, "custom_value", scope.Labels()["custom_key"])
	})

	t.Run("Labels returns a copy", func(t *testing.T) {
		scope := telemetry.NewProfilingScope(nil).WithController("CustomerHandler")

		leaked := scope.Labels()
		leaked["controller"] = "Modified"

		assert.Equal(t, "CustomerHandler", scope.Labels()["controller"])
	})

	t.Run("initial map is copied too", func(t *testing.T) {
		initial := map[string]string{"controller": "InitialController"}
		scope := telemetry.NewProfilingScope(initial)

		initial["controller"] = "Modified"

		assert.Equal(t, "InitialController", scope.Labels()["controller"])
	})

	t.Run("Run applies the accumulated labels", func(t *testing.T) {
		var got string
		telemetry.NewProfilingScope(nil).
			WithController("CustomerHandler").
			WithMethod("POST").
			Run(context.Background(), func(c context.Context) {
				got, _ = pprof.Label(c, "controller")
			})

		assert.Equal(t, "CustomerHandler", got)
	})
}

func TestHTTPRequestLabels(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		labels := telemetry.HTTPRequestLabels("CustomerHandler", "/api/v1/customers", "GET")

		assert.Equal(t, map[string]string{
			telemetry.ProfilingLabelController: "CustomerHandler",
			telemetry.ProfilingLabelRoute:      "/api/v1/customers",
			telemetry.ProfilingLabelMethod:     "GET",
		}, labels)
	})

	t.Run("empty fields are omitted", func(t *testing.T) {
		assert.Len(t, telemetry.HTTPRequestLabels("CustomerHandler", "", ""), 1)
		assert.Empty(t, telemetry.HTTPRequestLabels("", "", ""))
	})
}

func TestOperationLabels(t *testing.T) {
	t.Run("operation only", func(t *testing.T) {
		labels := telemetry.OperationLabels("CreateCustomer", nil)

		assert.Equal(t, map[string]string{telemetry.ProfilingLabelOperation: "CreateCustomer"}, labels)
	})

	t.Run("extra labels are merged", func(t *testing.T) {
		labels := telemetry.OperationLabels("CreateCustomer", map[string]string{
			"controller": "CustomerHandler",
			"method":     "POST",
		})

		assert.Equal(t, "CreateCustomer", labels[telemetry.ProfilingLabelOperation])
		assert.Equal(t, "CustomerHandler", labels["controller"])
		assert.Equal(t, "POST", labels["method"])
		assert.Len(t, labels, 3)
	})
}

func TestRegionLabels(t *testing.T) {
	labels := telemetry.RegionLabels("db_query", map[string]string{
		"operation": "GetCustomers",
		"table":     "customers",
	})

	assert.Equal(t, "db_query", labels[telemetry.ProfilingLabelRegion])
	assert.Equal(t, "GetCustomers", labels["operation"])
	assert.Equal(t, "customers", labels["table"])
	assert.Len(t, labels, 3)
}

func TestProfilingLabelConstants(t *testing.T) {
	assert.Equal(t, "controller", telemetry.ProfilingLabelController)
	assert.Equal(t, "route", telemetry.ProfilingLabelRoute)
	assert.Equal(t, "method", telemetry.ProfilingLabelMethod)
	assert.Equal(t, "operation", telemetry.ProfilingLabelOperation)
	assert.Equal(t, "region", telemetry.ProfilingLabelRegion)
	assert.Equal(t, 128, telemetry.MaxLabelValueLength)
}

func TestHighCardinalityLabels(t *testing.T) {
	for _, label := range []string{"customer_id", "request_id", "trace_id", "span_id", "session_id"} {
		assert.True(t, telemetry.HighCardinalityLabels[label],
			"label %s should be marked as high cardinality", label)
	}
}

func TestNestedProfilingLabels(t *testing.T) {
	var inner map[string]string

	telemetry.WithProfilingLabels(context.Background(),
		map[string]string{"controller": "CustomerHandler"},
		func(outerCtx context.Context) {
			telemetry.WithProfilingLabels(outerCtx,
				map[string]string{"operation": "QueryDB", "region": "db_query"},
				func(innerCtx context.Context) {
					inner = make(map[string]string)
					pprof.ForLabels(innerCtx, func(key, value string) bool {
						inner[key] = value
						return true
					})
				})
		})

	// Inner scope keeps the outer labels and adds its own.
	assert.Equal(t, "CustomerHandler", inner["controller"])
	assert.Equal(t, "QueryDB", inner["operation"])
	assert.Equal(t, "db_query", inner["region"])
}

func TestWithProfilingLabels_ContextPropagation(t *testing.T) {
	type contextKey string
	key := contextKey("test-key")
	ctx := context.WithValue(context.Background(), key, "test-value")

	telemetry.WithProfilingLabels(ctx, map[string]string{"controller": "CustomerHandler"},
		func(c context.Context) {
			assert.Equal(t, "test-value", c.Value(key))
		})
}

func TestWithProfilingLabels_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			telemetry.WithProfilingLabels(context.Background(), map[string]string{
				"controller": "CustomerHandler",
				"region":     "worker",
			}, func(c context.Context) {})
		}()
	}
	wg.Wait()
}
