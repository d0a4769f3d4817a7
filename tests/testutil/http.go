package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HTTPTestCase drives a single handler invocation: request shape in,
// expected status and body fields out, with optional hooks around the call.
type HTTPTestCase struct {
	Name           string
	Method         string
	Path           string
	Body           interface{}
	Headers        map[string]string
	ExpectedStatus int
	ExpectedBody   map[string]interface{}
	Setup          func(t *testing.T, tc *TestContext)
	Validate       func(t *testing.T, tc *TestContext)
}

// RunHTTPTestCases runs each case as a subtest against the handler.
func RunHTTPTestCases(t *testing.T, handler gin.HandlerFunc, cases []HTTPTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			RunHTTPTestCase(t, handler, tc)
		})
	}
}

// RunHTTPTestCase invokes the handler with the case's request and checks
// status, body fields, and any custom Validate hook.
func RunHTTPTestCase(t *testing.T, handler gin.HandlerFunc, tc HTTPTestCase) {
	t.Helper()

	testCtx := NewTestContextWithRequest(t, buildRequest(t, tc))
	if tc.Setup != nil {
		tc.Setup(t, testCtx)
	}

	handler(testCtx.Context)

	if tc.ExpectedStatus != 0 {
		assert.Equal(t, tc.ExpectedStatus, testCtx.ResponseCode())
	}
	if tc.ExpectedBody != nil {
		body := JSONResponse(t, testCtx)
		for key, want := range tc.ExpectedBody {
			assert.Equal(t, want, body[key], "response field %q", key)
		}
	}
	if tc.Validate != nil {
		tc.Validate(t, testCtx)
	}
}

func buildRequest(t *testing.T, tc HTTPTestCase) *http.Request {
	t.Helper()

	method := tc.Method
	if method == "" {
		method = http.MethodGet
	}
	path := tc.Path
	if path == "" {
		path = "/"
	}

	var body io.Reader
	if tc.Body != nil {
		body = ToJSONReader(t, tc.Body)
	}

	req := httptest.NewRequest(method, path, body)
	if tc.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range tc.Headers {
		req.Header.Set(k, v)
	}
	return req
}

// JSONResponse decodes the recorded response body into a generic map.
func JSONResponse(t *testing.T, tc *TestContext) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "response is not valid JSON")
	return result
}

// JSONResponseAs decodes the recorded response body into T.
func JSONResponseAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "response is not valid JSON")
	return result
}

// AssertSuccessResponse checks the standard envelope for a successful call:
// success true and no error object.
func AssertSuccessResponse(t *testing.T, tc *TestContext) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.Equal(t, true, resp["success"])
	assert.Nil(t, resp["error"])
}

// AssertErrorResponse checks the standard envelope for a failed call and
// that the error carries the expected code.
func AssertErrorResponse(t *testing.T, tc *TestContext, expectedCode string) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.Equal(t, false, resp["success"])

	errObj, ok := resp["error"].(map[string]interface{})
	require.True(t, ok, "expected an error object in the response")
	assert.Equal(t, expectedCode, errObj["code"])
}

// ToJSONReader marshals v for use as a request body.
func ToJSONReader(t *testing.T, v interface{}) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}
