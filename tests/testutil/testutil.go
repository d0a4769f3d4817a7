// Package testutil carries shared helpers for handler, repository, and
// event tests: a sqlmock-backed GORM handle, gin test contexts, and
// deterministic identifiers.
package testutil

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB is a GORM handle backed by sqlmock, for repository tests that
// script their SQL instead of hitting a real database.
type MockDB struct {
	DB   *gorm.DB
	Mock sqlmock.Sqlmock

	conn *sql.DB
}

// NewMockDB opens a sqlmock-backed GORM connection. The underlying
// connection is closed automatically when the test finishes.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       conn,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &MockDB{DB: db, Mock: mock, conn: conn}
}

// Close releases the underlying connection early; otherwise the test
// cleanup does it.
func (m *MockDB) Close() error {
	return m.conn.Close()
}

// ExpectationsWereMet fails the test if any scripted query did not run.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "unmet database expectations")
}

// TestContext bundles a gin context with the recorder capturing its output.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// NewTestContext returns a gin test context carrying a plain GET /.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()
	return NewTestContextWithRequest(t, httptest.NewRequest(http.MethodGet, "/", nil))
}

// NewTestContextWithRequest returns a gin test context for the given request.
func NewTestContextWithRequest(t *testing.T, req *http.Request) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	c.Request = req

	return &TestContext{Context: c, Recorder: w, Engine: engine}
}

// SetRequestID stores a request ID under the key the request ID middleware
// uses, so handlers under test see one without running the middleware.
func (tc *TestContext) SetRequestID(id string) {
	tc.Context.Set("X-Request-ID", id)
}

// SetHeader sets a header on the underlying request.
func (tc *TestContext) SetHeader(key, value string) {
	tc.Context.Request.Header.Set(key, value)
}

// ResponseBody returns the recorded response body.
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the recorded status code.
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// NewTestUUID derives a reproducible UUID from a seed string, so fixtures
// keep stable identifiers across runs.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestCustomerID is the customer most fixtures hang off of.
func TestCustomerID() uuid.UUID {
	return NewTestUUID("test-customer")
}

// WaitFor polls the condition every 10ms until it holds or the timeout
// passes, and reports whether it held.
func WaitFor(t *testing.T, condition func() bool, timeout time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// RequireWithin fails the test if the condition does not hold within the
// timeout.
func RequireWithin(t *testing.T, condition func() bool, timeout time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	if !WaitFor(t, condition, timeout) {
		require.Fail(t, "condition not met within timeout", msgAndArgs...)
	}
}

// RequireNever fails the test if the condition becomes true at any point
// during the window.
func RequireNever(t *testing.T, condition func() bool, window time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		if condition() {
			require.Fail(t, "condition unexpectedly became true", msgAndArgs...)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
