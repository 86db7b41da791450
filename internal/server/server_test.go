package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventplanner/internal/config"
	"eventplanner/internal/models"
	"eventplanner/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "server-test-secret-with-at-least-32-chars"

type testEnv struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Count   *int                `json:"count"`
	Errors  []models.FieldError `json:"errors"`
	Code    string              `json:"code"`
	Error   string              `json:"error"`
}

func testConfig() *config.Config {
	return &config.Config{
		Port:         "0",
		Env:          "test",
		JWTSecret:    testSecret,
		JWTExpiresIn: time.Hour,
		BcryptCost:   bcrypt.MinCost,
	}
}

func newTestEnv(t *testing.T, cfg *config.Config, rdb *redis.Client) *testEnv {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	db := testutil.NewTestDB(t)
	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	return &testEnv{srv: srv, app: srv.NewApp(), db: db}
}

func (e *testEnv) token(t *testing.T, user *models.User) string {
	t.Helper()
	tok, err := e.srv.authService.IssueToken(user)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func future(d time.Duration) string {
	return time.Now().UTC().Add(d).Format(time.RFC3339)
}

func TestServer_NewServerWithDepsRequiresDatabase(t *testing.T) {
	_, err := NewServerWithDeps(testConfig(), nil, nil)
	assert.Error(t, err)
}

func TestServer_HealthChecks(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "disabled", body.Checks["redis"])
}

func TestServer_ReadinessWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	env := newTestEnv(t, nil, rdb)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mr.Close()
	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServer_UnknownRoute(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	status, body := env.do(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, body.Success)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestServer_ParseIDRejectsGarbage(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	for _, path := range []string{"/api/events/abc", "/api/events/0", "/api/venues/-4"} {
		status, body := env.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "Invalid ID", body.Message, path)
	}

	status, body := env.do(t, http.MethodGet, "/api/attendees/event/x", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid event ID", body.Message)
}

func TestHumanizeParam(t *testing.T) {
	tests := map[string]string{
		"id":           "ID",
		"eventId":      "event ID",
		"venueGroupId": "venue group ID",
		"slug":         "slug",
	}
	for in, want := range tests {
		assert.Equal(t, want, humanizeParam(in), in)
	}
}
