package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-iam/pkg/auth"
	"github.com/tendant/simple-iam/pkg/config"
	iamerrors "github.com/tendant/simple-iam/pkg/errors"
	"github.com/tendant/simple-iam/pkg/token"
)

// createTestConfig returns an in-memory configuration with the cheapest
// allowed bcrypt cost
func createTestConfig() *config.Config {
	return &config.Config{
		StoreBackend:  config.StoreMemory,
		LogLevel:      "info",
		LookupTimeout: "5s",
		Token:         config.TokenConfig{Secret: "test-secret-key-for-testing-only", Issuer: "simple-iam"},
		Password:      config.PasswordConfig{Algorithm: "bcrypt", BcryptCost: 10},
		RateLimit:     config.RateLimitConfig{Enabled: false},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	rc, err := NewConfig(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(rc.LoginLimiter.Close)

	r := chi.NewRouter()
	SetupRoutes(r, rc)
	return r
}

func do(h http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) iamerrors.ServerError {
	t.Helper()
	var body struct {
		Error iamerrors.ServerError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

func login(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	rec := do(h, http.MethodPost, "/api/v1/login", `{"username":"`+username+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok auth.Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	return tok.Token
}

func TestUndeclaredEndpoints(t *testing.T) {
	h := newTestServer(t, createTestConfig())

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"OutsidePrefix", http.MethodGet, "/nowhere"},
		{"InsidePrefix", http.MethodGet, "/api/v1/groups"},
		{"UnderRoles", http.MethodGet, "/api/v1/roles/1/members"},
		{"UndeclaredMethod", http.MethodPatch, "/api/v1/roles"},
		{"LoginGet", http.MethodGet, "/api/v1/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, tt.path, "", "")
			assert.Equal(t, http.StatusNotFound, rec.Code)
			se := errorOf(t, rec)
			assert.Equal(t, iamerrors.ErrCodeEndpointNotFound, se.Code)
			assert.Equal(t, "endpoint not found", se.Description)
		})
	}
}

func TestCreateUserMissingPassword(t *testing.T) {
	h := newTestServer(t, createTestConfig())

	rec := do(h, http.MethodPost, "/api/v1/users", `{"name":"bob"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	se := errorOf(t, rec)
	assert.Equal(t, iamerrors.ErrCodeInvalidArgument, se.Code)
	assert.Contains(t, se.Description, "password")

	rec = do(h, http.MethodGet, "/api/v1/users", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":[]}`, rec.Body.String())
}

func TestAliceScenario(t *testing.T) {
	h := newTestServer(t, createTestConfig())

	rec := do(h, http.MethodPost, "/api/v1/users", `{"name":"alice","password":"correct-horse"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "correct-horse")
	assert.NotContains(t, rec.Body.String(), "hashed")

	tok := login(t, h, "alice", "correct-horse")
	require.NotEmpty(t, tok)

	rec = do(h, http.MethodPost, "/api/v1/login:verify", `{"token":"`+tok+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var claims token.Claims
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claims))
	assert.Equal(t, "alice", claims.Username)
	assert.NotZero(t, claims.UserID)

	rec = do(h, http.MethodGet, "/api/v1/me", "", tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"alice"`)

	t.Run("WrongPassword", func(t *testing.T) {
		rec := do(h, http.MethodPost, "/api/v1/login", `{"username":"alice","password":"wrong"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		wrong := errorOf(t, rec)

		rec = do(h, http.MethodPost, "/api/v1/login", `{"username":"mallory","password":"wrong"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, wrong, errorOf(t, rec))
	})

	t.Run("TamperedToken", func(t *testing.T) {
		last := tok[len(tok)-1]
		swap := byte('A')
		if last == 'A' {
			swap = 'B'
		}
		tampered := tok[:len(tok)-1] + string(swap)

		rec := do(h, http.MethodPost, "/api/v1/login:verify", `{"token":"`+tampered+`"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, iamerrors.ErrCodeUnauthorized, errorOf(t, rec).Code)
	})

	t.Run("MeWithoutToken", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/api/v1/me", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	cfg := createTestConfig()
	cfg.RequireAuth = true
	h := newTestServer(t, cfg)

	rec := do(h, http.MethodGet, "/api/v1/roles", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, iamerrors.ErrCodeUnauthorized, errorOf(t, rec).Code)

	rec = do(h, http.MethodPost, "/api/v1/users", `{"name":"alice","password":"correct-horse"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRolesCRUD(t *testing.T) {
	h := newTestServer(t, createTestConfig())

	rec := do(h, http.MethodPost, "/api/v1/roles", `{"name":"admin"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":1,"name":"admin"}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/api/v1/roles", `{"name":"admin"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, iamerrors.ErrCodeAlreadyExists, errorOf(t, rec).Code)

	rec = do(h, http.MethodPut, "/api/v1/roles/1", `{"name":"owner"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":1,"name":"owner"}`, rec.Body.String())

	rec = do(h, http.MethodDelete, "/api/v1/roles/1", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(h, http.MethodGet, "/api/v1/roles/1", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, iamerrors.ErrCodeNotFound, errorOf(t, rec).Code)
}

func TestLoginRateLimit(t *testing.T) {
	cfg := createTestConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, LoginCapacity: 2, LoginPerMinute: 1, BucketTTL: "1h"}
	h := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		rec := do(h, http.MethodPost, "/api/v1/login", `{"username":"nobody","password":"x"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := do(h, http.MethodPost, "/api/v1/login", `{"username":"nobody","password":"x"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, iamerrors.ErrCodeRateLimitExceeded, errorOf(t, rec).Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// CRUD endpoints are not throttled
	rec = do(h, http.MethodGet, "/api/v1/roles", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewConfigPostgresWithoutPool(t *testing.T) {
	cfg := createTestConfig()
	cfg.StoreBackend = config.StorePostgres

	_, err := NewConfig(cfg, nil)
	assert.ErrorIs(t, err, ErrNoPool)
}
