package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/config"
	"crmdesk/internal/database/dbtest"
	"crmdesk/internal/logging"
	"crmdesk/internal/metrics"
	"crmdesk/internal/realtime"
)

const origin = "http://localhost:5173"

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		Port:               8080,
		JWTSecret:          "test-secret-with-enough-length-123",
		SessionTTL:         24 * time.Hour,
		BcryptCost:         4,
		CookieName:         "token",
		CookieSameSite:     "Lax",
		CookiePath:         "/",
		CorsAllowedOrigins: []string{origin},
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logging.Discard()
	srv := httptest.NewServer(Handler(Deps{
		Config:  testConfig(),
		DB:      dbtest.New(t),
		Log:     log,
		Metrics: metrics.New(),
		Broker:  realtime.NewMemoryBroker(),
		Hub:     realtime.NewHub([]string{origin}, log),
	}))
	t.Cleanup(srv.Close)
	return srv
}

// session is a browser-like client that keeps its cookies.
type session struct {
	t    *testing.T
	base string
	http *http.Client
}

func newSession(t *testing.T, srv *httptest.Server) *session {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &session{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (s *session) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.base+path, &buf)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	var out map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(s.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func (s *session) login(email, password string) {
	s.t.Helper()
	resp, _ := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
}

func register(t *testing.T, s *session, name, email string) {
	t.Helper()
	resp, _ := s.do(http.MethodPost, "/api/auth/register", map[string]string{"name": name, "email": email, "password": "P@ssw0rd"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRegisterLoginDashboard(t *testing.T) {
	srv := newServer(t)
	s := newSession(t, srv)

	resp, _ := s.do(http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	register(t, s, "A", "a@x.com")

	resp, body := s.do(http.MethodPost, "/api/auth/register", map[string]string{"name": "A", "email": "a@x.com", "password": "P@ssw0rd"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already registered", body["message"])
	assert.Equal(t, false, body["success"])

	resp, _ = s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@x.com", "password": "P@ssw0rd"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 86400, cookie.MaxAge)

	resp, body = s.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{
		"leads":     float64(0),
		"clients":   float64(0),
		"revenue":   float64(0),
		"openTasks": float64(0),
	}, body)

	resp, _ = s.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.do(http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	srv := newServer(t)
	s := newSession(t, srv)
	register(t, s, "A", "a@x.com")

	wrongPass, body1 := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@x.com", "password": "nope"})
	unknown, body2 := s.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ghost@x.com", "password": "P@ssw0rd"})

	assert.Equal(t, wrongPass.StatusCode, unknown.StatusCode)
	assert.Equal(t, "Invalid email or password", body1["message"])
	assert.Equal(t, body1, body2)
}

func TestLeadConversionScenario(t *testing.T) {
	srv := newServer(t)
	s := newSession(t, srv)
	register(t, s, "A", "a@x.com")
	s.login("a@x.com", "P@ssw0rd")

	resp, body := s.do(http.MethodPost, "/api/leads", map[string]interface{}{"name": "Bob", "expected_value": 1200})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	leadID := int64(body["lead"].(map[string]interface{})["id"].(float64))
	assert.Equal(t, "new", body["lead"].(map[string]interface{})["status"])
	convert := fmt.Sprintf("/api/clients/convert/%d", leadID)

	resp, _ = s.do(http.MethodPost, convert, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(http.MethodPatch, fmt.Sprintf("/api/leads/%d/status", leadID), map[string]string{"status": "closed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.do(http.MethodPost, convert, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotZero(t, body["clientId"])

	resp, body = s.do(http.MethodPost, convert, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Lead already converted", body["message"])

	resp, body = s.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["leads"])
	assert.Equal(t, float64(1), body["clients"])
	assert.Equal(t, float64(1200), body["revenue"])
}

func TestWorkspacesAreIsolated(t *testing.T) {
	srv := newServer(t)
	alice := newSession(t, srv)
	register(t, alice, "Alice", "alice@x.com")
	alice.login("alice@x.com", "P@ssw0rd")

	resp, body := alice.do(http.MethodPost, "/api/clients", map[string]interface{}{"name": "Acme", "email": "acme@x.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	clientID := int64(body["client"].(map[string]interface{})["id"].(float64))

	resp, body = alice.do(http.MethodPost, "/api/projects", map[string]interface{}{
		"name": "Site", "client_id": clientID, "total_amount": 1000,
		"start_date": "2026-01-01", "deadline": "2026-02-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	projectID := int64(body["project"].(map[string]interface{})["id"].(float64))

	mallory := newSession(t, srv)
	register(t, mallory, "Mallory", "mallory@x.com")
	mallory.login("mallory@x.com", "P@ssw0rd")

	for _, path := range []string{
		fmt.Sprintf("/api/clients/%d", clientID),
		fmt.Sprintf("/api/projects/%d", projectID),
		fmt.Sprintf("/api/projects/%d/full", projectID),
		fmt.Sprintf("/api/projects/%d/milestones", projectID),
		fmt.Sprintf("/api/projects/%d/activity", projectID),
		fmt.Sprintf("/api/payments/project/%d", projectID),
		fmt.Sprintf("/api/tasks/project/%d", projectID),
	} {
		resp, _ := mallory.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	resp, body = alice.do(http.MethodGet, fmt.Sprintf("/api/projects/%d/activity", projectID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEmployeeSharesWorkspace(t *testing.T) {
	srv := newServer(t)
	admin := newSession(t, srv)
	register(t, admin, "Owner", "owner@x.com")
	admin.login("owner@x.com", "P@ssw0rd")

	resp, _ := admin.do(http.MethodPost, "/api/users/team", map[string]string{"name": "Emp", "email": "emp@x.com", "password": "Str0ng!Pass"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = admin.do(http.MethodPost, "/api/leads", map[string]string{"name": "Bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	emp := newSession(t, srv)
	emp.login("emp@x.com", "Str0ng!Pass")

	resp, body := emp.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["leads"])

	resp, body = emp.do(http.MethodGet, "/api/users/team", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin access required", body["message"])
}

func TestInfrastructureEndpoints(t *testing.T) {
	srv := newServer(t)
	s := newSession(t, srv)

	resp, body := s.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(raw), `crmdesk_http_requests_total{method="GET",route="/health",status="200"} 1`)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/auth/login", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, origin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
