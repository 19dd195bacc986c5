package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/domain"
	"crmdesk/internal/pkg/apperror"
	"crmdesk/internal/pkg/response"
	"crmdesk/internal/tenancy"
)

type fakeResolver map[string]*domain.User

func (f fakeResolver) ResolveSession(_ context.Context, token string) (*domain.User, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, apperror.Unauthorized("Invalid or expired session")
}

func sessionRouter(resolver SessionResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(resolver, "token"))
	r.GET("/me", func(c *gin.Context) {
		id := tenancy.MustFromContext(c)
		c.JSON(http.StatusOK, gin.H{"workspace": id.WorkspaceID()})
	})
	r.GET("/admin", AdminOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestSession(t *testing.T) {
	owner := int64(1)
	resolver := fakeResolver{
		"admin":    {ID: 1, Role: domain.RoleAdmin},
		"employee": {ID: 2, Role: domain.RoleEmployee, OwnerID: &owner},
		"orphan":   {ID: 3, Role: domain.RoleEmployee},
	}
	r := sessionRouter(resolver)

	cases := []struct {
		name   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"no credential", func(*http.Request) {}, http.StatusUnauthorized, "Not authenticated"},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "token", Value: "admin"}) }, http.StatusOK, `"workspace":1`},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer employee") }, http.StatusOK, `"workspace":1`},
		{"bad token", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "token", Value: "forged"}) }, http.StatusUnauthorized, "Invalid or expired session"},
		{"orphan employee", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "token", Value: "orphan"}) }, http.StatusUnauthorized, "workspace"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.body)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	owner := int64(1)
	r := sessionRouter(fakeResolver{
		"admin":    {ID: 1, Role: domain.RoleAdmin},
		"employee": {ID: 2, Role: domain.RoleEmployee, OwnerID: &owner},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "employee"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "admin"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestErrorLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(RequestID(), ErrorLogger(log), RequestLogger(log))
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })
	r.GET("/fail", func(c *gin.Context) { response.Fail(c, errors.New("db down")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")
	assert.NotContains(t, w.Body.String(), "kaboom")

	hook.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Message == "request_error" {
			logged = true
			assert.Equal(t, logrus.ErrorLevel, e.Level)
			assert.EqualError(t, e.Data[logrus.ErrorKey].(error), "db down")
			assert.Equal(t, "/fail", e.Data["path"])
			assert.NotEmpty(t, e.Data["request_id"])
		}
	}
	require.True(t, logged)
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/leads", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.NotEqual(t, http.StatusTeapot, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
