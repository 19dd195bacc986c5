// Package testutil holds HTTP helpers shared by handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/domain"
	"crmdesk/internal/tenancy"
)

// AsUser injects u as the authenticated caller, standing in for the
// session middleware.
func AsUser(u *domain.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenancy.Set(c, tenancy.FromUser(u))
		c.Next()
	}
}

// Router builds a test engine with u authenticated on the /api group.
func Router(u *domain.User, register func(api *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(AsUser(u))
	register(api)
	return r
}

func DoJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func Decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// Message returns the "message" field of a JSON body.
func Message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	Decode(t, w, &body)
	msg, _ := body["message"].(string)
	return msg
}

// ProjectRouter mounts register on /api/projects/:id behind scope, the way
// nested project resources are served.
func ProjectRouter(u *domain.User, scope gin.HandlerFunc, register func(project *gin.RouterGroup)) *gin.Engine {
	return Router(u, func(api *gin.RouterGroup) {
		register(api.Group("/projects/:id", scope))
	})
}
