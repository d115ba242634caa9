package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"artmarket/internal/core/config"
)

type mod struct {
	name  string
	prio  int
	order *[]string
}

func (m mod) Priority() int { return m.prio }

func (m mod) MountAPI(g *gin.RouterGroup) {
	*m.order = append(*m.order, m.name)
	g.GET("/"+m.name, func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) })
}

type adminOnly struct{ order *[]string }

func (a adminOnly) MountAdmin(g *gin.RouterGroup) {
	*a.order = append(*a.order, "admin")
	g.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) })
}

func get(r http.Handler, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegistryMountsByPriority(t *testing.T) {
	var order []string
	reg := NewRegistry(mod{"b", 20, &order}, mod{"a", 10, &order}, adminOnly{&order})

	r := NewAPIEngine(Options{Log: zap.NewNop(), Mode: gin.TestMode}, reg)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, http.StatusOK, get(r, "/api/a", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/admin/v1/ping", nil).Code)

	order = nil
	admin := NewAdminEngine(Options{Mode: gin.TestMode}, reg)
	assert.Equal(t, []string{"admin"}, order)
	assert.Equal(t, http.StatusOK, get(admin, "/admin/v1/ping", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(admin, "/api/a", nil).Code)
}

func TestNoRouteEnvelope(t *testing.T) {
	r := NewAPIEngine(Options{Mode: gin.TestMode}, NewRegistry())
	w := get(r, "/api/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route not found"}`, w.Body.String())
}

func TestCORSAllowsFrontendOrigin(t *testing.T) {
	var order []string
	r := NewAPIEngine(Options{Mode: gin.TestMode, FrontendURL: "http://localhost:5173"}, NewRegistry(mod{"a", 1, &order}))

	w := get(r, "/api/a", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = get(r, "/api/a", map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimitFromConfig(t *testing.T) {
	var order []string
	r := NewAPIEngine(Options{
		Mode:   gin.TestMode,
		Limits: config.Limits{RPS: 0.001, Burst: 2},
	}, NewRegistry(mod{"a", 1, &order}))

	assert.Equal(t, http.StatusOK, get(r, "/api/a", nil).Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/a", nil).Code)
	w := get(r, "/api/a", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}
