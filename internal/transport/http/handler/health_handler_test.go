package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func init() { gin.SetMode(gin.TestMode) }

func TestHealth(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	h := NewHealthHandler(map[string]Pinger{"db": ok, "redis": down})
	r := gin.New()
	h.MountAPI(r.Group("/api"))
	r.GET("/health", h.Probe)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var live map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &live))
	assert.Equal(t, "Server is running", live["message"])
	assert.NotEmpty(t, live["timestamp"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"success":false,"data":{"db":"ok","redis":"dial tcp: refused"}}`, w.Body.String())
}
