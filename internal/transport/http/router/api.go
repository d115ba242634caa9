package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"artmarket/internal/core/config"
	"artmarket/internal/core/server"
	"artmarket/internal/transport/http/handler"
	mdw "artmarket/internal/transport/http/middleware"
	resp "artmarket/internal/transport/http/response"
)

type Options struct {
	Log         *zap.Logger
	Mode        string
	FrontendURL string
	Limits      config.Limits
	Health      *handler.HealthHandler
}

// NewAPIEngine builds the public engine: every module under /api, plus
// /health and /metrics at the root.
func NewAPIEngine(o Options, reg *Registry) *gin.Engine {
	r := base(o)
	r.Use(cors.New(corsConfig(o.FrontendURL)))

	api := r.Group("/api")
	reg.MountAPI(api)
	return r
}

// base carries the middleware chain and ops routes shared by both engines.
func base(o Options) *gin.Engine {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	r := server.NewEngine(o.Mode)
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(o.Log),
		mdw.Metrics(),
		mdw.AccessLog(o.Log),
	)
	if o.Limits.RPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(o.Limits.RPS), max(o.Limits.Burst, 1)))
	}
	if o.Limits.Concurrency > 0 {
		r.Use(mdw.ConcurrencyLimit(o.Limits.Concurrency))
	}
	if o.Limits.MaxBodyMB > 0 {
		r.Use(mdw.MaxBodyBytes(o.Limits.MaxBodyMB << 20))
	}
	r.Use(mdw.Timeout(time.Duration(o.Limits.TimeoutSec) * time.Second))

	if o.Health != nil {
		r.GET("/health", o.Health.Probe)
	}
	r.GET("/metrics", mdw.MetricsHandler())

	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound, "Route not found") })
	r.NoMethod(func(c *gin.Context) { resp.Abort(c, http.StatusMethodNotAllowed, "Method not allowed") })
	return r
}

func corsConfig(origin string) cors.Config {
	cc := cors.DefaultConfig()
	if origin == "" || origin == "*" {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = []string{origin}
		cc.AllowCredentials = true
	}
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", mdw.HeaderRequestID)
	cc.ExposeHeaders = []string{mdw.HeaderRequestID}
	return cc
}
