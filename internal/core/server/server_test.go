package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestModeFor(t *testing.T) {
	assert.Equal(t, gin.ReleaseMode, ModeFor("prod"))
	assert.Equal(t, gin.TestMode, ModeFor("test"))
	assert.Equal(t, gin.DebugMode, ModeFor("local"))
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	r := NewEngine(gin.TestMode)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	srv := BuildServer(addr, r, time.Second, time.Second, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, zap.NewNop(), time.Second) }()

	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + addr + "/ping")
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunReportsListenError(t *testing.T) {
	srv := BuildServer("256.0.0.1:bad", http.NotFoundHandler(), time.Second, time.Second, time.Second)
	err := Run(context.Background(), srv, zap.NewNop(), time.Second)
	assert.Error(t, err)
}
