package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"artmarket/internal/core/config"
)

func TestToWriterEmitsOneEntryPerWrite(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := ToWriter(zap.New(core), zapcore.InfoLevel)

	n, err := w.Write([]byte("[GIN-debug] GET /api/health\n"))
	require.NoError(t, err)
	assert.Equal(t, 28, n)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "[GIN-debug] GET /api/health", logs.All()[0].Message)
}

func TestNewWithFileRotation(t *testing.T) {
	l, cleanup := New(config.Log{
		Level: "debug",
		JSON:  true,
		File: config.LogFile{
			Enable:    true,
			Filename:  filepath.Join(t.TempDir(), "app.log"),
			MaxSizeMB: 1,
		},
	})
	defer cleanup()
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewBadLevelFallsBackToInfo(t *testing.T) {
	l, cleanup := New(config.Log{Level: "loud"})
	defer cleanup()
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}
