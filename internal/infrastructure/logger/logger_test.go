package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taskmaster/todos/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	t.Run("builds json logger", func(t *testing.T) {
		l, err := New(config.LoggerConfig{Level: "info", Format: "json", Output: "stdout"})
		require.NoError(t, err)
		assert.NotNil(t, l.SugaredLogger)
	})

	t.Run("builds file logger", func(t *testing.T) {
		path := t.TempDir() + "/todos.log"
		l, err := New(config.LoggerConfig{Level: "debug", Format: "console", Output: "file", Filename: path})
		require.NoError(t, err)
		l.Infow("hello")
		assert.FileExists(t, path)
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := New(config.LoggerConfig{Level: "loud", Format: "json"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestLogger_LogDatabaseQuery(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.LogDatabaseQuery("list_todos", 1.5, nil)
	l.LogDatabaseQuery("delete_category", 2.5, errors.New("boom"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "list_todos", entries[0].ContextMap()["query"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestLogger_WithComponent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewFromZap(zap.New(core)).WithComponent("repository")

	l.Infow("ready")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "repository", logs.All()[0].ContextMap()["component"])
}

func TestLogger_WithRequestIDAndError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := NewFromZap(zap.New(core))

	base.WithRequestID("req-7").WithError(errors.New("boom")).Errorw("failed")
	base.Infow("unscoped")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
}
