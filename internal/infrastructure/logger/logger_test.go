package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taskmaster/planner/internal/infrastructure/config"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestNew(t *testing.T) {
	t.Parallel()

	l, err := New(config.LoggerConfig{Level: "debug", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = New(config.LoggerConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestLogger_Fields(t *testing.T) {
	t.Parallel()

	l, logs := observed()
	l.WithComponent("schedules").WithRequestID("req-1").Infow("hello")

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "schedules", ctx["component"])
	assert.Equal(t, "req-1", ctx["request_id"])
}

func TestLogger_LogStorageEvent(t *testing.T) {
	t.Parallel()

	l, logs := observed()
	l.LogStorageEvent("save", "data/schedules.json", 3, nil)
	l.LogStorageEvent("save", "data/schedules.json", 3, errors.New("disk full"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, "disk full", entries[1].ContextMap()["error"])
}

func TestLogger_LogScheduleAction(t *testing.T) {
	t.Parallel()

	l, logs := observed()
	l.LogScheduleAction("create", "s-1", map[string]interface{}{"occurrences": 4})

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "create", ctx["action"])
	assert.Equal(t, "s-1", ctx["id"])
	assert.EqualValues(t, 4, ctx["occurrences"])
}
