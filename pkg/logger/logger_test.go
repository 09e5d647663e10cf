package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ordercore/config"
	"ordercore/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	defer Replace(nil)()

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	assert.NotNil(t, Get())
	assert.NotNil(t, With(zap.String("k", "v")))
	assert.NotNil(t, WithRequestID("id"))
	assert.NotNil(t, WithContext(map[string]any{"k": 1}))
	assert.NoError(t, Sync())
}

func TestFromContextAddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer Replace(zap.New(core))()

	ctx := persistence.ContextWithRequestID(context.Background(), "req-7")
	FromContext(ctx).Info("handled")
	FromContext(context.Background()).Info("background")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
}

func TestWithContextFieldTypes(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer Replace(zap.New(core))()

	WithContext(map[string]any{
		"order_id": "o-1",
		"items":    3,
		"paid":     true,
	}).Info("order")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "o-1", fields["order_id"])
	assert.EqualValues(t, 3, fields["items"])
	assert.Equal(t, true, fields["paid"])
}

func TestUpdateLevel(t *testing.T) {
	defer Replace(nil)()
	require.NoError(t, Init(&config.LogConfig{Level: "debug", Output: "stdout"}, "development"))
	assert.Equal(t, zapcore.DebugLevel, Level())

	UpdateLevel("warn")
	assert.Equal(t, zapcore.WarnLevel, Level())
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))

	UpdateLevel("nonsense")
	assert.Equal(t, zapcore.InfoLevel, Level())
}

func TestFileOutput(t *testing.T) {
	defer Replace(nil)()
	path := filepath.Join(t.TempDir(), "logs", "ordercore.log")

	require.NoError(t, Init(&config.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	}, "production"))
	for i := range 5 {
		Info("entry", zap.Int("n", i))
	}
	require.NoError(t, Sync())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
