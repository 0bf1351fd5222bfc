package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func setupTestZap() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestZapLogger_LogMode(t *testing.T) {
	logger := NewZapLogger(zap.NewNop(), Config{LogLevel: Error})

	infoLogger := logger.LogMode(Info)
	assert.Equal(t, Info, infoLogger.(*ZapLogger).LogLevel)
	assert.Equal(t, Error, logger.(*ZapLogger).LogLevel)
}

func TestZapLogger_LogLevels(t *testing.T) {
	ctx := context.Background()
	zapLogger, logs := setupTestZap()
	logger := NewZapLogger(zapLogger, Config{LogLevel: Info})

	logger.Info(ctx, "info message", 1)
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "info message", entries[0].Message)
	assert.Contains(t, entries[0].ContextMap(), "data")
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.NotContains(t, entries[2].ContextMap(), "data")
}

func TestZapLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("Normal trace", func(t *testing.T) {
		zapLogger, logs := setupTestZap()
		NewZapLogger(zapLogger, Config{LogLevel: Info}).Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT COUNT(*) FROM todos", 1
		}, nil)

		require.Equal(t, 1, logs.Len())
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "SELECT COUNT(*) FROM todos", fields["sql"])
		assert.Equal(t, int64(1), fields["rows"])
	})

	t.Run("Error trace", func(t *testing.T) {
		zapLogger, logs := setupTestZap()
		NewZapLogger(zapLogger, Config{LogLevel: Error}).Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT * FROM missing", -1
		}, assert.AnError)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, assert.AnError.Error(), entry.ContextMap()["error"])
		assert.NotContains(t, entry.ContextMap(), "rows")
	})

	t.Run("Silent", func(t *testing.T) {
		zapLogger, logs := setupTestZap()
		NewZapLogger(zapLogger, Config{LogLevel: Silent}).Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 1
		}, assert.AnError)
		assert.Zero(t, logs.Len())
	})
}

func TestZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DPanicLevel, ZapLevel(Silent))
	assert.Equal(t, zapcore.ErrorLevel, ZapLevel(Error))
	assert.Equal(t, zapcore.WarnLevel, ZapLevel(Warn))
	assert.Equal(t, zapcore.InfoLevel, ZapLevel(Info))
}
