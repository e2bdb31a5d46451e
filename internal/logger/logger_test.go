package logger_test

import (
	"testing"

	"cartsvc/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "PRODUCTION", ""} {
		log, err := logger.New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, log.SugaredLogger)
	}
}

func TestLogger_KeyValuePairs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	child := log.With("component", "cart_service")
	child.Debug("loaded", "cart_id", "c-1")
	child.Info("saved", "version", 2)
	child.Warn("retrying", "attempt", 1)
	child.Error("failed", "error", "boom")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "saved", entries[1].Message)

	fields := entries[1].ContextMap()
	assert.Equal(t, "cart_service", fields["component"])
	assert.EqualValues(t, 2, fields["version"])
}

func TestNop(t *testing.T) {
	log := logger.Nop()
	log.Info("discarded", "key", "value")
	log.Sync()
}
