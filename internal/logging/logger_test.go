package logging

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
)

func newCaptureLogger(level Level) (*componentLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &componentLogger{
		out:       log.New(&buf, "", 0),
		component: "test",
		level:     level,
		mu:        &defaultMu,
	}, &buf
}

func TestComponentLoggerFormatsComponentAndLevel(t *testing.T) {
	logger, buf := newCaptureLogger(LevelDebug)
	logger.Info("hello %s", "world")

	require.Contains(t, buf.String(), "[INFO]")
	require.Contains(t, buf.String(), "[test]")
	require.Contains(t, buf.String(), "hello world")
}

func TestComponentLoggerFiltersBelowLevel(t *testing.T) {
	logger, buf := newCaptureLogger(LevelWarn)
	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")

	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "kept")
}

func TestNopLoggerDiscards(t *testing.T) {
	// Must not panic and must accept any format.
	Nop().Error("ignored %d", 42)
	require.NotNil(t, OrNop(nil))
}

func TestMultiLoggerFansOut(t *testing.T) {
	first, firstBuf := newCaptureLogger(LevelDebug)
	second, secondBuf := newCaptureLogger(LevelDebug)

	multi := Multi(first, nil, second)
	multi.Info("broadcast")

	require.Contains(t, firstBuf.String(), "broadcast")
	require.Contains(t, secondBuf.String(), "broadcast")
}

func TestMultiLoggerFlattens(t *testing.T) {
	require.Equal(t, Nop(), Multi())

	single, _ := newCaptureLogger(LevelDebug)
	require.Equal(t, Logger(single), Multi(single))
}
