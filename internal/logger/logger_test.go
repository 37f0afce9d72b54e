package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: "INFO", want: zapcore.InfoLevel},
		{in: "warning", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "fatal", want: zapcore.FatalLevel},
		{in: "bogus", want: zapcore.InfoLevel},
		{in: "", want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("production stage logs JSON at the configured level", func(t *testing.T) {
		log, err := NewLogger(LoggerConfig{Level: "warn", Stage: "prod", EnableJSON: true})
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("local stage logs at debug", func(t *testing.T) {
		log, err := NewLogger(LoggerConfig{Level: "debug", Stage: "local", EnableColor: true})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestInitLoggerReplacesGlobal(t *testing.T) {
	previous := Log
	t.Cleanup(func() { Log = previous })

	t.Setenv("LOG_LEVEL", "error")
	InitLogger("local")

	require.NotNil(t, Log)
	assert.NotSame(t, previous, Log)
	assert.False(t, Log.Core().Enabled(zapcore.WarnLevel))
}
