package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level string
		json  bool
		want  zapcore.Level
	}{
		{"", true, zapcore.InfoLevel},
		{"debug", false, zapcore.DebugLevel},
		{"WARN", true, zapcore.WarnLevel},
		{"error", false, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		log, err := New(tt.level, tt.json)
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(tt.want))
		if tt.want > zapcore.DebugLevel {
			assert.False(t, log.Core().Enabled(tt.want-1))
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.ErrorContains(t, err, "invalid log level")
}
