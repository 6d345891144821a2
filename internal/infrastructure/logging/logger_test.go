package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("evaluation finished", zap.String("eval_id", "eval_1"), zap.Duration("took", 1500*time.Microsecond))
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "evaluation finished", entry["message"])
	assert.Equal(t, "eval_1", entry["eval_id"])
	assert.Equal(t, 1.5, entry["took"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestNewDevelopmentOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Development: true, Output: &buf})
	require.NoError(t, err)

	logger.Debug("console line", zap.Int("n", 1))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "console line")
	assert.Contains(t, out, `{"n": 1}`)
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		enabled zapcore.Level
		skipped zapcore.Level
	}{
		{"production default", Options{}, zapcore.InfoLevel, zapcore.DebugLevel},
		{"development default", Options{Development: true}, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"explicit", Options{Level: "error"}, zapcore.ErrorLevel, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.opts)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.skipped))
		})
	}
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.ErrorContains(t, err, `invalid log level "loud"`)

	nop := NewOrNop(Options{Level: "loud"})
	assert.False(t, nop.Core().Enabled(zapcore.ErrorLevel))

	assert.True(t, NewOrNop(Options{Level: "warn"}).Core().Enabled(zapcore.WarnLevel))
}
