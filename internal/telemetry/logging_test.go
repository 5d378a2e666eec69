package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerRedactsCredentials(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "debug")

	logger.Info("request sent",
		"endpoint", "getTask",
		"access_token", "T1",
		"header", "Bearer T1",
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "getTask", entry["endpoint"])
	assert.Equal(t, redacted, entry["access_token"])
	assert.Equal(t, redacted, entry["header"])
	assert.Equal(t, "tf", entry["component"])
	assert.Contains(t, entry, "timestamp")
	assert.NotContains(t, buf.String(), "T1")
}

func TestJSONLoggerHonoursLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "warn")

	logger.Info("dropped")
	logger.Warn("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "kept")
}

func TestNewLoggerWritesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "tf.jsonl")
	logger, closer, err := NewLogger(path, "info")
	require.NoError(t, err)

	logger.Info("hello", "password", "hunter2")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "hello")
	assert.NotContains(t, string(raw), "hunter2")
}

func TestNewLoggerWithoutPathDiscards(t *testing.T) {
	t.Parallel()

	logger, closer, err := NewLogger("", "debug")
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}
