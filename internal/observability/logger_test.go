// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/usher/internal/config"
)

// syncBuffer adapts bytes.Buffer to zapcore.WriteSyncer so tests can
// inspect console output without touching stdout.
type syncBuffer struct {
	bytes.Buffer
}

func (b *syncBuffer) Sync() error { return nil }

func TestInitialize(t *testing.T) {

	t.Run("console format with colors", func(t *testing.T) {
		ResetForTest()
		var buf syncBuffer

		cfg := config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "usher",
			Colors:      config.ColorConfig{Info: "green"},
		}
		Initialize(cfg, &buf)
		GetLogger().Info("console message")

		output := buf.String()
		assert.Contains(t, output, "INFO")
		assert.Contains(t, output, "console message")
		assert.Contains(t, output, colorGreen)
		assert.Contains(t, output, colorReset)
	})

	t.Run("json format", func(t *testing.T) {
		ResetForTest()
		var buf syncBuffer

		cfg := config.LoggerConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "usher",
		}
		Initialize(cfg, &buf)
		GetLogger().Warn("structured message", zap.String("run_id", "r1"))

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output should be valid JSON")
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "usher", entry["logger"])
		assert.Equal(t, "structured message", entry["msg"])
		assert.Equal(t, "r1", entry["run_id"])
	})

	t.Run("level filtering", func(t *testing.T) {
		ResetForTest()
		var buf syncBuffer

		Initialize(config.LoggerConfig{Level: "warn", Format: "json"}, &buf)
		GetLogger().Info("filtered out")
		GetLogger().Warn("kept")

		output := buf.String()
		assert.NotContains(t, output, "filtered out")
		assert.Contains(t, output, "kept")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		ResetForTest()
		var buf syncBuffer

		Initialize(config.LoggerConfig{Level: "extremely-loud", Format: "json"}, &buf)
		GetLogger().Debug("too quiet")
		GetLogger().Info("audible")

		output := buf.String()
		assert.NotContains(t, output, "too quiet")
		assert.Contains(t, output, "audible")
	})

	t.Run("file core writes json", func(t *testing.T) {
		ResetForTest()
		var buf syncBuffer
		logFile := filepath.Join(t.TempDir(), "usher-test.log")

		cfg := config.LoggerConfig{
			Level:   "debug",
			Format:  "console",
			LogFile: logFile,
			MaxSize: 1,
		}
		Initialize(cfg, &buf)
		GetLogger().Info("goes to both cores")
		Sync()

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		line := strings.TrimSpace(string(data))
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, "goes to both cores", entry["msg"])
	})

	t.Run("second initialize is a no-op", func(t *testing.T) {
		ResetForTest()
		var first, second syncBuffer

		Initialize(config.LoggerConfig{Level: "info", Format: "json"}, &first)
		Initialize(config.LoggerConfig{Level: "info", Format: "json"}, &second)
		GetLogger().Info("one core only")

		assert.Contains(t, first.String(), "one core only")
		assert.Empty(t, second.String())
	})
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	ResetForTest()
	logger := GetLogger()
	require.NotNil(t, logger, "fallback logger must always be available")
}

var _ zapcore.WriteSyncer = (*syncBuffer)(nil)
