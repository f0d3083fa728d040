// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dvalis/opendnsctl/internal/config"
)

// bufferSyncer adapts a bytes.Buffer to zapcore.WriteSyncer.
type bufferSyncer struct {
	bytes.Buffer
}

func (b *bufferSyncer) Sync() error { return nil }

func TestInitialize(t *testing.T) {
	t.Run("console format colorizes levels", func(t *testing.T) {
		ResetForTest()
		var buf bufferSyncer

		Initialize(config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "opendnsctl-test",
		}, zapcore.AddSync(&buf))

		GetLogger().Info("console logger check")

		output := buf.String()
		assert.Contains(t, output, "INFO")
		assert.Contains(t, output, "console logger check")
		assert.Contains(t, output, colorGreen, "info level should be colorized green")
		assert.Contains(t, output, colorReset)
	})

	t.Run("json format emits valid JSON", func(t *testing.T) {
		ResetForTest()
		var buf bufferSyncer

		Initialize(config.LoggerConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "opendnsctl-test",
		}, zapcore.AddSync(&buf))

		GetLogger().Warn("json logger check", zap.String("key", "value"))

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output should be valid JSON")
		assert.Equal(t, "json logger check", entry["msg"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		ResetForTest()
		var buf bufferSyncer

		Initialize(config.LoggerConfig{
			Level:  "loudest",
			Format: "json",
		}, zapcore.AddSync(&buf))

		GetLogger().Debug("should be suppressed")
		GetLogger().Info("should be visible")

		output := buf.String()
		assert.NotContains(t, output, "should be suppressed")
		assert.Contains(t, output, "should be visible")
	})

	t.Run("log file sink receives entries", func(t *testing.T) {
		ResetForTest()
		var buf bufferSyncer
		logFile := filepath.Join(t.TempDir(), "opendnsctl.log")

		Initialize(config.LoggerConfig{
			Level:   "info",
			Format:  "console",
			LogFile: logFile,
		}, zapcore.AddSync(&buf))

		GetLogger().Info("file sink check")
		Sync()

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "file sink check")
	})
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	ResetForTest()
	logger := GetLogger()
	require.NotNil(t, logger, "fallback logger must always be available")
}
