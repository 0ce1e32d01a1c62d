package server

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewLogger(LoggingConfig{Level: "info", Format: "json"}, &buf)
		require.NoError(t, err)

		logger.Info("hello", "path", "/x")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "/x", record["path"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewLogger(LoggingConfig{Level: "info", Format: "text"}, &buf)
		require.NoError(t, err)

		logger.Info("hello", "path", "/x")
		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "path=/x")
	})

	t.Run("level filters records", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewLogger(LoggingConfig{Level: "warn"}, &buf)
		require.NoError(t, err)

		logger.Info("hidden")
		assert.Empty(t, buf.String())

		logger.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("level is case insensitive", func(t *testing.T) {
		_, err := NewLogger(LoggingConfig{Level: "DEBUG"}, &bytes.Buffer{})
		assert.NoError(t, err)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := NewLogger(LoggingConfig{Level: "loud"}, &bytes.Buffer{})
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := NewLogger(LoggingConfig{Format: "xml"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}
