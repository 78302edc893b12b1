package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entityhub/pkg/logger"
	"github.com/dmitrymomot/entityhub/pkg/transaction"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf)).Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText)).Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("hub"))).Info("msg")
		assert.Equal(t, "hub", decode(t, buf)["component"])
	})

	t.Run("level filter", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("transaction depth from context", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, transaction.LoggerExtractor()),
		)
		ctx, _ := transaction.Begin(context.Background())
		log.InfoContext(ctx, "inside")
		assert.InDelta(t, 1, decode(t, buf)["tx_depth"], 0)
	})

	t.Run("unknown format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("development is text at debug", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment(logger.Development, "svc"), logger.WithOutput(buf))
		log.Debug("msg")
		out := buf.String()
		assert.Contains(t, out, "DEBUG")
		assert.Contains(t, out, "service=svc")
		assert.Contains(t, out, "env=development")
	})

	t.Run("production is json", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment(logger.Production, "svc"), logger.WithOutput(buf))
		log.Debug("hidden")
		log.Info("msg")
		entry := decode(t, buf)
		assert.Equal(t, "svc", entry["service"])
		assert.Equal(t, "production", entry["env"])
	})

	t.Run("unknown falls back to development", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		logger.New(logger.WithEnvironment("qa", ""), logger.WithOutput(buf)).Debug("msg")
		assert.Contains(t, buf.String(), "env=development")
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("overrides preset", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log, err := logger.NewFromConfig(
			logger.Config{Env: "production", Service: "entityhubd", Level: "warn", Format: "TEXT"},
			logger.WithOutput(buf),
		)
		require.NoError(t, err)
		log.Info("dropped")
		log.Warn("kept")
		out := buf.String()
		assert.NotContains(t, out, "dropped")
		assert.Contains(t, out, "msg=kept")
		assert.Contains(t, out, "service=entityhubd")
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()
		_, err := logger.NewFromConfig(logger.Config{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()
		_, err := logger.NewFromConfig(logger.Config{Format: "xml"})
		assert.Error(t, err)
	})
}
