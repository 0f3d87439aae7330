package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentica/userkit/pkg/logger"
)

func TestAttrs(t *testing.T) {
	t.Parallel()

	t.Run("error attr", func(t *testing.T) {
		attr := logger.Error(errors.New("boom"))
		assert.Equal(t, "error", attr.Key)
	})

	t.Run("nil error yields empty attr", func(t *testing.T) {
		attr := logger.Error(nil)
		assert.Empty(t, attr.Key)
	})

	t.Run("token attr is masked", func(t *testing.T) {
		attr := logger.Token("eyJhbGciOiJIUzI1NiJ9.secret.payload")
		assert.Equal(t, "eyJhbGci...", attr.Value.String())
	})

	t.Run("short token kept as is", func(t *testing.T) {
		attr := logger.Token("abc")
		assert.Equal(t, "abc", attr.Value.String())
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json output by default", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))
		log.Info("hello", logger.Component("test"))

		require.Contains(t, buf.String(), `"component":"test"`)
	})

	t.Run("text output in development", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("userkit"), logger.WithOutput(&buf))
		log.Debug("hello")

		assert.Contains(t, buf.String(), "service=userkit")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.New(logger.WithFormat(logger.Format("xml")))
		})
	})

	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})
}
