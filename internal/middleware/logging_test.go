package middleware

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLoggerFromCtx(t *testing.T) {
	t.Run("returns the attached request logger", func(t *testing.T) {
		attached := slog.Default().With(slog.String("request_id", "abc"))
		ctx := context.WithValue(context.Background(), loggerKey, attached)

		assert.Same(t, attached, GetLoggerFromCtx(ctx))
	})

	t.Run("falls back to the default logger on a bare context", func(t *testing.T) {
		logger := GetLoggerFromCtx(context.Background())

		assert.NotNil(t, logger)
		assert.Same(t, slog.Default(), logger)
	})
}
