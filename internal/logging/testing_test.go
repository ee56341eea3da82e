package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTestLogger(t *testing.T) {
	logger := NewTestLogger()
	logger.Info(context.Background(), "analysis complete", zap.Int("issues", 3))

	logger.AssertLogged(t, zapcore.InfoLevel, "analysis complete")
	logger.AssertNotLogged(t, zapcore.ErrorLevel, "analysis complete")
	logger.AssertField(t, "analysis", "issues", int64(3))
	logger.AssertNoText(t, "Alex said")
	assert.Equal(t, 1, logger.FilterMessage("complete").Len())

	logger.Reset()
	assert.Empty(t, logger.All())
}
