package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

func TestContextFields(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		assert.Empty(t, ContextFields(context.Background()))
	})

	t.Run("request and client", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "abc_123")
		ctx = WithClientIP(ctx, "192.0.2.7")

		enc := zapcore.NewMapObjectEncoder()
		for _, f := range ContextFields(ctx) {
			f.AddTo(enc)
		}
		assert.Equal(t, "abc_123", enc.Fields["request.id"])
		assert.Equal(t, "192.0.2.7", enc.Fields["client.ip"])
	})

	t.Run("trace ids", func(t *testing.T) {
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{1, 2, 3},
			SpanID:     trace.SpanID{4, 5, 6},
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		enc := zapcore.NewMapObjectEncoder()
		for _, f := range ContextFields(ctx) {
			f.AddTo(enc)
		}
		assert.Equal(t, sc.TraceID().String(), enc.Fields["trace_id"])
		assert.Equal(t, sc.SpanID().String(), enc.Fields["span_id"])
		assert.Equal(t, true, enc.Fields["trace_sampled"])
	})
}

func TestWithRequestID_IgnoresInvalid(t *testing.T) {
	tests := []string{"", "has space", "semi;colon", strings.Repeat("a", maxIDLen+1), "bad\xff"}
	for _, id := range tests {
		ctx := WithRequestID(context.Background(), id)
		assert.Empty(t, RequestIDFromContext(ctx), "id %q", id)
	}
}

func TestWithClientIP(t *testing.T) {
	assert.Equal(t, "2001:db8::1", ClientIPFromContext(WithClientIP(context.Background(), "2001:db8::1")))
	assert.Empty(t, ClientIPFromContext(WithClientIP(context.Background(), "not-an-ip")))
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	logger := NewTestLogger()
	ctx := WithLogger(context.Background(), logger.Logger)
	assert.Same(t, logger.Logger, FromContext(ctx))
}
