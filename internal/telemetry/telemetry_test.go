package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fyrsmithlabs/inklude/internal/config"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "disabled skips checks", mutate: func(c *Config) { c.Endpoint = "" }},
		{name: "enabled defaults", mutate: func(c *Config) { c.Enabled = true }},
		{
			name:    "missing endpoint",
			mutate:  func(c *Config) { c.Enabled = true; c.Endpoint = "" },
			wantErr: "endpoint is required",
		},
		{
			name:    "bad protocol",
			mutate:  func(c *Config) { c.Enabled = true; c.Protocol = "udp" },
			wantErr: "protocol must be",
		},
		{
			name:    "insecure remote",
			mutate:  func(c *Config) { c.Enabled = true; c.Endpoint = "collector.example.com:4317" },
			wantErr: "insecure connections",
		},
		{
			name:   "secure remote",
			mutate: func(c *Config) { c.Enabled = true; c.Endpoint = "collector.example.com:4317"; c.Insecure = false },
		},
		{
			name:    "sample rate out of range",
			mutate:  func(c *Config) { c.Enabled = true; c.Sampling.Rate = 1.5 },
			wantErr: "sampling.rate",
		},
		{
			name:    "zero export interval",
			mutate:  func(c *Config) { c.Enabled = true; c.Metrics.ExportInterval = 0 },
			wantErr: "export_interval",
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Enabled = true; c.Shutdown.Timeout = 0 },
			wantErr: "shutdown.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_isLocalEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     bool
	}{
		{"localhost:4317", true},
		{"http://localhost:4318", true},
		{"127.0.0.1:4317", true},
		{"[::1]:4317", true},
		{"localhost", true},
		{"localhost.evil.com:4317", false},
		{"10.0.0.5:4317", false},
		{"https://otel.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			cfg := &Config{Endpoint: tt.endpoint}
			assert.Equal(t, tt.want, cfg.isLocalEndpoint())
		})
	}
}

func TestFromObservability(t *testing.T) {
	cfg := FromObservability(config.ObservabilityConfig{
		EnableTelemetry: true,
		ServiceName:     "inklude-test",
		Endpoint:        "127.0.0.1:4318",
		Protocol:        "http",
		Insecure:        true,
		SampleRate:      0.25,
	}, "v1.2.3")

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "inklude-test", cfg.ServiceName)
	assert.Equal(t, "v1.2.3", cfg.ServiceVersion)
	assert.Equal(t, "127.0.0.1:4318", cfg.Endpoint)
	assert.Equal(t, "http", cfg.Protocol)
	assert.InDelta(t, 0.25, cfg.Sampling.Rate, 1e-9)
	assert.NoError(t, cfg.Validate())

	empty := FromObservability(config.ObservabilityConfig{}, "")
	assert.False(t, empty.Enabled)
	assert.Equal(t, "inklude", empty.ServiceName)
	assert.Equal(t, "dev", empty.ServiceVersion)
}

func TestNew_Disabled(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig(), nil)
	require.NoError(t, err)

	assert.False(t, tel.IsEnabled())
	assert.Equal(t, HealthStatus{Healthy: true}, tel.Health())
	assert.NotNil(t, tel.Tracer("test"))
	assert.NotNil(t, tel.Meter("test"))
	assert.NoError(t, tel.ForceFlush(context.Background()))
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = true
	cfg.Protocol = "carrier-pigeon"

	_, err := New(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid telemetry config")
}

func TestNew_ExportsSpans(t *testing.T) {
	prevTP := otel.GetTracerProvider()
	prevMP := otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	core, logs := observer.New(zap.InfoLevel)
	cfg := NewDefaultConfig()
	cfg.Enabled = true
	cfg.Metrics.Enabled = false
	exp := tracetest.NewInMemoryExporter()

	tel, err := New(context.Background(), cfg, zap.New(core), WithTraceExporter(exp))
	require.NoError(t, err)
	assert.True(t, tel.IsEnabled())
	assert.Equal(t, 1, logs.FilterMessage("telemetry enabled").Len())

	_, span := otel.Tracer("inklude/test").Start(context.Background(), "analyze")
	span.End()

	require.NoError(t, tel.ForceFlush(context.Background()))
	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "analyze", spans[0].Name)
	assert.Contains(t, spans[0].Resource.Attributes(), attribute.String("service.name", "inklude"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, tel.Shutdown(ctx))
	assert.False(t, tel.IsEnabled())
	assert.False(t, tel.Health().Healthy)
}

func TestNilTelemetry(t *testing.T) {
	var tel *Telemetry

	assert.False(t, tel.IsEnabled())
	assert.Equal(t, HealthStatus{Healthy: false, Degraded: true}, tel.Health())
	assert.NotNil(t, tel.Tracer("x"))
	assert.NotNil(t, tel.Meter("x"))
	assert.NoError(t, tel.Shutdown(context.Background()))
	assert.NoError(t, tel.ForceFlush(context.Background()))
}

func TestSetDegraded(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tel := &Telemetry{config: NewDefaultConfig(), logger: zap.New(core)}
	tel.healthy.Store(true)

	tel.setDegraded("meter provider failed", assert.AnError)

	assert.True(t, tel.Health().Degraded)
	assert.True(t, tel.Health().Healthy)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "telemetry degraded: meter provider failed", logs.All()[0].Message)
}

func TestTestTelemetry_RecordsSpansAndMetrics(t *testing.T) {
	tt := NewTestTelemetry()
	ctx := context.Background()

	_, span := tt.Tracer("inklude/test").Start(ctx, "engine.Analyze")
	span.SetAttributes(attribute.Int("issues", 2), attribute.String("tone", "gentle"))
	span.End()

	tt.AssertSpanExists(t, "engine.Analyze")
	tt.AssertSpanAttribute(t, "engine.Analyze", "issues", int64(2))
	tt.AssertSpanAttribute(t, "engine.Analyze", "tone", "gentle")
	assert.Nil(t, tt.SpanByName("missing"))

	counter, err := tt.Meter("inklude/test").Int64Counter("inklude.test.requests")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	m, ok := tt.MetricByName(ctx, "inklude.test.requests")
	require.True(t, ok)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
}

func TestTestTelemetry_Install(t *testing.T) {
	tt := NewTestTelemetry()
	prev := otel.GetTracerProvider()

	restore := tt.Install()
	_, span := otel.Tracer("inklude/test").Start(context.Background(), "global")
	span.End()
	restore()

	tt.AssertSpanExists(t, "global")
	assert.Equal(t, prev, otel.GetTracerProvider())
}
