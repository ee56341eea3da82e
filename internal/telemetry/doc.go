// Package telemetry installs OpenTelemetry tracer and meter providers for
// inklude.
//
// When telemetry is disabled the global no-op providers stay in place, so
// instrumented code (the engine's per-analysis span, the HTTP request
// metrics) costs next to nothing. When enabled, spans and metrics are
// exported over OTLP, by gRPC or HTTP, to a collector.
//
// # Usage
//
//	tel, err := telemetry.New(ctx, cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
// Create telemetry before the engine and HTTP server: both resolve their
// tracer and meter from the global providers at construction time.
//
// # Testing
//
// NewTestTelemetry records spans and metrics in memory. Install sets it as
// the global provider and returns a function restoring the previous ones.
package telemetry
