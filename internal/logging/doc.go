// Package logging provides structured, context-aware logging on top of zap.
//
// # Overview
//
// The package wraps zap with:
//   - A custom Trace level (-2, below Debug)
//   - Correlation fields taken from the context (trace_id, span_id,
//     request.id, client.ip)
//   - Redaction of sensitive keys, including analysed user text
//   - Level-aware sampling (errors are never sampled)
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, "req_123")
//	logger.Info(ctx, "analysis complete", zap.Int("issues", 3))
//
// Library packages take a *zap.Logger; pass them logger.Underlying().
//
// # Redaction
//
// Keys listed in RedactionConfig.Fields are replaced with [REDACTED] at
// encoding time, for both call-site fields and fields attached with With.
// String values matching a redaction pattern become [REDACTED:pattern].
// The defaults cover credentials and the "text" and "texts" keys, so a
// request body logged by mistake never reaches the output in clear.
//
// # Testing
//
// NewTestLogger records every entry in memory:
//
//	logger := logging.NewTestLogger()
//	doWork(logger.Logger)
//	logger.AssertLogged(t, zapcore.InfoLevel, "analysis complete")
package logging
