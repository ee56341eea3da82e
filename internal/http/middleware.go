package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/inklude/internal/config"
	"github.com/fyrsmithlabs/inklude/internal/logging"
)

// AdminKeyHeader carries the moderation key.
const AdminKeyHeader = "X-API-Key"

// requestContext copies the request id, client IP and logger into the
// request context so handlers and the engine log with correlation fields.
func requestContext(logger *logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := logging.WithRequestID(req.Context(), c.Response().Header().Get(echo.HeaderXRequestID))
			ctx = logging.WithClientIP(ctx, c.RealIP())
			ctx = logging.WithLogger(ctx, logger)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// requestLogger logs one line per request. Bodies are never logged.
func requestLogger(logger *logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("route", c.Path()),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
				zap.Int64("bytes_out", c.Response().Size),
			}
			ctx := c.Request().Context()
			switch {
			case status >= http.StatusInternalServerError:
				if err != nil {
					fields = append(fields, zap.Error(err))
				}
				logger.Error(ctx, "http request", fields...)
			case status >= http.StatusBadRequest:
				logger.Warn(ctx, "http request", fields...)
			default:
				logger.Info(ctx, "http request", fields...)
			}
			return nil
		}
	}
}

// rateLimiter limits clients by IP with a token bucket.
func rateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

// adminAuth guards moderation routes. With no key configured every
// request is rejected.
func adminAuth(key config.Secret) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup: "header:" + AdminKeyHeader,
		Validator: func(got string, _ echo.Context) (bool, error) {
			return validAdminKey(key, got), nil
		},
		ErrorHandler: func(_ error, _ echo.Context) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing admin key")
		},
	})
}

func validAdminKey(key config.Secret, got string) bool {
	if !key.IsSet() || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(key.Value())) == 1
}
