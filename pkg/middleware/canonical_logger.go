package middleware

import (
	"time"

	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CanonicalLoggerMiddleware writes one "http_request" line per request,
// carrying every field handlers added through logger.AddToContext.
// Successful requests to a quiet path are logged at debug level.
func CanonicalLoggerMiddleware(log *logger.CanonicalLogger, quiet ...string) fiber.Handler {
	quietPaths := make(map[string]bool, len(quiet))
	for _, p := range quiet {
		quietPaths[p] = true
	}

	return func(c *fiber.Ctx) error {
		lc := logger.NewLogContext()
		c.SetUserContext(logger.WithLogContext(c.UserContext(), lc))

		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			lc.AddFields(zap.String(logger.FieldRequestID, id))
		}

		start := time.Now()
		defer func() {
			elapsed := time.Since(start)
			status := c.Response().StatusCode()

			fields := append([]zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("route", c.Route().Path),
				zap.Int(logger.FieldStatus, status),
				zap.Int64("duration_ms", elapsed.Milliseconds()),
			}, lc.Fields()...)

			switch requestLevel(status, quietPaths[c.Path()]) {
			case zapcore.ErrorLevel:
				log.Error("http_request", fields...)
			case zapcore.DebugLevel:
				log.Debug("http_request", fields...)
			default:
				log.Info("http_request", fields...)
			}
		}()

		return c.Next()
	}
}

func requestLevel(status int, quiet bool) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status < 400 && quiet:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
