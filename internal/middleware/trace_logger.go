package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TraceLoggerMiddleware stores a logger carrying trace_id and span_id in Locals "logger"
// and logs each finished request at debug level.
func TraceLoggerMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		spanContext := trace.SpanFromContext(c.UserContext()).SpanContext()

		traceLogger := logger
		if spanContext.IsValid() {
			traceLogger = logger.With(
				zap.String("trace_id", spanContext.TraceID().String()),
				zap.String("span_id", spanContext.SpanID().String()),
			)
		}

		c.Locals("logger", traceLogger)

		start := time.Now()
		err := c.Next()

		traceLogger.Debug("request handled",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)

		return err
	}
}
