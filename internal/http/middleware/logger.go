package middleware

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"appsamples/internal/logger"
)

// Logger writes one JSON line per request to stdout.
func Logger(loc *time.Location) fiber.Handler {
	return LoggerWithWriter(os.Stdout, loc)
}

// LoggerWithWriter is Logger with an explicit sink. Each line carries request_id, method, path, status
// and latency in milliseconds, plus the signed-in user when there is one.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	log := logger.NewWithWriter(w, "info", loc).WithOptions(zap.WithCaller(false))

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusFromError(err)
		}

		fields := []zap.Field{
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		}
		if u, ok := CurrentUser(c); ok {
			fields = append(fields, zap.String("user", u.Email))
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("http_request", fields...)
		} else {
			log.Info("http_request", fields...)
		}
		return err
	}
}

func statusFromError(err error) int {
	if e, ok := err.(*fiber.Error); ok {
		return e.Code
	}
	return fiber.StatusInternalServerError
}
