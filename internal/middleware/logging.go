package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	maxQueryLog     = 2048
)

// RequestID reuses the caller's X-Request-ID or generates one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(requestIDKey, rid)
		c.Set(requestIDHeader, rid)
		return c.Next()
	}
}

// Logger writes one access log line per request; the level follows the
// response status.
func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler write the response so the status is final.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Method()).
			Str("path", routePath(c)).
			Str("ip", c.IP()).
			Str("query", truncate(string(c.Request().URI().QueryString()), maxQueryLog)).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes_out", len(c.Response().Body())).
			Logger()
		if claims := Claims(c); claims != nil {
			ev = ev.With().Uint("user_id", claims.UserID).Logger()
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logAt(ev.Error(), err)
		case status >= fiber.StatusBadRequest:
			logAt(ev.Warn(), err)
		default:
			ev.Info().Msg("request")
		}
		return nil
	}
}

func logAt(e *zerolog.Event, err error) {
	if err != nil {
		e = e.Err(err)
	}
	e.Msg("request")
}

// Recover turns a panic into a 500 with the standard error envelope.
func Recover() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Str("request_id", RequestIDFrom(c)).
					Str("panic", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				err = deny(c, fiber.StatusInternalServerError, "حدث خطأ في السيرفر")
			}
		}()
		return c.Next()
	}
}

func RequestIDFrom(c *fiber.Ctx) string {
	rid, _ := c.Locals(requestIDKey).(string)
	return rid
}

func routePath(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
		return r.Path
	}
	return c.Path()
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
