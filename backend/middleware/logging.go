package middleware

import (
	"coursetrack/backend/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	LocalRequestID  = "requestID"
)

// LoggingMiddleware tags every request with an id and logs it once finished.
// 5xx responses log at error, 4xx at warn and the rest at info.
func LoggingMiddleware(logger *utils.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals(LocalRequestID, reqID)
		c.Set(HeaderRequestID, reqID)

		err := c.Next()
		if err != nil {
			// Let the app's error handler write the response before we read the status.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		kv := []interface{}{
			"request_id", reqID,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"ip", c.IP(),
			"latency", time.Since(start).String(),
		}
		if uid, ok := c.Locals(LocalUserID).(uint); ok {
			kv = append(kv, "user_id", uid)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", kv...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", kv...)
		default:
			logger.Info("request", kv...)
		}
		return nil
	}
}
