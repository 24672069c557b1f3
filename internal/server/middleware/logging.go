package middleware

import (
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs one line per request through log.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			kv := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.RequestID != "" {
				kv = append(kv, "requestId", v.RequestID)
			}
			if v.Error != nil {
				log.Warn("Request failed", append(kv, "err", v.Error)...)
				return nil
			}
			log.Debug("Request", kv...)
			return nil
		},
	})
}
