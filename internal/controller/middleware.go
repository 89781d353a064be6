package controller

import (
	"time"

	ctx "github.com/krakosik/guessing/internal/context"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestLogger attaches a logger tagged with the request id to the request
// context and logs each finished request.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			request := c.Request()

			logger := logrus.WithFields(logrus.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     request.Method,
				"path":       request.URL.Path,
			})
			c.SetRequest(request.WithContext(ctx.WithLogger(request.Context(), logger)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.WithFields(logrus.Fields{
				"status":  c.Response().Status,
				"latency": time.Since(start).String(),
			}).Info("Request handled")
			return nil
		}
	}
}
