package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TimeoutConfig returns timeout middleware configuration
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	})
}

// SelectiveTimeoutConfig applies a longer budget to compilation endpoints,
// which block on the external toolchain, and the default everywhere else.
func SelectiveTimeoutConfig(defaultTimeout, compileTimeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		defaultMW := middleware.TimeoutWithConfig(middleware.TimeoutConfig{Timeout: defaultTimeout})
		compileMW := middleware.TimeoutWithConfig(middleware.TimeoutConfig{Timeout: compileTimeout})

		return func(c echo.Context) error {
			if strings.HasPrefix(c.Path(), "/api/v1/resume") {
				return compileMW(next)(c)
			}
			return defaultMW(next)(c)
		}
	}
}
