package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"resumeforge/internal/api/handlers"
	"resumeforge/internal/api/middleware"
	"resumeforge/internal/config"
	"resumeforge/internal/latex"
	"resumeforge/pkg/models"
	"resumeforge/pkg/utils"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, engine *latex.Engine) {
	e.HTTPErrorHandler = errorHandler

	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	// Compilation endpoints block on the external toolchain; give them the
	// compile timeout plus queue headroom instead of the read timeout.
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, cfg.Compiler.Timeout+cfg.Compiler.QueueWait+5*time.Second))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler)
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler)

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		resume := v1.Group("/resume")
		{
			resume.POST("/create", handlers.CreateResumeHandler(engine))
		}

		v1.GET("/templates", handlers.TemplatesHandler(engine))

		compiler := v1.Group("/compiler")
		{
			compiler.GET("/stats", handlers.CompilerStatsHandler(engine))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"service": "Resumeforge",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}

// errorHandler renders errors that escape the handlers (404s, method
// mismatches, middleware timeouts) in the same envelope the handlers use.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	switch e := err.(type) {
	case *utils.CustomError:
		code = e.Code
		message = e.Error()
	case *echo.HTTPError:
		code = e.Code
		message = fmt.Sprintf("%v", e.Message)
	}

	_ = c.JSON(code, models.ErrorResponse{
		Error:     http.StatusText(code),
		Message:   message,
		RequestID: utils.GenerateRequestID(),
		Timestamp: time.Now(),
	})
}
