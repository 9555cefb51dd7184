package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"resumeforge/internal/latex"
	"resumeforge/pkg/models"
)

// TemplatesHandler lists the template ids registered at startup
func TemplatesHandler(engine *latex.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.TemplateListResponse{
			Templates: engine.Templates().IDs(),
			Default:   latex.DefaultTemplateID,
		})
	}
}

// CompilerStatsHandler exposes compile pool counters for monitoring
func CompilerStatsHandler(engine *latex.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, engine.PoolStats())
	}
}
