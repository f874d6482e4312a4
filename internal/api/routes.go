// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/selfheal/recovery-graph/internal/chart"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Source       SnapshotSource
	Thresholds   Thresholds
	ChartOptions chart.Options
	Version      string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Series SeriesHandler
	Chart  ChartHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.Source),
		Series: NewSeriesHandler(deps.Source, deps.Thresholds),
		Chart:  NewChartHandler(deps.Source, deps.Thresholds, deps.ChartOptions),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	apiGroup.GET("/health", handlers.Health.HandleHealth)

	apiGroup.GET("/series", handlers.Series.HandleSeries)
	apiGroup.GET("/series/msgpack", handlers.Series.HandleSeriesMsgpack)
	apiGroup.GET("/summary", handlers.Series.HandleSummary)

	apiGroup.GET("/charts/:name", handlers.Chart.HandleChart)
}

// SetupMiddleware configures common middleware. Request lines go to
// logOutput; health checks are not logged.
func SetupMiddleware(e *echo.Echo, logOutput io.Writer) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Request().URL.Path, "/health")
		},
		Output: logOutput,
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))
}
