// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/selfheal/recovery-graph/internal/session"
)

// SnapshotSource yields the extraction for the log file's current state.
// *session.Store satisfies it.
type SnapshotSource interface {
	Path() string
	Current(ctx context.Context) (*session.Snapshot, error)
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SeriesHandler exposes the extracted series
type SeriesHandler interface {
	HandleSeries(c echo.Context) error
	HandleSeriesMsgpack(c echo.Context) error
	HandleSummary(c echo.Context) error
}

// ChartHandler renders chart images
type ChartHandler interface {
	HandleChart(c echo.Context) error
}
