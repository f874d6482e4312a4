// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	source  SnapshotSource
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, source SnapshotSource) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		source:  source,
	}
}

// HandleHealth reports the server version, the watched log file and the
// snapshot currently served. An unreadable log file does not fail the check.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	resp := map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"logFile": h.source.Path(),
	}
	snap, err := h.source.Current(c.Request().Context())
	if err != nil {
		resp["logFileError"] = err.Error()
	} else {
		resp["snapshotId"] = snap.ID
		resp["loadedAt"] = snap.LoadedAt
		resp["samples"] = len(snap.Extraction.Times)
	}
	return c.JSON(http.StatusOK, resp)
}
