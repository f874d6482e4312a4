// handlers_series.go - Series and summary handlers
package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/selfheal/recovery-graph/internal/models"
	"github.com/selfheal/recovery-graph/internal/session"
	"github.com/vmihailenco/msgpack/v5"
)

// Thresholds are the reference lines reported with summaries and charts.
type Thresholds struct {
	CPU    float64
	Memory float64
}

// seriesResponse is the payload for both the JSON and msgpack endpoints.
type seriesResponse struct {
	SnapshotID string             `json:"snapshotId" msgpack:"snapshotId"`
	Extraction *models.Extraction `json:"extraction" msgpack:"extraction"`
}

type summaryResponse struct {
	SnapshotID string `json:"snapshotId"`
	models.Summary
}

// SeriesHandlerImpl implements the SeriesHandler interface
type SeriesHandlerImpl struct {
	source     SnapshotSource
	thresholds Thresholds
}

// NewSeriesHandler creates a new series handler
func NewSeriesHandler(source SnapshotSource, thresholds Thresholds) SeriesHandler {
	return &SeriesHandlerImpl{source: source, thresholds: thresholds}
}

// HandleSeries returns the extraction as JSON
func (h *SeriesHandlerImpl) HandleSeries(c echo.Context) error {
	snap, err := loadSnapshot(c, h.source)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, seriesResponse{SnapshotID: snap.ID, Extraction: snap.Extraction})
}

// HandleSeriesMsgpack returns the extraction in MessagePack format
func (h *SeriesHandlerImpl) HandleSeriesMsgpack(c echo.Context) error {
	snap, err := loadSnapshot(c, h.source)
	if err != nil {
		return err
	}
	data, err := msgpack.Marshal(seriesResponse{SnapshotID: snap.ID, Extraction: snap.Extraction})
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

// HandleSummary returns counts, peaks and threshold crossings
func (h *SeriesHandlerImpl) HandleSummary(c echo.Context) error {
	snap, err := loadSnapshot(c, h.source)
	if err != nil {
		return err
	}
	s := models.Summarize(snap.Extraction, h.thresholds.CPU, h.thresholds.Memory)
	return c.JSON(http.StatusOK, summaryResponse{SnapshotID: snap.ID, Summary: s})
}

// loadSnapshot fetches the current snapshot and sets its ETag.
func loadSnapshot(c echo.Context, source SnapshotSource) (*session.Snapshot, error) {
	snap, err := source.Current(c.Request().Context())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewServiceUnavailableError("log file not found", err)
		}
		return nil, NewInternalError("failed to read log file", err)
	}
	c.Response().Header().Set("ETag", `"`+snap.ID+`"`)
	return snap, nil
}
