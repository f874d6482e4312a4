// handlers_chart.go - Chart image handlers
package api

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/selfheal/recovery-graph/internal/chart"
)

// DefaultChartFormat is served when the request names no format.
const DefaultChartFormat = "svg"

// ChartHandlerImpl implements the ChartHandler interface
type ChartHandlerImpl struct {
	source     SnapshotSource
	thresholds Thresholds
	opts       chart.Options
}

// NewChartHandler creates a chart handler. opts.Format is ignored in favour
// of the format query parameter.
func NewChartHandler(source SnapshotSource, thresholds Thresholds, opts chart.Options) ChartHandler {
	return &ChartHandlerImpl{source: source, thresholds: thresholds, opts: opts}
}

// HandleChart renders /api/charts/:name as svg, png or pdf
func (h *ChartHandlerImpl) HandleChart(c echo.Context) error {
	name := c.Param("name")

	format := strings.ToLower(c.QueryParam("format"))
	if format == "" {
		format = DefaultChartFormat
	}
	contentType, err := chart.ContentType(format)
	if err != nil {
		return NewBadRequestError("unsupported chart format", err)
	}

	snap, err := loadSnapshot(c, h.source)
	if err != nil {
		return err
	}

	charts := chart.Charts(snap.Extraction, h.thresholds.CPU, h.thresholds.Memory)
	ch, ok := chart.Find(charts, name)
	if !ok {
		return NewNotFoundError("chart", name)
	}

	if match := c.Request().Header.Get("If-None-Match"); match != "" && match == c.Response().Header().Get("ETag") {
		return c.NoContent(http.StatusNotModified)
	}

	opts := h.opts
	opts.Format = format
	var buf bytes.Buffer
	if err := chart.Render(&buf, ch, opts); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			return NewNoDataError(ch.Spec.Label)
		}
		return NewInternalError("failed to render chart", err)
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
