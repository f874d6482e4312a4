// Package chart renders the CPU and memory recovery graphs.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/selfheal/recovery-graph/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

var (
	// ErrNoData is returned when the primary series of a chart is empty.
	ErrNoData = errors.New("no data")
	// ErrUnknownFormat is returned for an unsupported image format.
	ErrUnknownFormat = errors.New("unknown chart format")
)

var (
	colorBlue   = color.RGBA{R: 0x1f, G: 0x4e, B: 0xd8, A: 0xff}
	colorPurple = color.RGBA{R: 0x80, G: 0x00, B: 0x80, A: 0xff}
	colorOrange = color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}
	colorRed    = color.RGBA{R: 0xe0, G: 0x1b, B: 0x1b, A: 0xff}
)

// contentTypes lists the supported formats and their MIME types.
var contentTypes = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
}

// ContentType returns the MIME type for format, or ErrUnknownFormat.
func ContentType(format string) (string, error) {
	ct, ok := contentTypes[strings.ToLower(format)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return ct, nil
}

// Spec describes the labels, colours and threshold of one chart.
type Spec struct {
	Name           string
	Label          string
	Title          string
	YLabel         string
	SeriesLabel    string
	RestartLabel   string
	ThresholdLabel string
	Threshold      float64
	LineColor      color.Color
}

// CPUSpec returns the CPU chart spec for the given threshold in percent.
func CPUSpec(threshold float64) Spec {
	return Spec{
		Name:           "cpu",
		Label:          "CPU",
		Title:          "Self-Healing CPU Recovery Graph",
		YLabel:         "CPU %",
		SeriesLabel:    "CPU Usage (%)",
		RestartLabel:   "CPU Restart Trigger",
		ThresholdLabel: fmt.Sprintf("CPU Threshold (%s%%)", formatNumber(threshold)),
		Threshold:      threshold,
		LineColor:      colorBlue,
	}
}

// MemorySpec returns the memory chart spec for the given threshold in MB.
func MemorySpec(threshold float64) Spec {
	return Spec{
		Name:           "memory",
		Label:          "Memory",
		Title:          "Self-Healing Memory Recovery Graph",
		YLabel:         "Memory (MB)",
		SeriesLabel:    "Memory Usage (MB)",
		RestartLabel:   "Memory Restart Trigger",
		ThresholdLabel: fmt.Sprintf("Memory Threshold (%s MB)", formatNumber(threshold)),
		Threshold:      threshold,
		LineColor:      colorPurple,
	}
}

// Series is the data plotted on one chart.
type Series struct {
	Times    []time.Time
	Values   []float64
	Restarts []models.RestartEvent
}

// Chart pairs a spec with its data.
type Chart struct {
	Spec   Spec
	Series Series
}

// Charts returns the CPU and memory charts for an extraction, in that order.
func Charts(e *models.Extraction, cpuThreshold, memThreshold float64) []Chart {
	return []Chart{
		{
			Spec:   CPUSpec(cpuThreshold),
			Series: Series{Times: e.Times, Values: e.CPU, Restarts: e.CPURestarts()},
		},
		{
			Spec:   MemorySpec(memThreshold),
			Series: Series{Times: e.Times, Values: e.Memory, Restarts: e.MemRestarts()},
		},
	}
}

// Find returns the chart with the given name.
func Find(charts []Chart, name string) (Chart, bool) {
	for _, c := range charts {
		if c.Spec.Name == name {
			return c, true
		}
	}
	return Chart{}, false
}

// Options controls the rendered figure.
type Options struct {
	Width  vg.Length
	Height vg.Length
	Format string
}

// DefaultOptions returns a 12x5 inch PNG figure.
func DefaultOptions() Options {
	return Options{Width: 12 * vg.Inch, Height: 5 * vg.Inch, Format: "png"}
}

// Build assembles the plot: value line, dashed threshold, restart markers,
// legend and grid. It returns ErrNoData when the series is empty.
func Build(c Chart) (*plot.Plot, error) {
	s := c.Series
	if len(s.Values) == 0 {
		return nil, ErrNoData
	}
	if len(s.Times) != len(s.Values) {
		return nil, fmt.Errorf("%s chart: series lengths differ", c.Spec.Name)
	}

	p := plot.New()
	p.Title.Text = c.Spec.Title
	p.X.Label.Text = "Time"
	p.Y.Label.Text = c.Spec.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02 15:04:05"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(toXYs(s.Times, s.Values))
	if err != nil {
		return nil, fmt.Errorf("%s line: %w", c.Spec.Name, err)
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = c.Spec.LineColor
	p.Add(line)
	p.Legend.Add(c.Spec.SeriesLabel, line)

	threshold := thresholdLine(c.Spec)
	p.Add(threshold)
	// a Function has no data range; keep the threshold inside the y axis
	if p.Y.Max < c.Spec.Threshold {
		p.Y.Max = c.Spec.Threshold
	}
	if p.Y.Min > c.Spec.Threshold {
		p.Y.Min = c.Spec.Threshold
	}
	p.Legend.Add(c.Spec.ThresholdLabel, threshold)

	if len(s.Restarts) > 0 {
		markers, err := plotter.NewScatter(restartXYs(s.Restarts))
		if err != nil {
			return nil, fmt.Errorf("%s restarts: %w", c.Spec.Name, err)
		}
		markers.GlyphStyle.Color = colorRed
		markers.GlyphStyle.Radius = vg.Points(5)
		markers.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(markers)
		p.Legend.Add(c.Spec.RestartLabel, markers)
	}

	return p, nil
}

// Render writes the chart to w in opts.Format.
func Render(w io.Writer, c Chart, opts Options) error {
	if _, err := ContentType(opts.Format); err != nil {
		return err
	}
	p, err := Build(c)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, strings.ToLower(opts.Format))
	if err != nil {
		return fmt.Errorf("encoding %s chart: %w", c.Spec.Name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing %s chart: %w", c.Spec.Name, err)
	}
	return nil
}

// WriteFile renders the chart into dir as <name>.<format> and returns the path.
// Nothing is created when the chart has no data.
func WriteFile(dir string, c Chart, opts Options) (string, error) {
	if _, err := ContentType(opts.Format); err != nil {
		return "", err
	}
	if len(c.Series.Values) == 0 {
		return "", ErrNoData
	}

	path := filepath.Join(dir, c.Spec.Name+"."+strings.ToLower(opts.Format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating chart file: %w", err)
	}
	if err := Render(f, c, opts); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing chart file: %w", err)
	}
	return path, nil
}

// toXYs drops NaN and infinite readings; gonum rejects them outright.
func toXYs(times []time.Time, values []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(times[i].Unix()), Y: v})
	}
	return pts
}

// thresholdLine is the dashed horizontal reference line. It spans the whole
// x axis, however narrow the sampled range is.
func thresholdLine(spec Spec) *plotter.Function {
	f := plotter.NewFunction(func(float64) float64 { return spec.Threshold })
	f.LineStyle.Color = colorOrange
	f.LineStyle.Width = vg.Points(1.5)
	f.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	return f
}

func restartXYs(restarts []models.RestartEvent) plotter.XYs {
	pts := make(plotter.XYs, 0, len(restarts))
	for _, r := range restarts {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(r.Time.Unix()), Y: r.Value})
	}
	return pts
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
