package chart

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/selfheal/recovery-graph/internal/models"
)

func sampleExtraction() *models.Extraction {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	e := models.NewExtraction()
	for i, cpu := range []float64{20, 45, 82, 30} {
		e.Times = append(e.Times, base.Add(time.Duration(i)*10*time.Second))
		e.CPU = append(e.CPU, cpu)
		e.Memory = append(e.Memory, 300+float64(i)*50)
	}
	e.CPURestartTimes = []time.Time{e.Times[2]}
	e.CPURestartVals = []float64{82}
	return e
}

func TestSpecs(t *testing.T) {
	cpu := CPUSpec(70)
	if cpu.ThresholdLabel != "CPU Threshold (70%)" {
		t.Errorf("unexpected cpu threshold label %q", cpu.ThresholdLabel)
	}
	mem := MemorySpec(512.5)
	if mem.ThresholdLabel != "Memory Threshold (512.5 MB)" {
		t.Errorf("unexpected memory threshold label %q", mem.ThresholdLabel)
	}
	if cpu.Title != "Self-Healing CPU Recovery Graph" || mem.Title != "Self-Healing Memory Recovery Graph" {
		t.Errorf("unexpected titles %q / %q", cpu.Title, mem.Title)
	}
}

func TestCharts(t *testing.T) {
	e := sampleExtraction()
	charts := Charts(e, 70, 500)
	if len(charts) != 2 {
		t.Fatalf("Expected 2 charts, got %d", len(charts))
	}
	if charts[0].Spec.Name != "cpu" || charts[1].Spec.Name != "memory" {
		t.Errorf("unexpected chart order: %s, %s", charts[0].Spec.Name, charts[1].Spec.Name)
	}
	if len(charts[0].Series.Restarts) != 1 || len(charts[1].Series.Restarts) != 0 {
		t.Fatalf("restart markers attached to the wrong chart")
	}
	if r := charts[0].Series.Restarts[0]; r.Value != 82 || !r.Time.Equal(e.Times[2]) {
		t.Errorf("Expected restart at the 82%% reading, got %+v", r)
	}
	if charts[1].Series.Values[3] != 450 {
		t.Errorf("memory chart should plot memory values, got %v", charts[1].Series.Values)
	}

	if _, ok := Find(charts, "memory"); !ok {
		t.Error("Expected to find memory chart")
	}
	if _, ok := Find(charts, "disk"); ok {
		t.Error("Expected no disk chart")
	}
}

func TestBuildNoData(t *testing.T) {
	charts := Charts(models.NewExtraction(), 70, 500)
	for _, c := range charts {
		if _, err := Build(c); !errors.Is(err, ErrNoData) {
			t.Errorf("%s: expected ErrNoData, got %v", c.Spec.Name, err)
		}
	}
}

func TestBuildMismatchedSeries(t *testing.T) {
	c := Chart{Spec: CPUSpec(70), Series: Series{Times: []time.Time{time.Now()}, Values: []float64{1, 2}}}
	if _, err := Build(c); err == nil {
		t.Error("Expected error for mismatched series lengths")
	}
}

func TestBuildLegend(t *testing.T) {
	charts := Charts(sampleExtraction(), 70, 500)

	p, err := Build(charts[0])
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if p.Title.Text != "Self-Healing CPU Recovery Graph" {
		t.Errorf("unexpected title %q", p.Title.Text)
	}
	if p.Y.Label.Text != "CPU %" || p.X.Label.Text != "Time" {
		t.Errorf("unexpected axis labels %q / %q", p.X.Label.Text, p.Y.Label.Text)
	}
	// threshold must be inside the y range even though only one reading crosses it
	if p.Y.Min > 70 || p.Y.Max < 82 {
		t.Errorf("y range [%v, %v] should include threshold and peak", p.Y.Min, p.Y.Max)
	}

	p, err = Build(charts[1])
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// every memory reading is below 500; the threshold still widens the axis
	if p.Y.Max < 500 {
		t.Errorf("memory y max %v should reach the 500 MB threshold", p.Y.Max)
	}
}

func TestRenderFormats(t *testing.T) {
	c := Charts(sampleExtraction(), 70, 500)[0]

	var png bytes.Buffer
	opts := DefaultOptions()
	if err := Render(&png, c, opts); err != nil {
		t.Fatalf("Render png failed: %v", err)
	}
	if !bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")) {
		t.Errorf("Expected PNG signature, got %q", png.Bytes()[:8])
	}

	var svg bytes.Buffer
	opts.Format = "svg"
	if err := Render(&svg, c, opts); err != nil {
		t.Fatalf("Render svg failed: %v", err)
	}
	if !strings.Contains(svg.String(), "<svg") {
		t.Error("Expected svg document")
	}

	opts.Format = "bmp"
	if err := Render(&bytes.Buffer{}, c, opts); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestRenderSkipsNonFiniteReadings(t *testing.T) {
	e := sampleExtraction()
	e.CPU[1] = math.Inf(1)
	e.CPU[3] = math.NaN()

	if err := Render(&bytes.Buffer{}, Charts(e, 70, 500)[0], DefaultOptions()); err != nil {
		t.Fatalf("Render failed with non-finite readings: %v", err)
	}
}

func TestRenderSingleSample(t *testing.T) {
	e := models.NewExtraction()
	e.Times = []time.Time{time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)}
	e.CPU = []float64{55}
	e.Memory = []float64{300}
	e.CPURestartTimes = []time.Time{e.Times[0]}
	e.CPURestartVals = []float64{55}

	for _, c := range Charts(e, 70, 500) {
		if err := Render(&bytes.Buffer{}, c, DefaultOptions()); err != nil {
			t.Errorf("%s: Render failed: %v", c.Spec.Name, err)
		}

		p, err := Build(c)
		if err != nil {
			t.Fatalf("%s: Build failed: %v", c.Spec.Name, err)
		}
		if p.Y.Min > c.Spec.Threshold || p.Y.Max < c.Spec.Threshold {
			t.Errorf("%s: y range [%v, %v] misses threshold %v", c.Spec.Name, p.Y.Min, p.Y.Max, c.Spec.Threshold)
		}
	}
}

func TestThresholdLineSpansAxis(t *testing.T) {
	f := thresholdLine(MemorySpec(500))
	// zero XMin/XMax makes the function follow the plot's full x range
	if f.XMin != 0 || f.XMax != 0 {
		t.Errorf("threshold bounded to [%v, %v]", f.XMin, f.XMax)
	}
	for _, x := range []float64{-1e9, 0, 1704103200, 1e12} {
		if got := f.F(x); got != 500 {
			t.Errorf("threshold at x=%v is %v, want 500", x, got)
		}
	}
	if len(f.LineStyle.Dashes) == 0 {
		t.Error("threshold line should be dashed")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.Format = "SVG"

	path, err := WriteFile(dir, Charts(sampleExtraction(), 70, 500)[1], opts)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if path != filepath.Join(dir, "memory.svg") {
		t.Errorf("unexpected path %s", path)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Errorf("Expected non-empty chart file, stat err %v", err)
	}

	empty := Charts(models.NewExtraction(), 70, 500)[0]
	if _, err := WriteFile(dir, empty, opts); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cpu.svg")); !os.IsNotExist(err) {
		t.Error("Expected no file for an empty chart")
	}
}

func TestContentType(t *testing.T) {
	if ct, err := ContentType("svg"); err != nil || ct != "image/svg+xml" {
		t.Errorf("ContentType(svg) = %q, %v", ct, err)
	}
	if _, err := ContentType("gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}
