// Package parser turns PM2 JSON-lines logs into resource and restart series.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/selfheal/recovery-graph/internal/models"
)

// ErrNoLogFile is returned when no log file path is configured.
var ErrNoLogFile = errors.New("no log file configured")

// Extractor reads a log file and builds an Extraction from it.
type Extractor struct {
	layout string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimestampLayout overrides the timestamp layout. An empty layout keeps
// DefaultTimestampLayout.
func WithTimestampLayout(layout string) Option {
	return func(x *Extractor) {
		if layout != "" {
			x.layout = layout
		}
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	x := &Extractor{layout: DefaultTimestampLayout}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// ExtractFile opens path and extracts it. Files ending in .gz are
// decompressed on the fly. Open failures are returned; bad lines never are.
func (x *Extractor) ExtractFile(path string) (*models.Extraction, error) {
	if path == "" {
		return nil, ErrNoLogFile
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		zr, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	return x.Extract(r)
}

// Extract consumes r line by line in file order.
func (x *Extractor) Extract(r io.Reader) (*models.Extraction, error) {
	b := newSeriesBuilder()
	// bufio.Reader rather than Scanner: a single oversized line must not stop
	// the rest of the file from being read.
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			b.consume(line, x.layout)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading log file: %w", err)
		}
	}
	return b.build(), nil
}

// seriesBuilder accumulates the series for a single Extract call.
type seriesBuilder struct {
	ext *models.Extraction
}

func newSeriesBuilder() *seriesBuilder {
	return &seriesBuilder{ext: models.NewExtraction()}
}

func (b *seriesBuilder) consume(line []byte, layout string) {
	b.ext.Stats.Lines++
	rec, ok := ParseLine(line, layout)
	if !ok {
		b.ext.Stats.Skipped++
		return
	}
	b.apply(rec)
}

func (b *seriesBuilder) apply(rec models.LogRecord) {
	e := b.ext
	n := len(e.Times)

	switch rec.Kind() {
	case models.KindResourceUsage:
		e.Times = append(e.Times, rec.Timestamp)
		e.CPU = append(e.CPU, rec.CPUPercent)
		e.Memory = append(e.Memory, rec.MemoryMB)
		e.Stats.Samples++

	case models.KindCPURestart:
		if n == 0 {
			e.Stats.Dropped++
			return
		}
		// The restart is pinned to the reading that caused it, not to the
		// restart line's own timestamp.
		e.CPURestartTimes = append(e.CPURestartTimes, e.Times[n-1])
		e.CPURestartVals = append(e.CPURestartVals, e.CPU[n-1])
		e.Stats.CPURestarts++

	case models.KindMemoryRestart:
		if n == 0 {
			e.Stats.Dropped++
			return
		}
		e.MemRestartTimes = append(e.MemRestartTimes, e.Times[n-1])
		e.MemRestartVals = append(e.MemRestartVals, e.Memory[n-1])
		e.Stats.MemRestarts++

	default:
		e.Stats.Ignored++
	}
}

func (b *seriesBuilder) build() *models.Extraction {
	e := b.ext
	b.ext = nil
	return e
}
