// Package report prints the diagnostics shown before and around rendering.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/selfheal/recovery-graph/internal/models"
)

// Printer writes diagnostics to w. Styling only applies when w is a terminal.
type Printer struct {
	w     io.Writer
	label lipgloss.Style
	warn  lipgloss.Style
	head  lipgloss.Style
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		label: r.NewStyle().Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("208")),
		head:  r.NewStyle().Bold(true).Underline(true),
	}
}

// Counts prints the three point counts for an extraction.
func (p *Printer) Counts(e *models.Extraction) {
	fmt.Fprintf(p.w, "%s %d\n", p.label.Render("CPU points:"), len(e.CPU))
	fmt.Fprintf(p.w, "%s %d\n", p.label.Render("CPU restart points:"), len(e.CPURestartVals))
	fmt.Fprintf(p.w, "%s %d\n", p.label.Render("Memory restart points:"), len(e.MemRestartVals))
}

// Missing reports a chart that was skipped because its series is empty.
func (p *Printer) Missing(label string) {
	fmt.Fprintln(p.w, p.warn.Render(fmt.Sprintf("No %s data found", label)))
}

// Summary prints the summary block.
func (p *Printer) Summary(s models.Summary) {
	fmt.Fprintln(p.w, p.head.Render("Recovery summary"))
	fmt.Fprintln(p.w)
	p.row("Lines read:", fmt.Sprintf("%d (%d skipped)", s.Lines, s.Skipped))
	p.row("Resource samples:", fmt.Sprintf("%d", s.Samples))
	if s.TimeRange != nil {
		p.row("First sample:", s.TimeRange.Start.Format(time.DateTime))
		p.row("Last sample:", s.TimeRange.End.Format(time.DateTime))
	}
	if s.Samples > 0 {
		p.row("Peak CPU:", fmt.Sprintf("%.2f %%", s.PeakCPU))
		p.row("Peak memory:", fmt.Sprintf("%.2f MB", s.PeakMemory))
	}
	p.row(fmt.Sprintf("Above CPU %g%%:", s.CPUThreshold), fmt.Sprintf("%d", s.CPUAbove))
	p.row(fmt.Sprintf("Above memory %g MB:", s.MemoryThreshold), fmt.Sprintf("%d", s.MemoryAbove))
	p.row("CPU restarts:", fmt.Sprintf("%d", s.CPURestarts))
	p.row("Memory restarts:", fmt.Sprintf("%d", s.MemRestarts))
}

func (p *Printer) row(label, value string) {
	fmt.Fprintf(p.w, "  %s %s\n", p.label.Render(fmt.Sprintf("%-22s", label)), value)
}
