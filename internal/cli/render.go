package cli

import (
	"errors"

	"github.com/selfheal/recovery-graph/internal/chart"
	"github.com/selfheal/recovery-graph/internal/config"
	"github.com/selfheal/recovery-graph/internal/report"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render [log-file]",
		Short: "Write the CPU and memory charts to files",
		Long: `Extract the log, print the point counts and write cpu.<format> and
memory.<format> into the output directory. A chart whose series is empty is
skipped with a "No ... data found" message.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args)
		},
	}
}

func (a *app) runRender(cmd *cobra.Command, args []string) error {
	cfg, err := a.load(args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	ext, err := extract(cfg, logger)
	if err != nil {
		return err
	}

	p := report.NewPrinter(cmd.OutOrStdout())
	p.Counts(ext)

	if err := cfg.EnsureOutputDir(); err != nil {
		return err
	}
	opts := chartOptions(cfg)
	for _, c := range chart.Charts(ext, cfg.Thresholds.CPU, cfg.Thresholds.Memory) {
		path, err := chart.WriteFile(cfg.Output.Dir, c, opts)
		if errors.Is(err, chart.ErrNoData) {
			p.Missing(c.Spec.Label)
			continue
		}
		if err != nil {
			return err
		}
		logger.Infof("wrote %s chart to %s", c.Spec.Name, path)
	}
	return nil
}

func chartOptions(cfg *config.Config) chart.Options {
	return chart.Options{
		Width:  vg.Length(cfg.Output.WidthIn) * vg.Inch,
		Height: vg.Length(cfg.Output.HeightIn) * vg.Inch,
		Format: cfg.Output.Format,
	}
}
