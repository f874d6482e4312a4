package cli

import (
	"encoding/json"

	"github.com/selfheal/recovery-graph/internal/models"
	"github.com/selfheal/recovery-graph/internal/report"
	"github.com/spf13/cobra"
)

func newSummaryCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summary [log-file]",
		Short: "Print counts, peaks and threshold crossings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			s := models.Summarize(ext, cfg.Thresholds.CPU, cfg.Thresholds.Memory)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			report.NewPrinter(cmd.OutOrStdout()).Summary(s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
