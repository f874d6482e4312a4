// Package cli wires configuration, extraction and rendering into the
// recovery-graph command tree.
package cli

import (
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/selfheal/recovery-graph/internal/config"
	"github.com/selfheal/recovery-graph/internal/logging"
	"github.com/selfheal/recovery-graph/internal/models"
	"github.com/selfheal/recovery-graph/internal/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// app carries the state shared by one command tree.
type app struct {
	v          *viper.Viper
	configPath string
}

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"log-file":         "log_file",
	"cpu-threshold":    "thresholds.cpu",
	"memory-threshold": "thresholds.memory",
	"timestamp-layout": "timestamp_layout",
	"log-level":        "log_level",
	"out":              "output.dir",
	"format":           "output.format",
}

// NewRootCmd builds a fresh command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	d := config.DefaultConfig()

	root := &cobra.Command{
		Use:   "recovery-graph [log-file]",
		Short: "Chart CPU and memory recovery from a PM2 self-healing log",
		Long: `recovery-graph reads the JSON-lines log written by the self-healing monitor,
extracts resource_usage samples and restart triggers, and draws one CPU and one
memory chart with threshold lines and restart markers.

Without a subcommand it behaves like "render".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./recovery-graph.yaml)")
	pf.String("log-file", d.LogFile, "path to the PM2 log file (.gz accepted)")
	pf.Float64("cpu-threshold", d.Thresholds.CPU, "CPU threshold in percent")
	pf.Float64("memory-threshold", d.Thresholds.Memory, "memory threshold in MB")
	pf.String("timestamp-layout", d.TimestampLayout, "Go time layout of the timestamp field")
	pf.String("log-level", d.LogLevel, "log level: debug, info, warn, error, off")
	pf.StringP("out", "o", d.Output.Dir, "directory for rendered charts")
	pf.StringP("format", "f", d.Output.Format, "chart format: png, svg or pdf")
	for name, key := range flagKeys {
		if err := a.v.BindPFlag(key, pf.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}

	root.AddCommand(
		newRenderCmd(a),
		newSummaryCmd(a),
		newServeCmd(a),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// load resolves the configuration. A positional log file overrides
// log_file from every other source.
func (a *app) load(args []string) (*config.Config, error) {
	if len(args) > 0 {
		a.v.Set("log_file", args[0])
	}
	return config.Load(a.v, a.configPath)
}

// extract runs the extractor over the configured log file.
func extract(cfg *config.Config, logger *log.Logger) (*models.Extraction, error) {
	x := parser.NewExtractor(parser.WithTimestampLayout(cfg.TimestampLayout))
	ext, err := x.ExtractFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	st := ext.Stats
	logger.Debugf("extracted %s: lines=%d skipped=%d samples=%d cpu_restarts=%d mem_restarts=%d ignored=%d dropped=%d",
		cfg.LogFile, st.Lines, st.Skipped, st.Samples, st.CPURestarts, st.MemRestarts, st.Ignored, st.Dropped)
	return ext, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*log.Logger, error) {
	return logging.New(cfg.LogLevel, cmd.ErrOrStderr())
}
