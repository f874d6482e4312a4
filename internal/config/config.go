// Package config loads recovery-graph settings from YAML, environment and flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults matching the self-healing monitor's restart triggers.
const (
	DefaultCPUThreshold    = 70.0
	DefaultMemoryThreshold = 500.0
	DefaultTimestampLayout = "2006-01-02 15:04:05"
	DefaultConfigName      = "recovery-graph"
	EnvPrefix              = "RECOVERY_GRAPH"
)

// Config is the root configuration structure.
type Config struct {
	LogFile         string           `mapstructure:"log_file" yaml:"log_file"`
	TimestampLayout string           `mapstructure:"timestamp_layout" yaml:"timestamp_layout"`
	LogLevel        string           `mapstructure:"log_level" yaml:"log_level"`
	Thresholds      ThresholdsConfig `mapstructure:"thresholds" yaml:"thresholds"`
	Output          OutputConfig     `mapstructure:"output" yaml:"output"`
	Server          ServerConfig     `mapstructure:"server" yaml:"server"`
}

// ThresholdsConfig holds the reference lines drawn on each chart.
type ThresholdsConfig struct {
	CPU    float64 `mapstructure:"cpu" yaml:"cpu"`
	Memory float64 `mapstructure:"memory" yaml:"memory"`
}

// OutputConfig controls chart files written by the render command.
type OutputConfig struct {
	Dir      string  `mapstructure:"dir" yaml:"dir"`
	Format   string  `mapstructure:"format" yaml:"format"`
	WidthIn  float64 `mapstructure:"width_in" yaml:"width_in"`
	HeightIn float64 `mapstructure:"height_in" yaml:"height_in"`
}

// ServerConfig contains HTTP viewer settings.
type ServerConfig struct {
	Addr                   string `mapstructure:"addr" yaml:"addr"`
	ReadTimeoutSeconds     int    `mapstructure:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds" yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogFile:         "",
		TimestampLayout: DefaultTimestampLayout,
		LogLevel:        "info",
		Thresholds: ThresholdsConfig{
			CPU:    DefaultCPUThreshold,
			Memory: DefaultMemoryThreshold,
		},
		Output: OutputConfig{
			Dir:      ".",
			Format:   "png",
			WidthIn:  12,
			HeightIn: 5,
		},
		Server: ServerConfig{
			Addr:                   "127.0.0.1:8089",
			ReadTimeoutSeconds:     30,
			WriteTimeoutSeconds:    30,
			ShutdownTimeoutSeconds: 10,
		},
	}
}

// SetDefaults registers every key on v so env lookups and Unmarshal see them.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("timestamp_layout", d.TimestampLayout)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("thresholds.cpu", d.Thresholds.CPU)
	v.SetDefault("thresholds.memory", d.Thresholds.Memory)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.width_in", d.Output.WidthIn)
	v.SetDefault("output.height_in", d.Output.HeightIn)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout_seconds", d.Server.ReadTimeoutSeconds)
	v.SetDefault("server.write_timeout_seconds", d.Server.WriteTimeoutSeconds)
	v.SetDefault("server.shutdown_timeout_seconds", d.Server.ShutdownTimeoutSeconds)
}

// Load resolves configuration from flags bound on v, RECOVERY_GRAPH_* env
// vars, the YAML file and defaults, in that order. With an empty path it
// looks for recovery-graph.yaml in the working directory and tolerates its
// absence; an explicit path must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. The log file path is checked by the commands
// that need it.
func (c *Config) Validate() error {
	if !positiveFinite(c.Thresholds.CPU) {
		return fmt.Errorf("invalid config: thresholds.cpu must be a positive number, got %v", c.Thresholds.CPU)
	}
	if !positiveFinite(c.Thresholds.Memory) {
		return fmt.Errorf("invalid config: thresholds.memory must be a positive number, got %v", c.Thresholds.Memory)
	}
	if strings.TrimSpace(c.TimestampLayout) == "" {
		return errors.New("invalid config: timestamp_layout must not be empty")
	}
	switch strings.ToLower(c.Output.Format) {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("invalid config: output.format must be png, svg or pdf, got %q", c.Output.Format)
	}
	if !positiveFinite(c.Output.WidthIn) || !positiveFinite(c.Output.HeightIn) {
		return fmt.Errorf("invalid config: output size must be positive, got %vx%v", c.Output.WidthIn, c.Output.HeightIn)
	}
	if c.Server.Addr == "" {
		return errors.New("invalid config: server.addr must not be empty")
	}
	return nil
}

// EnsureOutputDir creates the chart output directory.
func (c *Config) EnsureOutputDir() error {
	if c.Output.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", c.Output.Dir, err)
	}
	return nil
}

// WriteDefault writes the default configuration as YAML to path. An existing
// file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
