package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Thresholds.CPU != 70 || cfg.Thresholds.Memory != 500 {
		t.Errorf("Expected default thresholds 70/500, got %v/%v", cfg.Thresholds.CPU, cfg.Thresholds.Memory)
	}
	if cfg.TimestampLayout != DefaultTimestampLayout {
		t.Errorf("Expected default layout, got %q", cfg.TimestampLayout)
	}
	if cfg.Output.Format != "png" || cfg.Output.WidthIn != 12 || cfg.Output.HeightIn != 5 {
		t.Errorf("unexpected output defaults: %+v", cfg.Output)
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := `
log_file: /var/log/pm2/ncr-server-out.log
thresholds:
  cpu: 85
output:
  format: svg
`
	if err := os.WriteFile(filepath.Join(dir, "recovery-graph.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RECOVERY_GRAPH_THRESHOLDS_MEMORY", "750")

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogFile != "/var/log/pm2/ncr-server-out.log" {
		t.Errorf("unexpected log file %q", cfg.LogFile)
	}
	if cfg.Thresholds.CPU != 85 {
		t.Errorf("Expected cpu threshold 85 from file, got %v", cfg.Thresholds.CPU)
	}
	if cfg.Thresholds.Memory != 750 {
		t.Errorf("Expected memory threshold 750 from env, got %v", cfg.Thresholds.Memory)
	}
	if cfg.Output.Format != "svg" {
		t.Errorf("Expected svg format, got %q", cfg.Output.Format)
	}
	// untouched keys keep their defaults
	if cfg.Server.Addr != "127.0.0.1:8089" {
		t.Errorf("Expected default server addr, got %q", cfg.Server.Addr)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	os.WriteFile(path, []byte("log_file: app.log\n"), 0644)

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogFile != "app.log" {
		t.Errorf("unexpected log file %q", cfg.LogFile)
	}

	if _, err := Load(viper.New(), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("thresholds: [unclosed\n"), 0644)

	if _, err := Load(viper.New(), path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero cpu", func(c *Config) { c.Thresholds.CPU = 0 }, "thresholds.cpu"},
		{"negative memory", func(c *Config) { c.Thresholds.Memory = -1 }, "thresholds.memory"},
		{"empty layout", func(c *Config) { c.TimestampLayout = " " }, "timestamp_layout"},
		{"bad format", func(c *Config) { c.Output.Format = "gif" }, "output.format"},
		{"upper format", func(c *Config) { c.Output.Format = "SVG" }, ""},
		{"zero width", func(c *Config) { c.Output.WidthIn = 0 }, "output size"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recovery-graph.yaml")

	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Config
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if got.Thresholds.CPU != 70 || got.Thresholds.Memory != 500 {
		t.Errorf("unexpected thresholds in written config: %+v", got.Thresholds)
	}

	if err := WriteDefault(path, false); err == nil {
		t.Error("Expected error when config already exists")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("Expected forced overwrite to succeed, got %v", err)
	}

	// the written file loads back through viper
	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load of written default failed: %v", err)
	}
	if cfg.Output.Dir != "." {
		t.Errorf("Expected output dir '.', got %q", cfg.Output.Dir)
	}
}

func TestEnsureOutputDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "charts", "nested")
	if err := cfg.EnsureOutputDir(); err != nil {
		t.Fatalf("EnsureOutputDir failed: %v", err)
	}
	if info, err := os.Stat(cfg.Output.Dir); err != nil || !info.IsDir() {
		t.Errorf("Expected directory to exist, err %v", err)
	}
}
