package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/chargelog/internal/model"
)

func TestDefaultConfigPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	want := filepath.Join(dir, "chargelog", "config.toml")
	if got := DefaultConfigPath(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if cfg.Analyze.PlotDPI != nil || cfg.Analyze.ExportFormat != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigAnalyzeSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[analyze]
export-format = "yaml"
plot-dpi = 150
plot-width = 8.5
smooth-window = 5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	a := cfg.Analyze
	if a.ExportFormat == nil || *a.ExportFormat != "yaml" {
		t.Fatalf("unexpected export-format: %v", a.ExportFormat)
	}
	if a.PlotDPI == nil || *a.PlotDPI != 150 {
		t.Fatalf("unexpected plot-dpi: %v", a.PlotDPI)
	}
	if a.PlotWidth == nil || *a.PlotWidth != 8.5 {
		t.Fatalf("unexpected plot-width: %v", a.PlotWidth)
	}
	if a.PlotHeight != nil || a.LogLevel != nil {
		t.Fatalf("unset keys should stay nil")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[analyze]\nplot-dip = 100\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "plot-dip") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[analyze\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func validConfig() model.AnalyzeConfig {
	return model.AnalyzeConfig{
		InputPath:      "battery_log_port1.csv",
		ExportFormat:   "text",
		LogLevel:       "info",
		PlotWidth:      12,
		PlotHeight:     10,
		PlotDPI:        300,
		TermPlotHeight: 10,
		SmoothWindow:   1,
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*model.AnalyzeConfig)
		want   string
	}{
		{"format", func(c *model.AnalyzeConfig) { c.ExportFormat = "json" }, "--export-format must be one of: text, yaml"},
		{"dpi", func(c *model.AnalyzeConfig) { c.PlotDPI = 0 }, "--plot-dpi must be > 0"},
		{"width", func(c *model.AnalyzeConfig) { c.PlotWidth = -1 }, "--plot-width must be > 0"},
		{"smooth", func(c *model.AnalyzeConfig) { c.SmoothWindow = 0 }, "--smooth-window must be >= 1"},
		{"level", func(c *model.AnalyzeConfig) { c.LogLevel = "trace" }, "--log-level must be one of"},
		{"input", func(c *model.AnalyzeConfig) { c.InputPath = "" }, "input file is required"},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(&cfg)
		err := Validate(cfg)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected %q, got %v", tc.name, tc.want, err)
		}
	}
}
