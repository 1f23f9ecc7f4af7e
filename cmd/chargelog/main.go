// Package main provides the CLI entrypoint for chargelog.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/chargelog/internal/chart"
	"github.com/verte-zerg/chargelog/internal/config"
	"github.com/verte-zerg/chargelog/internal/model"
)

const (
	defaultExportFormat   = "text"
	defaultLogLevel       = "info"
	defaultTermPlotHeight = 10
	defaultSmoothWindow   = 1
)

var (
	analyzeCfg model.AnalyzeConfig
	configPath string

	simulateOut      string
	simulateSeed     int64
	simulatePort     int
	simulateBattery  string
	simulateMode     string
	simulateCapacity float64
	simulateCurrent  float64
	simulateInterval int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chargelog [flags] FILE",
		Short:         "Analyze battery charger CSV logs",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAnalyzeCmd,
	}

	analyzeCfg = model.AnalyzeConfig{}
	flags := rootCmd.Flags()
	flags.BoolVar(&analyzeCfg.Plot, "plot", false, "display charts (PNG next to the log when stdout is not a terminal)")
	flags.StringVar(&analyzeCfg.SavePlot, "save-plot", "", "save the chart as PNG to `FILE`")
	flags.BoolVar(&analyzeCfg.Export, "export", false, "export the summary report")
	flags.StringVar(&analyzeCfg.ExportFormat, "export-format", defaultExportFormat, "summary export format (text|yaml)")
	flags.StringVar(&analyzeCfg.XLSXPath, "xlsx", "", "export summary and samples as a workbook to `FILE`")
	flags.StringVar(&analyzeCfg.OutputDir, "output-dir", "", "directory for derived outputs (default: current directory)")
	flags.StringVar(&analyzeCfg.LogLevel, "log-level", defaultLogLevel, "log level (debug|info|warn|error)")
	flags.Float64Var(&analyzeCfg.PlotWidth, "plot-width", chart.DefaultWidth, "PNG width in inches")
	flags.Float64Var(&analyzeCfg.PlotHeight, "plot-height", chart.DefaultHeight, "PNG height in inches")
	flags.IntVar(&analyzeCfg.PlotDPI, "plot-dpi", chart.DefaultDPI, "PNG resolution")
	flags.IntVar(&analyzeCfg.TermPlotHeight, "term-plot-height", defaultTermPlotHeight, "terminal chart height in rows")
	flags.IntVar(&analyzeCfg.SmoothWindow, "smooth-window", defaultSmoothWindow, "moving average window for terminal charts")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/chargelog/config.toml)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSimulateCmd())

	return rootCmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "export-format", &analyzeCfg.ExportFormat, fileCfg.Analyze.ExportFormat)
	applyStringConfig(cmd, "log-level", &analyzeCfg.LogLevel, fileCfg.Analyze.LogLevel)
	applyFloatConfig(cmd, "plot-width", &analyzeCfg.PlotWidth, fileCfg.Analyze.PlotWidth)
	applyFloatConfig(cmd, "plot-height", &analyzeCfg.PlotHeight, fileCfg.Analyze.PlotHeight)
	applyIntConfig(cmd, "plot-dpi", &analyzeCfg.PlotDPI, fileCfg.Analyze.PlotDPI)
	applyIntConfig(cmd, "term-plot-height", &analyzeCfg.TermPlotHeight, fileCfg.Analyze.TermPlotHeight)
	applyIntConfig(cmd, "smooth-window", &analyzeCfg.SmoothWindow, fileCfg.Analyze.SmoothWindow)

	cfg := analyzeCfg
	cfg.InputPath = args[0]
	if err := config.Validate(cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	return analyze(out, cfg, detectCapabilities(out), log, time.Now())
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := resolveConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# chargelog configuration
# Uncomment a value to enable it. CLI flags override config values.

[analyze]
# export-format = %q      # Summary export format (text|yaml)
# log-level = %q          # debug|info|warn|error
# plot-width = %.1f        # PNG width in inches
# plot-height = %.1f       # PNG height in inches
# plot-dpi = %d            # PNG resolution
# term-plot-height = %d     # Terminal chart height in rows
# smooth-window = %d         # Moving average window for terminal charts
`,
		defaultExportFormat,
		defaultLogLevel,
		chart.DefaultWidth,
		chart.DefaultHeight,
		chart.DefaultDPI,
		defaultTermPlotHeight,
		defaultSmoothWindow,
	)
}
