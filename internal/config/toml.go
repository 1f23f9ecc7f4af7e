// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analyze AnalyzeFileConfig `toml:"analyze"`
}

// AnalyzeFileConfig maps analysis settings. Nil fields were not set in the file.
type AnalyzeFileConfig struct {
	ExportFormat   *string  `toml:"export-format"`
	LogLevel       *string  `toml:"log-level"`
	PlotWidth      *float64 `toml:"plot-width"`
	PlotHeight     *float64 `toml:"plot-height"`
	PlotDPI        *int     `toml:"plot-dpi"`
	TermPlotHeight *int     `toml:"term-plot-height"`
	SmoothWindow   *int     `toml:"smooth-window"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}
