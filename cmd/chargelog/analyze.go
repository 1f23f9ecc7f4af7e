package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/verte-zerg/chargelog/internal/chart"
	"github.com/verte-zerg/chargelog/internal/export"
	"github.com/verte-zerg/chargelog/internal/fileutil"
	"github.com/verte-zerg/chargelog/internal/loader"
	"github.com/verte-zerg/chargelog/internal/model"
	"github.com/verte-zerg/chargelog/internal/stats"
	"github.com/verte-zerg/chargelog/internal/viewer"
)

// runViewer opens the interactive chart viewer.
var runViewer = viewer.Run

func detectCapabilities(out io.Writer) model.Capabilities {
	caps := model.Capabilities{PNG: chart.Available()}
	if f, ok := out.(*os.File); ok {
		caps.Interactive = term.IsTerminal(int(f.Fd()))
	}
	return caps
}

// analyze runs load, summary, exports and charts for one log file.
func analyze(out io.Writer, cfg model.AnalyzeConfig, caps model.Capabilities, log *logrus.Logger, now time.Time) error {
	if _, err := os.Stat(cfg.InputPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file '%s' not found", cfg.InputPath)
		}
		return fmt.Errorf("failed to stat %s: %w", cfg.InputPath, err)
	}

	if _, err := fmt.Fprintf(out, "Loading log file: %s\n", cfg.InputPath); err != nil {
		return err
	}
	samples, err := loader.LoadFile(cfg.InputPath, log)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cfg.InputPath, err)
	}
	session := stats.NewLog(cfg.InputPath, samples)
	log.Debugf("Loaded %d samples spanning %d seconds", len(samples), session.Metadata.DurationSeconds)

	if err := stats.RenderSummary(out, session); err != nil {
		return err
	}

	if cfg.Export {
		if err := exportSummary(out, cfg, session, now); err != nil {
			return err
		}
	}
	if cfg.XLSXPath != "" {
		if err := export.ExportXLSX(cfg.XLSXPath, session, now); err != nil {
			return fmt.Errorf("failed to export workbook: %w", err)
		}
		if _, err := fmt.Fprintf(out, "Workbook exported to: %s\n", cfg.XLSXPath); err != nil {
			return err
		}
	}

	if cfg.Plot || cfg.SavePlot != "" {
		return plotSession(out, cfg, caps, session, log)
	}
	return nil
}

func exportSummary(out io.Writer, cfg model.AnalyzeConfig, session *model.Log, now time.Time) error {
	var path string
	var err error
	switch cfg.ExportFormat {
	case "yaml":
		path = fileutil.StemPath(cfg.OutputDir, cfg.InputPath, "_summary.yaml")
		err = export.ExportYAML(path, session, now)
	default:
		path = fileutil.StemPath(cfg.OutputDir, cfg.InputPath, "_summary.txt")
		err = stats.ExportReport(path, session, now)
	}
	if err != nil {
		return fmt.Errorf("failed to export summary: %w", err)
	}
	_, err = fmt.Fprintf(out, "Summary exported to: %s\n", path)
	return err
}

// plotSession shows the charts in the terminal viewer, or writes a PNG when
// a file was requested or stdout is not a terminal.
func plotSession(out io.Writer, cfg model.AnalyzeConfig, caps model.Capabilities, session *model.Log, log *logrus.Logger) error {
	if !caps.CanPlot() {
		log.Error("Plotting not available: no terminal and no PNG backend in this build")
		return chart.ErrUnavailable
	}

	target := cfg.SavePlot
	if target == "" {
		if caps.Interactive {
			return runViewer(session, cfg)
		}
		target = fileutil.StemPath(cfg.OutputDir, cfg.InputPath, "_plot.png")
	}

	if !caps.PNG {
		log.Error("Saving plots requires the PNG backend; rebuild without the nochart tag")
		return chart.ErrUnavailable
	}
	opts := chart.Options{Width: cfg.PlotWidth, Height: cfg.PlotHeight, DPI: cfg.PlotDPI}
	if err := chart.Save(target, session, opts); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	_, err := fmt.Fprintf(out, "Plot saved to: %s\n", target)
	return err
}
