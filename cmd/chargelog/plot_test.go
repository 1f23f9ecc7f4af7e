//go:build !nochart

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSavePlot(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "chart.png")
	stdout, _, err := runCLI(t, writeLog(t, dir), "--save-plot", target, "--plot-dpi", "30", "--plot-width", "4", "--plot-height", "3")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.Contains(stdout, "Plot saved to: "+target) {
		t.Fatalf("expected save notice:\n%s", stdout)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("expected PNG data")
	}
}

func TestPlotWithoutTerminalWritesStemPNG(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCLI(t, writeLog(t, dir), "--plot", "--output-dir", dir, "--plot-dpi", "30", "--plot-width", "4", "--plot-height", "3")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "battery_log_port1_plot.png")); err != nil {
		t.Fatalf("expected stem PNG: %v", err)
	}
}
