package stats

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/chargelog/internal/fileutil"
	"github.com/verte-zerg/chargelog/internal/model"
)

const (
	reportWidth     = 60
	generatedLayout = "2006-01-02 15:04:05"
)

var (
	heavyRule = strings.Repeat("=", reportWidth)
	lightRule = strings.Repeat("-", reportWidth)
)

// RenderSummary prints the console summary for a session.
func RenderSummary(w io.Writer, log *model.Log) error {
	meta := log.Metadata
	lines := []string{
		"",
		heavyRule,
		"Battery Test Summary - " + filepath.Base(log.Filename),
		heavyRule,
	}
	lines = append(lines, formatPairs([][]string{
		{"Port:", fmt.Sprintf("%d", meta.DisplayPort())},
		{"Battery Type:", meta.BatteryType},
		{"Mode:", meta.Mode},
		{"Duration:", formatDuration(meta)},
		nil,
		{"Capacity:", fmt.Sprintf("%.1f mAh", meta.FinalCapacityMah)},
		{"Energy:", fmt.Sprintf("%.2f Wh", meta.FinalEnergyWh)},
		nil,
		{"Voltage Range:", fmt.Sprintf("%.3fV - %.3fV", meta.MinVoltage, meta.MaxVoltage)},
		{"Avg Voltage:", fmt.Sprintf("%.3fV", meta.AvgVoltage)},
		{"Avg Current:", fmt.Sprintf("%.3fA", meta.AvgCurrent)},
		nil,
		{"Data Points:", fmt.Sprintf("%d", len(log.Samples))},
	})...)
	lines = append(lines, heavyRule, "")
	return writeLines(w, lines)
}

// WriteReport writes the exported text report for a session.
func WriteReport(w io.Writer, log *model.Log, generated time.Time) error {
	meta := log.Metadata
	lines := []string{
		heavyRule,
		"Battery Test Summary - " + filepath.Base(log.Filename),
		heavyRule,
		"Generated: " + generated.Format(generatedLayout),
		"",
	}

	lines = appendSection(lines, "TEST INFORMATION", [][]string{
		{"Port:", fmt.Sprintf("%d", meta.DisplayPort())},
		{"Battery Type:", meta.BatteryType},
		{"Mode:", meta.Mode},
		{"Duration:", formatDuration(meta)},
	})
	lines = appendSection(lines, "RESULTS", [][]string{
		{"Final Capacity:", fmt.Sprintf("%.1f mAh", meta.FinalCapacityMah)},
		{"Final Energy:", fmt.Sprintf("%.2f Wh", meta.FinalEnergyWh)},
	})
	lines = appendSection(lines, "VOLTAGE STATISTICS", [][]string{
		{"Minimum:", fmt.Sprintf("%.3fV", meta.MinVoltage)},
		{"Maximum:", fmt.Sprintf("%.3fV", meta.MaxVoltage)},
		{"Average:", fmt.Sprintf("%.3fV", meta.AvgVoltage)},
		{"Range:", fmt.Sprintf("%.3fV", meta.MaxVoltage-meta.MinVoltage)},
	})
	lines = appendSection(lines, "CURRENT STATISTICS", [][]string{
		{"Average:", fmt.Sprintf("%.3fA", meta.AvgCurrent)},
	})

	sampleRate := "n/a (zero duration)"
	if meta.DurationSeconds < 0 {
		sampleRate = "n/a (negative duration)"
	}
	if rate, ok := SamplesPerMinute(len(log.Samples), meta.DurationSeconds); ok {
		sampleRate = fmt.Sprintf("%.2f samples/minute", rate)
	}
	lines = appendSection(lines, "DATA QUALITY", [][]string{
		{"Data Points:", fmt.Sprintf("%d", len(log.Samples))},
		{"Sample Rate:", sampleRate},
	})

	if health, ok := EstimateHealth(meta); ok {
		lines = append(lines, "BATTERY HEALTH ESTIMATION", lightRule)
		lines = append(lines, formatPairs([][]string{
			{"Assumed rated capacity:", fmt.Sprintf("%.0f mAh", health.RatedCapacityMah)},
			{"Measured capacity:", fmt.Sprintf("%.1f mAh", health.MeasuredMah)},
			{"Health estimation:", fmt.Sprintf("%.1f%%", health.Percent)},
		})...)
		lines = append(lines, "", fmt.Sprintf("Status: %s - %s", health.Status, health.Status.Description()), "")
	}

	lines = append(lines, heavyRule)
	return writeLines(w, lines)
}

// ExportReport writes the text report to path.
func ExportReport(path string, log *model.Log, generated time.Time) error {
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return WriteReport(w, log, generated)
	})
}

func formatDuration(meta model.LogMetadata) string {
	return fmt.Sprintf("%d seconds (%.2f hours)", meta.DurationSeconds, DurationHours(meta))
}

func appendSection(lines []string, title string, pairs [][]string) []string {
	lines = append(lines, title, lightRule)
	lines = append(lines, formatPairs(pairs)...)
	return append(lines, "")
}

// formatPairs aligns label/value rows into two columns. A nil row renders
// as a blank line.
func formatPairs(pairs [][]string) []string {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		if p != nil {
			rows = append(rows, p)
		}
	}
	aligned := formatTable(nil, rows, nil)
	lines := make([]string, 0, len(pairs))
	next := 0
	for _, p := range pairs {
		if p == nil {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, strings.TrimRight(aligned[next], " "))
		next++
	}
	return lines
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
