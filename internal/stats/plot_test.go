package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlotSeriesOverlayUsesSharedAxis(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeriesWithColor(&buf, "Voltage vs Time", []Series{
		{Name: "Voltage (V)", X: []float64{0, 0.5, 1}, Values: []float64{4.2, 3.9, 3.7}},
		{Name: "avg 5", X: []float64{0, 0.5, 1}, Values: []float64{4.1, 3.95, 3.8}},
		{Name: "cutoff", X: []float64{0, 1}, Values: []float64{3.0, 3.0}},
	}, 12, 5, false)
	if err != nil {
		t.Fatalf("PlotSeriesWithColor failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Voltage vs Time",
		"Voltage (V): min=3.70 max=4.20",
		"cutoff: min=3.00 max=3.00",
		"4.200 │",
		"3.000 │",
		"Legend:",
		"avg 5 (dashed)",
		"cutoff (dotted)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer")
	}
}

func TestPlotSeriesSingleUsesValueAxis(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeriesWithColor(&buf, "Voltage vs Time", []Series{
		{Name: "Voltage", X: []float64{0, 0.5, 1}, Values: []float64{4.2, 3.9, 3.7}},
	}, 12, 5, false)
	if err != nil {
		t.Fatalf("PlotSeriesWithColor failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Legend:") {
		t.Fatalf("single series should not carry a legend")
	}
	if !strings.Contains(out, "4.200 │") || !strings.Contains(out, "3.700 │") {
		t.Fatalf("expected value axis labels, got:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1+1+5 {
		t.Fatalf("expected title, range and 5 rows, got %d lines", len(lines))
	}
}

func TestPlotSeriesFlatSeriesWidensAxis(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeriesWithColor(&buf, "", []Series{
		{Name: "Current", Values: []float64{1, 1, 1}},
	}, 10, 3, false)
	if err != nil {
		t.Fatalf("PlotSeriesWithColor failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2.000 │") || !strings.Contains(out, "0.000 │") {
		t.Fatalf("expected widened axis around 1, got:\n%s", out)
	}
}

func TestPlotSeriesForcedColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	err := PlotSeriesWithColor(&buf, "", []Series{
		{Name: "Voltage", Values: []float64{4.2, 3.7}},
		{Name: "cutoff", Values: []float64{3.0, 3.0}},
	}, 10, 4, true)
	if err != nil {
		t.Fatalf("PlotSeriesWithColor failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, colorPalette[0].code) || !strings.Contains(out, colorPalette[1].code) {
		t.Fatalf("expected one color per series")
	}
}

func TestPlotWidthFor(t *testing.T) {
	axisWidth := axisLabelWidth + utf8.RuneCountInString(axisSeparator)
	total := 80
	expected := total - axisWidth
	if expected < minPlotWidth {
		expected = minPlotWidth
	}
	if got := PlotWidthFor(total); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResampleByXBinsAlongX(t *testing.T) {
	xs := []float64{0, 1, 2, 10}
	ys := []float64{1, 1, 1, 5}
	out := resampleByX(xs, ys, 11)
	if len(out) != 11 {
		t.Fatalf("expected 11 bins, got %d", len(out))
	}
	if out[0] != 1 || out[10] != 5 {
		t.Fatalf("unexpected endpoints: %v", out)
	}
	// bins 3..9 are empty and interpolate between x=2 and x=10.
	if math.Abs(out[6]-3) > 1e-9 {
		t.Fatalf("expected interpolated midpoint 3, got %v", out[6])
	}
}

func TestResampleByXConstantX(t *testing.T) {
	out := resampleByX([]float64{5, 5}, []float64{1, 3}, 4)
	if len(out) != 4 {
		t.Fatalf("expected 4 values, got %d", len(out))
	}
	if out[0] != 1 || out[3] != 3 {
		t.Fatalf("expected index resampling fallback, got %v", out)
	}
}

func TestFormatAxisValue(t *testing.T) {
	cases := map[float64]string{
		4.2:      "4.200",
		2410.5:   "2410.500",
		123456.7: "123456.7",
	}
	for v, want := range cases {
		if got := formatAxisValue(v); got != want {
			t.Fatalf("formatAxisValue(%v): expected %q, got %q", v, want, got)
		}
	}
}
