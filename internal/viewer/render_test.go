package viewer

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/chargelog/internal/chart"
	"github.com/verte-zerg/chargelog/internal/model"
	"github.com/verte-zerg/chargelog/internal/stats"
)

func TestRenderOverviewLiIon(t *testing.T) {
	out := renderOverview(testLog("Li-ion"), 1, 120)
	for _, want := range []string{"Capacity", "979.4 mAh", "Health", "Chemistry: Li-ion", "cutoff 3.00V", "Voltage: "} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestRenderOverviewWithoutHealth(t *testing.T) {
	out := renderOverview(testLog("NiMH"), 1, 60)
	if strings.Contains(out, "Health") {
		t.Fatalf("unexpected health card for NiMH")
	}
	if !strings.Contains(out, "Chemistry: NiMH (no profile)") {
		t.Fatalf("expected unknown chemistry note:\n%s", out)
	}
}

func TestRenderChartsGrid(t *testing.T) {
	out := renderCharts(testLog("Li-ion"), 1, 120, 6, -1)
	for _, want := range []string{
		"Battery Test Analysis - Port 1 (Li-ion)",
		"Voltage vs Time",
		"Current vs Time",
		"Capacity Accumulation (Final: 979.4 mAh)",
		"Discharge/Charge Curve",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("charts missing %q", want)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 120 {
			t.Fatalf("line exceeds width: %d", w)
		}
	}
}

func TestRenderChartsFocus(t *testing.T) {
	out := renderCharts(testLog("Li-ion"), 1, 80, 6, 3)
	if !strings.Contains(out, "Discharge/Charge Curve") {
		t.Fatalf("expected focused panel")
	}
	if strings.Contains(out, "Current vs Time") {
		t.Fatalf("focused view should show a single panel")
	}
}

func TestPanelSeriesOverlays(t *testing.T) {
	panels := chart.Panels(testLog("Li-ion"))

	names := func(series []stats.Series) []string {
		out := make([]string, 0, len(series))
		for _, s := range series {
			out = append(out, s.Name)
		}
		return out
	}

	got := names(panelSeries(panels[0], 1))
	if strings.Join(got, ",") != "Voltage (V),cutoff 3.00" {
		t.Fatalf("unexpected voltage series: %v", got)
	}
	got = names(panelSeries(panels[0], 5))
	if strings.Join(got, ",") != "Voltage (V),avg 5,cutoff 3.00" {
		t.Fatalf("unexpected smoothed voltage series: %v", got)
	}
	got = names(panelSeries(panels[1], 1))
	if strings.Join(got, ",") != "Current (A)" {
		t.Fatalf("unexpected current series: %v", got)
	}

	noProfile := chart.Panels(testLog("NiMH"))
	if got := panelSeries(noProfile[0], 1); len(got) != 1 {
		t.Fatalf("expected no guide without a chemistry profile, got %d series", len(got))
	}
}

func TestRenderPanelDrawsCutoffOnSharedAxis(t *testing.T) {
	panels := chart.Panels(testLog("Li-ion"))
	out := renderPanel(panels[0], 5, 80, 6)
	for _, want := range []string{"avg 5", "cutoff 3.00", "Legend:", "4.200", "3.000"} {
		if !strings.Contains(out, want) {
			t.Fatalf("panel missing %q:\n%s", want, out)
		}
	}
}

func TestRenderChartsNoSamples(t *testing.T) {
	if got := renderCharts(&model.Log{}, 1, 80, 6, -1); got != "No samples." {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestSamplesRows(t *testing.T) {
	rows := samplesRows(testLog("Li-ion").Samples[:2])
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "60" || rows[1][1] != "4.185" || rows[1][4] != "16.6" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
	if len(rows[0]) != len(samplesColumns()) {
		t.Fatalf("row and column counts differ")
	}
}

func TestDownsample(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	out := downsample(values, 3)
	if len(out) != 3 || out[0] != 0 || out[1] != 4 || out[2] != 8 {
		t.Fatalf("unexpected downsample: %v", out)
	}
	if got := downsample(values, 20); len(got) != len(values) {
		t.Fatalf("short input should pass through")
	}
}

func TestFitLines(t *testing.T) {
	out := fitLines("a\nb\nc", 3, 2)
	if out != "a  \nb  " {
		t.Fatalf("unexpected fit: %q", out)
	}
	out = fitLines("a", 2, 2)
	if out != "a \n  " {
		t.Fatalf("unexpected padding: %q", out)
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("short line should be unchanged")
	}
}
