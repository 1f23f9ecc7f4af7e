package viewer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/chargelog/internal/chart"
	"github.com/verte-zerg/chargelog/internal/model"
	"github.com/verte-zerg/chargelog/internal/stats"
)

func renderOverview(log *model.Log, window, width int) string {
	if len(log.Samples) == 0 {
		return "No samples."
	}
	parts := []string{
		renderSummaryCards(log, width),
		renderChemistry(log.Metadata),
		renderVoltageSparkline(log, window, width),
	}
	return strings.TrimRight(strings.Join(parts, "\n\n"), "\n")
}

func renderSummaryCards(log *model.Log, width int) string {
	meta := log.Metadata
	cards := []string{
		metricCard("Duration", fmt.Sprintf("%.2f h", stats.DurationHours(meta))),
		metricCard("Capacity", fmt.Sprintf("%.1f mAh", meta.FinalCapacityMah)),
		metricCard("Energy", fmt.Sprintf("%.2f Wh", meta.FinalEnergyWh)),
		metricCard("Voltage", fmt.Sprintf("%.3f-%.3f V", meta.MinVoltage, meta.MaxVoltage)),
		metricCard("Avg Current", fmt.Sprintf("%.3f A", meta.AvgCurrent)),
		metricCard("Samples", fmt.Sprintf("%d", len(log.Samples))),
	}
	if h, ok := stats.EstimateHealth(meta); ok {
		value := fmt.Sprintf("%.1f%% %s", h.Percent, h.Status)
		if style, ok := healthStyles[string(h.Status)]; ok {
			value = style.Render(value)
		}
		cards = append(cards, cardStyle.Render(cardTitleStyle.Render("Health")+"\n"+value))
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderChemistry(meta model.LogMetadata) string {
	chem, ok := model.LookupChemistry(meta.BatteryType)
	if !ok {
		return headerStyle.Render(fmt.Sprintf("Chemistry: %s (no profile)", meta.BatteryType))
	}
	return headerStyle.Render(fmt.Sprintf("Chemistry: %s  cutoff %.2fV  nominal %.2fV  max %.2fV",
		chem.Name, chem.CutoffVoltage, chem.NominalVoltage, chem.MaxVoltage))
}

func renderVoltageSparkline(log *model.Log, window, width int) string {
	values := stats.MovingAverage(stats.Voltages(log.Samples), window)
	values = downsample(values, maxInt(1, width-len("Voltage: ")))
	return "Voltage: " + stats.Sparkline(values)
}

// renderCharts draws the chart panels as braille plots. focus selects a
// single panel, or -1 for all of them.
func renderCharts(log *model.Log, window, width, height, focus int) string {
	if len(log.Samples) == 0 {
		return "No samples."
	}
	panels := chart.Panels(log)
	title := cardValueStyle.Render(chart.Title(log.Metadata))

	if focus >= 0 && focus < len(panels) {
		return strings.TrimRight(title+"\n\n"+renderPanel(panels[focus], window, width, height), "\n")
	}

	if width < gridMinWidth {
		blocks := make([]string, 0, len(panels))
		for _, p := range panels {
			blocks = append(blocks, renderPanel(p, window, width, height))
		}
		return strings.TrimRight(title+"\n\n"+strings.Join(blocks, "\n"), "\n")
	}

	cellWidth := (width - 2) / 2
	cells := make([]string, len(panels))
	for i, p := range panels {
		cells[i] = lipgloss.NewStyle().Width(cellWidth).Render(renderPanel(p, window, cellWidth, height))
	}
	rows := make([]string, 0, (len(cells)+1)/2)
	for i := 0; i < len(cells); i += 2 {
		if i+1 < len(cells) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[i], "  ", cells[i+1]))
		} else {
			rows = append(rows, cells[i])
		}
	}
	return strings.TrimRight(title+"\n\n"+lipgloss.JoinVertical(lipgloss.Left, rows...), "\n")
}

// renderPanel plots the measured series, its moving average when window > 1
// and the panel's guide lines on one value axis.
func renderPanel(p chart.Panel, window, width, height int) string {
	series := panelSeries(p, window)
	var buf bytes.Buffer
	if err := stats.PlotSeriesWithColor(&buf, p.Title, series, stats.PlotWidthFor(width), height, true); err != nil {
		return fmt.Sprintf("Failed to render %s: %v", p.Title, err)
	}
	return strings.TrimRight(buf.String(), "\n") + "\n" + headerStyle.Render("x: "+p.XLabel)
}

func panelSeries(p chart.Panel, window int) []stats.Series {
	series := []stats.Series{{Name: p.YLabel, X: p.X, Values: p.Y}}
	if window > 1 && len(p.Y) > 1 {
		series = append(series, stats.Series{
			Name:   fmt.Sprintf("avg %d", window),
			X:      p.X,
			Values: stats.MovingAverage(p.Y, window),
		})
	}
	if len(p.X) == 0 {
		return series
	}
	span := []float64{p.X[0], p.X[len(p.X)-1]}
	for _, guide := range p.Guides {
		series = append(series, stats.Series{
			Name:   fmt.Sprintf("cutoff %.2f", guide),
			X:      span,
			Values: []float64{guide, guide},
		})
	}
	return series
}

func samplesColumns() []table.Column {
	return []table.Column{
		{Title: "Time (s)", Width: 9},
		{Title: "Voltage", Width: 8},
		{Title: "Current", Width: 8},
		{Title: "Power", Width: 8},
		{Title: "mAh", Width: 9},
		{Title: "Wh", Width: 7},
		{Title: "Mode", Width: 11},
		{Title: "Status", Width: 9},
	}
}

func samplesRows(samples []model.Sample) []table.Row {
	rows := make([]table.Row, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", s.Timestamp),
			fmt.Sprintf("%.3f", s.Voltage),
			fmt.Sprintf("%.3f", s.Current),
			fmt.Sprintf("%.3f", s.Power),
			fmt.Sprintf("%.1f", s.CapacityMah),
			fmt.Sprintf("%.2f", s.EnergyWh),
			s.Mode,
			s.Status,
		})
	}
	return rows
}

func buildSamplesTable(samples []model.Sample, width, height int) table.Model {
	t := table.New(
		table.WithColumns(samplesColumns()),
		table.WithRows(samplesRows(samples)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(samplesTableStyles())
	return t
}

func samplesTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// downsample picks evenly spaced values so at most n remain.
func downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	step := float64(len(values)-1) / float64(maxInt(1, n-1))
	for i := range out {
		out[i] = values[int(float64(i)*step+0.5)]
	}
	return out
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
