// Package viewer provides the Bubble Tea chart viewer for a loaded session.
package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/chargelog/internal/model"
)

const (
	tabOverview = iota
	tabCharts
	tabSamples
)

const (
	defaultPlotHeight = 10
	// Terminals narrower than this stack the chart grid vertically.
	gridMinWidth = 100
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	healthStyles    = map[string]lipgloss.Style{
		"GOOD": lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true),
		"FAIR": lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")).Bold(true),
		"POOR": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true),
	}
)

// Model implements the Bubble Tea chart viewer.
type Model struct {
	log *model.Log

	window     int
	plotHeight int
	// focus is the chart panel shown full width, or -1 for the grid.
	focus int

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	samplesTable table.Model
	tableLayout  tableLayout

	width  int
	height int
}

type tableLayout struct {
	width  int
	height int
}

// NewModel constructs a viewer for log.
func NewModel(log *model.Log, cfg model.AnalyzeConfig) *Model {
	m := &Model{
		log:        log,
		window:     maxInt(1, cfg.SmoothWindow),
		plotHeight: cfg.TermPlotHeight,
		focus:      -1,
		tabs:       []string{"Overview", "Charts", "Samples"},
	}
	if m.plotHeight <= 0 {
		m.plotHeight = defaultPlotHeight
	}
	m.samplesTable = buildSamplesTable(log.Samples, 0, 1)
	m.initViewports()
	return m
}

// Run opens the viewer on the alternate screen and blocks until it exits.
func Run(log *model.Log, cfg model.AnalyzeConfig) error {
	program := tea.NewProgram(NewModel(log, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabSamples {
			m.samplesTable.Focus()
		} else {
			m.samplesTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.window = nextCurveWindow(m.window)
			m.renderTabContents()
			return m, nil
		case "-":
			m.window = prevCurveWindow(m.window)
			m.renderTabContents()
			return m, nil
		case "0", "1", "2", "3", "4":
			if m.activeTab == tabCharts {
				m.focus = int(msg.String()[0]-'0') - 1
				m.renderTabContents()
				m.viewports[tabCharts].GotoTop()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabSamples {
				m.samplesTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSamples {
				m.samplesTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabSamples {
				var cmd tea.Cmd
				m.samplesTable, cmd = m.samplesTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setSamplesTableSize(m.width, vpHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabSamples {
		m.samplesTable.Focus()
	} else {
		m.samplesTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	settings := padLines(m.renderSettings(), m.width)
	return tabs + "\n" + settings
}

func (m *Model) renderSettings() string {
	meta := m.log.Metadata
	view := "grid"
	if m.focus >= 0 {
		view = fmt.Sprintf("panel %d", m.focus+1)
	}
	summary := fmt.Sprintf("Port %d  %s  %s  window=%d  view=%s",
		meta.DisplayPort(), meta.BatteryType, meta.Mode, m.window, view)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Smooth: -/=  Quit: q"
	if m.activeTab == tabCharts {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Panel: 1-4 (0 grid)  Smooth: -/=  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabSamples {
		if len(m.log.Samples) == 0 {
			return fitLines("No samples.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.samplesTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.log, m.window, width))
	m.viewports[tabCharts].SetContent(renderCharts(m.log, m.window, width, m.plotHeight, m.focus))
}

func (m *Model) setSamplesTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.samplesTable.SetWidth(width)
	m.samplesTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustSamplesTableHeight(height)
	if m.tableLayout.height != viewportHeight {
		m.tableLayout.height = viewportHeight
		m.samplesTable.SetHeight(viewportHeight)
	}
}

// adjustSamplesTableHeight corrects for header and border rows so the
// rendered table fills exactly bodyHeight lines.
func (m *Model) adjustSamplesTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.samplesTable.Height()
	viewHeight := lipgloss.Height(m.samplesTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.samplesTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.samplesTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
