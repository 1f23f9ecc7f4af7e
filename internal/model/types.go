// Package model defines shared data structures.
package model

// Sample is one measurement row from a charger log.
type Sample struct {
	Timestamp   int64
	Port        int
	Voltage     float64
	Current     float64
	Power       float64
	CapacityMah float64
	EnergyWh    float64
	Mode        string
	Battery     string
	Status      string
}

// LogMetadata summarizes a full sample sequence.
type LogMetadata struct {
	Port             int
	BatteryType      string
	Mode             string
	StartTime        int64
	EndTime          int64
	DurationSeconds  int64
	FinalCapacityMah float64
	FinalEnergyWh    float64
	AvgVoltage       float64
	AvgCurrent       float64
	MinVoltage       float64
	MaxVoltage       float64
}

// DisplayPort returns the 1-indexed port number shown to users.
func (m LogMetadata) DisplayPort() int {
	return m.Port + 1
}

// Log is a loaded session: the ordered samples of one file and their metadata.
// It is read-only after construction.
type Log struct {
	Filename string
	Samples  []Sample
	Metadata LogMetadata
}

// AnalyzeConfig defines options for a single analysis run.
// Flag tags name the CLI flag a field is set from.
type AnalyzeConfig struct {
	InputPath      string  `flag:"file" validate:"required"`
	Plot           bool    `flag:"plot"`
	SavePlot       string  `flag:"save-plot"`
	Export         bool    `flag:"export"`
	ExportFormat   string  `flag:"export-format" validate:"oneof=text yaml"`
	XLSXPath       string  `flag:"xlsx"`
	OutputDir      string  `flag:"output-dir"`
	LogLevel       string  `flag:"log-level" validate:"oneof=debug info warn warning error"`
	PlotWidth      float64 `flag:"plot-width" validate:"gt=0,lte=100"`
	PlotHeight     float64 `flag:"plot-height" validate:"gt=0,lte=100"`
	PlotDPI        int     `flag:"plot-dpi" validate:"gt=0,lte=1200"`
	TermPlotHeight int     `flag:"term-plot-height" validate:"gte=4"`
	SmoothWindow   int     `flag:"smooth-window" validate:"gte=1"`
}

// Capabilities records which chart outputs are usable in this process.
// It is decided once at startup.
type Capabilities struct {
	// PNG is true when the image chart backend is compiled in.
	PNG bool
	// Interactive is true when stdout is a terminal.
	Interactive bool
}

// CanPlot reports whether any chart output is possible.
func (c Capabilities) CanPlot() bool {
	return c.PNG || c.Interactive
}
