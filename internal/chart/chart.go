// Package chart builds the four-panel charge/discharge chart and renders it
// to PNG.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/verte-zerg/chargelog/internal/fileutil"
	"github.com/verte-zerg/chargelog/internal/model"
	"github.com/verte-zerg/chargelog/internal/stats"
)

// ErrUnavailable is returned when the binary was built without the image
// chart backend.
var ErrUnavailable = errors.New("chart rendering is not available in this build")

// Defaults for the PNG figure, in inches and dots per inch.
const (
	DefaultWidth  = 12.0
	DefaultHeight = 10.0
	DefaultDPI    = 300
)

// Panel is one plot of the 2x2 grid.
type Panel struct {
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Y      []float64
	Color  color.RGBA
	// Guides are horizontal reference lines in Y units.
	Guides []float64
}

// Options control the PNG figure size.
type Options struct {
	Width  float64
	Height float64
	DPI    int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	return o
}

var (
	blue    = color.RGBA{R: 0x1f, G: 0x3f, B: 0xd0, A: 0xff}
	red     = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	green   = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	magenta = color.RGBA{R: 0xc0, G: 0x20, B: 0xc0, A: 0xff}
)

// Title returns the figure title for a session.
func Title(meta model.LogMetadata) string {
	return fmt.Sprintf("Battery Test Analysis - Port %d (%s)", meta.DisplayPort(), meta.BatteryType)
}

// Panels returns the grid in row-major order: voltage, current, capacity
// against elapsed hours, then voltage against capacity.
func Panels(log *model.Log) []Panel {
	hours := stats.ElapsedHours(log.Samples)
	voltages := stats.Voltages(log.Samples)
	currents := stats.Currents(log.Samples)
	capacities := stats.Capacities(log.Samples)

	var guides []float64
	if chem, ok := model.LookupChemistry(log.Metadata.BatteryType); ok {
		guides = []float64{chem.CutoffVoltage}
	}

	finalCapacity := 0.0
	if len(capacities) > 0 {
		finalCapacity = capacities[len(capacities)-1]
	}

	return []Panel{
		{
			Title:  "Voltage vs Time",
			XLabel: "Time (hours)",
			YLabel: "Voltage (V)",
			X:      hours,
			Y:      voltages,
			Color:  blue,
			Guides: guides,
		},
		{
			Title:  "Current vs Time",
			XLabel: "Time (hours)",
			YLabel: "Current (A)",
			X:      hours,
			Y:      currents,
			Color:  red,
		},
		{
			Title:  fmt.Sprintf("Capacity Accumulation (Final: %.1f mAh)", finalCapacity),
			XLabel: "Time (hours)",
			YLabel: "Capacity (mAh)",
			X:      hours,
			Y:      capacities,
			Color:  green,
		},
		{
			Title:  "Discharge/Charge Curve",
			XLabel: "Capacity (mAh)",
			YLabel: "Voltage (V)",
			X:      capacities,
			Y:      voltages,
			Color:  magenta,
			Guides: guides,
		},
	}
}

// Save renders the chart for log into a PNG file at path.
func Save(path string, log *model.Log, opts Options) error {
	if !Available() {
		return ErrUnavailable
	}
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return Render(w, log, opts)
	})
}
