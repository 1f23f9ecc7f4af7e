// Package export writes machine-readable session summaries.
package export

import (
	"io"
	"math"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/chargelog/internal/fileutil"
	"github.com/verte-zerg/chargelog/internal/model"
	"github.com/verte-zerg/chargelog/internal/stats"
)

const timeLayout = "2006-01-02 15:04:05"

// Summary mirrors the text report in a structured form.
type Summary struct {
	File        string       `yaml:"file"`
	Generated   string       `yaml:"generated"`
	Test        TestInfo     `yaml:"test"`
	Results     Results      `yaml:"results"`
	Voltage     VoltageStats `yaml:"voltage"`
	Current     CurrentStats `yaml:"current"`
	DataQuality DataQuality  `yaml:"data_quality"`
	Health      *Health      `yaml:"health,omitempty"`
}

// TestInfo identifies the session.
type TestInfo struct {
	Port            int     `yaml:"port"`
	BatteryType     string  `yaml:"battery_type"`
	Mode            string  `yaml:"mode"`
	DurationSeconds int64   `yaml:"duration_seconds"`
	DurationHours   float64 `yaml:"duration_hours"`
}

// Results holds the final accumulated values.
type Results struct {
	CapacityMah float64 `yaml:"capacity_mah"`
	EnergyWh    float64 `yaml:"energy_wh"`
}

// VoltageStats holds voltage extremes and mean.
type VoltageStats struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Average float64 `yaml:"average"`
	Range   float64 `yaml:"range"`
}

// CurrentStats holds the mean current.
type CurrentStats struct {
	Average float64 `yaml:"average"`
}

// DataQuality describes sample density. SamplesPerMinute is nil for
// sessions without a positive duration.
type DataQuality struct {
	DataPoints       int      `yaml:"data_points"`
	SamplesPerMinute *float64 `yaml:"samples_per_minute,omitempty"`
}

// Health is present only for chemistries with a rated capacity.
type Health struct {
	RatedCapacityMah float64 `yaml:"rated_capacity_mah"`
	MeasuredMah      float64 `yaml:"measured_mah"`
	Percent          float64 `yaml:"percent"`
	Status           string  `yaml:"status"`
	Description      string  `yaml:"description"`
}

// NewSummary builds the structured summary of log.
func NewSummary(log *model.Log, generated time.Time) Summary {
	meta := log.Metadata
	s := Summary{
		File:      filepath.Base(log.Filename),
		Generated: generated.Format(timeLayout),
		Test: TestInfo{
			Port:            meta.DisplayPort(),
			BatteryType:     meta.BatteryType,
			Mode:            meta.Mode,
			DurationSeconds: meta.DurationSeconds,
			DurationHours:   round(stats.DurationHours(meta), 2),
		},
		Results: Results{
			CapacityMah: round(meta.FinalCapacityMah, 1),
			EnergyWh:    round(meta.FinalEnergyWh, 2),
		},
		Voltage: VoltageStats{
			Min:     round(meta.MinVoltage, 3),
			Max:     round(meta.MaxVoltage, 3),
			Average: round(meta.AvgVoltage, 3),
			Range:   round(meta.MaxVoltage-meta.MinVoltage, 3),
		},
		Current: CurrentStats{
			Average: round(meta.AvgCurrent, 3),
		},
		DataQuality: DataQuality{
			DataPoints: len(log.Samples),
		},
	}
	if rate, ok := stats.SamplesPerMinute(len(log.Samples), meta.DurationSeconds); ok {
		rate = round(rate, 2)
		s.DataQuality.SamplesPerMinute = &rate
	}
	if h, ok := stats.EstimateHealth(meta); ok {
		s.Health = &Health{
			RatedCapacityMah: h.RatedCapacityMah,
			MeasuredMah:      round(h.MeasuredMah, 1),
			Percent:          round(h.Percent, 1),
			Status:           string(h.Status),
			Description:      h.Status.Description(),
		}
	}
	return s
}

// WriteYAML encodes the summary of log to w.
func WriteYAML(w io.Writer, log *model.Log, generated time.Time) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewSummary(log, generated)); err != nil {
		return err
	}
	return enc.Close()
}

// ExportYAML writes the YAML summary of log to path.
func ExportYAML(path string, log *model.Log, generated time.Time) error {
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return WriteYAML(w, log, generated)
	})
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
