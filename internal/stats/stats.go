// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/chargelog/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Compute derives metadata from an ordered sample sequence. Identity fields
// and the start time come from the first sample; end time and final
// cumulative values come from the last. Samples are not sorted.
func Compute(samples []model.Sample) model.LogMetadata {
	if len(samples) == 0 {
		return model.LogMetadata{}
	}
	first := samples[0]
	last := samples[len(samples)-1]

	var sumV, sumI float64
	minV := first.Voltage
	maxV := first.Voltage
	for _, s := range samples {
		sumV += s.Voltage
		sumI += s.Current
		if s.Voltage < minV {
			minV = s.Voltage
		}
		if s.Voltage > maxV {
			maxV = s.Voltage
		}
	}
	count := float64(len(samples))

	return model.LogMetadata{
		Port:             first.Port,
		BatteryType:      first.Battery,
		Mode:             first.Mode,
		StartTime:        first.Timestamp,
		EndTime:          last.Timestamp,
		DurationSeconds:  last.Timestamp - first.Timestamp,
		FinalCapacityMah: last.CapacityMah,
		FinalEnergyWh:    last.EnergyWh,
		AvgVoltage:       sumV / count,
		AvgCurrent:       sumI / count,
		MinVoltage:       minV,
		MaxVoltage:       maxV,
	}
}

// NewLog builds a session from loaded samples and computes its metadata.
func NewLog(filename string, samples []model.Sample) *model.Log {
	return &model.Log{
		Filename: filename,
		Samples:  samples,
		Metadata: Compute(samples),
	}
}

// ElapsedHours converts sample timestamps to hours since the first sample.
func ElapsedHours(samples []model.Sample) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}
	t0 := samples[0].Timestamp
	for i, s := range samples {
		out[i] = float64(s.Timestamp-t0) / 3600.0
	}
	return out
}

// DurationHours returns the session duration in hours.
func DurationHours(meta model.LogMetadata) float64 {
	return float64(meta.DurationSeconds) / 3600.0
}

// SamplesPerMinute returns the average sampling rate. ok is false when the
// duration is not positive, in which case the rate is undefined.
func SamplesPerMinute(count int, durationSeconds int64) (rate float64, ok bool) {
	if durationSeconds <= 0 {
		return 0, false
	}
	minutes := float64(durationSeconds) / 60.0
	return float64(count) / minutes, true
}

// Voltages extracts the voltage column.
func Voltages(samples []model.Sample) []float64 {
	return column(samples, func(s model.Sample) float64 { return s.Voltage })
}

// Currents extracts the current column.
func Currents(samples []model.Sample) []float64 {
	return column(samples, func(s model.Sample) float64 { return s.Current })
}

// Capacities extracts the cumulative capacity column.
func Capacities(samples []model.Sample) []float64 {
	return column(samples, func(s model.Sample) float64 { return s.CapacityMah })
}

func column(samples []model.Sample, get func(model.Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = get(s)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
