// Package generator synthesizes charger log sessions.
package generator

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"

	"github.com/verte-zerg/chargelog/internal/loader"
	"github.com/verte-zerg/chargelog/internal/model"
)

// Mode and status labels as written by the charger firmware.
const (
	ModeCharging    = "Charging"
	ModeDischarging = "Discharging"

	StatusActive   = "Active"
	StatusComplete = "Complete"
)

const (
	// Steps longer than this are not accumulated.
	maxAccumulationHours = 0.1
	// Charging completes below this current once the cell is near full.
	chargeTailCurrent = 0.05
	internalOhms      = 0.05
)

// Options describe a synthetic session.
type Options struct {
	Port        int
	Chemistry   model.Chemistry
	CapacityMah float64
	Current     float64
	// IntervalSeconds between samples.
	IntervalSeconds int64
	// NoiseVolts is the standard deviation of voltage noise.
	NoiseVolts float64
	MaxSamples int
}

// DefaultOptions returns a 2000 mAh Li-ion cell discharged at 1 A, logged every 10 s.
func DefaultOptions() Options {
	chem, _ := model.LookupChemistry("Li-ion")
	return Options{
		Chemistry:       chem,
		CapacityMah:     2000,
		Current:         1.0,
		IntervalSeconds: 10,
		NoiseVolts:      0.002,
		MaxSamples:      10000,
	}
}

// Generator produces randomized sessions.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator with a fixed seed.
func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Discharge runs a constant-current discharge from full until the cell
// reaches its cutoff voltage.
func (g *Generator) Discharge(opts Options) []model.Sample {
	return g.run(opts, ModeDischarging, 1)
}

// Charge runs a constant-current charge from empty, tapering once the cell
// reaches its maximum voltage.
func (g *Generator) Charge(opts Options) []model.Sample {
	return g.run(opts, ModeCharging, 0)
}

func (g *Generator) run(opts Options, mode string, soc float64) []model.Sample {
	if opts.IntervalSeconds <= 0 || opts.MaxSamples <= 0 || opts.CapacityMah <= 0 {
		return nil
	}
	chem := opts.Chemistry
	deltaHours := float64(opts.IntervalSeconds) / 3600
	current := opts.Current

	var mah, wh float64
	samples := make([]model.Sample, 0, 256)
	for i := 0; i < opts.MaxSamples; i++ {
		volts := openCircuit(chem, soc)
		if mode == ModeDischarging {
			volts -= current * internalOhms
		} else {
			volts += current * internalOhms
			if volts >= chem.MaxVoltage {
				// Constant-voltage phase.
				volts = chem.MaxVoltage
				current *= 0.97
			}
		}
		volts += g.rnd.NormFloat64() * opts.NoiseVolts
		measured := current * (1 + g.rnd.NormFloat64()*0.005)

		if i > 0 && deltaHours <= maxAccumulationHours {
			mah += measured * 1000 * deltaHours
			wh += volts * measured * deltaHours
			mah = math.Max(mah, 0)
			wh = math.Max(wh, 0)
		}

		status := StatusActive
		done := false
		switch mode {
		case ModeDischarging:
			done = volts <= chem.CutoffVoltage
		case ModeCharging:
			done = volts >= chem.MaxVoltage-0.1 && math.Abs(measured) < chargeTailCurrent
		}
		if done {
			status = StatusComplete
		}

		samples = append(samples, model.Sample{
			Timestamp:   int64(i) * opts.IntervalSeconds,
			Port:        opts.Port,
			Voltage:     volts,
			Current:     measured,
			Power:       volts * measured,
			CapacityMah: mah,
			EnergyWh:    wh,
			Mode:        mode,
			Battery:     chem.Name,
			Status:      status,
		})
		if done {
			break
		}

		step := current * 1000 * deltaHours / opts.CapacityMah
		if mode == ModeDischarging {
			soc = math.Max(soc-step, 0)
		} else {
			soc = math.Min(soc+step, 1)
		}
	}
	return samples
}

// openCircuit maps state of charge to a resting voltage: steep near both
// ends and flat around the nominal voltage.
func openCircuit(chem model.Chemistry, soc float64) float64 {
	high := chem.MaxVoltage - chem.NominalVoltage
	low := chem.NominalVoltage - chem.CutoffVoltage
	return chem.NominalVoltage + high*math.Pow(soc, 4) - low*math.Pow(1-soc, 4)
}

// WriteCSV writes samples in the charger's CSV format, header first.
func WriteCSV(w io.Writer, samples []model.Sample) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, strings.Join(loader.Columns, ",")); err != nil {
		return err
	}
	for _, s := range samples {
		if _, err := fmt.Fprintf(bw, "%d,%d,%.3f,%.3f,%.3f,%.1f,%.2f,%s,%s,%s\n",
			s.Timestamp,
			s.Port,
			s.Voltage,
			s.Current,
			s.Power,
			s.CapacityMah,
			s.EnergyWh,
			s.Mode,
			s.Battery,
			s.Status,
		); err != nil {
			return err
		}
	}
	return bw.Flush()
}
