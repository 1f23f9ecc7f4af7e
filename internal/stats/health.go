package stats

import "github.com/verte-zerg/chargelog/internal/model"

// RatedCapacityLiIon is the assumed rating of a typical 18650 cell.
const RatedCapacityLiIon = 2500.0

const healthBatteryType = "Li-ion"

// HealthStatus classifies capacity retention.
type HealthStatus string

// Health bands. Lower bounds are inclusive.
const (
	HealthGood HealthStatus = "GOOD"
	HealthFair HealthStatus = "FAIR"
	HealthPoor HealthStatus = "POOR"
)

// Description returns the human-readable verdict for a status.
func (h HealthStatus) Description() string {
	switch h {
	case HealthGood:
		return "Battery in good condition"
	case HealthFair:
		return "Battery showing age, usable"
	default:
		return "Battery degraded, consider replacement"
	}
}

// HealthEstimate is a capacity-retention estimate against an assumed rating.
type HealthEstimate struct {
	RatedCapacityMah float64
	MeasuredMah      float64
	Percent          float64
	Status           HealthStatus
}

// ClassifyHealth maps a health percentage to its band.
func ClassifyHealth(percent float64) HealthStatus {
	switch {
	case percent >= 80:
		return HealthGood
	case percent >= 60:
		return HealthFair
	default:
		return HealthPoor
	}
}

// EstimateHealth computes a health estimate for Li-ion logs. ok is false for
// any other battery label.
func EstimateHealth(meta model.LogMetadata) (HealthEstimate, bool) {
	if meta.BatteryType != healthBatteryType {
		return HealthEstimate{}, false
	}
	percent := meta.FinalCapacityMah / RatedCapacityLiIon * 100
	return HealthEstimate{
		RatedCapacityMah: RatedCapacityLiIon,
		MeasuredMah:      meta.FinalCapacityMah,
		Percent:          percent,
		Status:           ClassifyHealth(percent),
	}, true
}
