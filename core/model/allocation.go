package model

import "time"

// Source identifies a power source available to the site.
type Source int

const (
	SourceSolar Source = iota + 1
	SourceBattery
	SourceGrid
)

// String returns a human-readable representation of the source.
func (s Source) String() string {
	switch s {
	case SourceSolar:
		return "solar"
	case SourceBattery:
		return "battery"
	case SourceGrid:
		return "grid"
	default:
		return "unknown"
	}
}

// SourceShare is the power one source supplies during a timestep.
type SourceShare struct {
	Source  Source  `json:"source"`
	PowerKW float64 `json:"power_kw"`
}

// Allocation is the ordered set of source shares for one decision. Shares
// sum to the requested demand; sources supplying nothing are omitted.
type Allocation []SourceShare

// TotalKW returns the summed power of all shares.
func (a Allocation) TotalKW() float64 {
	var total float64
	for _, s := range a {
		total += s.PowerKW
	}
	return total
}

// PowerFor returns the power supplied by the given source, zero if absent.
func (a Allocation) PowerFor(src Source) float64 {
	for _, s := range a {
		if s.Source == src {
			return s.PowerKW
		}
	}
	return 0
}

// DecisionMetrics carries the cost and carbon estimates derived from the
// realized per-source powers of one allocation.
type DecisionMetrics struct {
	CostEstimate       float64 `json:"cost_estimate"`
	CarbonGrams        float64 `json:"carbon_grams"`
	BatteryChargeAfter float64 `json:"battery_charge_after"`
}

// DecisionRecord is the append-only log entry produced for each decision.
type DecisionRecord struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	RequestedKW float64         `json:"requested_kw"`
	Allocation  Allocation      `json:"allocation"`
	Metrics     DecisionMetrics `json:"metrics"`
	ForecastKW  []float64       `json:"forecast_kw,omitempty"`
	Reasoning   string          `json:"reasoning"`
}
