package allocator

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/sitepower/core/battery"
	"github.com/kilianp07/sitepower/core/model"
)

// ErrInvalidDemand is returned for negative or NaN power requests. Requests
// are rejected, never silently zeroed.
var ErrInvalidDemand = errors.New("allocator: invalid power demand")

// sumTolerance bounds the accepted float drift between the requested demand
// and the summed allocation.
const sumTolerance = 1e-6

// Weights balance monetary cost against carbon emissions in the per-kWh
// source scores. The weights are not required to sum to one.
type Weights struct {
	Cost   float64 `json:"cost_weight"`
	Carbon float64 `json:"carbon_weight"`
}

// Optimizer allocates a site's power demand across solar, battery and grid
// using a greedy two-stage rule: solar supplies first, then the cheaper of
// battery and grid covers the remainder. Grid is the unconditional balancing
// source, so the allocation always sums to the requested demand.
type Optimizer struct {
	SolarCapacityKW       float64
	CarbonCostPerKg       float64
	DegradationCostPerKWh float64
	LifecycleCarbonPerKWh float64 // gCO2 attributed per battery kWh cycled
	StepHours             float64
	ChargeFromSurplus     bool // route excess solar into the battery
	Weights               Weights
}

// SolarOutputFactor derives the usable fraction of the installed solar
// capacity from irradiance and cloud cover. The factor is monotonic in both
// inputs and bounded to [0,1]; 1000 W/m2 is taken as full-output irradiance.
func SolarOutputFactor(cond model.ConditionRecord) float64 {
	base := cond.SolarIrradiance / 1000.0
	if base < 0 {
		base = 0
	}
	if base > 1 {
		base = 1
	}
	cloud := cond.CloudCover
	if cloud < 0 {
		cloud = 0
	}
	if cloud > 1 {
		cloud = 1
	}
	return base * (1 - cloud)
}

// Scores returns the per-kWh weighted scores for grid and battery under the
// given conditions. Lower is better; battery wins exact ties.
func (o *Optimizer) Scores(cond model.ConditionRecord) (grid, batt float64) {
	grid = o.Weights.Cost*cond.GridPrice +
		o.Weights.Carbon*(cond.GridCarbon/1000.0*o.CarbonCostPerKg)
	batt = o.Weights.Cost*o.DegradationCostPerKWh +
		o.Weights.Carbon*(o.LifecycleCarbonPerKWh/1000.0*o.CarbonCostPerKg)
	return grid, batt
}

// Optimize allocates demandKW across the three sources for one timestep and
// applies the battery charge or discharge to the pack as a side effect.
// Metrics are computed from the realized per-source powers, not the
// requested ones.
func (o *Optimizer) Optimize(demandKW float64, cond model.ConditionRecord, pack *battery.Pack) (model.Allocation, model.DecisionMetrics, error) {
	if demandKW < 0 || math.IsNaN(demandKW) {
		return nil, model.DecisionMetrics{}, fmt.Errorf("%w: %v kW", ErrInvalidDemand, demandKW)
	}

	solarAvail := o.SolarCapacityKW * SolarOutputFactor(cond)
	solarKW := math.Min(demandKW, solarAvail)
	remainder := demandKW - solarKW

	var battKW, gridKW float64
	if remainder > sumTolerance {
		gridScore, battScore := o.Scores(cond)
		if battScore <= gridScore {
			req := math.Min(remainder, pack.DischargeHeadroomKW(o.StepHours))
			battKW = pack.Apply(req, o.StepHours)
			gridKW = remainder - battKW
		} else {
			gridKW = remainder
		}
	}

	if o.ChargeFromSurplus {
		if surplus := solarAvail - solarKW; surplus > sumTolerance {
			req := math.Min(surplus, pack.ChargeHeadroomKW(o.StepHours))
			if req > 0 {
				pack.Apply(-req, o.StepHours)
			}
		}
	}

	var alloc model.Allocation
	if solarKW > 0 {
		alloc = append(alloc, model.SourceShare{Source: model.SourceSolar, PowerKW: solarKW})
	}
	if battKW > 0 {
		alloc = append(alloc, model.SourceShare{Source: model.SourceBattery, PowerKW: battKW})
	}
	if gridKW > 0 {
		alloc = append(alloc, model.SourceShare{Source: model.SourceGrid, PowerKW: gridKW})
	}

	metrics := model.DecisionMetrics{
		CostEstimate:       (gridKW*cond.GridPrice + battKW*o.DegradationCostPerKWh) * o.StepHours,
		CarbonGrams:        (gridKW*cond.GridCarbon + battKW*o.LifecycleCarbonPerKWh) * o.StepHours,
		BatteryChargeAfter: pack.ChargeKWh,
	}
	return alloc, metrics, nil
}

// Objective folds cost and carbon into the single weighted quantity the
// scores minimize. It is used by the simulation driver for savings
// reporting.
func (o *Optimizer) Objective(cost, carbonGrams float64) float64 {
	return o.Weights.Cost*cost + o.Weights.Carbon*(carbonGrams/1000.0*o.CarbonCostPerKg)
}
