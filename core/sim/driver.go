package sim

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/sitepower/core/allocator"
	"github.com/kilianp07/sitepower/core/battery"
	"github.com/kilianp07/sitepower/core/logger"
	"github.com/kilianp07/sitepower/core/model"
)

// Timestep pairs one condition record with the demand measured or forecast
// for that interval. Sequences handed to Simulate must be in non-decreasing
// timestamp order.
type Timestep struct {
	Cond     model.ConditionRecord `json:"cond"`
	DemandKW float64               `json:"demand_kw"`
}

// Result aggregates a simulated period. Savings fractions compare the
// weighted cost/carbon objective of the actual run against an independent
// grid-only baseline; they are zero when the baseline objective is zero.
type Result struct {
	Steps          int                      `json:"steps"`
	Gaps           []time.Time              `json:"gaps,omitempty"`
	BySourceKWh    map[model.Source]float64 `json:"by_source_kwh"`
	TotalCost      float64                  `json:"total_cost"`
	TotalCarbon    float64                  `json:"total_carbon_g"`
	BaselineCost   float64                  `json:"baseline_cost"`
	BaselineCarbon float64                  `json:"baseline_carbon_g"`
	Savings        float64                  `json:"savings"`
	CostSavings    float64                  `json:"cost_savings"`
	CarbonSavings  float64                  `json:"carbon_savings"`
	MeanDemandKW   float64                  `json:"mean_demand_kw"`
	PeakDemandKW   float64                  `json:"peak_demand_kw"`
	FinalChargeKWh float64                  `json:"final_charge_kwh"`
}

// Driver replays a timestep sequence through the allocator, accumulating
// totals and the grid-only baseline used for savings reporting.
type Driver struct {
	Optimizer *allocator.Optimizer
	Log       logger.Logger
}

// Simulate runs the sequence against the pack in order. A timestep the
// allocator rejects is recorded as a gap and contributes nothing to the
// totals; the run itself never halts. The baseline assumes every timestep is
// served entirely from the grid and does not touch the pack.
func (d *Driver) Simulate(steps []Timestep, pack *battery.Pack) Result {
	res := Result{BySourceKWh: make(map[model.Source]float64)}
	stepHours := d.Optimizer.StepHours

	var actualObjective, baselineObjective float64
	demands := make([]float64, 0, len(steps))

	for _, ts := range steps {
		res.Steps++

		alloc, m, err := d.Optimizer.Optimize(ts.DemandKW, ts.Cond, pack)
		if err != nil {
			if d.Log != nil {
				d.Log.Warnf("timestep %s skipped: %v", ts.Cond.Timestamp.Format(time.RFC3339), err)
			}
			res.Gaps = append(res.Gaps, ts.Cond.Timestamp)
			continue
		}

		// Baseline covers realized timesteps only so both sides of the
		// savings comparison span the same intervals.
		baseCost := ts.DemandKW * ts.Cond.GridPrice * stepHours
		baseCarbon := ts.DemandKW * ts.Cond.GridCarbon * stepHours
		res.BaselineCost += baseCost
		res.BaselineCarbon += baseCarbon
		baselineObjective += d.Optimizer.Objective(baseCost, baseCarbon)

		demands = append(demands, ts.DemandKW)
		for _, share := range alloc {
			res.BySourceKWh[share.Source] += share.PowerKW * stepHours
		}
		res.TotalCost += m.CostEstimate
		res.TotalCarbon += m.CarbonGrams
		actualObjective += d.Optimizer.Objective(m.CostEstimate, m.CarbonGrams)
	}

	res.Savings = savings(baselineObjective, actualObjective)
	res.CostSavings = savings(res.BaselineCost, res.TotalCost)
	res.CarbonSavings = savings(res.BaselineCarbon, res.TotalCarbon)
	if len(demands) > 0 {
		res.MeanDemandKW = stat.Mean(demands, nil)
		res.PeakDemandKW = demands[0]
		for _, v := range demands {
			if v > res.PeakDemandKW {
				res.PeakDemandKW = v
			}
		}
	}
	res.FinalChargeKWh = pack.ChargeKWh
	return res
}

// savings returns (baseline-actual)/baseline, guarded so a zero baseline
// reports zero instead of dividing by zero.
func savings(baseline, actual float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (baseline - actual) / baseline
}
