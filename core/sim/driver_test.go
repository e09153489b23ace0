package sim

import (
	"math"
	"testing"
	"time"

	"github.com/kilianp07/sitepower/core/allocator"
	"github.com/kilianp07/sitepower/core/battery"
	"github.com/kilianp07/sitepower/core/model"
)

func dayProfile(t *testing.T) []Timestep {
	t.Helper()
	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	steps := make([]Timestep, 0, 24)
	for h := 0; h < 24; h++ {
		var irr float64
		if h >= 6 && h <= 18 {
			// crude bell over daylight hours
			irr = 1000 * math.Sin(math.Pi*float64(h-6)/12)
		}
		demand := 2.0
		if h >= 8 && h <= 20 {
			demand = 4.5
		}
		steps = append(steps, Timestep{
			DemandKW: demand,
			Cond: model.ConditionRecord{
				Timestamp:       start.Add(time.Duration(h) * time.Hour),
				SolarIrradiance: irr,
				CloudCover:      0.1,
				GridCarbon:      420,
				GridPrice:       0.28,
				Hour:            h,
			},
		})
	}
	return steps
}

func dayOptimizer() *allocator.Optimizer {
	return &allocator.Optimizer{
		SolarCapacityKW:       5,
		CarbonCostPerKg:       0.05,
		DegradationCostPerKWh: 0.08,
		LifecycleCarbonPerKWh: 50,
		StepHours:             1,
		Weights:               allocator.Weights{Cost: 0.6, Carbon: 0.4},
	}
}

func TestSimulate_DaySavings(t *testing.T) {
	d := &Driver{Optimizer: dayOptimizer()}
	pack := battery.New(20, 12, 6, 6)

	res := d.Simulate(dayProfile(t), pack)

	if res.Steps != 24 {
		t.Fatalf("steps = %d, want 24", res.Steps)
	}
	if len(res.Gaps) != 0 {
		t.Fatalf("unexpected gaps: %v", res.Gaps)
	}
	if res.Savings <= 0 || res.Savings > 1 {
		t.Fatalf("savings = %v, want in (0,1]", res.Savings)
	}
	if res.TotalCost >= res.BaselineCost {
		t.Fatalf("cost %v should beat grid-only baseline %v", res.TotalCost, res.BaselineCost)
	}
	if res.TotalCarbon >= res.BaselineCarbon {
		t.Fatalf("carbon %v should beat grid-only baseline %v", res.TotalCarbon, res.BaselineCarbon)
	}
	if res.BySourceKWh[model.SourceSolar] <= 0 {
		t.Fatalf("expected solar contribution, got %v", res.BySourceKWh)
	}
	if res.PeakDemandKW != 4.5 {
		t.Fatalf("peak demand = %v, want 4.5", res.PeakDemandKW)
	}
	if res.MeanDemandKW <= 2 || res.MeanDemandKW >= 4.5 {
		t.Fatalf("mean demand = %v, want between min and peak", res.MeanDemandKW)
	}
	if res.FinalChargeKWh != pack.ChargeKWh {
		t.Fatalf("final charge %v != pack charge %v", res.FinalChargeKWh, pack.ChargeKWh)
	}

	// Energy conservation: allocated kWh equals demand kWh over the day.
	var supplied, demanded float64
	for _, kwh := range res.BySourceKWh {
		supplied += kwh
	}
	for _, ts := range dayProfile(t) {
		demanded += ts.DemandKW
	}
	if math.Abs(supplied-demanded) > 1e-6 {
		t.Fatalf("supplied %v kWh != demanded %v kWh", supplied, demanded)
	}
}

func TestSimulate_ZeroWeightsReportZeroSavings(t *testing.T) {
	opt := dayOptimizer()
	opt.Weights = allocator.Weights{}
	d := &Driver{Optimizer: opt}

	res := d.Simulate(dayProfile(t), battery.New(20, 12, 6, 6))
	if res.Savings != 0 {
		t.Fatalf("zero weights must report exactly 0 savings, got %v", res.Savings)
	}
}

func TestSimulate_InvalidStepBecomesGap(t *testing.T) {
	d := &Driver{Optimizer: dayOptimizer()}
	bad := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	steps := []Timestep{
		{DemandKW: 2, Cond: model.ConditionRecord{Timestamp: bad.Add(-time.Hour), GridPrice: 0.3, GridCarbon: 400}},
		{DemandKW: -1, Cond: model.ConditionRecord{Timestamp: bad, GridPrice: 0.3, GridCarbon: 400}},
		{DemandKW: 2, Cond: model.ConditionRecord{Timestamp: bad.Add(time.Hour), GridPrice: 0.3, GridCarbon: 400}},
	}

	res := d.Simulate(steps, battery.New(10, 5, 5, 5))
	if res.Steps != 3 {
		t.Fatalf("steps = %d, want 3", res.Steps)
	}
	if len(res.Gaps) != 1 || !res.Gaps[0].Equal(bad) {
		t.Fatalf("gaps = %v, want [%v]", res.Gaps, bad)
	}
	// Baseline spans only the two realized steps: 2 kW * 0.3 * 1 h each.
	if math.Abs(res.BaselineCost-1.2) > 1e-9 {
		t.Fatalf("baseline cost = %v, want 1.2", res.BaselineCost)
	}
}

func TestSimulate_EmptySequence(t *testing.T) {
	d := &Driver{Optimizer: dayOptimizer()}
	res := d.Simulate(nil, battery.New(10, 5, 5, 5))
	if res.Steps != 0 || res.Savings != 0 || res.MeanDemandKW != 0 {
		t.Fatalf("empty run should be all zeros, got %+v", res)
	}
	if res.FinalChargeKWh != 5 {
		t.Fatalf("final charge = %v, want 5", res.FinalChargeKWh)
	}
}
