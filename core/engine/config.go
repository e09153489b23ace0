package engine

import (
	"fmt"
	"math"
)

// Config carries every physical and scoring parameter of one site
// deployment. All fields are required and validated before the engine
// becomes ready.
type Config struct {
	SolarCapacityKW              float64 `json:"solar_capacity_kw"`
	BatteryCapacityKWh           float64 `json:"battery_capacity_kwh"`
	BatteryInitialKWh            float64 `json:"battery_initial_kwh"`
	BatteryMaxDischargeKW        float64 `json:"battery_max_discharge_kw"`
	BatteryMaxChargeKW           float64 `json:"battery_max_charge_kw"`
	CostWeight                   float64 `json:"cost_weight"`
	CarbonWeight                 float64 `json:"carbon_weight"`
	CarbonCostPerKg              float64 `json:"carbon_cost_per_kg"`
	BatteryDegradationCostPerKWh float64 `json:"battery_degradation_cost_per_kwh"`
	BatteryLifecycleCarbonPerKWh float64 `json:"battery_lifecycle_carbon_per_kwh"`
	TimestepHours                float64 `json:"timestep_hours"`
	ForecastHorizon              int     `json:"forecast_horizon"`
	ForecastTimeoutSeconds       int     `json:"forecast_timeout_seconds"`
	ChargeFromSurplus            bool    `json:"charge_from_surplus"`
}

// SetDefaults applies sane defaults for the optional knobs.
func (c *Config) SetDefaults() {
	if c.ForecastHorizon <= 0 {
		c.ForecastHorizon = 12
	}
	if c.ForecastTimeoutSeconds <= 0 {
		c.ForecastTimeoutSeconds = 5
	}
}

// Validate checks the required physical parameters. A cost/carbon weight sum
// away from one is deliberately not an error; WeightSumOff reports it so the
// caller can warn.
func (c Config) Validate() error {
	switch {
	case c.SolarCapacityKW <= 0:
		return fmt.Errorf("solar_capacity_kw must be positive, got %v", c.SolarCapacityKW)
	case c.BatteryCapacityKWh <= 0:
		return fmt.Errorf("battery_capacity_kwh must be positive, got %v", c.BatteryCapacityKWh)
	case c.BatteryInitialKWh < 0 || c.BatteryInitialKWh > c.BatteryCapacityKWh:
		return fmt.Errorf("battery_initial_kwh must be within [0, %v], got %v", c.BatteryCapacityKWh, c.BatteryInitialKWh)
	case c.BatteryMaxDischargeKW <= 0:
		return fmt.Errorf("battery_max_discharge_kw must be positive, got %v", c.BatteryMaxDischargeKW)
	case c.BatteryMaxChargeKW <= 0:
		return fmt.Errorf("battery_max_charge_kw must be positive, got %v", c.BatteryMaxChargeKW)
	case c.CostWeight < 0 || c.CarbonWeight < 0:
		return fmt.Errorf("weights must not be negative, got cost=%v carbon=%v", c.CostWeight, c.CarbonWeight)
	case c.CarbonCostPerKg < 0:
		return fmt.Errorf("carbon_cost_per_kg must not be negative, got %v", c.CarbonCostPerKg)
	case c.BatteryDegradationCostPerKWh < 0:
		return fmt.Errorf("battery_degradation_cost_per_kwh must not be negative, got %v", c.BatteryDegradationCostPerKWh)
	case c.BatteryLifecycleCarbonPerKWh < 0:
		return fmt.Errorf("battery_lifecycle_carbon_per_kwh must not be negative, got %v", c.BatteryLifecycleCarbonPerKWh)
	case c.TimestepHours <= 0:
		return fmt.Errorf("timestep_hours must be positive, got %v", c.TimestepHours)
	}
	return nil
}

// WeightSumOff reports whether the cost and carbon weights fail to sum to
// one within tolerance.
func (c Config) WeightSumOff() bool {
	return math.Abs(c.CostWeight+c.CarbonWeight-1) > 1e-9
}
