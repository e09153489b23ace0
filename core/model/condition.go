package model

import "time"

// ConditionRecord is one timestep snapshot of the site environment and the
// grid market. Records are produced by an external feed (live sensors or a
// historical dataset) and consumed read-only by the allocator.
type ConditionRecord struct {
	Timestamp       time.Time `json:"timestamp"`
	SolarIrradiance float64   `json:"solar_irradiance"` // W/m2
	CloudCover      float64   `json:"cloud_cover"`      // fraction [0,1]
	TemperatureC    float64   `json:"temperature_c"`
	GridCarbon      float64   `json:"grid_carbon"` // gCO2/kWh
	GridPrice       float64   `json:"grid_price"`  // currency per kWh
	Hour            int       `json:"hour"`
}
