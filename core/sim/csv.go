package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/kilianp07/sitepower/core/model"
)

// LoadCSV reads a timestep sequence from a CSV file with the header
// timestamp,demand_kw,solar_irradiance,cloud_cover,temperature_c,grid_carbon,grid_price.
// Rows must be in non-decreasing timestamp order for the simulation to be
// meaningful; the loader does not reorder them.
func LoadCSV(path string) ([]Timestep, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

// ReadCSV decodes timesteps from r. The first row is treated as a header.
func ReadCSV(r io.Reader) ([]Timestep, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 7

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("csv has no data rows")
	}

	steps := make([]Timestep, 0, len(rows)-1)
	for i, row := range rows[1:] {
		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad timestamp %q: %w", i+2, row[0], err)
		}
		vals := make([]float64, 6)
		for j := 1; j < 7; j++ {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+2, j+1, err)
			}
			vals[j-1] = v
		}
		steps = append(steps, Timestep{
			DemandKW: vals[0],
			Cond: model.ConditionRecord{
				Timestamp:       ts,
				SolarIrradiance: vals[1],
				CloudCover:      vals[2],
				TemperatureC:    vals[3],
				GridCarbon:      vals[4],
				GridPrice:       vals[5],
				Hour:            ts.Hour(),
			},
		})
	}
	return steps, nil
}
