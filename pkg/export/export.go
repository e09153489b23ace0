package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/sitepower/core/model"
)

// WriteJSON writes the decision records to w in JSON format.
func WriteJSON(w io.Writer, recs []model.DecisionRecord) error {
	enc := json.NewEncoder(w)
	return enc.Encode(recs)
}

// WriteCSV writes the decision records to w as CSV for dashboard imports.
func WriteCSV(w io.Writer, recs []model.DecisionRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"timestamp", "requested_kw", "solar_kw", "battery_kw", "grid_kw", "cost", "carbon_g", "battery_charge_kwh", "reasoning"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{
			r.Timestamp.Format(time.RFC3339),
			formatFloat(r.RequestedKW),
			formatFloat(r.Allocation.PowerFor(model.SourceSolar)),
			formatFloat(r.Allocation.PowerFor(model.SourceBattery)),
			formatFloat(r.Allocation.PowerFor(model.SourceGrid)),
			formatFloat(r.Metrics.CostEstimate),
			formatFloat(r.Metrics.CarbonGrams),
			formatFloat(r.Metrics.BatteryChargeAfter),
			r.Reasoning,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
