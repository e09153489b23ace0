package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/kilianp07/sitepower/core/model"
)

func sampleRecords() []model.DecisionRecord {
	return []model.DecisionRecord{
		{
			ID:          "a",
			Timestamp:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			RequestedKW: 4,
			Allocation: model.Allocation{
				{Source: model.SourceSolar, PowerKW: 2.5},
				{Source: model.SourceGrid, PowerKW: 1.5},
			},
			Metrics:   model.DecisionMetrics{CostEstimate: 0.42, CarbonGrams: 630, BatteryChargeAfter: 6},
			Reasoning: "solar 2.500 kW, grid 1.500 kW",
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRecords()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var back []model.DecisionRecord
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(back) != 1 || back[0].ID != "a" || back[0].Allocation.PowerFor(model.SourceSolar) != 2.5 {
		t.Fatalf("round trip lost data: %+v", back)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[0][8] != "reasoning" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	row := rows[1]
	if row[0] != "2025-06-15T12:00:00Z" {
		t.Fatalf("timestamp = %s", row[0])
	}
	if row[2] != "2.5" || row[3] != "0" || row[4] != "1.5" {
		t.Fatalf("source columns = %v", row[2:5])
	}
}
