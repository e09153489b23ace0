package mqtt

import (
	"encoding/json"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{Broker: "tcp://localhost:1883", Topic: "site/conditions"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if err := (Config{Topic: "site/conditions"}).Validate(); err == nil {
		t.Fatal("missing broker should fail")
	}
	if err := (Config{Broker: "tcp://localhost:1883"}).Validate(); err == nil {
		t.Fatal("missing topic should fail")
	}
}

func TestSampleDecoding(t *testing.T) {
	payload := `{
		"timestamp": "2025-06-15T12:00:00Z",
		"solar_irradiance": 880,
		"cloud_cover": 0.2,
		"temperature_c": 25.5,
		"grid_carbon": 410,
		"grid_price": 0.29,
		"hour": 12,
		"demand_kw": 3.7
	}`
	var s Sample
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.DemandKW != 3.7 || s.SolarIrradiance != 880 || s.Hour != 12 {
		t.Fatalf("sample = %+v", s)
	}
}

func TestNewFeed_Rejections(t *testing.T) {
	if _, err := NewFeed(Config{Topic: "t"}, func(Sample) {}); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := NewFeed(Config{Broker: "tcp://localhost:1883", Topic: "t"}, nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}
