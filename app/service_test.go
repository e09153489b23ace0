package app

import (
	"path/filepath"
	"testing"

	"github.com/kilianp07/sitepower/config"
	"github.com/kilianp07/sitepower/core/engine"
	coreforecast "github.com/kilianp07/sitepower/core/forecast"
	infraforecast "github.com/kilianp07/sitepower/infra/forecast"
)

func serviceConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Engine: engine.Config{
			SolarCapacityKW:       3,
			BatteryCapacityKWh:    10,
			BatteryInitialKWh:     5,
			BatteryMaxDischargeKW: 5,
			BatteryMaxChargeKW:    5,
			CostWeight:            0.6,
			CarbonWeight:          0.4,
			TimestepHours:         0.25,
		},
		Logging: config.LoggingConfig{
			Backend: "jsonl",
			Path:    filepath.Join(t.TempDir(), "decisions.log"),
		},
	}
	cfg.Engine.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Forecast.SetDefaults()
	return cfg
}

func TestNew_WiresEngine(t *testing.T) {
	svc, err := New(serviceConfig(t))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = svc.Close() }()

	if svc.Engine.State() != engine.StateReady {
		t.Fatalf("engine state = %v, want ready", svc.Engine.State())
	}
	if svc.feed != nil {
		t.Fatal("feed should be nil without a broker")
	}
}

func TestNewProvider(t *testing.T) {
	cfg := serviceConfig(t)
	if _, ok := newProvider(cfg).(coreforecast.Naive); !ok {
		t.Fatalf("naive mode should yield Naive, got %T", newProvider(cfg))
	}

	cfg.Forecast.Mode = "http"
	cfg.Forecast.HTTP.URL = "http://forecaster:8000"
	if _, ok := newProvider(cfg).(*infraforecast.HTTPProvider); !ok {
		t.Fatalf("http mode should yield HTTPProvider, got %T", newProvider(cfg))
	}
}

func TestNewStore_Selection(t *testing.T) {
	dir := t.TempDir()

	sqlite, err := newStore(config.LoggingConfig{Backend: "sqlite", Path: filepath.Join(dir, "d.db")})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	_ = sqlite.Close()

	rotating, err := newStore(config.LoggingConfig{Backend: "jsonl", Path: filepath.Join(dir, "d.log"), MaxSizeMB: 5})
	if err != nil {
		t.Fatalf("rotating: %v", err)
	}
	_ = rotating.Close()
}
