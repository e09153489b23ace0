package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
engine:
  solar_capacity_kw: 3
  battery_capacity_kwh: 10
  battery_initial_kwh: 6
  battery_max_discharge_kw: 5
  battery_max_charge_kw: 5
  cost_weight: 0.6
  carbon_weight: 0.4
  carbon_cost_per_kg: 0.05
  battery_degradation_cost_per_kwh: 0.08
  battery_lifecycle_carbon_per_kwh: 50
  timestep_hours: 0.25
logging:
  backend: sqlite
  path: decisions.db
forecast:
  mode: http
  http:
    url: http://forecaster:8000
retrain:
  enabled: true
  interval_minutes: 1440
  dataset: history.csv
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)

	assert.Equal(t, 3.0, cfg.Engine.SolarCapacityKW)
	assert.Equal(t, 0.25, cfg.Engine.TimestepHours)
	assert.Equal(t, 12, cfg.Engine.ForecastHorizon, "horizon default applied")
	assert.Equal(t, "sqlite", cfg.Logging.Backend)
	assert.Equal(t, "http", cfg.Forecast.Mode)
	assert.Equal(t, "http://forecaster:8000", cfg.Forecast.HTTP.URL)
	assert.True(t, cfg.Retrain.Enabled)
	assert.Equal(t, 1440, cfg.Retrain.IntervalMinutes)
}

func TestLoad_Defaults(t *testing.T) {
	minimal := `
engine:
  solar_capacity_kw: 1
  battery_capacity_kwh: 5
  battery_initial_kwh: 2
  battery_max_discharge_kw: 2
  battery_max_charge_kw: 2
  cost_weight: 0.5
  carbon_weight: 0.5
  timestep_hours: 1
`
	cfg, err := Load(writeConfig(t, "config.yaml", minimal))
	require.NoError(t, err)

	assert.Equal(t, "jsonl", cfg.Logging.Backend)
	assert.Equal(t, "decisions.log", cfg.Logging.Path)
	assert.Equal(t, "naive", cfg.Forecast.Mode)
	assert.Equal(t, 5, cfg.Engine.ForecastTimeoutSeconds)
	assert.False(t, cfg.Retrain.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SP_ENGINE__SOLAR_CAPACITY_KW", "7.5")
	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)
	assert.Equal(t, 7.5, cfg.Engine.SolarCapacityKW)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]struct {
		name    string
		content string
	}{
		"unsupported format": {"config.toml", "whatever"},
		"missing file":       {"", ""},
		"invalid engine": {"config.yaml", `
engine:
  solar_capacity_kw: 0
`},
		"unknown logging backend": {"config.yaml", `
engine:
  solar_capacity_kw: 1
  battery_capacity_kwh: 5
  battery_initial_kwh: 2
  battery_max_discharge_kw: 2
  battery_max_charge_kw: 2
  timestep_hours: 1
logging:
  backend: parquet
`},
		"http mode without url": {"config.yaml", `
engine:
  solar_capacity_kw: 1
  battery_capacity_kwh: 5
  battery_initial_kwh: 2
  battery_max_discharge_kw: 2
  battery_max_charge_kw: 2
  timestep_hours: 1
forecast:
  mode: http
`},
		"retrain without dataset": {"config.yaml", `
engine:
  solar_capacity_kw: 1
  battery_capacity_kwh: 5
  battery_initial_kwh: 2
  battery_max_discharge_kw: 2
  battery_max_charge_kw: 2
  timestep_hours: 1
retrain:
  enabled: true
  interval_minutes: 60
`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := tc.name
			if path == "" {
				path = filepath.Join(t.TempDir(), "absent.yaml")
			} else {
				path = writeConfig(t, tc.name, tc.content)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
