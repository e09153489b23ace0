package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/sitepower/core/engine"
	"github.com/kilianp07/sitepower/core/metrics"
	infraforecast "github.com/kilianp07/sitepower/infra/forecast"
	"github.com/kilianp07/sitepower/infra/mqtt"
)

// Config is the root configuration of the service.
type Config struct {
	Engine   engine.Config  `json:"engine"`
	MQTT     mqtt.Config    `json:"mqtt"`
	Metrics  metrics.Config `json:"metrics"`
	Logging  LoggingConfig  `json:"logging"`
	Forecast ForecastConfig `json:"forecast"`
	Retrain  RetrainConfig  `json:"retrain"`
}

// ForecastConfig selects and parameterizes the forecast provider.
type ForecastConfig struct {
	// Mode selects the provider: "naive" or "http".
	Mode   string               `json:"mode"`
	Window int                  `json:"window"`
	HTTP   infraforecast.Config `json:"http"`
}

// SetDefaults applies sane defaults.
func (c *ForecastConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "naive"
	}
}

// Validate checks the provider selection.
func (c ForecastConfig) Validate() error {
	switch c.Mode {
	case "naive":
		return nil
	case "http":
		if c.HTTP.URL == "" {
			return fmt.Errorf("forecast.http.url is required in http mode")
		}
		return nil
	default:
		return fmt.Errorf("unknown forecast mode %s", c.Mode)
	}
}

// RetrainConfig drives the periodic retraining job.
type RetrainConfig struct {
	Enabled         bool   `json:"enabled"`
	IntervalMinutes int    `json:"interval_minutes"`
	Dataset         string `json:"dataset"`
}

// Validate checks the job parameters when the job is enabled.
func (c RetrainConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.IntervalMinutes <= 0 {
		return fmt.Errorf("retrain.interval_minutes must be positive")
	}
	if c.Dataset == "" {
		return fmt.Errorf("retrain.dataset is required")
	}
	return nil
}

// Load reads the configuration file, applies SP_-prefixed environment
// overrides and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("SP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Engine.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Forecast.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Forecast.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Retrain.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
