package metrics

import "github.com/kilianp07/sitepower/core/factory"

// Config defines settings for decision metrics sinks.
type Config struct {
	Sinks          []factory.ModuleConfig `json:"sinks"`
	PrometheusPort string                 `json:"prometheus_port"`
}
