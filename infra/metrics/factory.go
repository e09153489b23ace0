package metrics

import (
	"github.com/kilianp07/sitepower/core/factory"
	coremetrics "github.com/kilianp07/sitepower/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// init registers the built-in decision sinks.
func init() {
	_ = coremetrics.RegisterDecisionSink("nop", func(map[string]any) (coremetrics.DecisionSink, error) {
		return coremetrics.NopSink{}, nil
	})

	// The listen address for /metrics lives on metrics.Config, not here;
	// the sink takes no settings.
	_ = coremetrics.RegisterDecisionSink("prometheus", func(map[string]any) (coremetrics.DecisionSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterDecisionSink("influx", func(conf map[string]any) (coremetrics.DecisionSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.DecodeConf(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
