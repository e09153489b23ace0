package metrics

import (
	coremetrics "github.com/kilianp07/sitepower/core/metrics"
	"github.com/kilianp07/sitepower/core/model"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records allocation decisions in Prometheus metrics.
type PromSink struct {
	decisions *prometheus.CounterVec
	energy    *prometheus.CounterVec
	cost      prometheus.Counter
	carbon    prometheus.Counter
	charge    prometheus.Gauge
}

// NewPromSink registers decision metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (coremetrics.DecisionSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.DecisionSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_decisions_total",
		Help: "Total number of allocation decisions",
	}, []string{"source"})
	energy := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_power_kw_total",
		Help: "Summed allocated power per source in kW across decisions",
	}, []string{"source"})
	cost := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocation_cost_total",
		Help: "Cumulative estimated cost of allocations",
	})
	carbon := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocation_carbon_grams_total",
		Help: "Cumulative estimated carbon of allocations in grams",
	})
	charge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "battery_charge_kwh",
		Help: "Battery charge after the latest decision",
	})

	s := &PromSink{decisions: decisions, energy: energy, cost: cost, carbon: carbon, charge: charge}
	for _, c := range []prometheus.Collector{decisions, energy, cost, carbon, charge} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordDecision updates the counters and the charge gauge.
func (s *PromSink) RecordDecision(rec model.DecisionRecord) error {
	for _, share := range rec.Allocation {
		s.decisions.WithLabelValues(share.Source.String()).Inc()
		s.energy.WithLabelValues(share.Source.String()).Add(share.PowerKW)
	}
	if rec.Metrics.CostEstimate > 0 {
		s.cost.Add(rec.Metrics.CostEstimate)
	}
	if rec.Metrics.CarbonGrams > 0 {
		s.carbon.Add(rec.Metrics.CarbonGrams)
	}
	s.charge.Set(rec.Metrics.BatteryChargeAfter)
	return nil
}
