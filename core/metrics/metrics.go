package metrics

import "github.com/kilianp07/sitepower/core/model"

// DecisionSink records allocation decisions for observability purposes.
type DecisionSink interface {
	RecordDecision(rec model.DecisionRecord) error
}

// SimulationRecorder is implemented by sinks that also persist simulation
// period aggregates.
type SimulationRecorder interface {
	RecordSimulation(totalCost, totalCarbon, savings float64) error
}

// NopSink discards all records.
type NopSink struct{}

// RecordDecision implements DecisionSink doing nothing.
func (NopSink) RecordDecision(model.DecisionRecord) error { return nil }
