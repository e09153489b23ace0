package metrics

import "github.com/kilianp07/sitepower/core/model"

// MultiSink fans decision records out to multiple sinks.
type MultiSink struct {
	Sinks []DecisionSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...DecisionSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDecision forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordDecision(rec model.DecisionRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordDecision(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordSimulation forwards simulation aggregates to sinks that support them.
func (m *MultiSink) RecordSimulation(totalCost, totalCarbon, savings float64) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SimulationRecorder); ok {
			if err := rec.RecordSimulation(totalCost, totalCarbon, savings); err != nil {
				return err
			}
		}
	}
	return nil
}
