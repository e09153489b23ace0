package metrics

import "github.com/kilianp07/sitepower/core/factory"

var sinkRegistry = factory.NewRegistry[DecisionSink]()

// RegisterDecisionSink adds a decision sink builder identified by name.
func RegisterDecisionSink(name string, b factory.Builder[DecisionSink]) error {
	return sinkRegistry.Register(name, b)
}

// NewDecisionSink creates a DecisionSink from the provided configuration.
// Zero configs yield a NopSink, several configs a fan-out over all of them.
func NewDecisionSink(cfgs []factory.ModuleConfig) (DecisionSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Build(cfgs[0])
	}
	sinks := make([]DecisionSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Build(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
