package forecast

import "context"

// Mock returns configured forecasts and retrain outcomes deterministically.
type Mock struct {
	Forecast   []float64
	PredictErr error
	RetrainErr error
	Retrained  int
}

// Predict returns a copy of the configured forecast or the configured error.
func (m *Mock) Predict(ctx context.Context, recent []float64) ([]float64, error) {
	_ = ctx
	_ = recent
	if m.PredictErr != nil {
		return nil, m.PredictErr
	}
	cp := make([]float64, len(m.Forecast))
	copy(cp, m.Forecast)
	return cp, nil
}

// Retrain counts invocations and fails with the configured error.
func (m *Mock) Retrain(ctx context.Context, dataset string) (Provider, error) {
	_ = ctx
	_ = dataset
	if m.RetrainErr != nil {
		return m, m.RetrainErr
	}
	m.Retrained++
	return m, nil
}
