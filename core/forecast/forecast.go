package forecast

import (
	"context"
	"errors"
)

// ErrModelUnavailable signals that no model is loaded behind the provider.
// Callers degrade to forecast-free operation instead of failing the
// decision.
var ErrModelUnavailable = errors.New("forecast: model unavailable")

// ErrRetrainFailed wraps provider retraining failures. The previously loaded
// model stays active when it is returned.
var ErrRetrainFailed = errors.New("forecast: retrain failed")

// Provider produces demand point forecasts for a rolling horizon. How the
// estimates are produced is opaque to the core; a trained model and a naive
// extrapolation are interchangeable.
type Provider interface {
	// Predict returns ordered point estimates for the configured horizon
	// given the recent demand window. It fails with ErrModelUnavailable when
	// no model is loaded.
	Predict(ctx context.Context, recent []float64) ([]float64, error)

	// Retrain rebuilds the underlying model from the dataset and returns the
	// provider handle to use for subsequent predictions. On failure the
	// receiver stays valid and the returned provider is the receiver itself.
	Retrain(ctx context.Context, dataset string) (Provider, error)
}
