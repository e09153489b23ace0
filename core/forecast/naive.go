package forecast

import "context"

// Naive extrapolates the mean of the recent demand window over the whole
// horizon. It is the forecaster of last resort: always available, never
// retrained, good enough to bootstrap a site before any model exists.
type Naive struct {
	Horizon int
	Window  int // how many trailing samples feed the mean; 0 means all
}

// Predict returns Horizon copies of the trailing mean.
func (n Naive) Predict(ctx context.Context, recent []float64) ([]float64, error) {
	_ = ctx
	if len(recent) == 0 {
		return nil, ErrModelUnavailable
	}
	window := recent
	if n.Window > 0 && len(recent) > n.Window {
		window = recent[len(recent)-n.Window:]
	}
	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / float64(len(window))

	horizon := n.Horizon
	if horizon <= 0 {
		horizon = 1
	}
	out := make([]float64, horizon)
	for i := range out {
		out[i] = mean
	}
	return out, nil
}

// Retrain is a no-op; the naive forecaster has no model to rebuild.
func (n Naive) Retrain(ctx context.Context, dataset string) (Provider, error) {
	_ = ctx
	_ = dataset
	return n, nil
}
