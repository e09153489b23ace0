package retrain

import (
	"context"
	"time"

	"github.com/kilianp07/sitepower/core/logger"
)

// Retrainer is the slice of the decision engine the job needs.
type Retrainer interface {
	Retrain(ctx context.Context, dataset string) error
}

// Job periodically retrains the forecast provider with fresh data. A failed
// cycle is logged and retried on the next tick; the engine keeps the
// previous model in the meantime.
type Job struct {
	Engine   Retrainer
	Dataset  string
	Interval time.Duration
	Log      logger.Logger
}

// Run blocks until the context is canceled, retraining every Interval.
func (j *Job) Run(ctx context.Context) {
	if j.Interval <= 0 {
		j.Interval = time.Hour
	}
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Engine.Retrain(ctx, j.Dataset); err != nil {
				if j.Log != nil {
					j.Log.Errorf("retrain cycle failed: %v", err)
				}
			}
		}
	}
}
