package retrain

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingRetrainer struct {
	calls atomic.Int32
	err   error
}

func (c *countingRetrainer) Retrain(context.Context, string) error {
	c.calls.Add(1)
	return c.err
}

func TestJob_RetrainsOnTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := &countingRetrainer{}
	job := &Job{Engine: eng, Dataset: "history.csv", Interval: 10 * time.Millisecond}
	done := make(chan struct{})
	go func() {
		job.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for eng.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("job never ticked twice")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop on cancel")
	}
}

func TestJob_KeepsRunningAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := &countingRetrainer{err: errors.New("dataset missing")}
	job := &Job{Engine: eng, Dataset: "history.csv", Interval: 10 * time.Millisecond}
	go job.Run(ctx)

	deadline := time.After(2 * time.Second)
	for eng.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatal("failures should not stop the job")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
