package forecast

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestNaive_PredictMean(t *testing.T) {
	n := Naive{Horizon: 4}
	fc, err := n.Predict(context.Background(), []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(fc) != 4 {
		t.Fatalf("len = %d, want 4", len(fc))
	}
	for _, v := range fc {
		if math.Abs(v-2) > 1e-9 {
			t.Fatalf("forecast = %v, want all 2", fc)
		}
	}
}

func TestNaive_Window(t *testing.T) {
	n := Naive{Horizon: 1, Window: 2}
	fc, err := n.Predict(context.Background(), []float64{100, 100, 3, 5})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.Abs(fc[0]-4) > 1e-9 {
		t.Fatalf("windowed mean = %v, want 4", fc[0])
	}
}

func TestNaive_EmptyRecent(t *testing.T) {
	n := Naive{Horizon: 3}
	if _, err := n.Predict(context.Background(), nil); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestNaive_RetrainIsNoop(t *testing.T) {
	n := Naive{Horizon: 2, Window: 8}
	next, err := n.Retrain(context.Background(), "whatever.csv")
	if err != nil {
		t.Fatalf("retrain: %v", err)
	}
	if next != Provider(n) {
		t.Fatalf("retrain should return the same forecaster, got %#v", next)
	}
}
