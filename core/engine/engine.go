package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/sitepower/core/allocator"
	"github.com/kilianp07/sitepower/core/battery"
	"github.com/kilianp07/sitepower/core/engine/logging"
	"github.com/kilianp07/sitepower/core/forecast"
	"github.com/kilianp07/sitepower/core/logger"
	"github.com/kilianp07/sitepower/core/metrics"
	"github.com/kilianp07/sitepower/core/model"
	"github.com/kilianp07/sitepower/core/sim"
	"github.com/kilianp07/sitepower/internal/eventbus"
)

// ErrNotReady is returned when Decide is called before initialization.
var ErrNotReady = errors.New("engine: not initialized")

// State is the externally visible engine lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateReady
)

// DecisionEvent is published on the event bus after every decision.
type DecisionEvent struct {
	Record model.DecisionRecord
}

// Engine orchestrates the allocator, the battery pack and the forecast
// provider for live operation. One engine owns one pack; Decide calls are
// serialized internally.
type Engine struct {
	mu       sync.Mutex
	state    State
	cfg      Config
	pack     *battery.Pack
	opt      *allocator.Optimizer
	provider forecast.Provider

	store logging.Store
	sink  metrics.DecisionSink
	bus   eventbus.EventBus
	log   logger.Logger
}

// New returns an uninitialized engine wired to its collaborators. Any of
// store, sink and bus may be nil; the corresponding step is skipped.
func New(store logging.Store, sink metrics.DecisionSink, bus eventbus.EventBus, log logger.Logger) *Engine {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{store: store, sink: sink, bus: bus, log: log}
}

// Init validates the configuration, builds the pack and the optimizer and
// moves the engine to StateReady. On failure the engine stays uninitialized
// and the cause is returned.
func (e *Engine) Init(cfg Config, provider forecast.Provider) error {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	if provider == nil {
		return fmt.Errorf("engine config: %w", forecast.ErrModelUnavailable)
	}
	if cfg.WeightSumOff() && e.log != nil {
		e.log.Warnf("cost_weight+carbon_weight = %v, expected 1", cfg.CostWeight+cfg.CarbonWeight)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
	e.pack = battery.New(cfg.BatteryCapacityKWh, cfg.BatteryInitialKWh, cfg.BatteryMaxDischargeKW, cfg.BatteryMaxChargeKW)
	e.opt = &allocator.Optimizer{
		SolarCapacityKW:       cfg.SolarCapacityKW,
		CarbonCostPerKg:       cfg.CarbonCostPerKg,
		DegradationCostPerKWh: cfg.BatteryDegradationCostPerKWh,
		LifecycleCarbonPerKWh: cfg.BatteryLifecycleCarbonPerKWh,
		StepHours:             cfg.TimestepHours,
		ChargeFromSurplus:     cfg.ChargeFromSurplus,
		Weights:               allocator.Weights{Cost: cfg.CostWeight, Carbon: cfg.CarbonWeight},
	}
	e.provider = provider
	e.state = StateReady
	return nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Charge returns the current battery charge in kWh for reporting.
func (e *Engine) Charge() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pack == nil {
		return 0
	}
	return e.pack.ChargeKWh
}

// Decide allocates the current demand across sources, persists the decision
// record and returns it. The forecast is fetched for logging and dashboards
// only; a provider failure degrades to a forecast-free record with a
// warning, never a failed decision.
func (e *Engine) Decide(ctx context.Context, demandKW float64, recent []float64, cond model.ConditionRecord) (model.DecisionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateReady {
		return model.DecisionRecord{}, ErrNotReady
	}

	fc := e.fetchForecast(ctx, recent)

	alloc, m, err := e.opt.Optimize(demandKW, cond, e.pack)
	if err != nil {
		return model.DecisionRecord{}, err
	}

	rec := model.DecisionRecord{
		ID:          uuid.NewString(),
		Timestamp:   cond.Timestamp,
		RequestedKW: demandKW,
		Allocation:  alloc,
		Metrics:     m,
		ForecastKW:  fc,
		Reasoning:   e.reasoning(alloc, cond),
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	if e.store != nil {
		if err := e.store.Append(ctx, rec); err != nil && e.log != nil {
			e.log.Errorf("decision log append: %v", err)
		}
	}
	if err := e.sink.RecordDecision(rec); err != nil && e.log != nil {
		e.log.Errorf("decision metrics: %v", err)
	}
	if e.bus != nil {
		e.bus.Publish(DecisionEvent{Record: rec})
	}
	return rec, nil
}

// SimulateRealtime replays the timestep sequence for offline validation. It
// runs against a copy of the live pack so backtests never disturb the
// engine's physical state.
func (e *Engine) SimulateRealtime(steps []sim.Timestep) (sim.Result, error) {
	e.mu.Lock()
	if e.state != StateReady {
		e.mu.Unlock()
		return sim.Result{}, ErrNotReady
	}
	packCopy := *e.pack
	driver := sim.Driver{Optimizer: e.opt, Log: e.log}
	e.mu.Unlock()

	return driver.Simulate(steps, &packCopy), nil
}

// Retrain delegates to the forecast provider and swaps the refreshed
// provider handle in atomically. The pack and the optimizer are untouched:
// retraining affects only future forecasts. On failure the previous provider
// stays active and the error is surfaced.
func (e *Engine) Retrain(ctx context.Context, dataset string) error {
	e.mu.Lock()
	if e.state != StateReady {
		e.mu.Unlock()
		return ErrNotReady
	}
	prov := e.provider
	e.mu.Unlock()

	// Retraining can be slow; the provider call runs outside the lock so
	// decisions keep flowing against the previous model.
	next, err := prov.Retrain(ctx, dataset)
	if err != nil {
		return fmt.Errorf("%w: %v", forecast.ErrRetrainFailed, err)
	}

	e.mu.Lock()
	e.provider = next
	e.mu.Unlock()
	if e.log != nil {
		e.log.Infof("forecast provider retrained from %s", dataset)
	}
	return nil
}

// Query exposes the decision log for the reporting layer.
func (e *Engine) Query(ctx context.Context, q logging.Query) ([]model.DecisionRecord, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.Query(ctx, q)
}

// fetchForecast asks the provider for horizon estimates within the
// configured timeout. Callers hold the engine lock; the provider call is
// bounded so a slow model cannot stall decisions for long.
func (e *Engine) fetchForecast(ctx context.Context, recent []float64) []float64 {
	timeout := time.Duration(e.cfg.ForecastTimeoutSeconds) * time.Second
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fc, err := e.provider.Predict(fctx, recent)
	if err != nil {
		if e.log != nil {
			e.log.Warnf("forecast unavailable, deciding without it: %v", err)
		}
		return nil
	}
	if len(fc) > e.cfg.ForecastHorizon {
		fc = fc[:e.cfg.ForecastHorizon]
	}
	return fc
}

// reasoning renders the human-readable explanation stored on each record.
func (e *Engine) reasoning(alloc model.Allocation, cond model.ConditionRecord) string {
	gridScore, battScore := e.opt.Scores(cond)
	var parts []string
	for _, share := range alloc {
		parts = append(parts, fmt.Sprintf("%s %.3f kW", share.Source, share.PowerKW))
	}
	if len(parts) == 0 {
		parts = append(parts, "no demand")
	}
	preferred := "grid"
	if battScore <= gridScore {
		preferred = "battery"
	}
	return fmt.Sprintf("%s; scores per kWh: grid %.4f, battery %.4f, %s preferred after solar",
		strings.Join(parts, ", "), gridScore, battScore, preferred)
}
