package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/sitepower/config"
	"github.com/kilianp07/sitepower/core/engine"
	"github.com/kilianp07/sitepower/core/engine/logging"
	coreforecast "github.com/kilianp07/sitepower/core/forecast"
	coremetrics "github.com/kilianp07/sitepower/core/metrics"
	infraforecast "github.com/kilianp07/sitepower/infra/forecast"
	"github.com/kilianp07/sitepower/infra/logger"
	"github.com/kilianp07/sitepower/infra/metrics"
	"github.com/kilianp07/sitepower/infra/mqtt"
	"github.com/kilianp07/sitepower/internal/eventbus"
	"github.com/kilianp07/sitepower/jobs/retrain"
)

// Service wires the engine, the telemetry feed and the observability sinks.
type Service struct {
	Engine *engine.Engine

	cfg    *config.Config
	feed   *mqtt.Feed
	store  logging.Store
	bus    eventbus.EventBus
	log    logger.Logger
	recent []float64
}

// recentWindow bounds the demand history handed to the forecaster.
const recentWindow = 96

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	store, err := newStore(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("decision store: %w", err)
	}

	sink, err := coremetrics.NewDecisionSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New()
	eng := engine.New(store, sink, bus, logg)
	if err := eng.Init(cfg.Engine, newProvider(cfg)); err != nil {
		return nil, err
	}

	svc := &Service{Engine: eng, cfg: cfg, store: store, bus: bus, log: logg}

	if cfg.MQTT.Broker != "" {
		feed, err := mqtt.NewFeed(cfg.MQTT, svc.onSample)
		if err != nil {
			return nil, fmt.Errorf("condition feed: %w", err)
		}
		svc.feed = feed
	}
	return svc, nil
}

func newStore(cfg config.LoggingConfig) (logging.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return logging.NewSQLiteStore(cfg.Path)
	default:
		if cfg.MaxSizeMB > 0 {
			return logging.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		}
		return logging.NewJSONLStore(cfg.Path)
	}
}

func newProvider(cfg *config.Config) coreforecast.Provider {
	if cfg.Forecast.Mode == "http" {
		httpCfg := cfg.Forecast.HTTP
		if httpCfg.Horizon <= 0 {
			httpCfg.Horizon = cfg.Engine.ForecastHorizon
		}
		return infraforecast.NewHTTPProvider(httpCfg)
	}
	return coreforecast.Naive{Horizon: cfg.Engine.ForecastHorizon, Window: cfg.Forecast.Window}
}

// onSample feeds one telemetry sample through the engine.
func (s *Service) onSample(sample mqtt.Sample) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rec, err := s.Engine.Decide(ctx, sample.DemandKW, s.recent, sample.ConditionRecord)
	if err != nil {
		s.log.Errorf("decision failed: %v", err)
		return
	}
	s.recent = append(s.recent, sample.DemandKW)
	if len(s.recent) > recentWindow {
		s.recent = s.recent[len(s.recent)-recentWindow:]
	}
	s.log.Debugw("decision", map[string]any{
		"id":          rec.ID,
		"requested":   rec.RequestedKW,
		"cost":        rec.Metrics.CostEstimate,
		"battery_kwh": rec.Metrics.BatteryChargeAfter,
	})
}

// Run starts the feed, the retraining job and the Prometheus server, then
// blocks until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if s.feed != nil {
		if err := s.feed.Start(); err != nil {
			return err
		}
	}
	if s.cfg.Retrain.Enabled {
		job := &retrain.Job{
			Engine:   s.Engine,
			Dataset:  s.cfg.Retrain.Dataset,
			Interval: time.Duration(s.cfg.Retrain.IntervalMinutes) * time.Minute,
			Log:      s.log,
		}
		go job.Run(ctx)
	}
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, port); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.feed != nil {
		s.feed.Close()
	}
	s.bus.Close()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
