package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	coreforecast "github.com/kilianp07/sitepower/core/forecast"
	"github.com/kilianp07/sitepower/infra/logger"
)

// HTTPProvider consumes an external model server over its predict and
// retrain endpoints. The server owns the model lifecycle; this client only
// ferries windows in and point estimates out.
type HTTPProvider struct {
	baseURL string
	horizon int
	client  *http.Client
	log     logger.Logger
}

// Config defines the connection parameters for the model server.
type Config struct {
	URL            string `json:"url"`
	Horizon        int    `json:"horizon"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// NewHTTPProvider creates a provider for the given model server.
func NewHTTPProvider(cfg Config) *HTTPProvider {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	horizon := cfg.Horizon
	if horizon <= 0 {
		horizon = 12
	}
	return &HTTPProvider{
		baseURL: cfg.URL,
		horizon: horizon,
		client:  &http.Client{Timeout: timeout},
		log:     logger.New("forecast-client"),
	}
}

type predictRequest struct {
	Recent  []float64 `json:"recent"`
	Horizon int       `json:"horizon"`
}

type predictResponse struct {
	Forecast []float64 `json:"forecast"`
}

// Predict posts the recent window and decodes the point estimates. A
// connection failure or non-200 status maps to ErrModelUnavailable so the
// engine can degrade instead of failing the decision.
func (p *HTTPProvider) Predict(ctx context.Context, recent []float64) ([]float64, error) {
	body, err := json.Marshal(predictRequest{Recent: recent, Horizon: p.horizon})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", coreforecast.ErrModelUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", coreforecast.ErrModelUnavailable, resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", coreforecast.ErrModelUnavailable, err)
	}
	return out.Forecast, nil
}

type retrainRequest struct {
	Dataset string `json:"dataset"`
}

// Retrain asks the model server to rebuild its model from the dataset. The
// server swaps its model internally on success; the same handle stays valid
// either way.
func (p *HTTPProvider) Retrain(ctx context.Context, dataset string) (coreforecast.Provider, error) {
	body, err := json.Marshal(retrainRequest{Dataset: dataset})
	if err != nil {
		return p, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/retrain", bytes.NewReader(body))
	if err != nil {
		return p, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return p, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return p, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}
	p.log.Infof("model server retrained from %s", dataset)
	return p, nil
}
