package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Model runs inference on a preprocessed image and returns per-class scores.
type Model interface {
	Predict(ctx context.Context, input Tensor) ([]float64, error)
	Probe(ctx context.Context) error
}

type predictRequest struct {
	Instances []Tensor `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error"`
}

type serving struct {
	base   string
	client *http.Client
}

// NewServing returns a Model backed by a TensorFlow Serving REST endpoint.
func NewServing(cfg Config, client *http.Client) Model {
	if client == nil {
		client = &http.Client{Timeout: cfg.TimeoutDuration()}
	}
	return &serving{
		base:   fmt.Sprintf("%s/v1/models/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Model),
		client: client,
	}
}

func (s *serving) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base, nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe model: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model status returned %d", resp.StatusCode)
	}
	return nil
}

func (s *serving) Predict(ctx context.Context, input Tensor) ([]float64, error) {
	body, err := json.Marshal(predictRequest{Instances: []Tensor{input}})
	if err != nil {
		return nil, fmt.Errorf("encode instances: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+":predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send predict request: %w", err)
	}
	defer resp.Body.Close()

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode predictions (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predict returned %d: %s", resp.StatusCode, out.Error)
	}
	if len(out.Predictions) == 0 {
		return nil, fmt.Errorf("empty predictions")
	}

	return out.Predictions[0], nil
}
