package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient calls the external bio-age scoring service. The engine never
// computes scores itself; handlers delegate here.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

type computeRequest struct {
	Topic   string             `json:"topic"`
	Metrics map[string]float64 `json:"metrics"`
}

type computeResponse struct {
	Score float64 `json:"score"`
	Error string  `json:"error,omitempty"`
}

func (c *HTTPClient) Compute(ctx context.Context, topic string, metrics map[string]float64) (float64, error) {
	body, err := json.Marshal(computeRequest{Topic: topic, Metrics: metrics})
	if err != nil {
		return 0, fmt.Errorf("marshal scoring request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/score", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create scoring request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("scoring request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read scoring response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("scoring service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result computeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return 0, fmt.Errorf("unmarshal scoring response: %w", err)
	}
	if result.Error != "" {
		return 0, fmt.Errorf("scoring service error: %s", result.Error)
	}
	return result.Score, nil
}
