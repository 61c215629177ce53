package scoring

import "context"

// MockClient is a configurable scoring client for testing.
// Set the response fields to control what Compute returns.
type MockClient struct {
	ComputeResponse float64
	ComputeError    error

	// Call tracking for assertions
	ComputeCalls []struct {
		Topic   string
		Metrics map[string]float64
	}
}

func NewMockClient() *MockClient {
	return &MockClient{ComputeResponse: 82.5}
}

func (c *MockClient) Compute(ctx context.Context, topic string, metrics map[string]float64) (float64, error) {
	c.ComputeCalls = append(c.ComputeCalls, struct {
		Topic   string
		Metrics map[string]float64
	}{topic, metrics})
	if c.ComputeError != nil {
		return 0, c.ComputeError
	}
	return c.ComputeResponse, nil
}
