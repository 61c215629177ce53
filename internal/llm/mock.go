package llm

import "context"

// MockClient is a configurable completion client for testing.
type MockClient struct {
	CompleteResponse string
	CompleteError    error

	// Call tracking for assertions
	CompleteCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{
		CompleteResponse: "Here's what I found based on your question.",
	}
}

func (c *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.CompleteCalls = append(c.CompleteCalls, prompt)
	if c.CompleteError != nil {
		return "", c.CompleteError
	}
	return c.CompleteResponse, nil
}
