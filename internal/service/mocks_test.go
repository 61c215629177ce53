package service

import (
	"context"

	"github.com/aevumlab/aevum/internal/domain"
	"github.com/aevumlab/aevum/internal/observation"
)

type mockHandler struct {
	name          string
	topics        []string
	confidence    float64
	confidenceErr error
	answer        *domain.Response
	answerErr     error

	estimateCalls int
	answerCalls   int
}

func (h *mockHandler) Name() string                 { return h.name }
func (h *mockHandler) Description() string          { return "mock " + h.name }
func (h *mockHandler) Capabilities() []string       { return []string{"mock capability"} }
func (h *mockHandler) DomainExamples() []string     { return []string{"mock example"} }
func (h *mockHandler) ExternalAffinities() []string { return nil }
func (h *mockHandler) SupportedTopics() []string    { return h.topics }
func (h *mockHandler) State() domain.HandlerState   { return domain.HandlerReady }

func (h *mockHandler) EstimateConfidence(ctx context.Context, query string, turn domain.TurnContext) (float64, error) {
	h.estimateCalls++
	if h.confidenceErr != nil {
		return 0, h.confidenceErr
	}
	return h.confidence, nil
}

func (h *mockHandler) Answer(ctx context.Context, query string, turn domain.TurnContext) (*domain.Response, error) {
	h.answerCalls++
	if h.answerErr != nil {
		return nil, h.answerErr
	}
	if h.answer != nil {
		return h.answer, nil
	}
	return &domain.Response{Text: h.name + " answer", Insights: []string{}}, nil
}

func (h *mockHandler) CreateContext(topic, userID string) domain.ObservationContext {
	for _, t := range h.topics {
		if t == topic {
			return observation.NewForTopic(topic, h.name, userID)
		}
	}
	return nil
}

// stubIndex serves canned matches.
type stubIndex struct {
	matches []domain.ExampleMatch
	err     error
	size    int
	calls   int
}

func (i *stubIndex) TopKSimilar(ctx context.Context, text string, k int) ([]domain.ExampleMatch, error) {
	i.calls++
	if i.err != nil {
		return nil, i.err
	}
	if len(i.matches) > k {
		return i.matches[:k], nil
	}
	return i.matches, nil
}

func (i *stubIndex) Size() int { return i.size }

// stubContext is an observation context with fixed scores, for exercising
// the context-routing path without real uploads.
type stubContext struct {
	topic       string
	handlerName string
	userID      string
	relevancy   float64
	confidence  float64
	response    *domain.Response

	panicOnAbsorb bool
	absorbed      []map[string]any
	scoreCalls    int
}

func (c *stubContext) Topic() string       { return c.topic }
func (c *stubContext) HandlerName() string { return c.handlerName }
func (c *stubContext) UserID() string      { return c.userID }

func (c *stubContext) Absorb(data map[string]any) {
	if c.panicOnAbsorb {
		panic("absorb failed")
	}
	c.absorbed = append(c.absorbed, data)
}

func (c *stubContext) ScoreRelevancy(query string) float64 {
	c.scoreCalls++
	return c.relevancy
}

func (c *stubContext) EmitResponse() *domain.Response {
	if c.response != nil {
		return c.response
	}
	return &domain.Response{Text: c.handlerName + " context", Insights: []string{}}
}

func (c *stubContext) ConfidenceScore() float64 { return c.confidence }
func (c *stubContext) RelevancyScore() float64  { return c.relevancy }
func (c *stubContext) AmbiguityScore() float64  { return 0 }

func (c *stubContext) Snapshot() domain.ContextSnapshot {
	return domain.ContextSnapshot{
		Topic:           c.topic,
		HandlerName:     c.handlerName,
		UserID:          c.userID,
		RelevancyScore:  c.relevancy,
		ConfidenceScore: c.confidence,
	}
}
