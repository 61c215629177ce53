package domain

import "context"

type HandlerState string

const (
	HandlerInitializing HandlerState = "initializing"
	HandlerReady        HandlerState = "ready"
	HandlerProcessing   HandlerState = "processing"
	HandlerWaiting      HandlerState = "waiting"
	HandlerError        HandlerState = "error"
)

// TurnContext is the per-turn conversational context passed to handlers.
type TurnContext map[string]any

// Handler is a unit of capability: it can estimate its own confidence for a
// query, answer it, and construct observation contexts for the topics it
// supports. Handlers are created once at startup and are immutable apart
// from their lifecycle state, which exists for introspection only and never
// influences routing.
type Handler interface {
	Name() string
	Description() string
	Capabilities() []string

	// DomainExamples returns short utterances this handler can answer. The
	// semantic index is built from these; implementations fall back to
	// their capability descriptions so the result is never empty.
	DomainExamples() []string

	// ExternalAffinities names the external services this handler may call.
	ExternalAffinities() []string

	SupportedTopics() []string
	State() HandlerState

	EstimateConfidence(ctx context.Context, query string, turn TurnContext) (float64, error)
	Answer(ctx context.Context, query string, turn TurnContext) (*Response, error)

	// CreateContext returns a fresh observation context for the topic, or
	// nil if the handler does not support it.
	CreateContext(topic, userID string) ObservationContext
}
