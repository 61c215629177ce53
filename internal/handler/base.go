package handler

import (
	"github.com/aevumlab/aevum/internal/domain"
	"github.com/aevumlab/aevum/internal/observation"
)

// Handler names are routing labels: stable, lowercase, unique.
const (
	NameBioAge     = "bio-age"
	NameHealthData = "health-data"
	NameResearch   = "research"
	NameGeneral    = "general"
)

// External service affinities.
const (
	AffinityScoring    = "scoring"
	AffinityCompletion = "completion"
)

// base carries the static identity every handler shares. Handlers are
// immutable after construction apart from the lifecycle state, which is
// introspection-only and never consulted for routing.
type base struct {
	name            string
	description     string
	capabilities    []string
	domainExamples  []string
	affinities      []string
	supportedTopics []string
	state           domain.HandlerState
}

func newBase(name, description string, capabilities, examples, affinities, topics []string) base {
	b := base{
		name:            name,
		description:     description,
		capabilities:    capabilities,
		domainExamples:  examples,
		affinities:      affinities,
		supportedTopics: topics,
		state:           domain.HandlerInitializing,
	}
	// A handler must always be indexable: without examples the semantic
	// matcher could never route to it.
	if len(b.domainExamples) == 0 {
		b.domainExamples = append([]string{}, b.capabilities...)
	}
	b.state = domain.HandlerReady
	return b
}

func (b *base) Name() string                 { return b.name }
func (b *base) Description() string          { return b.description }
func (b *base) Capabilities() []string       { return append([]string{}, b.capabilities...) }
func (b *base) DomainExamples() []string     { return append([]string{}, b.domainExamples...) }
func (b *base) ExternalAffinities() []string { return append([]string{}, b.affinities...) }
func (b *base) SupportedTopics() []string    { return append([]string{}, b.supportedTopics...) }
func (b *base) State() domain.HandlerState   { return b.state }

func (b *base) CreateContext(topic, userID string) domain.ObservationContext {
	for _, t := range b.supportedTopics {
		if t == topic {
			return observation.NewForTopic(topic, b.name, userID)
		}
	}
	return nil
}

// tieredConfidence converts a keyword match count into a self-reported
// confidence.
func tieredConfidence(matches int, strong, single, fallback float64) float64 {
	if matches > 2 {
		return strong
	}
	if matches > 0 {
		return single
	}
	return fallback
}
