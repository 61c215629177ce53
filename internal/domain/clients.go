package domain

import "context"

// EmbeddingClient produces a vector for a piece of text.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ExampleMatch is one ranked result from the embedding index. Distance is
// a similarity distance: 0 is identical, larger is less similar.
type ExampleMatch struct {
	Label    string
	Content  string
	Distance float32
}

// EmbeddingIndex ranks stored handler domain examples against a query.
// Built once at startup and read-only thereafter.
type EmbeddingIndex interface {
	TopKSimilar(ctx context.Context, text string, k int) ([]ExampleMatch, error)
	Size() int
}

// CompletionClient is the narrow language-model surface handlers may use.
// The router and observation layer never call it.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ScoringClient computes a numeric score for a topic's raw metrics. Used by
// handlers only; an external collaborator, never reimplemented here.
type ScoringClient interface {
	Compute(ctx context.Context, topic string, metrics map[string]float64) (float64, error)
}
