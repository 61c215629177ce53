package index

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/aevumlab/aevum/internal/domain"
)

// Example is one handler domain example to be indexed, tagged with the
// owning handler's name.
type Example struct {
	Label   string
	Content string
}

type entry struct {
	label     string
	content   string
	embedding []float32
}

// MemoryIndex is an in-process embedding similarity index. It is built once
// from handler domain examples and read-only afterwards.
type MemoryIndex struct {
	client  domain.EmbeddingClient
	entries []entry
}

func NewMemoryIndex(client domain.EmbeddingClient) *MemoryIndex {
	return &MemoryIndex{client: client}
}

// Build embeds and stores every example. Called once at startup; not safe
// to call concurrently with TopKSimilar.
func (i *MemoryIndex) Build(ctx context.Context, examples []Example) error {
	entries := make([]entry, 0, len(examples))
	for _, ex := range examples {
		vec, err := i.client.Embed(ctx, ex.Content)
		if err != nil {
			return fmt.Errorf("embed example %q: %w", ex.Content, err)
		}
		entries = append(entries, entry{label: ex.Label, content: ex.Content, embedding: vec})
	}
	i.entries = entries
	return nil
}

func (i *MemoryIndex) Size() int {
	return len(i.entries)
}

func (i *MemoryIndex) TopKSimilar(ctx context.Context, text string, k int) ([]domain.ExampleMatch, error) {
	if len(i.entries) == 0 {
		return nil, nil
	}

	query, err := i.client.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches := make([]domain.ExampleMatch, 0, len(i.entries))
	for _, e := range i.entries {
		matches = append(matches, domain.ExampleMatch{
			Label:    e.label,
			Content:  e.content,
			Distance: cosineDistance(query, e.embedding),
		})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Distance < matches[b].Distance
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// cosineDistance returns 1 - cosine similarity, clamped to [0, 2].
func cosineDistance(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for idx := range a {
		dot += float64(a[idx]) * float64(b[idx])
		normA += float64(a[idx]) * float64(a[idx])
		normB += float64(b[idx]) * float64(b[idx])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
