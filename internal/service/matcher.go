package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aevumlab/aevum/internal/domain"
)

const (
	// semanticTopK is how many indexed examples are retrieved per query.
	semanticTopK = 3

	// neutralConfidence is the fallback score when the index is empty or
	// the lookup fails. It is deliberately below the arbitration threshold
	// so the arbitrator always gets a chance to override a blind guess.
	neutralConfidence = 0.5
)

// SemanticMatcher routes a query by embedding similarity against every
// handler's domain examples. Read-only after construction.
type SemanticMatcher struct {
	index    domain.EmbeddingIndex
	fallback domain.Handler
	byName   map[string]domain.Handler
	logger   *zap.Logger
}

func NewSemanticMatcher(index domain.EmbeddingIndex, handlers []domain.Handler, logger *zap.Logger) *SemanticMatcher {
	byName := make(map[string]domain.Handler, len(handlers))
	for _, h := range handlers {
		byName[h.Name()] = h
	}
	return &SemanticMatcher{
		index:    index,
		fallback: handlers[0],
		byName:   byName,
		logger:   logger,
	}
}

// Match returns the handler whose examples sit closest to the query, with
// the mean similarity of its matches as confidence. Lookup failures never
// propagate; they degrade to the first registered handler at neutral
// confidence.
func (m *SemanticMatcher) Match(ctx context.Context, query string) (domain.Handler, float64) {
	if m.index.Size() == 0 {
		return m.fallback, neutralConfidence
	}

	matches, err := m.index.TopKSimilar(ctx, query, semanticTopK)
	if err != nil {
		m.logger.Warn("semantic lookup failed, using neutral fallback",
			zap.Error(err))
		return m.fallback, neutralConfidence
	}
	if len(matches) == 0 {
		return m.fallback, neutralConfidence
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	order := make([]string, 0, len(matches))
	for _, match := range matches {
		if _, known := m.byName[match.Label]; !known {
			m.logger.Warn("indexed example references unknown handler",
				zap.String("label", match.Label))
			continue
		}
		if counts[match.Label] == 0 {
			order = append(order, match.Label)
		}
		sums[match.Label] += similarity(match.Distance)
		counts[match.Label]++
	}
	if len(order) == 0 {
		return m.fallback, neutralConfidence
	}

	best, bestScore := "", -1.0
	for _, label := range order {
		score := sums[label] / float64(counts[label])
		if score > bestScore {
			best, bestScore = label, score
		}
	}
	return m.byName[best], bestScore
}

// similarity converts an index distance into a [0,1] score.
func similarity(distance float32) float64 {
	d := float64(distance)
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	return 1 - d
}
