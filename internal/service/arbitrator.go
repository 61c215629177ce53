package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/aevumlab/aevum/internal/domain"
)

// ConfidenceArbitrator asks every handler to rate its own fitness for a
// query. It runs only when the semantic matcher is unsure.
type ConfidenceArbitrator struct {
	handlers []domain.Handler
	logger   *zap.Logger

	// calls counts arbitration rounds, for tests and the metrics endpoint.
	calls int
}

func NewConfidenceArbitrator(handlers []domain.Handler, logger *zap.Logger) *ConfidenceArbitrator {
	return &ConfidenceArbitrator{handlers: handlers, logger: logger}
}

// Arbitrate returns the handler with the highest self-reported confidence.
// A handler whose estimate fails scores 0 and the round continues; one bad
// handler never aborts arbitration.
func (a *ConfidenceArbitrator) Arbitrate(ctx context.Context, query string, turn domain.TurnContext) (domain.Handler, float64) {
	a.calls++

	type scored struct {
		handler domain.Handler
		score   float64
	}
	results := make([]scored, 0, len(a.handlers))
	for _, h := range a.handlers {
		score, err := h.EstimateConfidence(ctx, query, turn)
		if err != nil {
			a.logger.Warn("confidence estimation failed, scoring zero",
				zap.String("handler", h.Name()),
				zap.Error(err))
			score = 0
		}
		results = append(results, scored{handler: h, score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	return results[0].handler, results[0].score
}

// Calls reports how many arbitration rounds have run.
func (a *ConfidenceArbitrator) Calls() int {
	return a.calls
}
