package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/aevumlab/aevum/internal/domain"
)

var bioAgeKeywords = []string{
	"biological age", "bio age", "age score", "chronological age",
	"aging", "longevity", "lifespan", "healthspan", "age optimization",
	"age reversal", "rejuvenation", "age reduction", "biomarkers",
	"biological clock", "epigenetic age", "metabolic age",
}

// BioAgeHandler answers biological-age questions. The score itself comes
// from the external scoring service; this handler only frames the request
// and interprets the result.
type BioAgeHandler struct {
	base
	scoring domain.ScoringClient
}

func NewBioAgeHandler(scoring domain.ScoringClient) *BioAgeHandler {
	return &BioAgeHandler{
		base: newBase(
			NameBioAge,
			"Calculates and interprets biological age scores.",
			[]string{
				"Calculate biological age score",
				"Analyze health metrics",
				"Provide age-related recommendations",
				"Track biological age trends",
			},
			[]string{
				"What is my biological age?",
				"How can I reduce my biological age?",
				"What factors affect my biological age?",
				"How does my sleep affect my biological age?",
				"How does exercise impact my biological age?",
				"What's my bio age score?",
				"How has my biological age changed over time?",
				"How does my biological age compare to my chronological age?",
				"What lifestyle changes will most impact my biological age?",
				"What's the trend in my biological age?",
			},
			[]string{AffinityScoring},
			[]string{domain.TopicSleep, domain.TopicExercise},
		),
		scoring: scoring,
	}
}

func (h *BioAgeHandler) EstimateConfidence(ctx context.Context, query string, turn domain.TurnContext) (float64, error) {
	matches := matchCount(query, bioAgeKeywords)
	if matches > 2 {
		return 0.95, nil
	}
	if matches > 0 {
		return 0.8, nil
	}
	if _, ok := turn["bio_age_score"]; ok {
		return 0.6, nil
	}
	return 0.3, nil
}

func (h *BioAgeHandler) Answer(ctx context.Context, query string, turn domain.TurnContext) (*domain.Response, error) {
	metrics := metricsFromTurn(turn)
	if len(metrics) == 0 {
		return &domain.Response{
			Text: "I don't have enough health data to calculate your biological age yet. " +
				"Upload sleep, exercise or biometric data and I'll score it for you.",
			Insights: []string{},
			Questions: []string{
				"Do you track your sleep or activity with a wearable?",
				"Would you like to upload recent health data?",
			},
		}, nil
	}

	score, err := h.scoring.Compute(ctx, "bio_age", metrics)
	if err != nil {
		return nil, fmt.Errorf("compute bio-age score: %w", err)
	}

	return &domain.Response{
		Text: fmt.Sprintf("Your current bio-age score is %.1f. "+
			"The score weighs your recent sleep, activity and biometric trends.", score),
		Insights: []string{
			fmt.Sprintf("Bio-age score: %.1f", score),
			"Consistent sleep and daily activity are the fastest levers for improving this score.",
		},
	}, nil
}

// metricsFromTurn collects the numeric values the scoring service accepts
// out of the turn context.
func metricsFromTurn(turn domain.TurnContext) map[string]float64 {
	metrics := map[string]float64{}
	raw, ok := turn["health_metrics"].(map[string]any)
	if !ok {
		return metrics
	}
	for k, v := range raw {
		switch n := v.(type) {
		case float64:
			metrics[k] = n
		case int:
			metrics[k] = float64(n)
		}
	}
	return metrics
}

func matchCount(query string, keywords []string) int {
	q := strings.ToLower(query)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			matches++
		}
	}
	return matches
}
