package handler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aevumlab/aevum/internal/domain"
)

var healthDataKeywords = []string{
	"health", "sleep", "exercise", "steps", "heart rate", "calories",
	"workout", "activity", "data", "metrics", "trends", "patterns",
	"wearable", "tracker", "monitor", "active", "biometric", "weight",
	"blood pressure", "nutrition",
}

// HealthDataHandler answers questions about the user's uploaded health
// metrics directly from the turn context, without external services.
type HealthDataHandler struct {
	base
}

func NewHealthDataHandler() *HealthDataHandler {
	return &HealthDataHandler{
		base: newBase(
			NameHealthData,
			"Analyzes uploaded health metrics and surfaces trends.",
			[]string{
				"Analyze sleep patterns",
				"Track exercise activity",
				"Monitor nutrition habits",
				"Review biometric measurements",
			},
			[]string{
				"How's my sleep looking?",
				"Show me my health data",
				"What does my exercise data say?",
				"How many active calories did I burn this week?",
				"What's my average sleep duration?",
				"Summarize my health metrics",
				"How is my heart rate trending?",
				"What patterns do you see in my health data?",
				"Show my recent workout activity",
				"How consistent is my sleep schedule?",
			},
			nil,
			[]string{domain.TopicSleep, domain.TopicExercise, domain.TopicNutrition, domain.TopicBiometric},
		),
	}
}

func (h *HealthDataHandler) EstimateConfidence(ctx context.Context, query string, turn domain.TurnContext) (float64, error) {
	matches := matchCount(query, healthDataKeywords)
	if matches > 2 {
		return 0.9, nil
	}
	if matches > 0 {
		return 0.7, nil
	}
	if _, ok := turn["health_data"]; ok {
		return 0.5, nil
	}
	return 0.3, nil
}

func (h *HealthDataHandler) Answer(ctx context.Context, query string, turn domain.TurnContext) (*domain.Response, error) {
	raw, ok := turn["health_data"].(map[string]any)
	if !ok || len(raw) == 0 {
		return &domain.Response{
			Text: "I don't see any health data for you yet. " +
				"Upload your sleep, exercise, nutrition or biometric data and I'll analyze it.",
			Insights: []string{},
			Questions: []string{
				"Would you like to upload health data now?",
			},
		}, nil
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	insights := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			insights = append(insights, fmt.Sprintf("%s: %.1f", k, v))
		case int:
			insights = append(insights, fmt.Sprintf("%s: %d", k, v))
		case string:
			insights = append(insights, fmt.Sprintf("%s: %s", k, v))
		case []any:
			insights = append(insights, fmt.Sprintf("%s: %d entries", k, len(v)))
		}
	}

	return &domain.Response{
		Text:     "Here's a summary of your health data: " + strings.Join(keys, ", ") + ".",
		Insights: insights,
	}, nil
}
