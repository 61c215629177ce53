package observation

import "github.com/aevumlab/aevum/internal/domain"

// GenericContext holds raw data for topics without a specialized
// interpretation. It never gains confidence, so it never wins routing; it
// exists so uploads for minor topics are still remembered and inspectable.
type GenericContext struct {
	baseContext
}

func NewGenericContext(topic, handlerName, userID string) *GenericContext {
	return &GenericContext{baseContext: newBaseContext(topic, handlerName, userID)}
}

func (c *GenericContext) Absorb(data map[string]any) {
	c.mergeRaw(data)
}

func (c *GenericContext) ScoreRelevancy(query string) float64 {
	if c.confidence == 0 {
		return c.record(0, 0)
	}
	return c.record(keywordGate(query, []string{c.topic}, c.confidence))
}

// NewForTopic returns the specialized context for a topic, or a generic one
// for topics without a dedicated interpretation.
func NewForTopic(topic, handlerName, userID string) domain.ObservationContext {
	switch topic {
	case domain.TopicSleep:
		return NewSleepContext(handlerName, userID)
	case domain.TopicExercise:
		return NewExerciseContext(handlerName, userID)
	case domain.TopicNutrition:
		return NewNutritionContext(handlerName, userID)
	case domain.TopicBiometric:
		return NewBiometricContext(handlerName, userID)
	default:
		return NewGenericContext(topic, handlerName, userID)
	}
}
