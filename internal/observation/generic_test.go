package observation

import (
	"testing"

	"github.com/aevumlab/aevum/internal/domain"
)

func TestNewForTopic(t *testing.T) {
	cases := []struct {
		topic string
		want  string
	}{
		{domain.TopicSleep, domain.TopicSleep},
		{domain.TopicExercise, domain.TopicExercise},
		{domain.TopicNutrition, domain.TopicNutrition},
		{domain.TopicBiometric, domain.TopicBiometric},
		{"meditation", "meditation"},
	}
	for _, tc := range cases {
		c := NewForTopic(tc.topic, "health-data", "u")
		if c.Topic() != tc.want {
			t.Errorf("topic %q: got %q", tc.topic, c.Topic())
		}
		if c.HandlerName() != "health-data" || c.UserID() != "u" {
			t.Errorf("topic %q: owner fields not set", tc.topic)
		}
	}

	if _, ok := NewForTopic("meditation", "h", "u").(*GenericContext); !ok {
		t.Fatal("unknown topic should produce a generic context")
	}
}

func TestGenericContext_NeverRelevant(t *testing.T) {
	c := NewGenericContext("meditation", "health-data", "u")
	c.Absorb(map[string]any{"minutes": 20})

	if got := c.ScoreRelevancy("how is my meditation going?"); got != 0 {
		t.Fatalf("generic context should never gain relevancy, got %v", got)
	}
	if c.ConfidenceScore() != 0 {
		t.Fatalf("generic context should hold zero confidence, got %v", c.ConfidenceScore())
	}
}
