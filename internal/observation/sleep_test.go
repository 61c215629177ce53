package observation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aevumlab/aevum/internal/domain"
)

func sleepUpload(durations ...float64) map[string]any {
	entries := make([]map[string]any, len(durations))
	for i, d := range durations {
		entries[i] = map[string]any{"date": fmt.Sprintf("2026-01-%02d", i+1), "duration": d}
	}
	return map[string]any{"sleep_data": entries}
}

func TestSleepContext_MixedFieldNames(t *testing.T) {
	c := NewSleepContext("health-data", "user-1")
	c.Absorb(map[string]any{"sleep_data": []map[string]any{
		{"date": "d1", "duration": 5.5},
		{"date": "d2", "sleep_hours": 6.0},
	}})

	snap := c.Snapshot()
	if got := snap.ProcessedData["average_duration"]; got != 5.75 {
		t.Fatalf("expected mean 5.75, got %v", got)
	}
	if snap.CurrentState["duration"] != domain.RatingBelowAverage {
		t.Fatalf("expected BELOW_AVERAGE, got %v", snap.CurrentState["duration"])
	}

	found := false
	for _, rec := range snap.Recommendations {
		if strings.Contains(rec, "bed 30 minutes earlier") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an earlier-bedtime recommendation, got %v", snap.Recommendations)
	}
}

func TestSleepContext_ConfidenceMonotone(t *testing.T) {
	small := NewSleepContext("health-data", "user-1")
	small.Absorb(sleepUpload(7, 7, 7, 7, 7))
	smallConf := small.ConfidenceScore()

	if smallConf != seriesConfidenceFloor {
		t.Fatalf("5 samples should sit at the floor %v, got %v", seriesConfidenceFloor, smallConf)
	}

	// Same context absorbing more data must never lose confidence.
	more := make([]float64, 30)
	for i := range more {
		more[i] = 7
	}
	small.Absorb(sleepUpload(more...))
	grownConf := small.ConfidenceScore()

	if grownConf < smallConf {
		t.Fatalf("confidence decreased from %v to %v", smallConf, grownConf)
	}
	if grownConf != 1.0 {
		t.Fatalf("35 samples should saturate at 1.0, got %v", grownConf)
	}
}

func TestSleepContext_RatingThresholds(t *testing.T) {
	cases := []struct {
		hours float64
		want  domain.Rating
	}{
		{4.5, domain.RatingPoor},
		{5.5, domain.RatingBelowAverage},
		{6.5, domain.RatingAverage},
		{7.5, domain.RatingAboveAverage},
		{8.5, domain.RatingExcellent},
	}
	for _, tc := range cases {
		c := NewSleepContext("health-data", "user-1")
		c.Absorb(sleepUpload(tc.hours))
		if got := c.Snapshot().CurrentState["duration"]; got != tc.want {
			t.Errorf("%v hours: expected %v, got %v", tc.hours, tc.want, got)
		}
	}
}

func TestSleepContext_Relevancy(t *testing.T) {
	c := NewSleepContext("health-data", "user-1")
	c.Absorb(sleepUpload(7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7))
	// 15 samples, confidence 0.5.

	if got := c.ScoreRelevancy("how is my sleep?"); got != 0.5 {
		t.Fatalf("keyword match: expected confidence x 1.0 = 0.5, got %v", got)
	}
	if c.AmbiguityScore() != 0 {
		t.Fatalf("explicit match should carry no ambiguity, got %v", c.AmbiguityScore())
	}

	// No keyword: 0.5 x 0.3 - 0.2 penalty, clamped at 0.
	if got := c.ScoreRelevancy("what should I eat?"); got != 0 {
		t.Fatalf("miss: expected 0, got %v", got)
	}
	if c.AmbiguityScore() != ambiguityPenalty {
		t.Fatalf("miss should record the ambiguity penalty, got %v", c.AmbiguityScore())
	}
}

func TestInsufficientDataLaw(t *testing.T) {
	contexts := []domain.ObservationContext{
		NewSleepContext("health-data", "u"),
		NewExerciseContext("health-data", "u"),
		NewNutritionContext("health-data", "u"),
		NewBiometricContext("health-data", "u"),
	}

	for _, c := range contexts {
		c.Absorb(map[string]any{})

		snap := c.Snapshot()
		if snap.CurrentState["overall"] != domain.RatingInsufficientData {
			t.Errorf("%s: expected overall INSUFFICIENT_DATA, got %v", c.Topic(), snap.CurrentState)
		}
		if c.ConfidenceScore() != insufficientConfidence {
			t.Errorf("%s: expected confidence %v, got %v", c.Topic(), insufficientConfidence, c.ConfidenceScore())
		}
		if got := c.ScoreRelevancy("anything at all"); got != 0 {
			t.Errorf("%s: insufficient context should never be relevant, got %v", c.Topic(), got)
		}
	}
}

func TestSleepContext_Visualization(t *testing.T) {
	c := NewSleepContext("health-data", "user-1")
	c.Absorb(map[string]any{"sleep_data": []map[string]any{
		{"date": "d1", "duration": 7.0},
		{"duration": 8.0}, // no date, dropped
		{"date": "d3"},    // no value, dropped
		{"date": "d4", "duration": 6.0},
	}})

	resp := c.EmitResponse()
	if resp.Visualization == nil {
		t.Fatal("expected a visualization")
	}
	if len(resp.Visualization.Data) != 2 {
		t.Fatalf("expected 2 plotted points, got %d", len(resp.Visualization.Data))
	}
	if resp.Visualization.Data[0].Date != "d1" || resp.Visualization.Data[1].Date != "d4" {
		t.Fatalf("unexpected points: %+v", resp.Visualization.Data)
	}
}
