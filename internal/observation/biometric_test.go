package observation

import (
	"math"
	"strings"
	"testing"

	"github.com/aevumlab/aevum/internal/domain"
)

func biometricUpload(entries ...map[string]any) map[string]any {
	return map[string]any{"biometric_data": entries}
}

func TestBiometricContext_BloodPressureBothTails(t *testing.T) {
	cases := []struct {
		sys, dia float64
		want     domain.Rating
	}{
		{85, 55, domain.RatingPoor}, // hypotension
		{115, 75, domain.RatingExcellent},
		{125, 78, domain.RatingAboveAverage},
		{135, 85, domain.RatingAverage},
		{150, 95, domain.RatingPoor}, // hypertension
	}
	for _, tc := range cases {
		c := NewBiometricContext("health-data", "u")
		c.Absorb(biometricUpload(map[string]any{"systolic": tc.sys, "diastolic": tc.dia}))
		if got := c.Snapshot().CurrentState["blood_pressure"]; got != tc.want {
			t.Errorf("%v/%v: expected %v, got %v", tc.sys, tc.dia, tc.want, got)
		}
	}
}

func TestBiometricContext_WeightTrend(t *testing.T) {
	c := NewBiometricContext("health-data", "u")
	c.Absorb(biometricUpload(
		map[string]any{"weight": 80.0},
		map[string]any{"weight": 86.0},
	))

	snap := c.Snapshot()
	if math.Abs(snap.ProcessedData["weight_change"]-6) > 1e-9 {
		t.Fatalf("expected +6 kg change, got %v", snap.ProcessedData["weight_change"])
	}
	if math.Abs(snap.ProcessedData["weight_change_percentage"]-7.5) > 1e-9 {
		t.Fatalf("expected 7.5%% change, got %v", snap.ProcessedData["weight_change_percentage"])
	}

	// A gain above 5% triggers the intake recommendation.
	found := false
	for _, rec := range snap.Recommendations {
		if strings.Contains(rec, "caloric intake") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a caloric-intake recommendation, got %v", snap.Recommendations)
	}
}

func TestBiometricContext_HeartRateAndBodyFat(t *testing.T) {
	c := NewBiometricContext("health-data", "u")
	c.Absorb(biometricUpload(
		map[string]any{"heart_rate": 55.0, "body_fat_percentage": 12.0},
	))

	snap := c.Snapshot()
	if snap.CurrentState["heart_rate"] != domain.RatingExcellent {
		t.Fatalf("resting HR 55 should rate EXCELLENT, got %v", snap.CurrentState["heart_rate"])
	}
	if snap.CurrentState["body_fat"] != domain.RatingExcellent {
		t.Fatalf("body fat 12%% should rate EXCELLENT, got %v", snap.CurrentState["body_fat"])
	}

	// Very low body fat flags the low tail, not just the high one.
	low := NewBiometricContext("health-data", "u")
	low.Absorb(biometricUpload(map[string]any{"body_fat_percentage": 6.0}))
	if got := low.Snapshot().CurrentState["body_fat"]; got != domain.RatingBelowAverage {
		t.Fatalf("body fat 6%% should rate BELOW_AVERAGE, got %v", got)
	}
}

func TestExerciseContext_MixedFieldNames(t *testing.T) {
	c := NewExerciseContext("health-data", "u")
	c.Absorb(map[string]any{"exercise_data": []map[string]any{
		{"date": "d1", "active_calories": 450.0},
		{"date": "d2", "calories": 350.0},
	}})

	snap := c.Snapshot()
	if got := snap.ProcessedData["average_active_calories"]; got != 400 {
		t.Fatalf("expected mean 400, got %v", got)
	}
	if snap.CurrentState["active_calories"] != domain.RatingAboveAverage {
		t.Fatalf("expected ABOVE_AVERAGE, got %v", snap.CurrentState["active_calories"])
	}
}

func TestExerciseContext_Relevancy(t *testing.T) {
	c := NewExerciseContext("health-data", "u")
	c.Absorb(map[string]any{"exercise_data": []map[string]any{
		{"date": "d1", "active_calories": 400.0},
	}})

	if got := c.ScoreRelevancy("show my workout trend"); got != seriesConfidenceFloor {
		t.Fatalf("expected %v, got %v", seriesConfidenceFloor, got)
	}
}
