package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/aevumlab/aevum/internal/domain"
	"github.com/aevumlab/aevum/internal/handler"
	"github.com/aevumlab/aevum/internal/store"
)

func newTestCoach(t *testing.T, handlers ...domain.Handler) (*CoachService, *store.ContextStore, *store.DecisionLog) {
	t.Helper()

	registry, err := handler.NewRegistry(handlers...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	logger := zap.NewNop()
	matcher := NewSemanticMatcher(&stubIndex{size: 0}, handlers, logger)
	arbitrator := NewConfidenceArbitrator(handlers, logger)
	router := NewRouter(matcher, arbitrator)

	contexts := store.NewContextStore()
	decisions := store.NewDecisionLog()

	return NewCoachService(registry, router, contexts, decisions, logger), contexts, decisions
}

func TestCoach_ContractViolations(t *testing.T) {
	svc, _, _ := newTestCoach(t, &mockHandler{name: "general", confidence: 0.5})
	ctx := context.Background()

	if _, err := svc.RouteQuery(ctx, "", "hi", nil); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
	if _, err := svc.RouteQuery(ctx, "u1", "", nil); !errors.Is(err, ErrQueryRequired) {
		t.Fatalf("expected ErrQueryRequired, got %v", err)
	}
	if _, err := svc.HandleUpload(ctx, "", "sleep", nil, ""); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
	if err := svc.ClearContext(""); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
}

func TestCoach_DirectRoute(t *testing.T) {
	general := &mockHandler{name: "general", confidence: 0.4}
	strong := &mockHandler{name: "strong", confidence: 0.9}
	svc, _, decisions := newTestCoach(t, general, strong)
	ctx := context.Background()

	resp, err := svc.RouteQuery(ctx, "u1", "hello", nil)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	// Empty index gives neutral 0.5; strong's 0.9 wins arbitration.
	if resp.AgentName != "strong" {
		t.Fatalf("expected strong to answer, got %q", resp.AgentName)
	}
	if resp.Text != "strong answer" {
		t.Fatalf("unexpected text %q", resp.Text)
	}

	logged, err := decisions.ListByUser(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("list decisions: %v", err)
	}
	if len(logged) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(logged))
	}
	if logged[0].Method != domain.MethodHandlerConfidence || logged[0].Selected != "strong" {
		t.Fatalf("unexpected decision: %+v", logged[0])
	}
}

func TestCoach_AnswerFailureDegrades(t *testing.T) {
	broken := &mockHandler{name: "broken", confidence: 0.9, answerErr: errors.New("downstream gone")}
	svc, _, _ := newTestCoach(t, broken)

	resp, err := svc.RouteQuery(context.Background(), "u1", "hello", nil)
	if err != nil {
		t.Fatalf("pipeline failures must not propagate, got %v", err)
	}
	if resp.Text != domain.FallbackText {
		t.Fatalf("expected fallback text, got %q", resp.Text)
	}
	if resp.Error == nil || !strings.Contains(*resp.Error, "downstream gone") {
		t.Fatalf("expected the error to be carried, got %v", resp.Error)
	}
}

func TestCoach_RelevancyOrdering(t *testing.T) {
	general := &mockHandler{name: "general", confidence: 0.5}
	svc, contexts, decisions := newTestCoach(t, general)
	ctx := context.Background()

	viz := &domain.Visualization{Type: "line", Title: "Top"}
	contexts.PutContext("u1", "c-high", &stubContext{
		handlerName: "c-high", relevancy: 0.9,
		response: &domain.Response{Text: "high", Insights: []string{"i1"}, Visualization: viz},
	})
	contexts.PutContext("u1", "c-mid", &stubContext{
		handlerName: "c-mid", relevancy: 0.6,
		response: &domain.Response{Text: "mid", Insights: []string{"i2", "i1"}},
	})
	contexts.PutContext("u1", "c-low", &stubContext{
		handlerName: "c-low", relevancy: 0.4,
		response: &domain.Response{Text: "low", Insights: []string{"i3"}},
	})

	resp, err := svc.RouteQuery(ctx, "u1", "how am I doing", nil)
	if err != nil {
		t.Fatalf("route: %v", err)
	}

	if resp.Text != "high" {
		t.Fatalf("expected the highest-relevancy text, got %q", resp.Text)
	}
	if resp.Visualization != viz {
		t.Fatal("expected the highest-relevancy visualization only")
	}
	if len(resp.AgentResponses) != 2 {
		t.Fatalf("expected exactly the two surviving contexts, got %d", len(resp.AgentResponses))
	}
	if resp.AgentResponses[0].AgentName != "c-high" || resp.AgentResponses[1].AgentName != "c-mid" {
		t.Fatalf("unexpected order: %q, %q", resp.AgentResponses[0].AgentName, resp.AgentResponses[1].AgentName)
	}
	// Insights from both, deduped first-seen.
	want := []string{"i1", "i2"}
	if len(resp.Insights) != len(want) || resp.Insights[0] != "i1" || resp.Insights[1] != "i2" {
		t.Fatalf("expected %v, got %v", want, resp.Insights)
	}

	// The general handler was never invoked.
	if general.answerCalls != 0 {
		t.Fatal("context routing must not invoke handlers")
	}

	logged, _ := decisions.ListByUser(ctx, "u1", 0)
	if len(logged) != 2 {
		t.Fatalf("expected one decision per surviving context, got %d", len(logged))
	}
	for _, d := range logged {
		if d.Method != domain.MethodObservationContext {
			t.Fatalf("expected observation-context method, got %s", d.Method)
		}
	}
}

func TestCoach_FallbackWhenNoContextSurvives(t *testing.T) {
	general := &mockHandler{name: "general", confidence: 0.8}
	svc, contexts, _ := newTestCoach(t, general)

	contexts.PutContext("u1", "weak", &stubContext{handlerName: "weak", relevancy: 0.2})

	resp, err := svc.RouteQuery(context.Background(), "u1", "hello", nil)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if resp.AgentName != "general" {
		t.Fatalf("expected fallback to the router, got %q", resp.AgentName)
	}
	if general.answerCalls != 1 {
		t.Fatalf("expected one handler answer, got %d", general.answerCalls)
	}
}

func TestCoach_UploadEndToEnd(t *testing.T) {
	health := &mockHandler{name: "health-data", confidence: 0.7, topics: []string{domain.TopicSleep}}
	general := &mockHandler{name: "general", confidence: 0.5}
	svc, contexts, _ := newTestCoach(t, general, health)
	ctx := context.Background()

	data := map[string]any{"sleep_data": []map[string]any{
		{"date": "d1", "duration": 5.5},
		{"date": "d2", "sleep_hours": 6.0},
	}}

	resp, err := svc.HandleUpload(ctx, "u1", domain.TopicSleep, data, "how is my sleep?")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	// Only the sleep-capable handler built a context.
	stored := contexts.Contexts("u1")
	if len(stored) != 1 {
		t.Fatalf("expected 1 context, got %d", len(stored))
	}
	oc := stored["health-data"]
	if oc == nil {
		t.Fatal("context not keyed by handler name")
	}

	snap := oc.Snapshot()
	if got := snap.ProcessedData["average_duration"]; got != 5.75 {
		t.Fatalf("mixed field names should average to 5.75, got %v", got)
	}
	if snap.CurrentState["duration"] != domain.RatingBelowAverage {
		t.Fatalf("expected BELOW_AVERAGE, got %v", snap.CurrentState["duration"])
	}

	// The upload turn itself is answered from the new context.
	if resp.AgentResponses == nil {
		t.Fatal("expected a fused context response")
	}
	foundRec := false
	for _, insight := range resp.Insights {
		if strings.Contains(insight, "5.8 hours") {
			foundRec = true
		}
	}
	if !foundRec {
		t.Fatalf("expected the duration insight, got %v", resp.Insights)
	}
	if contexts.ActiveTopic("u1") != domain.TopicSleep {
		t.Fatalf("expected active topic sleep, got %q", contexts.ActiveTopic("u1"))
	}
}

func TestCoach_UploadGrowsExistingContext(t *testing.T) {
	health := &mockHandler{name: "health-data", confidence: 0.7, topics: []string{domain.TopicSleep}}
	svc, contexts, _ := newTestCoach(t, health)
	ctx := context.Background()

	upload := func(n int) {
		entries := make([]map[string]any, n)
		for i := range entries {
			entries[i] = map[string]any{"date": "d", "duration": 7.0}
		}
		if _, err := svc.HandleUpload(ctx, "u1", domain.TopicSleep, map[string]any{"sleep_data": entries}, "sleep?"); err != nil {
			t.Fatalf("upload: %v", err)
		}
	}

	upload(5)
	first := contexts.Contexts("u1")["health-data"].ConfidenceScore()
	upload(30)
	second := contexts.Contexts("u1")["health-data"].ConfidenceScore()

	if second < first {
		t.Fatalf("confidence decreased across uploads: %v -> %v", first, second)
	}
	if second != 1.0 {
		t.Fatalf("35 samples should saturate confidence, got %v", second)
	}
}

func TestCoach_UploadSkipsPanickingContext(t *testing.T) {
	// A handler whose context panics during absorption is skipped; the
	// others still get their contexts.
	broken := &panickyHandler{mockHandler{name: "broken", topics: []string{domain.TopicSleep}}}
	health := &mockHandler{name: "health-data", confidence: 0.7, topics: []string{domain.TopicSleep}}
	svc, contexts, _ := newTestCoach(t, health, broken)

	data := map[string]any{"sleep_data": []map[string]any{{"date": "d1", "duration": 7.0}}}
	if _, err := svc.HandleUpload(context.Background(), "u1", domain.TopicSleep, data, "sleep"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	stored := contexts.Contexts("u1")
	if stored["broken"] != nil {
		t.Fatal("panicking context should not be stored")
	}
	if stored["health-data"] == nil {
		t.Fatal("healthy handler should still get its context")
	}
}

func TestCoach_ClearAtomicity(t *testing.T) {
	general := &mockHandler{name: "general", confidence: 0.8}
	svc, contexts, _ := newTestCoach(t, general)
	ctx := context.Background()

	contexts.PutContext("u1", "ctx", &stubContext{handlerName: "ctx", relevancy: 0.9})
	contexts.UpdateMetadata("u1", map[string]any{"k": "v"})

	if err := svc.ClearContext("u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if contexts.HasContexts("u1") {
		t.Fatal("contexts survived clear")
	}
	if len(contexts.Metadata("u1")) != 0 {
		t.Fatal("metadata survived clear")
	}

	// The next turn behaves like a brand-new user: direct routing.
	resp, err := svc.RouteQuery(ctx, "u1", "hello", nil)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if resp.AgentName != "general" {
		t.Fatalf("expected direct routing after clear, got %q", resp.AgentName)
	}
}

// panickyHandler returns contexts that blow up on Absorb.
type panickyHandler struct {
	mockHandler
}

func (h *panickyHandler) CreateContext(topic, userID string) domain.ObservationContext {
	return &stubContext{topic: topic, handlerName: h.name, userID: userID, panicOnAbsorb: true}
}
