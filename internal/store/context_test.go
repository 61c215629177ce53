package store

import (
	"fmt"
	"testing"

	"github.com/aevumlab/aevum/internal/domain"
	"github.com/aevumlab/aevum/internal/observation"
)

func TestContextStore_QueryFIFO(t *testing.T) {
	s := NewContextStore()

	for i := 0; i < 15; i++ {
		s.RecordQuery("u1", fmt.Sprintf("query %d", i), nil)
	}

	queries := s.Queries("u1")
	if len(queries) != queryHistoryLimit {
		t.Fatalf("expected %d queries, got %d", queryHistoryLimit, len(queries))
	}
	if queries[0].Text != "query 5" {
		t.Fatalf("expected oldest surviving query to be %q, got %q", "query 5", queries[0].Text)
	}
	if queries[len(queries)-1].Text != "query 14" {
		t.Fatalf("expected newest query last, got %q", queries[len(queries)-1].Text)
	}
}

func TestContextStore_Metadata(t *testing.T) {
	s := NewContextStore()

	s.UpdateMetadata("u1", map[string]any{"a": 1, "b": "x"})
	s.UpdateMetadata("u1", map[string]any{"b": "y"})

	md := s.Metadata("u1")
	if md["a"] != 1 || md["b"] != "y" {
		t.Fatalf("unexpected metadata: %v", md)
	}

	// Returned map is a copy.
	md["a"] = 99
	if s.Metadata("u1")["a"] != 1 {
		t.Fatal("metadata mutation leaked into the store")
	}
}

func TestContextStore_Contexts(t *testing.T) {
	s := NewContextStore()

	if s.HasContexts("u1") {
		t.Fatal("new user should have no contexts")
	}

	oc := observation.NewSleepContext("health-data", "u1")
	s.PutContext("u1", "health-data", oc)

	if !s.HasContexts("u1") {
		t.Fatal("expected contexts after put")
	}
	if got := s.Contexts("u1")["health-data"]; got != domain.ObservationContext(oc) {
		t.Fatal("stored context not returned")
	}
}

func TestContextStore_ClearAtomic(t *testing.T) {
	s := NewContextStore()

	s.RecordQuery("u1", "hello", nil)
	s.UpdateMetadata("u1", map[string]any{"k": "v"})
	s.SetActiveTopic("u1", domain.TopicSleep)
	s.PutContext("u1", "health-data", observation.NewSleepContext("health-data", "u1"))

	s.Clear("u1")

	if s.HasContexts("u1") {
		t.Fatal("contexts survived clear")
	}
	if len(s.Metadata("u1")) != 0 {
		t.Fatal("metadata survived clear")
	}
	if s.ActiveTopic("u1") != "" {
		t.Fatal("active topic survived clear")
	}
	if len(s.Queries("u1")) != 0 {
		t.Fatal("query history survived clear")
	}

	// Other users are untouched.
	s.RecordQuery("u2", "hi", nil)
	s.Clear("u1")
	if len(s.Queries("u2")) != 1 {
		t.Fatal("clearing one user affected another")
	}
}
