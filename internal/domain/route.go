package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RouteMethod string

const (
	MethodSemantic           RouteMethod = "semantic"
	MethodHandlerConfidence  RouteMethod = "handler-confidence"
	MethodObservationContext RouteMethod = "observation-context"
)

// RouteDecision is one append-only audit record: which handler or context
// answered a turn, with what confidence, and by which method.
type RouteDecision struct {
	ID         uuid.UUID   `json:"id"`
	UserID     string      `json:"user_id"`
	Query      string      `json:"query"`
	Selected   string      `json:"selected"`
	Confidence float64     `json:"confidence"`
	Method     RouteMethod `json:"method"`
	Timestamp  time.Time   `json:"timestamp"`
}

// DecisionLog records routing decisions. Appends preserve per-user turn
// order; records are never mutated or deleted.
type DecisionLog interface {
	Append(ctx context.Context, d *RouteDecision) error
	ListByUser(ctx context.Context, userID string, limit int) ([]RouteDecision, error)
}
