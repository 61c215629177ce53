package service

import (
	"context"

	"github.com/aevumlab/aevum/internal/domain"
)

// arbitrationThreshold is the semantic confidence below which handler
// self-reports are consulted. Kept distinct from neutralConfidence: the
// two values are close but serve different roles.
const arbitrationThreshold = 0.7

// RouteResult is the outcome of routing one query.
type RouteResult struct {
	Handler    domain.Handler
	Confidence float64
	Method     domain.RouteMethod
}

// Router composes the semantic matcher and the confidence arbitrator.
// The matcher always runs first; arbitration runs only when the matcher
// is unsure, and its winner must beat the matcher's score to take over.
type Router struct {
	matcher    *SemanticMatcher
	arbitrator *ConfidenceArbitrator
}

func NewRouter(matcher *SemanticMatcher, arbitrator *ConfidenceArbitrator) *Router {
	return &Router{matcher: matcher, arbitrator: arbitrator}
}

func (r *Router) Route(ctx context.Context, query string, turn domain.TurnContext) RouteResult {
	handler, confidence := r.matcher.Match(ctx, query)
	if confidence >= arbitrationThreshold {
		return RouteResult{Handler: handler, Confidence: confidence, Method: domain.MethodSemantic}
	}

	challenger, challengerScore := r.arbitrator.Arbitrate(ctx, query, turn)
	if challengerScore > confidence {
		return RouteResult{Handler: challenger, Confidence: challengerScore, Method: domain.MethodHandlerConfidence}
	}
	return RouteResult{Handler: handler, Confidence: confidence, Method: domain.MethodSemantic}
}
