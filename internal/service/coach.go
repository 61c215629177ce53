package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aevumlab/aevum/internal/domain"
	"github.com/aevumlab/aevum/internal/handler"
)

// relevancyThreshold is the minimum relevancy for an observation context
// to take part in answering a turn.
const relevancyThreshold = 0.5

// Contract violations on the public entry points. These are the only
// errors allowed to reach the caller; everything inside the pipeline
// degrades silently into a normalized response.
var (
	ErrUserIDRequired = errors.New("user id is required")
	ErrQueryRequired  = errors.New("query is required")
)

// CoachService is the engine's public surface: it routes conversational
// turns, folds uploads into observation contexts, and keeps the audit
// trail.
type CoachService struct {
	registry  *handler.Registry
	router    *Router
	contexts  domain.ContextStore
	decisions domain.DecisionLog
	logger    *zap.Logger
}

func NewCoachService(
	registry *handler.Registry,
	router *Router,
	contexts domain.ContextStore,
	decisions domain.DecisionLog,
	logger *zap.Logger,
) *CoachService {
	return &CoachService{
		registry:  registry,
		router:    router,
		contexts:  contexts,
		decisions: decisions,
		logger:    logger,
	}
}

// RouteQuery answers one conversational turn. If the user has observation
// contexts, they get first claim on the query; otherwise the router picks
// a handler directly.
func (s *CoachService) RouteQuery(ctx context.Context, userID, query string, metadata map[string]any) (*domain.Response, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if query == "" {
		return nil, ErrQueryRequired
	}

	s.contexts.RecordQuery(userID, query, metadata)
	if len(metadata) > 0 {
		s.contexts.UpdateMetadata(userID, metadata)
	}

	turn := domain.TurnContext(s.contexts.Metadata(userID))
	if s.contexts.HasContexts(userID) {
		return s.routeWithContexts(ctx, userID, query, turn), nil
	}
	return s.routeDirect(ctx, userID, query, turn), nil
}

// routeDirect picks one handler via the router and has it answer. Handler
// failures degrade to a normalized error response; the turn never aborts.
func (s *CoachService) routeDirect(ctx context.Context, userID, query string, turn domain.TurnContext) *domain.Response {
	result := s.router.Route(ctx, query, turn)
	s.recordDecision(ctx, userID, query, result.Handler.Name(), result.Confidence, result.Method)

	answer, err := result.Handler.Answer(ctx, query, turn)
	if err != nil {
		s.logger.Error("handler answer failed",
			zap.String("handler", result.Handler.Name()),
			zap.String("user_id", userID),
			zap.Error(err))
		msg := err.Error()
		resp := domain.Normalize(nil)
		resp.Error = &msg
		resp.AgentName = result.Handler.Name()
		return resp
	}

	resp := domain.Normalize(answer)
	resp.AgentName = result.Handler.Name()
	confidence := result.Confidence
	resp.ConfidenceScore = &confidence
	return resp
}

// routeWithContexts scores every observation context against the query,
// keeps those above the relevancy threshold, and fuses their responses.
// Contexts answer directly; no handler is invoked on this path.
func (s *CoachService) routeWithContexts(ctx context.Context, userID, query string, turn domain.TurnContext) *domain.Response {
	type scored struct {
		name    string
		score   float64
		context domain.ObservationContext
	}

	var surviving []scored
	for name, oc := range s.contexts.Contexts(userID) {
		score := oc.ScoreRelevancy(query)
		if score >= relevancyThreshold {
			surviving = append(surviving, scored{name: name, score: score, context: oc})
		}
	}
	if len(surviving) == 0 {
		return s.routeDirect(ctx, userID, query, turn)
	}

	// Map iteration order is random; sort by score with the name as a
	// deterministic tiebreak.
	sort.SliceStable(surviving, func(i, j int) bool {
		if surviving[i].score != surviving[j].score {
			return surviving[i].score > surviving[j].score
		}
		return surviving[i].name < surviving[j].name
	})

	responses := make([]*domain.Response, 0, len(surviving))
	for _, sc := range surviving {
		resp := domain.Normalize(sc.context.EmitResponse())
		resp.AgentName = sc.name
		score := sc.score
		resp.RelevancyScore = &score
		responses = append(responses, resp)

		s.recordDecision(ctx, userID, query, sc.name, sc.score, domain.MethodObservationContext)
	}

	return Fuse(responses)
}

// HandleUpload folds an upload into observation contexts for every handler
// that supports the topic, then treats the upload as a conversational turn.
func (s *CoachService) HandleUpload(ctx context.Context, userID, topic string, data map[string]any, query string) (*domain.Response, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	existing := s.contexts.Contexts(userID)
	for _, h := range s.registry.All() {
		oc := existing[h.Name()]
		if oc == nil || oc.Topic() != topic {
			oc = h.CreateContext(topic, userID)
		}
		if oc == nil {
			continue
		}
		if !s.absorb(oc, h.Name(), data, query) {
			continue
		}
		s.contexts.PutContext(userID, h.Name(), oc)
	}
	s.contexts.SetActiveTopic(userID, topic)

	if query == "" {
		query = "Here is my latest " + topic + " data."
	}
	s.contexts.RecordQuery(userID, query, map[string]any{"upload_topic": topic})

	turn := domain.TurnContext(s.contexts.Metadata(userID))
	return s.routeWithContexts(ctx, userID, query, turn), nil
}

// absorb feeds data into one context, containing panics so a misbehaving
// context is skipped rather than aborting the other handlers.
func (s *CoachService) absorb(oc domain.ObservationContext, handlerName string, data map[string]any, query string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			s.logger.Error("context absorption panicked, skipping handler",
				zap.String("handler", handlerName),
				zap.Any("panic", r))
		}
	}()

	oc.Absorb(data)
	oc.ScoreRelevancy(query)
	return true
}

// ClearContext resets the user's conversational state and observation
// contexts in one step. The decision log is untouched.
func (s *CoachService) ClearContext(userID string) error {
	if userID == "" {
		return ErrUserIDRequired
	}
	s.contexts.Clear(userID)
	return nil
}

// Snapshots returns the introspectable state of the user's observation
// contexts, ordered by handler name.
func (s *CoachService) Snapshots(userID string) ([]domain.ContextSnapshot, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	contexts := s.contexts.Contexts(userID)
	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.ContextSnapshot, 0, len(names))
	for _, name := range names {
		out = append(out, contexts[name].Snapshot())
	}
	return out, nil
}

// Decisions returns the user's routing audit trail, newest first.
func (s *CoachService) Decisions(ctx context.Context, userID string, limit int) ([]domain.RouteDecision, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return s.decisions.ListByUser(ctx, userID, limit)
}

func (s *CoachService) recordDecision(ctx context.Context, userID, query, selected string, confidence float64, method domain.RouteMethod) {
	err := s.decisions.Append(ctx, &domain.RouteDecision{
		ID:         uuid.New(),
		UserID:     userID,
		Query:      query,
		Selected:   selected,
		Confidence: confidence,
		Method:     method,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to record route decision",
			zap.String("user_id", userID),
			zap.Error(err))
	}
}
