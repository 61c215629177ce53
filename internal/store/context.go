package store

import (
	"sync"
	"time"

	"github.com/aevumlab/aevum/internal/domain"
)

// queryHistoryLimit bounds per-user conversation history. Older queries
// are evicted first.
const queryHistoryLimit = 10

type userState struct {
	queries     []domain.QueryRecord
	metadata    map[string]any
	activeTopic string
	contexts    map[string]domain.ObservationContext
}

func newUserState() *userState {
	return &userState{
		metadata: make(map[string]any),
		contexts: make(map[string]domain.ObservationContext),
	}
}

// ContextStore is the in-memory per-user conversational state store. All
// methods are safe for concurrent use.
type ContextStore struct {
	mu    sync.RWMutex
	users map[string]*userState
}

func NewContextStore() *ContextStore {
	return &ContextStore{users: make(map[string]*userState)}
}

// user returns the state for userID, creating it if absent. Callers must
// hold the write lock.
func (s *ContextStore) user(userID string) *userState {
	u, ok := s.users[userID]
	if !ok {
		u = newUserState()
		s.users[userID] = u
	}
	return u
}

func (s *ContextStore) RecordQuery(userID, query string, metadata map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	u.queries = append(u.queries, domain.QueryRecord{
		Text:     query,
		Metadata: metadata,
		At:       time.Now().UTC(),
	})
	if len(u.queries) > queryHistoryLimit {
		u.queries = u.queries[len(u.queries)-queryHistoryLimit:]
	}
}

func (s *ContextStore) Queries(userID string) []domain.QueryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	return append([]domain.QueryRecord{}, u.queries...)
}

func (s *ContextStore) Metadata(userID string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(u.metadata))
	for k, v := range u.metadata {
		out[k] = v
	}
	return out
}

func (s *ContextStore) UpdateMetadata(userID string, update map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.user(userID)
	for k, v := range update {
		u.metadata[k] = v
	}
}

func (s *ContextStore) ActiveTopic(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[userID]; ok {
		return u.activeTopic
	}
	return ""
}

func (s *ContextStore) SetActiveTopic(userID, topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user(userID).activeTopic = topic
}

func (s *ContextStore) PutContext(userID, handlerName string, oc domain.ObservationContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user(userID).contexts[handlerName] = oc
}

func (s *ContextStore) Contexts(userID string) map[string]domain.ObservationContext {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return map[string]domain.ObservationContext{}
	}
	out := make(map[string]domain.ObservationContext, len(u.contexts))
	for k, v := range u.contexts {
		out[k] = v
	}
	return out
}

func (s *ContextStore) HasContexts(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	return ok && len(u.contexts) > 0
}

// Clear drops the user's entire state in one step. The routing audit
// trail lives in the decision log, not here, so nothing is kept back.
func (s *ContextStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, userID)
}

var _ domain.ContextStore = (*ContextStore)(nil)
