package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aevumlab/aevum/internal/domain"
)

// DecisionLog is the in-memory routing audit log. Appends preserve
// per-user order; records are never mutated.
type DecisionLog struct {
	mu     sync.RWMutex
	byUser map[string][]domain.RouteDecision
}

func NewDecisionLog() *DecisionLog {
	return &DecisionLog{byUser: make(map[string][]domain.RouteDecision)}
}

func (l *DecisionLog) Append(ctx context.Context, d *domain.RouteDecision) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.byUser[d.UserID] = append(l.byUser[d.UserID], *d)
	return nil
}

// ListByUser returns the user's decisions newest first. A limit <= 0
// returns all of them.
func (l *DecisionLog) ListByUser(ctx context.Context, userID string, limit int) ([]domain.RouteDecision, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	all := l.byUser[userID]
	out := make([]domain.RouteDecision, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

var _ domain.DecisionLog = (*DecisionLog)(nil)

// PGDecisionStore persists routing decisions to Postgres for deployments
// where the audit trail must survive restarts.
type PGDecisionStore struct {
	pool *pgxpool.Pool
}

func NewPGDecisionStore(pool *pgxpool.Pool) *PGDecisionStore {
	return &PGDecisionStore{pool: pool}
}

func (s *PGDecisionStore) Append(ctx context.Context, d *domain.RouteDecision) error {
	query := `
		INSERT INTO route_decisions (id, user_id, query, selected, confidence, method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, query,
		d.ID, d.UserID, d.Query, d.Selected, d.Confidence, string(d.Method), d.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert route decision: %w", err)
	}
	return nil
}

func (s *PGDecisionStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.RouteDecision, error) {
	query := `
		SELECT id, user_id, query, selected, confidence, method, created_at
		FROM route_decisions
		WHERE user_id = $1
		ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query route decisions: %w", err)
	}
	defer rows.Close()

	var out []domain.RouteDecision
	for rows.Next() {
		var d domain.RouteDecision
		var method string
		if err := rows.Scan(&d.ID, &d.UserID, &d.Query, &d.Selected, &d.Confidence, &method, &d.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan route decision: %w", err)
		}
		d.Method = domain.RouteMethod(method)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate route decisions: %w", err)
	}
	return out, nil
}

var _ domain.DecisionLog = (*PGDecisionStore)(nil)
