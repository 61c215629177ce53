package index

import (
	"context"
	"fmt"

	"github.com/aevumlab/aevum/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// PGIndex stores handler domain-example embeddings in Postgres and ranks
// them with pgvector's cosine-distance operator. Build replaces the stored
// set wholesale, so restarts with changed handler registries stay correct.
type PGIndex struct {
	db     *pgxpool.Pool
	client domain.EmbeddingClient
	size   int
}

func NewPGIndex(db *pgxpool.Pool, client domain.EmbeddingClient) *PGIndex {
	return &PGIndex{db: db, client: client}
}

func (i *PGIndex) Build(ctx context.Context, examples []Example) error {
	tx, err := i.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin index build: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM handler_examples`); err != nil {
		return fmt.Errorf("clear handler examples: %w", err)
	}

	for _, ex := range examples {
		vec, err := i.client.Embed(ctx, ex.Content)
		if err != nil {
			return fmt.Errorf("embed example %q: %w", ex.Content, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO handler_examples (handler_name, content, embedding) VALUES ($1, $2, $3)`,
			ex.Label, ex.Content, pgvector.NewVector(vec),
		); err != nil {
			return fmt.Errorf("insert example: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit index build: %w", err)
	}
	i.size = len(examples)
	return nil
}

func (i *PGIndex) Size() int {
	return i.size
}

func (i *PGIndex) TopKSimilar(ctx context.Context, text string, k int) ([]domain.ExampleMatch, error) {
	if i.size == 0 {
		return nil, nil
	}

	query, err := i.client.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := i.db.Query(ctx,
		`SELECT handler_name, content, embedding <=> $1 AS distance
		 FROM handler_examples
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(query), k,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.ExampleMatch
	for rows.Next() {
		var m domain.ExampleMatch
		var distance float64
		if err := rows.Scan(&m.Label, &m.Content, &distance); err != nil {
			return nil, err
		}
		m.Distance = float32(distance)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
