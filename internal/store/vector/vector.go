// Package vector implements the similarity index on Postgres with pgvector.
package vector

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	log "github.com/sirupsen/logrus"

	"tanya/internal/models"
	"tanya/internal/store"
)

type StoreImpl struct {
	db *pgxpool.Pool
}

var _ store.VectorIndex = (*StoreImpl)(nil)

func NewStore(ctx context.Context, dsn string) (*StoreImpl, error) {
	if dsn == "" {
		return nil, fmt.Errorf("vector index DSN cannot be empty")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse vector index DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping vector index: %w", err)
	}
	log.Info("Connected to PostgreSQL vector index.")
	return &StoreImpl{db: pool}, nil
}

func (vs *StoreImpl) Close() error {
	if vs.db != nil {
		vs.db.Close()
	}
	return nil
}

func (vs *StoreImpl) Ping(ctx context.Context) error {
	if vs.db == nil {
		return fmt.Errorf("vector index connection is not initialized")
	}
	return vs.db.Ping(ctx)
}

// EnsureSchema creates the pgvector extension and the points table. Called
// by the reindex path so a fresh database works without manual migration.
func (vs *StoreImpl) EnsureSchema(ctx context.Context, dim int) error {
	if _, err := vs.db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS faq_points (
		id UUID PRIMARY KEY,
		category TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		vector vector(%d) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, dim)
	if _, err := vs.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create faq_points table: %w", err)
	}
	return nil
}

func (vs *StoreImpl) Upsert(ctx context.Context, points []models.FaqPoint) error {
	for _, p := range points {
		query := `INSERT INTO faq_points (id, category, question, answer, vector)
		          VALUES ($1, $2, $3, $4, $5)
		          ON CONFLICT (id) DO UPDATE SET
		            category = EXCLUDED.category,
		            question = EXCLUDED.question,
		            answer   = EXCLUDED.answer,
		            vector   = EXCLUDED.vector`
		if _, err := vs.db.Exec(ctx, query, p.ID, p.Category, p.Question, p.Answer, p.Vector); err != nil {
			return fmt.Errorf("upsert faq point %s: %w", p.ID, err)
		}
	}
	return nil
}

func (vs *StoreImpl) Reset(ctx context.Context) error {
	if _, err := vs.db.Exec(ctx, `TRUNCATE faq_points`); err != nil {
		return fmt.Errorf("reset faq_points: %w", err)
	}
	return nil
}

// Search returns the topK nearest questions within one category, ordered by
// descending similarity. Cosine distance maps onto a [0,1] similarity score.
// The category filter runs in the query itself, never client-side.
func (vs *StoreImpl) Search(ctx context.Context, queryVector pgvector.Vector, category string, topK int) ([]models.ScoredPoint, error) {
	query := `SELECT question, answer, 1 - (vector <=> $1) AS score
	          FROM faq_points
	          WHERE lower(category) = lower($2)
	          ORDER BY vector <=> $1
	          LIMIT $3`
	rows, err := vs.db.Query(ctx, query, queryVector, category, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search query: %w", err)
	}
	defer rows.Close()

	var results []models.ScoredPoint
	for rows.Next() {
		var p models.ScoredPoint
		if err := rows.Scan(&p.Question, &p.Answer, &p.Score); err != nil {
			return nil, fmt.Errorf("scan vector search row: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vector search rows: %w", err)
	}
	return results, nil
}
