package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"tanya/internal/models"
)

// PointID derives a stable vector-point ID from a category and a normalized
// question, so re-embedding the same entry overwrites its point instead of
// duplicating it.
func PointID(category, normQuestion string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(category+"|"+normQuestion))
}

// EmbeddingService is the narrow embedding surface the rest of the system
// consumes; providers and the fallback wrapper implement it.
type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([]pgvector.Vector, error)
	Dimension() int
}

// VectorIndex is the similarity index over catalog questions. Search must
// filter by category server-side so candidates never leak across categories.
type VectorIndex interface {
	Search(ctx context.Context, query pgvector.Vector, category string, topK int) ([]models.ScoredPoint, error)
	Upsert(ctx context.Context, points []models.FaqPoint) error
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// JobClient enqueues background work.
type JobClient interface {
	EnqueueIndexEntry(ctx context.Context, category string, entry models.FaqEntry) error
	Close() error
}
