// Package retrieval turns a user question into semantic candidates from the
// vector index.
package retrieval

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	log "github.com/sirupsen/logrus"

	"tanya/internal/models"
	"tanya/internal/textnorm"
)

// TopK is how many neighbours a search fetches. Downstream ranking only
// considers the first few, but fetching a wider net keeps fusion stable when
// near-duplicates crowd the top.
const TopK = 10

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

type Index interface {
	Search(ctx context.Context, query pgvector.Vector, category string, topK int) ([]models.ScoredPoint, error)
}

type Retriever struct {
	embedder Embedder
	index    Index
	topK     int
}

func NewRetriever(embedder Embedder, index Index, topK int) *Retriever {
	if topK <= 0 {
		topK = TopK
	}
	return &Retriever{embedder: embedder, index: index, topK: topK}
}

// Retrieve embeds the lightly normalized question and searches within the
// category. Any infrastructure failure surfaces as ErrRetrievalFailed so the
// caller can switch to its degraded path.
func (r *Retriever) Retrieve(ctx context.Context, category, question string) ([]models.ScoredPoint, error) {
	vec, err := r.embedder.GenerateEmbedding(ctx, textnorm.Light(question))
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", models.ErrRetrievalFailed, err)
	}
	points, err := r.index.Search(ctx, vec, category, r.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: vector search: %v", models.ErrRetrievalFailed, err)
	}
	log.Debugf("retrieved %d semantic candidates for category %q", len(points), category)
	return points, nil
}
