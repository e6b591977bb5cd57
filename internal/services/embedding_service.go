package services

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	log "github.com/sirupsen/logrus"
)

// FallbackEmbeddingService tries providers in order until one succeeds.
// Providers must agree on the vector dimension, otherwise points indexed by
// one provider would be unsearchable with another's query vectors.
type FallbackEmbeddingService struct {
	providers []EmbeddingProvider
}

func NewFallbackEmbeddingService(providers []EmbeddingProvider) (*FallbackEmbeddingService, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("at least one embedding provider is required")
	}
	dim := providers[0].Dimension()
	for _, p := range providers[1:] {
		if p.Dimension() != dim {
			return nil, fmt.Errorf("embedding providers disagree on dimension: %s has %d, expected %d",
				p.Name(), p.Dimension(), dim)
		}
	}
	return &FallbackEmbeddingService{providers: providers}, nil
}

func (s *FallbackEmbeddingService) Dimension() int {
	return s.providers[0].Dimension()
}

func (s *FallbackEmbeddingService) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	var lastErr error
	for _, p := range s.providers {
		vec, err := p.GenerateEmbedding(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Warnf("embedding provider %s failed, trying next: %v", p.Name(), err)
	}
	return pgvector.Vector{}, fmt.Errorf("all embedding providers failed: %w", lastErr)
}

func (s *FallbackEmbeddingService) GenerateEmbeddings(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	var lastErr error
	for _, p := range s.providers {
		vecs, err := p.GenerateEmbeddings(ctx, texts)
		if err == nil {
			return vecs, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Warnf("embedding provider %s failed batch, trying next: %v", p.Name(), err)
	}
	return nil, fmt.Errorf("all embedding providers failed: %w", lastErr)
}
