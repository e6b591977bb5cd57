package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"tanya/internal/models"
	"tanya/internal/store"
	"tanya/internal/textnorm"
)

// ReindexAll rebuilds the vector index from the catalog: ensure schema, wipe
// the table, embed every question and upsert per category. Returns the number
// of indexed entries.
func (a *App) ReindexAll(ctx context.Context) (int, error) {
	if a.VectorStore == nil {
		return 0, fmt.Errorf("no vector index configured (database.vector.dsn)")
	}
	if err := a.VectorStore.EnsureSchema(ctx, a.EmbeddingService.Dimension()); err != nil {
		return 0, fmt.Errorf("ensure vector schema: %w", err)
	}
	if err := a.VectorStore.Reset(ctx); err != nil {
		return 0, fmt.Errorf("reset vector index: %w", err)
	}

	total := 0
	for _, cat := range a.Catalog.Categories() {
		if len(cat.Entries) == 0 {
			continue
		}
		texts := make([]string, len(cat.Entries))
		for i, entry := range cat.Entries {
			texts[i] = textnorm.Light(entry.Question)
		}
		vectors, err := a.EmbeddingService.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return total, fmt.Errorf("embed category %q: %w", cat.Name, err)
		}
		if len(vectors) != len(cat.Entries) {
			return total, fmt.Errorf("embed category %q: got %d vectors for %d entries", cat.Name, len(vectors), len(cat.Entries))
		}

		points := make([]models.FaqPoint, len(cat.Entries))
		for i, entry := range cat.Entries {
			points[i] = models.FaqPoint{
				ID:       store.PointID(cat.Name, texts[i]),
				Category: cat.Name,
				Question: entry.Question,
				Answer:   entry.Answer,
				Vector:   vectors[i],
			}
		}
		if err := a.VectorStore.Upsert(ctx, points); err != nil {
			return total, fmt.Errorf("upsert category %q: %w", cat.Name, err)
		}
		total += len(points)
		log.Infof("Indexed %d entries for category %q", len(points), cat.Name)
	}
	return total, nil
}
