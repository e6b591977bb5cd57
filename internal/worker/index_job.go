// Package worker holds the asynq handlers that keep the vector index in
// sync with the catalog.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"tanya/internal/models"
	"tanya/internal/store"
	"tanya/internal/tasks"
	"tanya/internal/textnorm"
)

type IndexWorker struct {
	embedder store.EmbeddingService
	index    store.VectorIndex
}

func NewIndexWorker(embedder store.EmbeddingService, index store.VectorIndex) *IndexWorker {
	return &IndexWorker{embedder: embedder, index: index}
}

func (w *IndexWorker) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeIndexEntry, w.HandleIndexEntryJob)
}

// HandleIndexEntryJob embeds one catalog entry's question and upserts the
// point. The embedded text is the lightly normalized question, matching what
// the query side embeds at ask time.
func (w *IndexWorker) HandleIndexEntryJob(ctx context.Context, t *asynq.Task) error {
	var payload tasks.IndexEntryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal index entry payload: %w", err)
	}
	if payload.Category == "" || payload.Question == "" {
		return fmt.Errorf("index entry payload missing category or question")
	}

	vec, err := w.embedder.GenerateEmbedding(ctx, textnorm.Light(payload.Question))
	if err != nil {
		return fmt.Errorf("embed question for indexing: %w", err)
	}

	point := models.FaqPoint{
		ID:       store.PointID(payload.Category, textnorm.Light(payload.Question)),
		Category: payload.Category,
		Question: payload.Question,
		Answer:   payload.Answer,
		Vector:   vec,
	}
	if err := w.index.Upsert(ctx, []models.FaqPoint{point}); err != nil {
		return fmt.Errorf("upsert indexed point: %w", err)
	}

	log.WithFields(log.Fields{
		"category": payload.Category,
		"question": payload.Question,
	}).Info("Indexed catalog entry.")
	return nil
}
