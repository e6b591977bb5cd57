// Package tasks defines the asynq task types and payloads shared by the
// enqueueing client and the worker.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeIndexEntry = "index:entry"

// IndexEntryPayload carries one catalog entry to be embedded and upserted
// into the vector index.
type IndexEntryPayload struct {
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func NewIndexEntryTask(category, question, answer string) (*asynq.Task, error) {
	payload, err := json.Marshal(IndexEntryPayload{
		Category: category,
		Question: question,
		Answer:   answer,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal index entry payload: %w", err)
	}
	return asynq.NewTask(TypeIndexEntry, payload), nil
}
