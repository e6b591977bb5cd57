package services

import (
	"context"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingProvider turns text into a fixed-length numeric vector. The
// resolution core never interprets vector internals; it only carries them
// between the provider and the vector index.
type EmbeddingProvider interface {
	GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([]pgvector.Vector, error)
	Dimension() int
	Name() string
	ModelName() string
}

// ChatMessageRole is the sender role of a chat message.
type ChatMessageRole string

const (
	ChatMessageRoleSystem    ChatMessageRole = "system"
	ChatMessageRoleUser      ChatMessageRole = "user"
	ChatMessageRoleAssistant ChatMessageRole = "assistant"
)

// ChatMessage is a single message in a chat exchange.
type ChatMessage struct {
	Role    ChatMessageRole
	Content string
}

// CompletionService generates a chat completion. Status is a cheap readiness
// probe used by the doctor command and the health endpoint.
type CompletionService interface {
	GenerateChatCompletion(ctx context.Context, messages []ChatMessage) (string, error)
	Status(ctx context.Context) error
	Name() string
	ModelName() string
}
