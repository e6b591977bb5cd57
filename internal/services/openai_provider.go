package services

import (
	"context"
	"fmt"
	"os"

	"github.com/pgvector/pgvector-go"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// OpenAIProvider implements EmbeddingProvider and CompletionService against
// the OpenAI API.
type OpenAIProvider struct {
	client     *openai.Client
	embedModel openai.EmbeddingModel
	chatModel  string
	dim        int
}

// NewOpenAIProvider creates the provider. Either model may be empty if only
// the other capability is used.
func NewOpenAIProvider(apiKey, embedModel, chatModel string) (*OpenAIProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not provided")
	}

	var dim int
	switch embedModel {
	case "": // chat-only use
		dim = 0
	case string(openai.AdaEmbeddingV2), "text-embedding-3-small":
		dim = 1536
	case "text-embedding-3-large":
		dim = 3072
	default:
		log.Warnf("Unknown OpenAI embedding model %q, defaulting dimension to 1536", embedModel)
		dim = 1536
	}

	log.Infof("OpenAI provider initialized (embedding %q, chat %q)", embedModel, chatModel)
	return &OpenAIProvider{
		client:     openai.NewClient(apiKey),
		embedModel: openai.EmbeddingModel(embedModel),
		chatModel:  chatModel,
		dim:        dim,
	}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

// ModelName reports the embedding model, or the chat model when the provider
// was built without one.
func (p *OpenAIProvider) ModelName() string {
	if p.embedModel == "" {
		return p.chatModel
	}
	return string(p.embedModel)
}

func (p *OpenAIProvider) Dimension() int { return p.dim }

func (p *OpenAIProvider) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	vecs, err := p.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return pgvector.Vector{}, err
	}
	return vecs[0], nil
}

func (p *OpenAIProvider) GenerateEmbeddings(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	if p.embedModel == "" {
		return nil, fmt.Errorf("OpenAI embedding model not configured")
	}
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: p.embedModel,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("OpenAI returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}
	out := make([]pgvector.Vector, len(resp.Data))
	for i, d := range resp.Data {
		if len(d.Embedding) != p.dim {
			return nil, fmt.Errorf("OpenAI returned embedding dimension %d, want %d", len(d.Embedding), p.dim)
		}
		out[i] = pgvector.NewVector(d.Embedding)
	}
	return out, nil
}

func (p *OpenAIProvider) GenerateChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	if p.chatModel == "" {
		return "", fmt.Errorf("OpenAI chat model not configured")
	}
	reqMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		reqMessages[i] = openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.chatModel,
		Messages: reqMessages,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Status(ctx context.Context) error {
	_, err := p.client.ListModels(ctx)
	return err
}
