package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pgvector/pgvector-go"
	log "github.com/sirupsen/logrus"
)

// LocalProvider talks to the sentence-transformers embedding microservice:
// POST {base}/embed {"texts": [...]} -> {"vectors": [[...], ...]}.
type LocalProvider struct {
	baseURL string
	model   string
	dim     int
	client  *http.Client
}

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Vectors [][]float32 `json:"vectors"`
	Error   string      `json:"error,omitempty"`
}

// NewLocalProvider creates a client for the local embedding service. The
// model name is informational only; the service decides which model it runs.
func NewLocalProvider(baseURL, model string, dim int) (*LocalProvider, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("local embedding provider base URL is required")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("local embedding provider dimension must be positive, got %d", dim)
	}
	log.Infof("Local embedding provider initialized at %s (dimension %d)", baseURL, dim)
	return &LocalProvider{
		baseURL: baseURL,
		model:   model,
		dim:     dim,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (p *LocalProvider) Name() string      { return "local" }
func (p *LocalProvider) ModelName() string { return p.model }
func (p *LocalProvider) Dimension() int    { return p.dim }

func (p *LocalProvider) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	vecs, err := p.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return pgvector.Vector{}, err
	}
	return vecs[0], nil
}

func (p *LocalProvider) GenerateEmbeddings(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(embedRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embedding service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed embedResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("embedding service error: %s", parsed.Error)
	}
	if len(parsed.Vectors) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d texts", len(parsed.Vectors), len(texts))
	}

	out := make([]pgvector.Vector, len(parsed.Vectors))
	for i, v := range parsed.Vectors {
		if len(v) != p.dim {
			return nil, fmt.Errorf("embedding service returned dimension %d, want %d", len(v), p.dim)
		}
		out[i] = pgvector.NewVector(v)
	}
	return out, nil
}
