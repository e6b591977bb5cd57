// Package app wires configuration, stores, providers and the resolver into
// one application instance shared by every command.
package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"tanya/internal/augment"
	"tanya/internal/catalog"
	"tanya/internal/config"
	"tanya/internal/models"
	"tanya/internal/resolver"
	"tanya/internal/retrieval"
	"tanya/internal/services"
	"tanya/internal/store"
	"tanya/internal/store/vector"
)

type App struct {
	Config *config.Config

	Catalog           *catalog.Store
	JobClient         store.JobClient
	EmbeddingService  store.EmbeddingService
	VectorStore       *vector.StoreImpl
	CompletionService services.CompletionService
	Augmenter         *augment.Augmenter
	Retriever         resolver.SemanticRetriever
	Resolver          *resolver.Resolver
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := app.initCatalog(); err != nil {
		return nil, err
	}
	if err := app.initJobClient(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initEmbeddingService(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initVectorStore(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initCompletionService(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initResolver(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}

	log.Debug("Application initialization complete.")
	return app, nil
}

func (a *App) initCatalog() error {
	cs, err := catalog.Load(a.Config.Catalog.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	a.Catalog = cs
	return nil
}

func (a *App) initJobClient() error {
	a.JobClient = store.NewAsynqJobClient(a.Config.Redis.Address)
	return nil
}

func (a *App) initEmbeddingService() error {
	cfg := a.Config
	var providers []services.EmbeddingProvider

	switch cfg.Embedding.Provider {
	case "local":
		localProvider, err := services.NewLocalProvider(cfg.Embedding.LocalURL, cfg.Embedding.Model, cfg.Embedding.Dimension)
		if err != nil {
			return fmt.Errorf("init local embedding provider: %w", err)
		}
		providers = append(providers, localProvider)
	case "openai":
		openaiProvider, err := services.NewOpenAIProvider(cfg.Embedding.OpenaiApiKey, cfg.Embedding.OpenaiModel, cfg.Generative.Model)
		if err != nil {
			return fmt.Errorf("init OpenAI embedding provider: %w", err)
		}
		providers = append(providers, openaiProvider)
	default:
		return fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}

	embeddingService, err := services.NewFallbackEmbeddingService(providers)
	if err != nil {
		return fmt.Errorf("init embedding service: %w", err)
	}
	a.EmbeddingService = embeddingService
	return nil
}

func (a *App) initVectorStore(ctx context.Context) error {
	dsn := a.Config.Database.Vector.DSN
	if dsn == "" {
		// Runs without an index, every ask takes the degraded path.
		log.Warn("database.vector.dsn is not configured, semantic retrieval is disabled")
		return nil
	}
	vectorStore, err := vector.NewStore(ctx, dsn)
	if err != nil {
		return fmt.Errorf("init postgres vector index: %w", err)
	}
	a.VectorStore = vectorStore
	return nil
}

func (a *App) initCompletionService(ctx context.Context) error {
	cfg := a.Config
	if !cfg.Generative.Enabled {
		log.Debug("generative rewriting is disabled, skipping completion provider initialization")
		return nil
	}

	var completer services.CompletionService
	switch cfg.Generative.Provider {
	case "ollama":
		completer = services.NewOllamaProvider(cfg.Generative.OllamaURL, cfg.Generative.Model)
	case "openai":
		// Chat-only use, no embedding model.
		provider, err := services.NewOpenAIProvider(cfg.Embedding.OpenaiApiKey, "", cfg.Generative.Model)
		if err != nil {
			return fmt.Errorf("init OpenAI completion provider: %w", err)
		}
		completer = provider
	case "gemini":
		provider, err := services.NewGeminiProvider(ctx, cfg.Generative.GeminiApiKey, cfg.Generative.Model)
		if err != nil {
			return fmt.Errorf("init Gemini completion provider: %w", err)
		}
		completer = provider
	default:
		return fmt.Errorf("unsupported generative provider: %s", cfg.Generative.Provider)
	}
	a.CompletionService = completer

	augmenter, err := augment.NewAugmenter(completer, time.Duration(cfg.Generative.TimeoutMs)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("init augmenter: %w", err)
	}
	a.Augmenter = augmenter
	return nil
}

func (a *App) initResolver() error {
	if a.VectorStore != nil {
		a.Retriever = retrieval.NewRetriever(a.EmbeddingService, a.VectorStore, a.Config.Retrieval.TopK)
	} else {
		a.Retriever = unavailableRetriever{}
	}

	var rewriter resolver.AnswerRewriter
	if a.Augmenter != nil {
		rewriter = a.Augmenter
	}
	a.Resolver = resolver.New(a.Catalog, a.Retriever, rewriter, resolver.Options{
		UseGenerativeByDefault: a.Config.Generative.Enabled,
		ConsiderTopN:           a.Config.Retrieval.Consider,
	})
	return nil
}

// unavailableRetriever stands in when no vector index is configured, pushing
// every unresolved ask onto the degraded path.
type unavailableRetriever struct{}

func (unavailableRetriever) Retrieve(context.Context, string, string) ([]models.ScoredPoint, error) {
	return nil, fmt.Errorf("%w: no vector index configured", models.ErrRetrievalFailed)
}

func (a *App) cleanupPartialInit() {
	if a.JobClient != nil {
		a.JobClient.Close()
	}
	if a.VectorStore != nil {
		a.VectorStore.Close()
	}
	if cs, ok := a.CompletionService.(interface{ Close() error }); ok && cs != nil {
		if err := cs.Close(); err != nil {
			log.Warnf("error closing completion provider: %v", err)
		}
	}
}

// Close releases every held connection. Safe on a partially built app.
func (a *App) Close() {
	a.cleanupPartialInit()
}
