package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return errors.New("catalog.path is required")
	}

	switch c.Embedding.Provider {
	case "local":
		if c.Embedding.LocalURL == "" {
			return errors.New("embedding.local_url is required when embedding.provider is 'local'")
		}
	case "openai":
		if c.Embedding.OpenaiApiKey == "" {
			return errors.New("embedding.openai_api_key (or OPENAI_API_KEY) is required when embedding.provider is 'openai'")
		}
		if c.Embedding.OpenaiModel == "" {
			return errors.New("embedding.openai_model is required when embedding.provider is 'openai'")
		}
	default:
		return fmt.Errorf("unsupported embedding.provider: %s", c.Embedding.Provider)
	}
	if c.Embedding.Dimension <= 0 {
		return errors.New("embedding.dimension must be a positive integer")
	}

	if c.Retrieval.TopK <= 0 {
		return errors.New("retrieval.top_k must be a positive integer")
	}
	if c.Retrieval.Consider <= 0 || c.Retrieval.Consider > c.Retrieval.TopK {
		return fmt.Errorf("retrieval.consider (%d) must be positive and at most retrieval.top_k (%d)",
			c.Retrieval.Consider, c.Retrieval.TopK)
	}

	if c.Generative.Enabled {
		switch c.Generative.Provider {
		case "ollama":
			if c.Generative.OllamaURL == "" {
				return errors.New("generative.ollama_url is required when generative.provider is 'ollama'")
			}
		case "openai":
			if c.Embedding.OpenaiApiKey == "" {
				return errors.New("embedding.openai_api_key is required when generative.provider is 'openai'")
			}
		case "gemini":
			if c.Generative.GeminiApiKey == "" {
				return errors.New("generative.gemini_api_key (or GEMINI_API_KEY) is required when generative.provider is 'gemini'")
			}
		default:
			return fmt.Errorf("unsupported generative.provider: %s", c.Generative.Provider)
		}
		if c.Generative.Model == "" {
			return errors.New("generative.model is required when generative is enabled")
		}
		if c.Generative.TimeoutMs <= 0 {
			return errors.New("generative.timeout_ms must be a positive integer")
		}
	}

	if c.Redis.Address == "" {
		return errors.New("redis.address is required")
	}
	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be a positive integer")
	}
	for name, priority := range c.Worker.Queues {
		if name == "" {
			return errors.New("worker.queues contains an empty queue name")
		}
		if priority <= 0 {
			return fmt.Errorf("worker.queues priority for queue '%s' must be positive", name)
		}
	}

	return nil
}
