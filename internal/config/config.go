package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Catalog struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"catalog"`

	Database struct {
		Vector struct {
			DSN string `mapstructure:"dsn"`
		} `mapstructure:"vector"`
	} `mapstructure:"database"`

	Embedding struct {
		Provider     string `mapstructure:"provider"` // "local" or "openai"
		LocalURL     string `mapstructure:"local_url"`
		Model        string `mapstructure:"model"`
		Dimension    int    `mapstructure:"dimension"`
		OpenaiApiKey string `mapstructure:"openai_api_key"`
		OpenaiModel  string `mapstructure:"openai_model"`
	} `mapstructure:"embedding"`

	Retrieval struct {
		TopK     int `mapstructure:"top_k"`
		Consider int `mapstructure:"consider"`
	} `mapstructure:"retrieval"`

	Generative struct {
		Enabled      bool   `mapstructure:"enabled"`
		Provider     string `mapstructure:"provider"` // "ollama", "openai" or "gemini"
		Model        string `mapstructure:"model"`
		OllamaURL    string `mapstructure:"ollama_url"`
		GeminiApiKey string `mapstructure:"gemini_api_key"`
		TimeoutMs    int    `mapstructure:"timeout_ms"`
	} `mapstructure:"generative"`

	Redis struct {
		Address string `mapstructure:"address"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	Server struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("catalog.path", "data/faq.json")
	viper.SetDefault("embedding.provider", "local")
	viper.SetDefault("embedding.local_url", "http://localhost:5001")
	viper.SetDefault("embedding.model", "distiluse-base-multilingual-cased")
	viper.SetDefault("embedding.dimension", 512)
	viper.SetDefault("retrieval.top_k", 10)
	viper.SetDefault("retrieval.consider", 5)
	viper.SetDefault("generative.enabled", false)
	viper.SetDefault("generative.provider", "ollama")
	viper.SetDefault("generative.ollama_url", "http://localhost:11434")
	viper.SetDefault("generative.timeout_ms", 15000)
	viper.SetDefault("redis.address", "127.0.0.1:6379")
	viper.SetDefault("worker.concurrency", 5)
	viper.SetDefault("worker.queues", map[string]int{"default": 1})
	viper.SetDefault("server.addr", "localhost")
	viper.SetDefault("server.port", "8080")

	viper.AutomaticEnv()
	viper.BindEnv("embedding.openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("generative.gemini_api_key", "GEMINI_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults and env vars carry it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
