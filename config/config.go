package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string              `mapstructure:"port"`
	AIBackend           string              `mapstructure:"ai_backend"`
	AIEndpoint          string              `mapstructure:"ai_endpoint"`
	Model               string              `mapstructure:"model"`
	OpenAIAPIKey        string              `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys       []string            `mapstructure:"gemini_api_keys"`
	MongoURI            string              `mapstructure:"MONGODB_URI"`
	MongoDatabase       string              `mapstructure:"mongo_database"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
	Retrieval           RetrievalConfig     `mapstructure:"retrieval"`
	Generation          GenerationConfig    `mapstructure:"generation"`
	Indexer             IndexerConfig       `mapstructure:"indexer"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"` // Changed to match env var
}

type RetrievalConfig struct {
	TopK             int     `mapstructure:"top_k"`
	TitleBoost       float64 `mapstructure:"title_boost"`
	IngredientBoost  float64 `mapstructure:"ingredient_boost"`
	InstructionBoost float64 `mapstructure:"instruction_boost"`
}

type GenerationConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// RetryTransient enables a single bounded retry on rate-limit or
	// server errors. Off by default: retries are not free.
	RetryTransient    bool `mapstructure:"retry_transient"`
	EvaluateRelevance bool `mapstructure:"evaluate_relevance"`
}

type IndexerConfig struct {
	BatchSize      int `mapstructure:"batch_size"`
	MaxAttempts    int `mapstructure:"max_attempts"`
	RetryBackoffMS int `mapstructure:"retry_backoff_ms"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	applyDefaults(&config)

	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.AIBackend == "" {
		c.AIBackend = "openai"
	}
	if c.MongoDatabase == "" {
		c.MongoDatabase = "recipe_assistant"
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.TitleBoost == 0 {
		c.Retrieval.TitleBoost = 3
	}
	if c.Retrieval.IngredientBoost == 0 {
		c.Retrieval.IngredientBoost = 2
	}
	if c.Retrieval.InstructionBoost == 0 {
		c.Retrieval.InstructionBoost = 1
	}
	if c.Generation.TimeoutSeconds == 0 {
		c.Generation.TimeoutSeconds = 60
	}
	if c.Indexer.BatchSize == 0 {
		c.Indexer.BatchSize = 200
	}
	if c.Indexer.MaxAttempts == 0 {
		c.Indexer.MaxAttempts = 3
	}
	if c.Indexer.RetryBackoffMS == 0 {
		c.Indexer.RetryBackoffMS = 500
	}
}
