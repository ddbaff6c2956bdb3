// Package config loads docchat configuration from the environment and an
// optional YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider identifies an embedding or completion backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

// StoreBackend identifies the vector index backend.
type StoreBackend string

const (
	StoreQdrant StoreBackend = "qdrant"
	StoreMemory StoreBackend = "memory"
)

// GeminiOpenAIBaseURL is the OpenAI-compatible endpoint of the Google
// Generative Language API, the default upstream for this service.
const GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Port      string `yaml:"port"`
	UploadDir string `yaml:"upload_dir"`

	// Vector index
	StoreBackend StoreBackend `yaml:"store_backend"`
	QdrantHost   string       `yaml:"qdrant_host"`
	QdrantPort   int          `yaml:"qdrant_port"`

	// Embeddings
	EmbedProvider  Provider `yaml:"embed_provider"`
	EmbedModel     string   `yaml:"embed_model"`
	EmbedDimension int      `yaml:"embed_dimension"`

	// Completion
	LLMProvider Provider `yaml:"llm_provider"`
	LLMModel    string   `yaml:"llm_model"`

	// Provider credentials and endpoints
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OllamaHost      string `yaml:"ollama_host"`
	AWSRegion       string `yaml:"aws_region"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`

	// Raw log level string, kept for YAML round-tripping.
	LogLevelName string `yaml:"log_level"`
}

// Load reads configuration from environment variables, then overlays the
// YAML file named by DOCCHAT_CONFIG when set. Defaults match the hosted
// services the original deployment used (Gemini embeddings and completion
// behind the OpenAI-compatible endpoint, Qdrant over gRPC).
func Load() (Config, error) {
	cfg := Config{
		Port:      getEnv("DOCCHAT_PORT", "3001"),
		UploadDir: getEnv("DOCCHAT_UPLOAD_DIR", "./uploads"),

		StoreBackend: StoreBackend(getEnv("DOCCHAT_STORE", string(StoreQdrant))),
		QdrantHost:   getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:   getEnvInt("QDRANT_PORT", 6334),

		EmbedProvider:  Provider(getEnv("DOCCHAT_EMBED_PROVIDER", string(ProviderOpenAI))),
		EmbedModel:     getEnv("DOCCHAT_EMBED_MODEL", "text-embedding-004"),
		EmbedDimension: getEnvInt("DOCCHAT_EMBED_DIMENSION", 768),

		LLMProvider: Provider(getEnv("DOCCHAT_LLM_PROVIDER", string(ProviderOpenAI))),
		LLMModel:    getEnv("DOCCHAT_LLM_MODEL", "gemini-2.5-flash"),

		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		OpenAIBaseURL:   getEnv("DOCCHAT_OPENAI_BASE_URL", GeminiOpenAIBaseURL),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		AWSRegion:       os.Getenv("AWS_REGION"),

		LogFile:      getEnv("DOCCHAT_LOG_FILE", ""),
		LogLevelName: getEnv("DOCCHAT_LOG_LEVEL", "INFO"),
	}

	if path := os.Getenv("DOCCHAT_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.LogLevel = ParseLogLevel(cfg.LogLevelName)
	return cfg, nil
}

// overlayFile merges values from a YAML file over the current config.
// Only fields present in the file are overridden.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ParseLogLevel converts a level name into a slog.Level, defaulting to INFO.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
