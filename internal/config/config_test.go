package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, StoreQdrant, cfg.StoreBackend)
	assert.Equal(t, "localhost", cfg.QdrantHost)
	assert.Equal(t, 6334, cfg.QdrantPort)
	assert.Equal(t, ProviderOpenAI, cfg.EmbedProvider)
	assert.Equal(t, "text-embedding-004", cfg.EmbedModel)
	assert.Equal(t, 768, cfg.EmbedDimension)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLMModel)
	assert.Equal(t, GeminiOpenAIBaseURL, cfg.OpenAIBaseURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DOCCHAT_PORT", "8080")
	t.Setenv("DOCCHAT_STORE", "memory")
	t.Setenv("QDRANT_PORT", "7000")
	t.Setenv("DOCCHAT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, 7000, cfg.QdrantPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadOverlaysYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docchat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: \"9999\"\nembed_model: nomic-embed-text\nembed_dimension: 768\nlog_level: WARN\n",
	), 0644))
	t.Setenv("DOCCHAT_CONFIG", path)
	t.Setenv("DOCCHAT_PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	// File values win over environment values.
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "nomic-embed-text", cfg.EmbedModel)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	// Untouched fields keep their env/default values.
	assert.Equal(t, "localhost", cfg.QdrantHost)
}

func TestLoadBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a string"), 0644))
	t.Setenv("DOCCHAT_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("something-else"))
}
