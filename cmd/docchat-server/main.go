// Package main provides the docchat HTTP server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/docfin/docchat/internal/config"
	"github.com/docfin/docchat/internal/extract"
	"github.com/docfin/docchat/internal/llm"
	"github.com/docfin/docchat/internal/server"
	"github.com/docfin/docchat/internal/service"
	"github.com/docfin/docchat/internal/vector"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() { _ = cleanup() }()
	slog.SetDefault(logger)

	slog.Info("starting docchat-server", "port", cfg.Port, "store", cfg.StoreBackend)

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		slog.Error("failed to create upload dir", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	index, err := newStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to create vector store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = index.Close() }()

	embedder, err := llm.NewEmbedder(cfg)
	if err != nil {
		slog.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	model, err := llm.NewModel(initCtx, cfg)
	cancel()
	if err != nil {
		slog.Error("failed to create completion model", "error", err)
		os.Exit(1)
	}

	jobs := service.NewJobManager(service.NewMemoryJobStore())
	ingester := service.NewIngester(jobs, extract.NewPDFExtractor(logger), embedder, index)
	answerer := service.NewAnswerer(embedder, index, model)

	srv := server.New(":"+cfg.Port, cfg.UploadDir, ingester, answerer, jobs, logger)
	if err := srv.Run(ctx); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func newStore(ctx context.Context, cfg config.Config) (vector.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return vector.NewMemory(), nil
	default:
		return vector.NewQdrant(ctx, cfg.QdrantHost, cfg.QdrantPort)
	}
}
