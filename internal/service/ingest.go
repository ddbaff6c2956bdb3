package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/docfin/docchat/internal/extract"
	"github.com/docfin/docchat/internal/models"
	"github.com/docfin/docchat/internal/vector"
)

// Progress milestones. These are coarse checkpoints, not a continuous
// progress model; callers must not read them as fine-grained percentages.
const (
	progressStarted   = 10
	progressExtracted = 40
	progressEmbedded  = 60
)

// ErrEmptyDocument indicates a submission with no content.
var ErrEmptyDocument = errors.New("document content is empty")

// Embedder maps text to fixed-dimension vectors. Implementations must be
// safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Ingester drives one job from pending to a terminal state. Submission
// returns before extraction begins; callers observe progress by polling
// the job manager.
type Ingester struct {
	jobs      *JobManager
	extractor extract.Extractor
	embedder  Embedder
	store     vector.Store
	chunking  extract.ChunkConfig
}

// NewIngester creates the ingestion pipeline.
func NewIngester(jobs *JobManager, extractor extract.Extractor, embedder Embedder, store vector.Store) *Ingester {
	return &Ingester{
		jobs:      jobs,
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		chunking:  extract.DefaultChunkConfig(),
	}
}

// Submit creates a pending job and starts background ingestion. The job
// record exists before Submit returns; the returned job is its initial
// snapshot (pending, progress 0). Ingestion errors never reach the
// submitter; they surface only through the job's failed state.
func (ing *Ingester) Submit(documentID string, content []byte) (models.Job, error) {
	if len(content) == 0 {
		return models.Job{}, ErrEmptyDocument
	}

	jobID := uuid.New().String()
	collection := "pdf-" + jobID
	job := ing.jobs.Create(jobID, collection)

	// The background task deliberately outlives the submitting request:
	// an abandoned poller must not cancel a running ingestion.
	go ing.run(context.Background(), jobID, collection, documentID, content)

	return job, nil
}

// run executes the four pipeline stages strictly in sequence:
// extract -> embed -> write -> complete. Any stage error moves the job to
// failed with the underlying message; there is no retry and no rollback
// of partially written records.
func (ing *Ingester) run(ctx context.Context, jobID, collection, documentID string, content []byte) {
	if err := ing.jobs.SetProcessing(jobID, progressStarted); err != nil {
		slog.Error("cannot start ingestion", "job_id", jobID, "error", err)
		return
	}

	segments, err := ing.extractor.Extract(ctx, content)
	if err != nil {
		ing.fail(jobID, fmt.Errorf("extract: %w", err))
		return
	}

	chunks := make([]models.Chunk, 0, len(segments))
	for _, seg := range extract.Split(segments, ing.chunking) {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Text:             seg.Text,
			PageNumber:       seg.PageNumber,
			SourceDocumentID: documentID,
		})
	}
	if len(chunks) == 0 {
		ing.fail(jobID, fmt.Errorf("extract: %w", extract.ErrNoText))
		return
	}
	_ = ing.jobs.SetProgress(jobID, progressExtracted)

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := ing.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		ing.fail(jobID, fmt.Errorf("embed: %w", err))
		return
	}
	_ = ing.jobs.SetProgress(jobID, progressEmbedded)

	records := make([]vector.Record, len(chunks))
	for i, c := range chunks {
		records[i] = vector.Record{
			ID:               uuid.New().String(),
			Vector:           vectors[i],
			Text:             c.Text,
			PageNumber:       c.PageNumber,
			SourceDocumentID: c.SourceDocumentID,
		}
	}

	dimension := ing.embedder.Dimension()
	if dimension == 0 && len(vectors) > 0 {
		dimension = len(vectors[0])
	}
	if err := ing.store.EnsureCollection(ctx, collection, dimension); err != nil {
		ing.fail(jobID, fmt.Errorf("index: %w", err))
		return
	}
	if err := ing.store.Upsert(ctx, collection, records); err != nil {
		ing.fail(jobID, fmt.Errorf("index: %w", err))
		return
	}

	if err := ing.jobs.Complete(jobID); err != nil {
		slog.Error("cannot complete job", "job_id", jobID, "error", err)
		return
	}
	slog.Info("ingestion completed", "job_id", jobID, "collection", collection, "chunks", len(records))
}

func (ing *Ingester) fail(jobID string, cause error) {
	if err := ing.jobs.Fail(jobID, cause); err != nil {
		slog.Error("cannot fail job", "job_id", jobID, "error", err)
	}
}
