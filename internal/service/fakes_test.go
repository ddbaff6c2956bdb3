package service

// Deterministic fakes for the external capabilities, so the pipeline
// scenarios run without live services.

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/docfin/docchat/internal/extract"
	"github.com/docfin/docchat/internal/models"
	"github.com/docfin/docchat/internal/vector"
)

// fakeExtractor returns fixed segments or a fixed error. An optional
// release channel delays extraction until closed.
type fakeExtractor struct {
	segments []extract.Segment
	err      error
	release  chan struct{}
}

func (f *fakeExtractor) Extract(ctx context.Context, _ []byte) ([]extract.Segment, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.segments, nil
}

// fakeEmbedder derives a deterministic vector from the text content.
type fakeEmbedder struct {
	err   error
	calls atomic.Int32
}

func (f *fakeEmbedder) Dimension() int { return 3 }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		var sum float32
		for _, r := range text {
			sum += float32(r)
		}
		vectors[i] = []float32{sum, float32(len(text)), 1}
	}
	return vectors, nil
}

// fakeCompleter records its prompts and echoes the retrieved context, so
// tests can assert on what the model was shown.
type fakeCompleter struct {
	mu         sync.Mutex
	err        error
	answer     string
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) GenerateWithSystem(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	if f.err != nil {
		return "", f.err
	}
	if f.answer != "" {
		return f.answer, nil
	}
	return "Answering from: " + systemPrompt, nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeCompleter) systemPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSystem
}

// failingStore wraps a Store and fails the chosen operations.
type failingStore struct {
	vector.Store
	ensureErr error
	upsertErr error
}

func (f *failingStore) EnsureCollection(ctx context.Context, name string, dimension int) error {
	if f.ensureErr != nil {
		return f.ensureErr
	}
	return f.Store.EnsureCollection(ctx, name, dimension)
}

func (f *failingStore) Upsert(ctx context.Context, name string, records []vector.Record) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.Store.Upsert(ctx, name, records)
}

// recordingJobStore captures every observed (status, progress) pair so
// tests can assert on the milestone sequence.
type recordingJobStore struct {
	JobStore
	mu      sync.Mutex
	history map[string][]models.Job
}

func newRecordingJobStore() *recordingJobStore {
	return &recordingJobStore{
		JobStore: NewMemoryJobStore(),
		history:  make(map[string][]models.Job),
	}
}

func (s *recordingJobStore) Create(job models.Job) {
	s.JobStore.Create(job)
	s.record(job.ID)
}

func (s *recordingJobStore) Update(id string, fn func(*models.Job)) error {
	err := s.JobStore.Update(id, fn)
	if err == nil {
		s.record(id)
	}
	return err
}

func (s *recordingJobStore) record(id string) {
	job, err := s.JobStore.Get(id)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.history[id] = append(s.history[id], job)
	s.mu.Unlock()
}

func (s *recordingJobStore) snapshots(id string) []models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Job(nil), s.history[id]...)
}

func pagePtr(n int) *int { return &n }
