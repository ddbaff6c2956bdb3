// Package service implements the docchat core: the job state machine, the
// background ingestion pipeline, and the retrieval-augmented answering
// pipeline.
package service

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/docfin/docchat/internal/models"
)

// ErrJobNotFound indicates the requested job id was never created.
var ErrJobNotFound = errors.New("job not found")

// JobStore holds job records for the process lifetime. Records are
// independent; implementations must make each update atomic per record.
// The in-memory implementation below is the default; a durable one can be
// swapped in without touching the pipelines.
type JobStore interface {
	// Create inserts a new job record.
	Create(job models.Job)

	// Get returns a copy of the job, or ErrJobNotFound.
	Get(id string) (models.Job, error)

	// Update applies fn to the job record atomically, or returns
	// ErrJobNotFound.
	Update(id string, fn func(*models.Job)) error
}

// MemoryJobStore is the in-process JobStore. Jobs are never deleted;
// they are garbage-collected with the process.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.Job
}

var _ JobStore = (*MemoryJobStore)(nil)

// NewMemoryJobStore creates an empty in-memory job store.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*models.Job)}
}

func (s *MemoryJobStore) Create(job models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = &job
}

func (s *MemoryJobStore) Get(id string) (models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return models.Job{}, ErrJobNotFound
	}
	return *job, nil
}

func (s *MemoryJobStore) Update(id string, fn func(*models.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	fn(job)
	return nil
}

// JobManager owns the job lifecycle state machine:
// pending -> processing -> {completed | failed}. Only the ingestion
// pipeline advances jobs; everyone else reads them through Get.
type JobManager struct {
	store JobStore
}

// NewJobManager creates a job manager over the given store.
func NewJobManager(store JobStore) *JobManager {
	return &JobManager{store: store}
}

// Create registers a fresh pending job with progress 0.
func (m *JobManager) Create(id, collectionName string) models.Job {
	now := time.Now().UTC()
	job := models.Job{
		ID:             id,
		Status:         models.JobStatusPending,
		Progress:       0,
		CollectionName: collectionName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.store.Create(job)
	slog.Info("job created", "job_id", id, "collection", collectionName)
	return job
}

// Get returns the current job record, or ErrJobNotFound. This is the
// status projection: read-only, no side effects.
func (m *JobManager) Get(id string) (models.Job, error) {
	return m.store.Get(id)
}

// SetProcessing transitions pending -> processing at the given milestone.
func (m *JobManager) SetProcessing(id string, progress int) error {
	return m.advance(id, func(job *models.Job) {
		job.Status = models.JobStatusProcessing
		raiseProgress(job, progress)
	})
}

// SetProgress advances the progress milestone of a processing job.
func (m *JobManager) SetProgress(id string, progress int) error {
	return m.advance(id, func(job *models.Job) {
		raiseProgress(job, progress)
	})
}

// Complete transitions the job to its completed terminal state, binding
// the collection as queryable.
func (m *JobManager) Complete(id string) error {
	err := m.advance(id, func(job *models.Job) {
		job.Status = models.JobStatusCompleted
		raiseProgress(job, 100)
	})
	if err == nil {
		slog.Info("job completed", "job_id", id)
	}
	return err
}

// Fail transitions the job to its failed terminal state, capturing the
// error message.
func (m *JobManager) Fail(id string, cause error) error {
	err := m.advance(id, func(job *models.Job) {
		job.Status = models.JobStatusFailed
		job.Error = cause.Error()
	})
	if err == nil {
		slog.Error("job failed", "job_id", id, "error", cause)
	}
	return err
}

// advance applies a transition unless the job is already terminal.
// Terminal states permit no further mutation.
func (m *JobManager) advance(id string, fn func(*models.Job)) error {
	return m.store.Update(id, func(job *models.Job) {
		if job.Status.Terminal() {
			slog.Warn("ignoring transition on terminal job", "job_id", id, "status", job.Status)
			return
		}
		fn(job)
		job.UpdatedAt = time.Now().UTC()
	})
}

// raiseProgress keeps progress monotonically non-decreasing.
func raiseProgress(job *models.Job, progress int) {
	if progress > job.Progress {
		job.Progress = progress
	}
}
