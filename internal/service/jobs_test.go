package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfin/docchat/internal/models"
)

func TestJobManagerCreate(t *testing.T) {
	m := NewJobManager(NewMemoryJobStore())

	job := m.Create("job-1", "pdf-job-1")

	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.Equal(t, 0, job.Progress)
	assert.Equal(t, "pdf-job-1", job.CollectionName)

	got, err := m.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestJobManagerGetUnknown(t *testing.T) {
	m := NewJobManager(NewMemoryJobStore())

	_, err := m.Get("nope")
	require.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobManagerGetReturnsCopy(t *testing.T) {
	m := NewJobManager(NewMemoryJobStore())
	m.Create("job-1", "pdf-job-1")

	got, err := m.Get("job-1")
	require.NoError(t, err)
	got.Status = models.JobStatusFailed
	got.Progress = 99

	again, err := m.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, again.Status)
	assert.Equal(t, 0, again.Progress)
}

func TestJobManagerTransitions(t *testing.T) {
	m := NewJobManager(NewMemoryJobStore())
	m.Create("job-1", "pdf-job-1")

	require.NoError(t, m.SetProcessing("job-1", 10))
	job, _ := m.Get("job-1")
	assert.Equal(t, models.JobStatusProcessing, job.Status)
	assert.Equal(t, 10, job.Progress)

	require.NoError(t, m.SetProgress("job-1", 40))
	require.NoError(t, m.SetProgress("job-1", 60))
	require.NoError(t, m.Complete("job-1"))

	job, _ = m.Get("job-1")
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
}

func TestJobManagerProgressNeverRegresses(t *testing.T) {
	m := NewJobManager(NewMemoryJobStore())
	m.Create("job-1", "pdf-job-1")

	require.NoError(t, m.SetProcessing("job-1", 60))
	require.NoError(t, m.SetProgress("job-1", 10))

	job, _ := m.Get("job-1")
	assert.Equal(t, 60, job.Progress)
}

func TestJobManagerTerminalStatesAreImmutable(t *testing.T) {
	m := NewJobManager(NewMemoryJobStore())
	m.Create("job-1", "pdf-job-1")
	require.NoError(t, m.SetProcessing("job-1", 10))
	require.NoError(t, m.Complete("job-1"))

	// Transitions after a terminal state are ignored, not errors.
	require.NoError(t, m.Fail("job-1", errors.New("too late")))
	require.NoError(t, m.SetProgress("job-1", 5))

	job, _ := m.Get("job-1")
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Empty(t, job.Error)
}

func TestJobManagerFailCapturesMessage(t *testing.T) {
	m := NewJobManager(NewMemoryJobStore())
	m.Create("job-1", "pdf-job-1")
	require.NoError(t, m.SetProcessing("job-1", 10))

	require.NoError(t, m.Fail("job-1", errors.New("extract: bad pdf")))

	job, _ := m.Get("job-1")
	assert.Equal(t, models.JobStatusFailed, job.Status)
	assert.Equal(t, "extract: bad pdf", job.Error)
}

func TestJobManagerTerminalReadsAreIdempotent(t *testing.T) {
	m := NewJobManager(NewMemoryJobStore())
	m.Create("job-1", "pdf-job-1")
	require.NoError(t, m.SetProcessing("job-1", 10))
	require.NoError(t, m.Complete("job-1"))

	first, err := m.Get("job-1")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := m.Get("job-1")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
