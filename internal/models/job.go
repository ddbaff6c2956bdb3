// Package models defines the data structures shared across docchat services.
package models

import "time"

// JobStatus represents the lifecycle state of an ingestion job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job tracks one document's ingestion lifecycle. A job is created at
// submission and advanced only by the ingestion pipeline; everyone else
// reads it through the status projection.
type Job struct {
	ID             string    `json:"jobId"`
	Status         JobStatus `json:"status"`
	Progress       int       `json:"progress"`
	CollectionName string    `json:"collectionName,omitempty"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
