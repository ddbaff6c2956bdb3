// Package vector defines the vector index boundary and its implementations.
package vector

import (
	"context"
	"errors"
)

// Sentinel errors for vector index operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrCollectionNotFound indicates the named collection does not exist.
	// This is the primary signal that a query arrived before its document's
	// ingestion completed (or with a wrong collection name).
	ErrCollectionNotFound = errors.New("collection not found")
)

// Record is one (vector, text, metadata) entry written to a collection.
type Record struct {
	ID               string
	Vector           []float32
	Text             string
	PageNumber       *int
	SourceDocumentID string
}

// ScoredChunk is one ranked entry of a nearest-neighbor search result.
type ScoredChunk struct {
	Text       string
	PageNumber *int
	Score      float32
}

// Store persists embedded chunks under named collections and supports
// nearest-neighbor retrieval. Implementations must be safe for concurrent
// use; writers to different collections never conflict.
type Store interface {
	// EnsureCollection creates the named collection with the given vector
	// dimension if it does not already exist.
	EnsureCollection(ctx context.Context, name string, dimension int) error

	// Upsert writes records into the named collection.
	Upsert(ctx context.Context, name string, records []Record) error

	// Search returns the limit nearest chunks to the query vector, best
	// first. Returns ErrCollectionNotFound if the collection is absent.
	Search(ctx context.Context, name string, query []float32, limit int) ([]ScoredChunk, error)

	// Close releases the store's resources.
	Close() error
}
