package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/docfin/docchat/internal/models"
	"github.com/docfin/docchat/internal/vector"
)

// topK is the fixed number of chunks retrieved per query.
const topK = 3

// Sentinel errors for query validation.
var (
	ErrEmptyQuery      = errors.New("query must not be empty")
	ErrEmptyCollection = errors.New("collection name must not be empty")
)

// answerSystemPrompt constrains the completion to the retrieved context.
// The context block is appended below it; the user's query goes in as a
// separate turn.
const answerSystemPrompt = `You are an assistant answering questions about a single uploaded document.
Answer using ONLY the context below: numbered excerpts from the document, each tagged with its page number.
If the context does not contain the answer, say that the document does not provide it.

CONTEXT:
`

// Completer generates a text answer from a system instruction and a user
// query, in exactly one call.
type Completer interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Answerer answers natural-language queries against a completed
// collection: retrieve top-K, assemble context, complete once.
type Answerer struct {
	embedder Embedder
	store    vector.Store
	model    Completer
}

// NewAnswerer creates the answering pipeline.
func NewAnswerer(embedder Embedder, store vector.Store, model Completer) *Answerer {
	return &Answerer{
		embedder: embedder,
		store:    store,
		model:    model,
	}
}

// Answer runs one query: one embedding call, one retrieval, one
// completion. Context never crosses collections. A query against an
// absent collection fails with vector.ErrCollectionNotFound before any
// completion call is made.
func (a *Answerer) Answer(ctx context.Context, query, collection string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	if strings.TrimSpace(collection) == "" {
		return "", ErrEmptyCollection
	}

	queryVector, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	scored, err := a.store.Search(ctx, collection, queryVector, topK)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	chunks := make([]models.RetrievedChunk, len(scored))
	for i, s := range scored {
		chunks[i] = models.RetrievedChunk{
			Rank:       i + 1,
			Text:       s.Text,
			PageNumber: s.PageNumber,
			Score:      s.Score,
		}
	}
	slog.Debug("retrieved context", "collection", collection, "chunks", len(chunks))

	// Zero retrieved chunks still produces a completion; the model is
	// expected to decline from an empty context.
	systemPrompt := answerSystemPrompt + buildContextBlock(chunks)

	answer, err := a.model.GenerateWithSystem(ctx, systemPrompt, query)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return answer, nil
}

// buildContextBlock concatenates retrieved chunks in rank order, each with
// its page number or an explicit unknown marker.
func buildContextBlock(chunks []models.RetrievedChunk) string {
	var b strings.Builder
	for _, chunk := range chunks {
		page := "unknown"
		if chunk.PageNumber != nil {
			page = strconv.Itoa(*chunk.PageNumber)
		}
		fmt.Fprintf(&b, "[Chunk %d]\nPage: %s\n%s\n\n", chunk.Rank, page, chunk.Text)
	}
	return b.String()
}
