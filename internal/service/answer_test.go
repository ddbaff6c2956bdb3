package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfin/docchat/internal/vector"
)

func seededIndex(t *testing.T) *vector.MemoryStore {
	t.Helper()
	index := vector.NewMemory()
	ctx := context.Background()
	require.NoError(t, index.EnsureCollection(ctx, "pdf-done", 3))
	require.NoError(t, index.Upsert(ctx, "pdf-done", []vector.Record{
		{ID: "1", Vector: []float32{1, 0, 0}, Text: "Revenue was $5M in 2023.", PageNumber: pagePtr(1)},
		{ID: "2", Vector: []float32{0.9, 0.1, 0}, Text: "Costs were $2M.", PageNumber: pagePtr(2)},
		{ID: "3", Vector: []float32{0.8, 0.2, 0}, Text: "Margins improved."},
		{ID: "4", Vector: []float32{0, 1, 0}, Text: "Appendix: glossary.", PageNumber: pagePtr(9)},
		{ID: "5", Vector: []float32{0, 0, 1}, Text: "Cover page.", PageNumber: pagePtr(0)},
	}))
	return index
}

func TestAnswererUsesTopThreeChunksOnly(t *testing.T) {
	index := seededIndex(t)
	completer := &fakeCompleter{answer: "The revenue was $5M."}
	answerer := NewAnswerer(&fakeEmbedder{}, index, completer)

	answer, err := answerer.Answer(context.Background(), "What was the revenue?", "pdf-done")
	require.NoError(t, err)
	assert.Equal(t, "The revenue was $5M.", answer)

	system := completer.systemPrompt()
	assert.Equal(t, 3, strings.Count(system, "[Chunk "), "exactly the top-3 chunks in the context")
	assert.Contains(t, system, "[Chunk 1]")
	assert.Contains(t, system, "[Chunk 3]")
	assert.NotContains(t, system, "[Chunk 4]")
	assert.Equal(t, "What was the revenue?", completer.lastUser, "the literal query is its own turn")
}

func TestAnswererMarksUnknownPages(t *testing.T) {
	index := vector.NewMemory()
	ctx := context.Background()
	require.NoError(t, index.EnsureCollection(ctx, "pdf-done", 3))
	require.NoError(t, index.Upsert(ctx, "pdf-done", []vector.Record{
		{ID: "1", Vector: []float32{1, 0, 0}, Text: "untagged chunk"},
	}))
	completer := &fakeCompleter{}
	answerer := NewAnswerer(&fakeEmbedder{}, index, completer)

	_, err := answerer.Answer(ctx, "anything", "pdf-done")
	require.NoError(t, err)

	assert.Contains(t, completer.systemPrompt(), "Page: unknown")
}

func TestAnswererUnknownCollection(t *testing.T) {
	completer := &fakeCompleter{}
	answerer := NewAnswerer(&fakeEmbedder{}, vector.NewMemory(), completer)

	_, err := answerer.Answer(context.Background(), "anything", "pdf-missing")

	require.ErrorIs(t, err, vector.ErrCollectionNotFound)
	assert.Zero(t, completer.callCount(), "completion must not run for a missing collection")
}

func TestAnswererEmptyCollectionStillAnswers(t *testing.T) {
	index := vector.NewMemory()
	require.NoError(t, index.EnsureCollection(context.Background(), "pdf-empty", 3))
	completer := &fakeCompleter{answer: "The document does not provide that."}
	answerer := NewAnswerer(&fakeEmbedder{}, index, completer)

	answer, err := answerer.Answer(context.Background(), "anything", "pdf-empty")

	require.NoError(t, err)
	assert.NotEmpty(t, answer)
	assert.Equal(t, 1, completer.callCount())
	assert.NotContains(t, completer.systemPrompt(), "[Chunk ")
}

func TestAnswererValidatesInput(t *testing.T) {
	answerer := NewAnswerer(&fakeEmbedder{}, vector.NewMemory(), &fakeCompleter{})

	_, err := answerer.Answer(context.Background(), "   ", "pdf-done")
	require.ErrorIs(t, err, ErrEmptyQuery)

	_, err = answerer.Answer(context.Background(), "query", "")
	require.ErrorIs(t, err, ErrEmptyCollection)
}

func TestAnswererEmbeddingFailure(t *testing.T) {
	completer := &fakeCompleter{}
	answerer := NewAnswerer(&fakeEmbedder{err: errors.New("quota exceeded")}, seededIndex(t), completer)

	_, err := answerer.Answer(context.Background(), "query", "pdf-done")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
	assert.Zero(t, completer.callCount())
}

func TestAnswererCompletionFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("model overloaded")}
	answerer := NewAnswerer(&fakeEmbedder{}, seededIndex(t), completer)

	_, err := answerer.Answer(context.Background(), "query", "pdf-done")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate answer")
}
