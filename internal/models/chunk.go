package models

// Chunk is a page-tagged span of extracted text, the unit of embedding
// and retrieval. Chunks are transient: they exist between extraction and
// the vector index write and are never stored as-is.
type Chunk struct {
	Text             string
	PageNumber       *int // nil when extraction yields no page metadata
	SourceDocumentID string
}

// RetrievedChunk is one entry of the ranked context returned by the
// vector index for a query.
type RetrievedChunk struct {
	Rank       int
	Text       string
	PageNumber *int
	Score      float32
}
