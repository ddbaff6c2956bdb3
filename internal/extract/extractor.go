// Package extract turns raw document bytes into ordered, page-tagged text
// segments.
package extract

import (
	"context"
	"errors"
)

// ErrNoText indicates the document contained no extractable text.
var ErrNoText = errors.New("no text content extracted")

// Segment is one extracted span of text. PageNumber is 1-based and nil
// when the source format carries no page metadata.
type Segment struct {
	Text       string
	PageNumber *int
}

// Extractor converts a raw document into an ordered sequence of segments.
// Implementations must be safe for concurrent use.
type Extractor interface {
	Extract(ctx context.Context, content []byte) ([]Segment, error)
}
