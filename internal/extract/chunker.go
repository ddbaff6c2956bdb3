package extract

import (
	"strings"
	"unicode"
)

// ChunkConfig defines how oversized segments are split before embedding.
type ChunkConfig struct {
	// MaxSize: segments longer than this are split at sentence boundaries.
	MaxSize int
	// Overlap: character overlap carried between consecutive chunks.
	Overlap int
}

// DefaultChunkConfig returns sensible defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxSize: 1000,
		Overlap: 100,
	}
}

// Split breaks segments into embedding-sized pieces. Each piece keeps the
// page number of the segment it came from, so retrieval stays page-tagged.
// Segments at or under MaxSize pass through unchanged.
func Split(segments []Segment, config ChunkConfig) []Segment {
	var out []Segment
	for _, seg := range segments {
		if len(seg.Text) <= config.MaxSize {
			out = append(out, seg)
			continue
		}
		for _, text := range splitText(seg.Text, config) {
			out = append(out, Segment{Text: text, PageNumber: seg.PageNumber})
		}
	}
	return out
}

// splitText splits text at sentence boundaries, packing sentences into
// chunks up to MaxSize with Overlap characters carried over.
func splitText(text string, config ChunkConfig) []string {
	sentences := splitSentences(text)

	var chunks []string
	var current strings.Builder

	for _, sentence := range sentences {
		// A single sentence over MaxSize becomes its own chunk rather
		// than being cut mid-word.
		if current.Len() > 0 && current.Len()+len(sentence)+1 > config.MaxSize {
			chunk := strings.TrimSpace(current.String())
			chunks = append(chunks, chunk)
			current.Reset()
			if config.Overlap > 0 && len(chunk) > config.Overlap {
				current.WriteString(chunk[len(chunk)-config.Overlap:])
				current.WriteString(" ")
			}
		}
		current.WriteString(sentence)
		current.WriteString(" ")
	}

	if rest := strings.TrimSpace(current.String()); rest != "" {
		chunks = append(chunks, rest)
	}

	return chunks
}

// splitSentences breaks text at sentence-ending punctuation followed by
// whitespace.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
