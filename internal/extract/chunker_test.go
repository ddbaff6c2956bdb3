package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestSplitPassthrough(t *testing.T) {
	segments := []Segment{
		{Text: "Short page.", PageNumber: intPtr(1)},
		{Text: "Another short page.", PageNumber: intPtr(2)},
	}

	out := Split(segments, DefaultChunkConfig())

	require.Len(t, out, 2)
	assert.Equal(t, segments, out)
}

func TestSplitOversizedSegment(t *testing.T) {
	sentence := "This sentence is repeated to inflate the page well past the limit. "
	text := strings.TrimSpace(strings.Repeat(sentence, 30))

	out := Split([]Segment{{Text: text, PageNumber: intPtr(3)}}, ChunkConfig{MaxSize: 200, Overlap: 40})

	require.Greater(t, len(out), 1)
	for _, seg := range out {
		require.NotNil(t, seg.PageNumber)
		assert.Equal(t, 3, *seg.PageNumber, "split chunks keep their page number")
		assert.NotEmpty(t, seg.Text)
	}
}

func TestSplitKeepsAllContent(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third one closes."

	out := Split([]Segment{{Text: text}}, ChunkConfig{MaxSize: 25, Overlap: 0})

	joined := ""
	for _, seg := range out {
		joined += seg.Text + " "
	}
	for _, want := range []string{"First sentence", "Second sentence", "Third one"} {
		assert.Contains(t, joined, want)
	}
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("One. Two! Three? Trailing fragment")

	require.Len(t, sentences, 4)
	assert.Equal(t, "One.", sentences[0])
	assert.Equal(t, "Two!", sentences[1])
	assert.Equal(t, "Three?", sentences[2])
	assert.Equal(t, "Trailing fragment", sentences[3])
}

func TestSplitSentencesIgnoresDecimalPoints(t *testing.T) {
	sentences := splitSentences("Revenue was $5.2M in 2023. Costs fell.")

	require.Len(t, sentences, 2)
	assert.Equal(t, "Revenue was $5.2M in 2023.", sentences[0])
}
