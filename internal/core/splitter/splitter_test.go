package splitter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyInput(t *testing.T) {
	s := New(1000, 100)
	assert.Empty(t, s.Split(""))
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	s := New(1000, 100)
	chunks := s.Split("a short paragraph that fits in one chunk")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short paragraph that fits in one chunk", chunks[0])
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	text := strings.Repeat("alpha ", 30) + "\n\n" + strings.Repeat("beta ", 30)
	s := New(200, 20)

	chunks := s.Split(text)
	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[1], "beta"), "second chunk should start at the paragraph boundary")
}

func TestSplitNoEmptyChunks(t *testing.T) {
	text := "one.\n\n\n\ntwo. three.\n \nfour."
	s := New(10, 2)
	for i, c := range s.Split(text) {
		assert.NotEmpty(t, c, "chunk %d empty", i)
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	// Word-separated text with no piece longer than the chunk size must
	// never produce an oversized chunk.
	text := strings.Repeat("word ", 500)
	s := New(100, 10)
	for i, c := range s.Split(text) {
		assert.LessOrEqual(t, len([]rune(c)), 100, "chunk %d exceeds chunk size", i)
	}
}

func TestSplitOverlapRepeatsPreviousTail(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 40)
	s := New(200, 50)

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		assert.Greater(t, overlapLen(chunks[i-1], chunks[i]), 0,
			"chunk %d shares no tail context with its predecessor", i)
	}
}

func TestSplitCoverageLossless(t *testing.T) {
	// Non-repetitive inputs so the overlap between consecutive chunks is
	// exactly the longest shared suffix/prefix.
	var sentences, lines, raw strings.Builder
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&sentences, "Fact %04d concerns item %05d. ", i, i*i+i)
		fmt.Fprintf(&lines, "entry %04d value %05d\n", i, 99999-i*3)
		fmt.Fprintf(&raw, "%07d", i*13+7) // no separators at all
	}
	texts := []string{
		sentences.String(),
		lines.String(),
		raw.String(),
		"heading\n\n" + sentences.String(),
	}
	for _, text := range texts {
		s := New(1000, 100)
		chunks := s.Split(text)
		require.NotEmpty(t, chunks)

		// Strip each chunk's overlap with its predecessor; what remains,
		// concatenated, must be the original text.
		var b strings.Builder
		b.WriteString(chunks[0])
		for i := 1; i < len(chunks); i++ {
			b.WriteString(chunks[i][overlapLen(chunks[i-1], chunks[i]):])
		}
		assert.Equal(t, text, b.String())
	}
}

func TestSplitThreePagesYieldsAtLeastThreeChunks(t *testing.T) {
	// Roughly three pages of prose with the production parameters.
	text := strings.Repeat("Knowledge bases hold the facts an agent relies on. ", 180)
	s := New(1000, 100)
	assert.GreaterOrEqual(t, len(s.Split(text)), 3)
}

func TestNewClampsBadOverlap(t *testing.T) {
	s := New(100, 100)
	chunks := s.Split(strings.Repeat("a ", 400))
	assert.NotEmpty(t, chunks) // must terminate despite overlap >= size
}

// overlapLen returns the length in bytes of the longest suffix of prev that
// is a prefix of cur.
func overlapLen(prev, cur string) int {
	max := len(prev)
	if len(cur) < max {
		max = len(cur)
	}
	for n := max; n > 0; n-- {
		if prev[len(prev)-n:] == cur[:n] {
			return n
		}
	}
	return 0
}
