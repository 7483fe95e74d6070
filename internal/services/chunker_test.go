package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextChunker_ShortTextIsOneChunk(t *testing.T) {
	chunks := NewTextChunker(100, 10).Chunk("Experience\n\nGo developer.")
	assert.Equal(t, []string{"Experience\n\nGo developer."}, chunks)
}

func TestTextChunker_Empty(t *testing.T) {
	assert.Empty(t, NewTextChunker(100, 10).Chunk("  \n\n  "))
}

func TestTextChunker_SplitsParagraphsWithOverlap(t *testing.T) {
	paras := []string{
		strings.Repeat("a", 40),
		strings.Repeat("b", 40),
		strings.Repeat("c", 40),
	}
	chunks := NewTextChunker(50, 5).Chunk(strings.Join(paras, "\n\n"))

	require.Len(t, chunks, 3)
	assert.Equal(t, paras[0], chunks[0])
	assert.True(t, strings.HasPrefix(chunks[1], "aaaaa\n\n"), "second chunk starts with overlap, got %q", chunks[1])
	assert.True(t, strings.HasSuffix(chunks[2], paras[2]))
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 50)
	}
}

func TestTextChunker_LongParagraphSplitBySentence(t *testing.T) {
	para := "Led the payments team. Shipped a ledger service! Reduced latency by half? Mentored four engineers."
	chunks := NewTextChunker(40, 0).Chunk(para)

	require.NotEmpty(t, chunks)
	assert.Equal(t, "Led the payments team.", chunks[0])
	joined := strings.Join(chunks, " ")
	for _, s := range []string{"Shipped a ledger service!", "Reduced latency by half?", "Mentored four engineers."} {
		assert.Contains(t, joined, s)
	}
}

func TestNewTextChunker_Defaults(t *testing.T) {
	tc := NewTextChunker(0, -1).(*textChunker)
	assert.Equal(t, defaultChunkSize, tc.maxSize)
	assert.Equal(t, 0, tc.overlap)

	tc = NewTextChunker(100, 100).(*textChunker)
	assert.Equal(t, 25, tc.overlap)
}
