package services

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// TextChunker splits resume text into overlapping chunks for embedding.
type TextChunker interface {
	Chunk(text string) []string
}

type textChunker struct {
	maxSize int
	overlap int
}

// NewTextChunker measures sizes in runes. Non-positive maxSize selects the
// default; an overlap that would swallow a whole chunk is cut to a quarter.
func NewTextChunker(maxSize, overlap int) TextChunker {
	if maxSize <= 0 {
		maxSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 4
	}
	return &textChunker{maxSize: maxSize, overlap: overlap}
}

// chunkBuilder accumulates pieces and carries the tail of each emitted chunk
// into the next one. Sizes are in runes.
type chunkBuilder struct {
	maxSize int
	overlap int
	current strings.Builder
	size    int
	chunks  []string
}

func (b *chunkBuilder) add(piece, sep string) {
	pieceSize := utf8.RuneCountInString(piece)
	sepSize := utf8.RuneCountInString(sep)

	if b.size > 0 && b.size+sepSize+pieceSize > b.maxSize {
		prev := b.current.String()
		b.chunks = append(b.chunks, prev)
		b.current.Reset()
		b.size = 0

		// The overlap is only carried when the next piece still fits after it.
		if tail := lastRunes(prev, b.overlap); tail != "" {
			if n := utf8.RuneCountInString(tail); n+sepSize+pieceSize <= b.maxSize {
				b.current.WriteString(tail)
				b.size = n
			}
		}
	}

	if b.size > 0 {
		b.current.WriteString(sep)
		b.size += sepSize
	}
	b.current.WriteString(piece)
	b.size += pieceSize
}

// Chunk implements TextChunker. Paragraphs are kept whole when they fit;
// longer ones are split into sentences.
func (tc *textChunker) Chunk(text string) []string {
	b := &chunkBuilder{maxSize: tc.maxSize, overlap: tc.overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= tc.maxSize {
			b.add(para, "\n\n")
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			b.add(sentence, " ")
		}
	}

	if b.size > 0 {
		b.chunks = append(b.chunks, b.current.String())
	}
	return b.chunks
}

// splitIntoSentences splits after '.', '!' and '?', keeping the terminator.
func splitIntoSentences(text string) []string {
	var result []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				result = append(result, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		result = append(result, s)
	}
	return result
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
