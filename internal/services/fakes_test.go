package services

import (
	"context"
	"strings"
	"sync"
)

// fakeEmbedder returns a vector derived from the text length.
type fakeEmbedder struct {
	mu    sync.Mutex
	texts []string
	errs  []error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.texts)
	f.texts = append(f.texts, text)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return []float32{float32(len(text)), 1}, nil
}

// memoryStore keeps chunks per document and returns them in insertion order.
type memoryStore struct {
	mu      sync.Mutex
	chunks  map[string][]EmbeddedChunk
	deleted []string
	limits  []int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{chunks: make(map[string][]EmbeddedChunk)}
}

func (m *memoryStore) InitCollection(context.Context) error { return nil }

func (m *memoryStore) UpsertChunks(_ context.Context, docID string, chunks []EmbeddedChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks[docID] = append(m.chunks[docID], chunks...)
	return nil
}

func (m *memoryStore) SearchSimilar(_ context.Context, docID string, _ []float32, limit int) ([]SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits = append(m.limits, limit)

	var out []SearchResult
	for _, c := range m.chunks[docID] {
		if len(out) == limit {
			break
		}
		out = append(out, SearchResult{DocID: docID, Score: 0.9, Text: c.Text, Section: c.Section, Index: c.Index})
	}
	return out, nil
}

func (m *memoryStore) DeleteDocument(_ context.Context, docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chunks, docID)
	m.deleted = append(m.deleted, docID)
	return nil
}

// recordingCompleter answers every prompt with answer and keeps the prompts.
type recordingCompleter struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
}

func (r *recordingCompleter) Complete(_ context.Context, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, prompt)
	if r.err != nil {
		return "", r.err
	}
	return r.answer, nil
}

func (r *recordingCompleter) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.prompts) == 0 {
		return ""
	}
	return r.prompts[len(r.prompts)-1]
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
