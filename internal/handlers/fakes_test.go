package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-scorer/internal/models"
	"alfredoptarigan/resume-scorer/internal/repositories"
	"alfredoptarigan/resume-scorer/internal/scoring"
)

type memoryDocRepo struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*models.Document
}

func newMemoryDocRepo() *memoryDocRepo {
	return &memoryDocRepo{docs: make(map[uuid.UUID]*models.Document)}
}

func (r *memoryDocRepo) Create(doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

func (r *memoryDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("document %s: %w", id, repositories.ErrNotFound)
}

func (r *memoryDocRepo) FindByHash(hash string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ContentHash == hash {
			return d, nil
		}
	}
	return nil, fmt.Errorf("document %s: %w", hash, repositories.ErrNotFound)
}

func (r *memoryDocRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

type memoryEvalRepo struct {
	mu    sync.Mutex
	evals map[uuid.UUID]*models.Evaluation
}

func newMemoryEvalRepo() *memoryEvalRepo {
	return &memoryEvalRepo{evals: make(map[uuid.UUID]*models.Evaluation)}
}

func (r *memoryEvalRepo) Create(eval *models.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evals[eval.ID] = eval
	return nil
}

func (r *memoryEvalRepo) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.evals[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("evaluation %s: %w", id, repositories.ErrNotFound)
}

func (r *memoryEvalRepo) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evals[id].Status = status
	return nil
}

func (r *memoryEvalRepo) UpdateResult(uuid.UUID, *repositories.EvaluationUpdateData) error {
	return nil
}

func (r *memoryEvalRepo) UpdateError(uuid.UUID, string, []models.ParameterScore) error {
	return nil
}

func (r *memoryEvalRepo) FindPendingJobs(int) ([]models.Evaluation, error) {
	return nil, nil
}

type recordingQueue struct {
	ids []uuid.UUID
}

func (q *recordingQueue) EnqueueJob(id uuid.UUID) {
	q.ids = append(q.ids, id)
}

type stubClassifier struct {
	category scoring.Category
	err      error
	calls    int
}

func (s *stubClassifier) Classify(context.Context, string) (scoring.Category, error) {
	s.calls++
	return s.category, s.err
}

type stubCache struct {
	invalidated []string
}

func (s *stubCache) Invalidate(hash string) bool {
	s.invalidated = append(s.invalidated, hash)
	return true
}

type stubForgetter struct {
	forgotten []string
	err       error
}

func (s *stubForgetter) Forget(_ context.Context, hash string) error {
	s.forgotten = append(s.forgotten, hash)
	return s.err
}
