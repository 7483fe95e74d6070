package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-scorer/internal/models"
	"alfredoptarigan/resume-scorer/internal/repositories"
	"alfredoptarigan/resume-scorer/internal/scoring"
)

type memoryEvalRepo struct {
	mu    sync.Mutex
	evals map[uuid.UUID]*models.Evaluation
	polls int
}

func newMemoryEvalRepo(evals ...*models.Evaluation) *memoryEvalRepo {
	r := &memoryEvalRepo{evals: make(map[uuid.UUID]*models.Evaluation)}
	for _, e := range evals {
		r.evals[e.ID] = e
	}
	return r
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
	e, ok := r.evals[id]
	if !ok {
		return nil, fmt.Errorf("evaluation %s: %w", id, repositories.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (r *memoryEvalRepo) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.evals[id]
	if !ok {
		return fmt.Errorf("evaluation %s: %w", id, repositories.ErrNotFound)
	}
	e.Status = status
	return nil
}

func (r *memoryEvalRepo) UpdateResult(id uuid.UUID, data *repositories.EvaluationUpdateData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.evals[id]
	e.Status = models.StatusCompleted
	e.Verdict = &data.Verdict
	e.FinalScore = &data.FinalScore
	e.TotalWeight = &data.TotalWeight
	e.TotalWeightedScore = &data.TotalWeightedScore
	e.PassingThreshold = &data.PassingThreshold
	e.ParameterScores = data.Scores
	return nil
}

func (r *memoryEvalRepo) UpdateError(id uuid.UUID, errorMsg string, scores []models.ParameterScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.evals[id]
	e.Status = models.StatusFailed
	e.ErrorMessage = &errorMsg
	e.ParameterScores = scores
	return nil
}

func (r *memoryEvalRepo) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls++
	var out []models.Evaluation
	for _, e := range r.evals {
		if e.Status == models.StatusQueued && len(out) < limit {
			out = append(out, *e)
		}
	}
	return out, nil
}

type memoryDocRepo struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*models.Document
}

func newMemoryDocRepo(docs ...*models.Document) *memoryDocRepo {
	r := &memoryDocRepo{docs: make(map[uuid.UUID]*models.Document)}
	for _, d := range docs {
		r.docs[d.ID] = d
	}
	return r
}

func (r *memoryDocRepo) Create(d *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[d.ID] = d
	return nil
}

func (r *memoryDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, repositories.ErrNotFound)
	}
	return d, nil
}

func (r *memoryDocRepo) FindByHash(hash string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ContentHash == hash {
			return d, nil
		}
	}
	return nil, fmt.Errorf("document with hash %s: %w", hash, repositories.ErrNotFound)
}

func (r *memoryDocRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

type staticParams struct {
	params []scoring.Parameter
	err    error
}

func (s *staticParams) Load() ([]scoring.Parameter, error) {
	return s.params, s.err
}

func (s *staticParams) Save(p []scoring.Parameter) error {
	s.params = p
	return nil
}

func (s *staticParams) Upsert(p scoring.Parameter) error {
	s.params = append(s.params, p)
	return nil
}

func (s *staticParams) Delete(string) error {
	return nil
}
