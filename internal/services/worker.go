package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(evalID uuid.UUID)
}

type worker struct {
	evalRepo         repositories.EvaluationRepository
	evaluatorService EvaluatorService
	jobQueue         chan uuid.UUID
	concurrency      int
	pollInterval     time.Duration
	logger           *zap.Logger

	// pending holds IDs that are queued or running, so the poller does not
	// hand the same evaluation to two workers.
	mu      sync.Mutex
	pending map[uuid.UUID]struct{}

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

func NewWorker(
	evalRepo repositories.EvaluationRepository,
	evaluatorService EvaluatorService,
	concurrency int,
	pollInterval time.Duration,
	log *zap.Logger,
) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &worker{
		evalRepo:         evalRepo,
		evaluatorService: evaluatorService,
		jobQueue:         make(chan uuid.UUID, 100),
		concurrency:      concurrency,
		pollInterval:     pollInterval,
		logger:           logger.OrNop(log).Named("worker"),
		pending:          make(map[uuid.UUID]struct{}),
		stopChan:         make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker. Jobs already running are allowed to finish.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("stopping worker")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

// EnqueueJob implements Worker. Enqueuing an ID that is already pending is a no-op.
func (w *worker) EnqueueJob(evalID uuid.UUID) {
	w.mu.Lock()
	if _, dup := w.pending[evalID]; dup {
		w.mu.Unlock()
		return
	}
	w.pending[evalID] = struct{}{}
	w.mu.Unlock()

	select {
	case w.jobQueue <- evalID:
		w.logger.Debug("job enqueued", zap.String("evaluation_id", evalID.String()))
	case <-w.stopChan:
		w.done(evalID)
		w.logger.Warn("worker stopped, cannot enqueue job", zap.String("evaluation_id", evalID.String()))
	}
}

func (w *worker) done(evalID uuid.UUID) {
	w.mu.Lock()
	delete(w.pending, evalID)
	w.mu.Unlock()
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.logger.With(zap.Int("worker", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case evalID := <-w.jobQueue:
			log.Info("processing job", zap.String("evaluation_id", evalID.String()))
			if err := w.evaluatorService.EvaluateCandidate(ctx, evalID); err != nil {
				log.Warn("job failed", zap.String("evaluation_id", evalID.String()), zap.Error(err))
			} else {
				log.Info("job completed", zap.String("evaluation_id", evalID.String()))
			}
			w.done(evalID)
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pendingJobs, err := w.evalRepo.FindPendingJobs(10)
			if err != nil {
				w.logger.Warn("failed to fetch pending jobs", zap.Error(err))
				continue
			}

			if len(pendingJobs) > 0 {
				w.logger.Info("found pending jobs", zap.Int("count", len(pendingJobs)))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
