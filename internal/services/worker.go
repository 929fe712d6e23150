package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"resume-matcher/internal/models"
	"resume-matcher/internal/repositories"
)

// Worker drains the asynchronous match queue. A poller periodically
// re-enqueues jobs still marked queued so requests accepted before a crash
// are not lost.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(jobID uuid.UUID)
}

type worker struct {
	matchJobRepo repositories.MatchJobRepository
	orchestrator *MatchOrchestrator
	jobQueue     chan uuid.UUID
	concurrency  int
	wg           sync.WaitGroup
	stopChan     chan struct{}
	logger       *zap.Logger
}

func NewWorker(
	matchJobRepo repositories.MatchJobRepository,
	orchestrator *MatchOrchestrator,
	concurrency int,
	logger *zap.Logger,
) Worker {
	return &worker{
		matchJobRepo: matchJobRepo,
		orchestrator: orchestrator,
		jobQueue:     make(chan uuid.UUID, 100),
		concurrency:  concurrency,
		stopChan:     make(chan struct{}),
		logger:       logger,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting match workers", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.logger.Info("stopping match workers")
	close(w.stopChan)
	w.wg.Wait()
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(jobID uuid.UUID) {
	select {
	case w.jobQueue <- jobID:
	case <-w.stopChan:
		w.logger.Warn("worker stopped, cannot enqueue match job", zap.String("job_id", jobID.String()))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case jobID := <-w.jobQueue:
			if err := w.processJob(ctx, jobID); err != nil {
				w.logger.Error("match job failed",
					zap.Int("worker", workerID),
					zap.String("job_id", jobID.String()),
					zap.Error(err))
			} else {
				w.logger.Info("match job completed",
					zap.Int("worker", workerID),
					zap.String("job_id", jobID.String()))
			}
		}
	}
}

func (w *worker) processJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := w.matchJobRepo.FindByID(jobID)
	if err != nil {
		return fmt.Errorf("failed to load match job: %w", err)
	}
	// Poller and direct enqueue can both deliver the same id.
	if job.Status != models.StatusQueued {
		return nil
	}

	if err := w.matchJobRepo.UpdateStatus(jobID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to mark job processing: %w", err)
	}

	response := w.orchestrator.Match(ctx, models.MatchRequest{
		ResumeText:    job.ResumeText,
		JobText:       job.JobText,
		ResumeEmail:   job.ResumeEmail,
		ExternalJobID: job.ExternalJobID,
	})

	payload, err := json.Marshal(response)
	if err != nil {
		storeErr := w.matchJobRepo.UpdateError(jobID, fmt.Sprintf("failed to encode result: %v", err))
		if storeErr != nil {
			return storeErr
		}
		return err
	}

	if err := w.matchJobRepo.UpdateResult(jobID, datatypes.JSON(payload)); err != nil {
		return fmt.Errorf("failed to store job result: %w", err)
	}
	return nil
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pendingJobs, err := w.matchJobRepo.FindPendingJobs(10)
			if err != nil {
				w.logger.Warn("failed to fetch pending match jobs", zap.Error(err))
				continue
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
