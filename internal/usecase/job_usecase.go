package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/capture-service/internal/entity"
	"github.com/user/capture-service/internal/repository"
	"github.com/user/capture-service/pkg/metrics"
	"github.com/user/capture-service/pkg/utils"
)

// JobManager defines the interface for submitting capture jobs and checking on them.
type JobManager interface {
	Submit(ctx context.Context, paths []string) (*entity.CaptureJob, error)
	GetStatus(ctx context.Context, path string) (*entity.DocumentState, error)
	GetResults(ctx context.Context, path string) ([]*entity.CaptureResult, error)
	// ProcessNext runs the oldest queued job, if any, and reports whether there was one.
	ProcessNext(ctx context.Context) (bool, error)
	// Start drains the queue until ctx is cancelled, polling every interval when idle.
	Start(ctx context.Context, interval time.Duration) error
}

type jobUseCase struct {
	queue    repository.QueueRepository
	statuses repository.StatusRepository
	results  repository.CaptureResultRepository
	resolver *TargetResolver
	capturer Capturer
	logger   *zap.Logger
}

// NewJobManager creates a new JobManager use case.
func NewJobManager(
	queue repository.QueueRepository,
	statuses repository.StatusRepository,
	results repository.CaptureResultRepository,
	resolver *TargetResolver,
	capturer Capturer,
	logger *zap.Logger,
) JobManager {
	metrics.Init()
	return &jobUseCase{
		queue:    queue,
		statuses: statuses,
		results:  results,
		resolver: resolver,
		capturer: capturer,
		logger:   logger,
	}
}

func (uc *jobUseCase) Submit(ctx context.Context, paths []string) (*entity.CaptureJob, error) {
	targets, err := uc.resolver.ResolvePaths(paths)
	if err != nil {
		return nil, err
	}

	job := &entity.CaptureJob{SubmittedAt: time.Now().UTC()}
	for _, t := range targets {
		job.Paths = append(job.Paths, t.Path)
	}
	job.ID = utils.HashPath(strings.Join(job.Paths, "\n") + "\n" + job.SubmittedAt.Format(time.RFC3339Nano))[:16]

	for _, p := range job.Paths {
		state := &entity.DocumentState{Path: p, CurrentStatus: entity.StatusPending, UpdatedAt: job.SubmittedAt}
		if err := uc.statuses.SetStatus(ctx, state); err != nil {
			uc.logger.Warn("Failed to mark document as pending", zap.String("document", p), zap.Error(err))
		}
	}

	if err := uc.queue.Push(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}
	uc.updateQueueGauge(ctx)

	uc.logger.Info("Job queued", zap.String("job_id", job.ID), zap.Int("documents", len(job.Paths)))
	return job, nil
}

func (uc *jobUseCase) GetStatus(ctx context.Context, path string) (*entity.DocumentState, error) {
	return uc.statuses.GetStatus(ctx, path)
}

func (uc *jobUseCase) GetResults(ctx context.Context, path string) ([]*entity.CaptureResult, error) {
	return uc.results.FindByDocument(ctx, path)
}

func (uc *jobUseCase) ProcessNext(ctx context.Context) (bool, error) {
	job, err := uc.queue.Pop(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Queue is empty, which is a normal state.
			return false, nil
		}
		return false, fmt.Errorf("failed to pop job from queue: %w", err)
	}
	uc.updateQueueGauge(ctx)

	var targets []entity.CaptureTarget
	for _, p := range job.Paths {
		t, err := NewTarget(p)
		if err != nil {
			uc.logger.Warn("Dropping unresolvable path", zap.String("job_id", job.ID), zap.String("document", p), zap.Error(err))
			continue
		}
		targets = append(targets, t)
	}

	uc.logger.Info("Processing job", zap.String("job_id", job.ID), zap.Int("documents", len(targets)))
	summary, err := uc.capturer.Run(ctx, targets)
	if err != nil {
		// documents after the failed one were never opened
		for _, t := range targets[summary.Documents:] {
			uc.markSkipped(ctx, t.Path, err)
		}
		return true, fmt.Errorf("job %s aborted: %w", job.ID, err)
	}

	uc.logger.Info("Job finished",
		zap.String("job_id", job.ID),
		zap.Int("documents", summary.Documents),
		zap.Int("captured", summary.ElementsCaptured),
		zap.Int("failed", summary.ElementsFailed),
	)
	return true, nil
}

func (uc *jobUseCase) Start(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for {
			processed, err := uc.ProcessNext(ctx)
			if err != nil {
				uc.logger.Error("Job failed", zap.Error(err))
			}
			if !processed || ctx.Err() != nil {
				break
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (uc *jobUseCase) markSkipped(ctx context.Context, path string, cause error) {
	state := &entity.DocumentState{
		Path:          path,
		CurrentStatus: entity.StatusFailed,
		UpdatedAt:     time.Now(),
		FailureReason: "skipped after earlier failure: " + cause.Error(),
	}
	if err := uc.statuses.SetStatus(context.WithoutCancel(ctx), state); err != nil {
		uc.logger.Warn("Failed to mark document as skipped", zap.String("document", path), zap.Error(err))
	}
}

func (uc *jobUseCase) updateQueueGauge(ctx context.Context) {
	size, err := uc.queue.Size(ctx)
	if err != nil {
		return
	}
	metrics.JobsInQueue.Set(float64(size))
}
