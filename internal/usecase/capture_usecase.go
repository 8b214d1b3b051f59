package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/user/capture-service/internal/entity"
	"github.com/user/capture-service/internal/repository"
	"github.com/user/capture-service/pkg/metrics"
	"github.com/user/capture-service/pkg/utils"
)

// Capturer defines the interface for the element capture process.
type Capturer interface {
	// Run processes targets one after another. A document that fails to load
	// stops the run unless CaptureOptions.ContinueOnLoadError is set.
	Run(ctx context.Context, targets []entity.CaptureTarget) (*entity.RunSummary, error)
	// CaptureDocument takes every capturable element of one document.
	CaptureDocument(ctx context.Context, target entity.CaptureTarget) (*entity.DocumentReport, error)
}

// CaptureOptions is the read-only capture configuration.
type CaptureOptions struct {
	Prefixes            []string
	OutputDirName       string
	Scale               float64
	ContinueOnLoadError bool
}

type captureUseCase struct {
	browser  repository.BrowserRepository
	images   repository.ImageStore
	statuses repository.StatusRepository
	results  repository.CaptureResultRepository
	opts     CaptureOptions
	logger   *zap.Logger
}

// NewCaptureUseCase creates a new instance of the capture use case.
func NewCaptureUseCase(
	browser repository.BrowserRepository,
	images repository.ImageStore,
	statuses repository.StatusRepository,
	results repository.CaptureResultRepository,
	opts CaptureOptions,
	logger *zap.Logger,
) Capturer {
	metrics.Init()
	return &captureUseCase{
		browser:  browser,
		images:   images,
		statuses: statuses,
		results:  results,
		opts:     opts,
		logger:   logger,
	}
}

func (uc *captureUseCase) Run(ctx context.Context, targets []entity.CaptureTarget) (*entity.RunSummary, error) {
	summary := &entity.RunSummary{}
	for _, target := range targets {
		report, err := uc.CaptureDocument(ctx, target)
		summary.Add(report)
		if err != nil {
			if uc.opts.ContinueOnLoadError && errors.Is(err, repository.ErrDocumentLoad) {
				uc.logger.Error("Skipping document", zap.String("document", target.Path), zap.Error(err))
				continue
			}
			return summary, err
		}
	}
	return summary, nil
}

func (uc *captureUseCase) CaptureDocument(ctx context.Context, target entity.CaptureTarget) (*entity.DocumentReport, error) {
	report := &entity.DocumentReport{Target: target, Status: entity.StatusPending}
	uc.setStatus(ctx, target.Path, entity.StatusPending, "")

	outDir := utils.OutputDir(target.Path, uc.opts.OutputDirName)
	if err := uc.images.EnsureDir(outDir); err != nil {
		return report, uc.failDocument(ctx, report, err)
	}

	uc.logger.Info("Loading document", zap.String("document", target.Path), zap.String("output_dir", outDir))
	uc.setStatus(ctx, target.Path, entity.StatusLoading, "")

	startTime := time.Now()
	page, err := uc.browser.Open(ctx, target)
	if err != nil {
		return report, uc.failDocument(ctx, report, err)
	}
	defer page.Close()
	uc.setStatus(ctx, target.Path, entity.StatusReady, "")

	elements, err := page.Elements(ctx, uc.opts.Prefixes)
	if err != nil {
		return report, uc.failDocument(ctx, report, fmt.Errorf("%w: %w", repository.ErrDocumentLoad, err))
	}
	report.Elements = elements
	uc.logger.Info("Found capturable elements", zap.String("document", target.Path), zap.Int("count", len(elements)))

	uc.setStatus(ctx, target.Path, entity.StatusCapturing, "")
	for _, el := range elements {
		if err := ctx.Err(); err != nil {
			return report, uc.failDocument(ctx, report, err)
		}
		result := uc.captureElement(ctx, page, target, el)
		report.Results = append(report.Results, *result)
	}

	report.Status = entity.StatusDone
	uc.setStatus(ctx, target.Path, entity.StatusDone, "")
	metrics.DocumentsTotal.WithLabelValues(string(entity.StatusDone)).Inc()
	metrics.DocumentDuration.Observe(time.Since(startTime).Seconds())

	uc.logger.Info("Document done",
		zap.String("document", target.Path),
		zap.Int("captured", report.Captured()),
		zap.Int("failed", len(report.Results)-report.Captured()),
		zap.Int64("duration_ms", time.Since(startTime).Milliseconds()),
	)
	return report, nil
}

// captureElement never fails the document: problems end up in the result.
func (uc *captureUseCase) captureElement(ctx context.Context, page repository.Page, target entity.CaptureTarget, el entity.CapturableElement) *entity.CaptureResult {
	result := &entity.CaptureResult{
		DocumentPath: target.Path,
		ElementID:    el.ID,
		Status:       entity.ResultCaptured,
	}

	var err error
	errorType := ""
	if !utils.SafeElementID(el.ID) {
		err = fmt.Errorf("%w: %q", repository.ErrInvalidElementID, el.ID)
		errorType = "invalid_id"
	} else {
		result.OutputPath = utils.OutputPath(target.Path, uc.opts.OutputDirName, el.ID)
		errorType, err = uc.writeImage(ctx, page, el, result)
	}
	result.CapturedAt = time.Now()

	if err != nil {
		result.Status = entity.ResultFailed
		if errors.Is(err, repository.ErrElementNotFound) {
			result.Status = entity.ResultNotFound
		}
		result.ErrorMessage = err.Error()
		uc.logger.Warn("Element capture failed",
			zap.String("document", target.Path),
			zap.String("element", el.ID),
			zap.String("error_type", errorType),
			zap.Error(err),
		)
	} else {
		uc.logger.Info("Captured element",
			zap.String("element", el.ID),
			zap.Int("width", result.PixelWidth),
			zap.Int("height", result.PixelHeight),
			zap.String("path", result.OutputPath),
		)
	}
	metrics.ElementCaptures.WithLabelValues(string(result.Status), errorType).Inc()

	if err := uc.results.Save(ctx, result); err != nil {
		uc.logger.Warn("Failed to record capture result", zap.String("element", el.ID), zap.Error(err))
	}
	return result
}

// writeImage screenshots el and stores the PNG, recording its real pixel size.
func (uc *captureUseCase) writeImage(ctx context.Context, page repository.Page, el entity.CapturableElement, result *entity.CaptureResult) (string, error) {
	data, err := page.Capture(ctx, el.ID)
	if err != nil {
		return classifyCaptureError(err), err
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "capture", fmt.Errorf("%w: %s: unreadable image: %w", repository.ErrCaptureFailed, el.ID, err)
	}
	result.PixelWidth, result.PixelHeight = cfg.Width, cfg.Height

	wantWidth, wantHeight := int(math.Round(el.Width*uc.opts.Scale)), int(math.Round(el.Height*uc.opts.Scale))
	if cfg.Width != wantWidth || cfg.Height != wantHeight {
		uc.logger.Warn("Image size differs from scaled bounding box",
			zap.String("element", el.ID),
			zap.Int("width", cfg.Width),
			zap.Int("height", cfg.Height),
			zap.Int("expected_width", wantWidth),
			zap.Int("expected_height", wantHeight),
		)
	}

	if err := uc.images.Write(result.OutputPath, data); err != nil {
		return "write", err
	}
	return "", nil
}

func (uc *captureUseCase) failDocument(ctx context.Context, report *entity.DocumentReport, err error) error {
	report.Status = entity.StatusFailed
	uc.setStatus(ctx, report.Target.Path, entity.StatusFailed, err.Error())
	metrics.DocumentsTotal.WithLabelValues(string(entity.StatusFailed)).Inc()
	return err
}

func (uc *captureUseCase) setStatus(ctx context.Context, path string, status entity.DocumentStatus, reason string) {
	state := &entity.DocumentState{
		Path:          path,
		CurrentStatus: status,
		UpdatedAt:     time.Now(),
		FailureReason: reason,
	}
	// A cancelled run still gets its final state recorded.
	if err := uc.statuses.SetStatus(context.WithoutCancel(ctx), state); err != nil {
		uc.logger.Warn("Failed to record document status", zap.String("document", path), zap.String("status", string(status)), zap.Error(err))
	}
}

func classifyCaptureError(err error) string {
	switch {
	case errors.Is(err, repository.ErrElementNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "capture"
	}
}
