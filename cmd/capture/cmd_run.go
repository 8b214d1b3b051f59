package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/capture-service/internal/repository"
	"github.com/user/capture-service/pkg/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Capture elements from the given documents (the default command)",
	RunE:  runCapture,
}

func runCapture(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	targets, err := newResolver().Resolve(args)
	if err != nil {
		if errors.Is(err, repository.ErrNoInput) {
			log.Error("No input files found. Pass HTML files as arguments or add them to the articles directory.",
				zap.String("articles_dir", cfg.ArticlesDir))
		}
		return err
	}
	log.Info("Found documents", zap.Int("count", len(targets)))

	st, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	capturer, closeBrowser, err := newCapturer(ctx, st)
	if err != nil {
		return err
	}
	defer closeBrowser()

	summary, runErr := capturer.Run(ctx, targets)
	log.Info("Capture run finished",
		zap.Int("documents", summary.Documents),
		zap.Int("failed_documents", summary.FailedDocuments),
		zap.Int("captured", summary.ElementsCaptured),
		zap.Int("failed", summary.ElementsFailed),
	)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Warn("Failed to write metrics textfile", zap.String("path", cfg.MetricsTextfile), zap.Error(err))
		}
	}
	return runErr
}
