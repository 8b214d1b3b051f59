package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/capture-service/internal/adapter/chromedp_browser"
	"github.com/user/capture-service/internal/adapter/filesystem"
	"github.com/user/capture-service/internal/usecase"
	"github.com/user/capture-service/pkg/config"
	"github.com/user/capture-service/pkg/logger"
	"github.com/user/capture-service/pkg/metrics"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "capture [files...]",
	Short: "Screenshot prefixed DOM elements out of static HTML files",
	Long: `Loads each HTML document in headless Chrome and writes one PNG per element
whose id starts with a configured prefix, to <dir>/images/<name>/<id>.png.

Without arguments, documents are taken from an articles/ directory next to
the executable, or else in the current working directory.

Configuration comes from the environment (or a .env file), never from flags.`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runCapture,
}

func init() {
	rootCmd.AddCommand(runCmd, listCmd, serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if log != nil {
			log.Error("Command failed", zap.Error(err))
			log.Sync()
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
	if log != nil {
		log.Sync()
	}
}

// setup loads the configuration and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	log, err = logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	log.Debug("Logger initialized", zap.String("level", cfg.LogLevel), zap.String("format", cfg.LogFormat))

	metrics.Init()
	return nil
}

func newResolver() *usecase.TargetResolver {
	var roots []string
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		roots = append(roots, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		roots = append(roots, wd)
	}
	return usecase.NewTargetResolver(cfg.ArticlesDir, roots...)
}

func browserOptions() chromedp_browser.Options {
	return chromedp_browser.Options{
		ViewportWidth:   cfg.ViewportWidth,
		ViewportHeight:  cfg.ViewportHeight,
		Scale:           cfg.Scale,
		SettleDelay:     cfg.SettleDelay(),
		PageLoadTimeout: cfg.PageLoadTimeout(),
		ChromePath:      cfg.ChromePath,
	}
}

func captureOptions() usecase.CaptureOptions {
	return usecase.CaptureOptions{
		Prefixes:            cfg.Prefixes,
		OutputDirName:       cfg.OutputDirName,
		Scale:               cfg.Scale,
		ContinueOnLoadError: cfg.ContinueOnLoadError,
	}
}

// newCapturer launches the browser and wires the capture use case to st.
// The returned close function releases the browser.
func newCapturer(ctx context.Context, st *stores) (usecase.Capturer, func(), error) {
	browser, err := chromedp_browser.NewChromedpBrowser(ctx, browserOptions(), log)
	if err != nil {
		return nil, nil, err
	}
	capturer := usecase.NewCaptureUseCase(browser, filesystem.NewImageStore(), st.statuses, st.results, captureOptions(), log)
	return capturer, func() {
		if err := browser.Close(); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("Failed to close browser", zap.Error(err))
		}
	}, nil
}
