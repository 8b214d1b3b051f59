package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/capture-service/internal/delivery/http/handler"
	"github.com/user/capture-service/internal/delivery/http/router"
	"github.com/user/capture-service/internal/usecase"
)

const workerPollInterval = time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept capture jobs over HTTP and process them one at a time",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func serve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	jobs := usecase.NewJobManager(st.queue, st.statuses, st.results, newResolver(), capturer, log)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(handler.NewHandler(jobs, log), log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return jobs.Start(gctx, workerPollInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server exiting")
	return nil
}
