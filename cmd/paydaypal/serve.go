package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/paydaypal/internal/archive"
	"github.com/dukerupert/paydaypal/internal/config"
	"github.com/dukerupert/paydaypal/internal/database"
	"github.com/dukerupert/paydaypal/internal/datekey"
	"github.com/dukerupert/paydaypal/internal/server"
	"github.com/dukerupert/paydaypal/internal/store"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(db, server.Options{
		Clock:           datekey.SystemClock{Location: loc},
		Archiver:        newArchiver(cfg, store.NewArchiveStore(db)),
		RateLimit:       cfg.RateLimit,
		RateLimitWindow: cfg.RateLimitWindow,
	}, logger)
	go srv.Run(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("paydaypal listening", "addr", httpServer.Addr, "db", cfg.DBPath, "timezone", loc.String())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	srv.Shutdown()
	return nil
}

// newArchiver prefers S3 when a bucket is configured, then a local
// directory. It returns nil when archiving is off.
func newArchiver(cfg *config.Config, records *store.ArchiveStore) *archive.Archiver {
	if !cfg.ArchiveEnabled() {
		return nil
	}
	var sink archive.Sink
	if cfg.S3Bucket != "" {
		sink = archive.NewS3Sink(archive.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	} else {
		sink = archive.NewDirSink(cfg.ArchiveDir)
	}
	return archive.New(sink, records, cfg.ArchivePassphrase, cfg.ArchiveTimeout, logger.With("component", "archive"))
}
