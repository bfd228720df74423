package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"story-cms/app"
	"story-cms/cache"
	"story-cms/config"
	"story-cms/observability"
	"story-cms/repositories"
	"story-cms/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(e.cfg.TracingEnabled, e.cfg.Env)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			e.log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	if err := repositories.Migrate(ctx, e.db, e.log); err != nil {
		return err
	}

	redisClient := cache.NewRedisClient(ctx, e.cfg.RedisURL, e.log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	store, closeStore, err := openStore(ctx, e.cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if e.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a := app.New(app.Deps{
		Config: e.cfg,
		DB:     e.db,
		Redis:  redisClient,
		Store:  store,
		Logger: e.log,
	})

	srv := &http.Server{
		Addr:              ":" + e.cfg.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", e.cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	e.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, func(), error) {
	switch cfg.StorageDriver {
	case "gcs":
		gcs, err := storage.NewGCSStore(ctx, cfg.GCSBucketPrefix, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return gcs, func() { _ = gcs.Close() }, nil
	default:
		local, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return local, func() {}, nil
	}
}
