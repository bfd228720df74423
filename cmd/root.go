// Package cmd implements the storyctl command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"story-cms/config"
	"story-cms/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var commandTimeout time.Duration

var rootCmd = &cobra.Command{
	Use:   "storyctl",
	Short: "story-cms server and administration tool",
	Long: `storyctl runs the story-cms HTTP API and performs maintenance tasks
against its database.

Configuration is read from .env, config.yml and the environment.`,
	SilenceUsage: true,
}

// Execute runs the root command. With no subcommand it serves the API.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&commandTimeout, "timeout", 2*time.Minute, "Timeout for maintenance commands")
	rootCmd.RunE = serveCmd.RunE
}

// env is what every command needs before doing real work.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	db, err := config.InitDB(cfg, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.log.Sync()
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), commandTimeout)
}
