package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "foodgram",
	Short: "Foodgram recipe service",
	Long: `Foodgram serves the recipe API: users, tags, ingredients, recipes,
subscriptions, favorites and the shopping cart with its downloadable list.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime is what every database-backed command starts from.
type runtime struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB
}

func setup(ctx context.Context) (*runtime, error) {
	cfg := config.Load()
	log, err := logger.New(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	db, err := database.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		log.Sync()
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func (r *runtime) Close() {
	r.db.Close()
	r.log.Sync()
}
