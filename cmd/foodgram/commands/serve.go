package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"foodgram/internal/api"
	"foodgram/internal/database"
	"foodgram/internal/media"
	"foodgram/internal/shopping"
	"foodgram/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Apply the schema if needed and serve the API until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	created, err := database.Migrate(ctx, rt.db)
	if err != nil {
		return err
	}
	if created {
		rt.log.Info("database schema created")
	}

	exporter, err := shopping.NewExporter(rt.cfg.Export)
	if err != nil {
		return err
	}
	if _, err := shopping.ParseFormat(rt.cfg.Export.DefaultFormat); err != nil {
		return fmt.Errorf("invalid EXPORT_DEFAULT_FORMAT: %w", err)
	}

	st := store.New(rt.db)
	router := api.SetupRouter(api.Dependencies{
		Config:   rt.cfg,
		DB:       rt.db,
		Store:    st,
		Media:    media.NewStorage(rt.cfg.Media),
		Shopping: shopping.NewService(st, exporter),
		Logger:   rt.log,
	})

	srv := &http.Server{
		Addr:              ":" + rt.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("server listening", "addr", srv.Addr, "environment", rt.cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	rt.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
