package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/neexbeast/itinerary/internal/api"
	"github.com/neexbeast/itinerary/internal/cache"
	"github.com/neexbeast/itinerary/internal/config"
	"github.com/neexbeast/itinerary/internal/itinerary"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the itinerary over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, newLogger(cmd.OutOrStdout(), cfg, true))
		},
	}
	cmd.Flags().String("port", "8080", "HTTP port")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	d, err := wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	m := itinerary.NewManager(log)
	planner := api.NewPlanner(m, d.store)
	if err := planner.Load(ctx); err != nil && !errors.Is(err, itinerary.ErrNoFile) {
		return fmt.Errorf("loading itinerary: %w", err)
	}

	var assister api.Assister
	if d.assistant != nil {
		assister = d.assistant
	}

	checks := api.Checks{}
	if d.db != nil {
		checks["db"] = d.db
	}
	if d.redis != nil {
		checks["redis"] = cache.Pinger{Client: d.redis}
	}

	router := api.NewRouter(api.NewHandlers(planner, assister, log), cfg.HTTP.Token, checks, log)

	if cfg.Autosave != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.Autosave, func() { autosave(planner, log) }); err != nil {
			return fmt.Errorf("scheduling autosave: %w", err)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		log.Info("autosave scheduled", "schedule", cfg.Autosave)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case <-ctx.Done():
		log.Info("context cancelled, shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

func autosave(p *api.Planner, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := p.Save(ctx); err != nil {
		log.Error("autosave failed", "err", err)
		return
	}
	log.Info("autosave complete", "destinations", p.Len())
}
