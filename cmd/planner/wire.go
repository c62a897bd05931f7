package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/neexbeast/itinerary/internal/assistant"
	"github.com/neexbeast/itinerary/internal/briefing"
	"github.com/neexbeast/itinerary/internal/cache"
	"github.com/neexbeast/itinerary/internal/config"
	"github.com/neexbeast/itinerary/internal/itinerary"
	"github.com/neexbeast/itinerary/internal/storage"
)

// deps holds everything a command may need, plus what must be closed.
type deps struct {
	store     itinerary.Store
	snapshots *storage.Repository
	assistant *assistant.Assistant
	db        interface{ Ping(context.Context) error }
	redis     *redis.Client
	closers   []func()
}

// Close releases backends in reverse order of creation.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func newLogger(w io.Writer, cfg *config.Config, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// wire builds the store and, when an API key is configured, the assistant.
// Optional backends fail the command when configured but unreachable.
func wire(ctx context.Context, cfg *config.Config, log *slog.Logger) (*deps, error) {
	d := &deps{}

	if cfg.Database.URL != "" {
		pool, err := storage.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
		d.db = pool

		if err := storage.RunMigrations(ctx, pool, storage.Migrations()); err != nil {
			d.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied")
		d.snapshots = storage.NewRepository(pool)
		d.store = storage.NewSnapshotStore(d.snapshots)
	} else {
		d.store = itinerary.NewFileStore(cfg.File)
	}

	if cfg.OpenAI.APIKey == "" {
		log.Debug("no OpenAI API key, assistant disabled")
		return d, nil
	}

	opts := []assistant.Option{
		assistant.WithToken(cfg.OpenAI.APIKey),
		assistant.WithModel(cfg.OpenAI.Model),
		assistant.WithBaseURL(cfg.OpenAI.BaseURL),
		assistant.WithTemperature(float32(cfg.OpenAI.Temperature)),
	}
	if n := cfg.OpenAI.RatePerMinute; n > 0 {
		opts = append(opts, assistant.WithLimiter(rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)))
	}
	gen, err := assistant.NewOpenAI(opts...)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	var responses assistant.ResponseCache
	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		d.closers = append(d.closers, func() { _ = client.Close() })
		d.redis = client
		responses = cache.NewCache(client, cfg.Redis.TTL)
	}

	d.assistant = assistant.New(gen, responses, newBriefer(cfg, log), log)
	return d, nil
}

// newBriefer returns nil unless a weather key is configured; the key enables
// local-context briefing as a whole, country facts included.
func newBriefer(cfg *config.Config, log *slog.Logger) assistant.Briefer {
	if cfg.Weather.APIKey == "" {
		log.Debug("no weather API key, briefing disabled")
		return nil
	}
	return briefing.NewBriefer(cfg.Weather.APIKey, log)
}
