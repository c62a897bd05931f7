package briefing

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

type weatherFetcher interface {
	Fetch(ctx context.Context, city, country string) (*Weather, error)
}

type countriesFetcher interface {
	Fetch(ctx context.Context, country string) (*Country, error)
}

// Briefer gathers local context for a destination from external APIs.
type Briefer struct {
	weather   weatherFetcher
	countries countriesFetcher
	log       *slog.Logger
}

// NewBriefer constructs a Briefer with production URLs. Weather is skipped
// when weatherKey is empty.
func NewBriefer(weatherKey string, log *slog.Logger) *Briefer {
	var w weatherFetcher
	if weatherKey != "" {
		w = NewWeatherClient(weatherKey)
	}
	return NewBrieferWithClients(w, NewCountriesClient(), log)
}

// NewBrieferWithClients constructs a Briefer with injectable clients. A nil
// client disables that source.
func NewBrieferWithClients(w weatherFetcher, c countriesFetcher, log *slog.Logger) *Briefer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Briefer{weather: w, countries: c, log: log}
}

// Brief fetches every source in parallel. Source failures are logged and
// leave that part of the Brief nil; only a panic in a fetch is an error.
func (b *Briefer) Brief(ctx context.Context, city, country string) (*Brief, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var weather *Weather
	var facts *Country

	if b.weather != nil {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("weather fetch panicked", "recover", r)
					err = fmt.Errorf("weather fetch panicked: %v", r)
				}
			}()
			w, fetchErr := b.weather.Fetch(gCtx, city, country)
			if fetchErr != nil {
				b.log.Warn("weather fetch failed", "city", city, "err", fetchErr)
				return nil
			}
			weather = w
			return nil
		})
	}

	if b.countries != nil {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("countries fetch panicked", "recover", r)
					err = fmt.Errorf("countries fetch panicked: %v", r)
				}
			}()
			c, fetchErr := b.countries.Fetch(gCtx, country)
			if fetchErr != nil {
				b.log.Warn("countries fetch failed", "country", country, "err", fetchErr)
				return nil
			}
			facts = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("briefing %s, %s: %w", city, country, err)
	}

	return &Brief{Weather: weather, Country: facts}, nil
}
