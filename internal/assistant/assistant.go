package assistant

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/neexbeast/itinerary/internal/briefing"
	"github.com/neexbeast/itinerary/internal/destination"
)

// Request kinds, also used as cache namespaces.
const (
	KindItinerary  = "itinerary"
	KindBudgetTips = "budget"
)

// ResponseCache stores generated text. *cache.Cache satisfies it.
type ResponseCache interface {
	Get(ctx context.Context, kind string, d *destination.Destination) (string, bool, error)
	Set(ctx context.Context, kind string, d *destination.Destination, text string) error
	Delete(ctx context.Context, kind string, d *destination.Destination) error
}

// Briefer gathers local context for prompts. *briefing.Briefer satisfies it.
type Briefer interface {
	Brief(ctx context.Context, city, country string) (*briefing.Brief, error)
}

// Assistant produces itinerary and budget advice for a destination. It only
// reads the destination it is given.
type Assistant struct {
	gen     Generator
	cache   ResponseCache
	briefer Briefer
	log     *slog.Logger
}

// New returns an Assistant. cache and briefer are optional.
func New(gen Generator, cache ResponseCache, briefer Briefer, log *slog.Logger) *Assistant {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Assistant{gen: gen, cache: cache, briefer: briefer, log: log}
}

// Itinerary returns a generated day-by-day plan for d.
func (a *Assistant) Itinerary(ctx context.Context, d *destination.Destination) (string, error) {
	return a.generate(ctx, KindItinerary, d, ItineraryPrompt)
}

// BudgetTips returns generated money-saving advice for d.
func (a *Assistant) BudgetTips(ctx context.Context, d *destination.Destination) (string, error) {
	return a.generate(ctx, KindBudgetTips, d, BudgetTipsPrompt)
}

// Generate dispatches on kind.
func (a *Assistant) Generate(ctx context.Context, kind string, d *destination.Destination) (string, error) {
	switch kind {
	case KindItinerary:
		return a.Itinerary(ctx, d)
	case KindBudgetTips:
		return a.BudgetTips(ctx, d)
	}
	return "", fmt.Errorf("unknown assistance kind %q", kind)
}

// Forget drops any cached text for kind and d so the next request
// regenerates it. It is a no-op without a cache.
func (a *Assistant) Forget(ctx context.Context, kind string, d *destination.Destination) error {
	if a.cache == nil {
		return nil
	}
	if err := a.cache.Delete(ctx, kind, d); err != nil {
		return fmt.Errorf("forgetting %s for %s: %w", kind, d.City, err)
	}
	return nil
}

func (a *Assistant) generate(ctx context.Context, kind string, d *destination.Destination, prompt func(*destination.Destination, string) string) (string, error) {
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("%s for %s: %w", kind, d.City, err)
	}

	if a.cache != nil {
		text, ok, err := a.cache.Get(ctx, kind, d)
		if err != nil {
			a.log.Warn("assistant cache get failed", "kind", kind, "city", d.City, "err", err)
		}
		if ok {
			a.log.Debug("assistant cache hit", "kind", kind, "city", d.City)
			return text, nil
		}
	}

	var extra string
	if a.briefer != nil {
		brief, err := a.briefer.Brief(ctx, d.City, d.Country)
		if err != nil {
			a.log.Warn("briefing failed", "city", d.City, "err", err)
		} else {
			extra = brief.Summary()
		}
	}

	text, err := a.gen.Generate(ctx, prompt(d, extra))
	if err != nil {
		return "", fmt.Errorf("generating %s for %s: %w", kind, d.City, err)
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, kind, d, text); err != nil {
			a.log.Warn("assistant cache set failed", "kind", kind, "city", d.City, "err", err)
		}
	}

	return text, nil
}
