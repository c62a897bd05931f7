package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// Checks names the optional dependencies probed by the health endpoint.
type Checks map[string]Pinger

// NewRouter builds the Chi router.
// The health endpoint is unauthenticated; everything else requires bearer auth.
// Rate limiting is applied globally: 60 requests per minute per IP.
func NewRouter(handlers *Handlers, token string, checks Checks, log *slog.Logger) *chi.Mux {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/api/v1/health", HealthHandlerFunc(checks, log))

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(token))

		r.Route("/api/v1/destinations", func(r chi.Router) {
			r.Get("/", handlers.ListDestinations)
			r.Post("/", handlers.AddDestination)
			r.Get("/{city}", handlers.GetDestination)
			r.Patch("/{city}", handlers.UpdateDestination)
			r.Delete("/{city}", handlers.RemoveDestination)
			r.Post("/{city}/assist", handlers.Assist)
		})

		r.Post("/api/v1/itinerary/sort", handlers.SortItinerary)
		r.Post("/api/v1/itinerary/save", handlers.SaveItinerary)
		r.Post("/api/v1/itinerary/load", handlers.LoadItinerary)
	})

	return r
}

var _ http.Handler = (*chi.Mux)(nil)
