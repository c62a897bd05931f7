package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neexbeast/itinerary/internal/assistant"
	"github.com/neexbeast/itinerary/internal/destination"
	"github.com/neexbeast/itinerary/internal/itinerary"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	planner   *Planner
	assistant Assister
	log       *slog.Logger
}

// NewHandlers constructs Handlers. a may be nil, in which case the assist
// route answers 503.
func NewHandlers(planner *Planner, a Assister, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handlers{planner: planner, assistant: a, log: log}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

type assistResponse struct {
	City string `json:"city"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps manager and validation errors onto status codes.
func (h *Handlers) writeDomainError(w http.ResponseWriter, err error) {
	var verr *destination.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: verr.Error(),
			Kind:  verr.Kind.String(),
			Field: verr.Field,
		})
	case errors.Is(err, itinerary.ErrNotFound), errors.Is(err, itinerary.ErrNoFile):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, itinerary.ErrInvalidSortKey):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func records(ds []*destination.Destination) []destination.Record {
	out := make([]destination.Record, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Record())
	}
	return out
}

// ListDestinations handles GET /api/v1/destinations.
func (h *Handlers) ListDestinations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, records(h.planner.All()))
}

// AddDestination handles POST /api/v1/destinations.
// The body is a record; it is validated before it is appended.
func (h *Handlers) AddDestination(w http.ResponseWriter, r *http.Request) {
	var rec destination.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	d := destination.FromRecord(rec)
	if err := h.planner.Add(d); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.log.Info("destination added", "city", d.City)
	writeJSON(w, http.StatusCreated, d.Record())
}

// GetDestination handles GET /api/v1/destinations/{city}.
func (h *Handlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	d, ok := h.planner.Search(city)
	if !ok {
		writeError(w, http.StatusNotFound, "destination not found")
		return
	}
	writeJSON(w, http.StatusOK, d.Record())
}

// UpdateDestination handles PATCH /api/v1/destinations/{city}.
// Only keys present in the body are applied. A patch that would make the
// destination invalid is answered with 422 and not applied.
func (h *Handlers) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	var patch destination.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	d, err := h.planner.Update(city, patch)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Record())
}

// RemoveDestination handles DELETE /api/v1/destinations/{city}.
func (h *Handlers) RemoveDestination(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	if err := h.planner.Remove(city); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Assist handles POST /api/v1/destinations/{city}/assist?kind=itinerary|budget.
// fresh=true bypasses cached text. Generation runs on a copy, outside the
// planner lock.
func (h *Handlers) Assist(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	city := chi.URLParam(r, "city")
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = assistant.KindItinerary
	}
	if kind != assistant.KindItinerary && kind != assistant.KindBudgetTips {
		writeError(w, http.StatusBadRequest, "kind must be 'itinerary' or 'budget'")
		return
	}

	d, ok := h.planner.Search(city)
	if !ok {
		writeError(w, http.StatusNotFound, "destination not found")
		return
	}

	if r.URL.Query().Get("fresh") == "true" {
		if err := h.assistant.Forget(r.Context(), kind, d); err != nil {
			h.log.Warn("dropping cached text failed", "city", city, "kind", kind, "err", err)
		}
	}

	text, err := h.assistant.Generate(r.Context(), kind, d)
	if err != nil {
		var verr *destination.ValidationError
		if errors.As(err, &verr) {
			h.writeDomainError(w, err)
			return
		}
		h.log.Error("assist failed", "city", city, "kind", kind, "err", err)
		writeError(w, http.StatusBadGateway, "failed to generate text")
		return
	}

	writeJSON(w, http.StatusOK, assistResponse{City: d.City, Kind: kind, Text: text})
}

// SortItinerary handles POST /api/v1/itinerary/sort?key=.
func (h *Handlers) SortItinerary(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.Sort(r.URL.Query().Get("key")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records(h.planner.All()))
}

// SaveItinerary handles POST /api/v1/itinerary/save.
func (h *Handlers) SaveItinerary(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.Save(r.Context()); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"saved": h.planner.Len()})
}

// LoadItinerary handles POST /api/v1/itinerary/load.
func (h *Handlers) LoadItinerary(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.Load(r.Context()); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records(h.planner.All()))
}

// HealthHandlerFunc probes every check and returns 200 if all pass, 503
// otherwise. With no checks it always reports ok.
func HealthHandlerFunc(checks Checks, log *slog.Logger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{}

		for _, name := range names {
			body[name] = "ok"
			if err := checks[name].Ping(ctx); err != nil {
				log.Error("health check failed", "check", name, "err", err)
				body[name] = "error"
				status = http.StatusServiceUnavailable
			}
		}

		body["status"] = "ok"
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		writeJSON(w, status, body)
	}
}
