package itinerary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/neexbeast/itinerary/internal/destination"
)

// Sort keys accepted by Manager.Sort.
const (
	SortByBudget    = "budget"
	SortByStartDate = "start_date"
	SortByEndDate   = "end_date"
)

var (
	// ErrNotFound is returned when no destination has the requested city.
	ErrNotFound = errors.New("destination not found")
	// ErrInvalidSortKey is returned by Sort for keys other than budget, start_date and end_date.
	ErrInvalidSortKey = errors.New("invalid sort key, use 'budget', 'start_date' or 'end_date'")
)

// Manager owns an ordered list of destinations. It is not safe for
// concurrent use.
type Manager struct {
	destinations []*destination.Destination
	log          *slog.Logger
}

// NewManager returns an empty Manager. A nil logger discards diagnostics.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{log: log}
}

// Add appends d to the end of the itinerary. It does not validate d and does
// not check for duplicate cities.
func (m *Manager) Add(d *destination.Destination) {
	m.destinations = append(m.destinations, d.Clone())
}

// Remove deletes the first destination whose city equals city.
func (m *Manager) Remove(city string) error {
	i := m.index(city)
	if i < 0 {
		m.log.Warn("remove: destination not found", "city", city)
		return fmt.Errorf("removing %s: %w", city, ErrNotFound)
	}
	m.destinations = append(m.destinations[:i], m.destinations[i+1:]...)
	return nil
}

// Update applies p to the first destination whose city equals city.
func (m *Manager) Update(city string, p destination.Patch) error {
	i := m.index(city)
	if i < 0 {
		m.log.Warn("update: destination not found", "city", city)
		return fmt.Errorf("updating %s: %w", city, ErrNotFound)
	}
	m.destinations[i].Apply(p)
	return nil
}

// Search returns a copy of the first destination whose city equals city.
func (m *Manager) Search(city string) (*destination.Destination, bool) {
	i := m.index(city)
	if i < 0 {
		return nil, false
	}
	return m.destinations[i].Clone(), true
}

// All returns copies of every destination in current order.
func (m *Manager) All() []*destination.Destination {
	out := make([]*destination.Destination, len(m.destinations))
	for i, d := range m.destinations {
		out[i] = d.Clone()
	}
	return out
}

// Len returns the number of destinations.
func (m *Manager) Len() int { return len(m.destinations) }

// Sort stably orders the itinerary ascending by key. Dates compare as
// strings, which matches chronological order for YYYY-MM-DD.
func (m *Manager) Sort(key string) error {
	var less func(a, b *destination.Destination) bool
	switch key {
	case SortByBudget:
		less = func(a, b *destination.Destination) bool { return a.Budget < b.Budget }
	case SortByStartDate:
		less = func(a, b *destination.Destination) bool { return a.StartDate < b.StartDate }
	case SortByEndDate:
		less = func(a, b *destination.Destination) bool { return a.EndDate < b.EndDate }
	default:
		m.log.Warn("sort: invalid key", "key", key)
		return fmt.Errorf("sorting by %q: %w", key, ErrInvalidSortKey)
	}

	sort.SliceStable(m.destinations, func(i, j int) bool {
		return less(m.destinations[i], m.destinations[j])
	})
	return nil
}

// Save validates every destination and writes the itinerary to s in current
// order. Nothing is written if any destination is invalid.
func (m *Manager) Save(ctx context.Context, s Store) error {
	records := make([]destination.Record, 0, len(m.destinations))
	for _, d := range m.destinations {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("saving itinerary: destination %s: %w", d.City, err)
		}
		records = append(records, d.Record())
	}

	if err := s.Save(ctx, records); err != nil {
		m.log.Error("saving itinerary failed", "err", err)
		return fmt.Errorf("saving itinerary: %w", err)
	}

	m.log.Info("itinerary saved", "destinations", len(records))
	return nil
}

// Load replaces the itinerary with the records read from s. On any error,
// including ErrNoFile, the current itinerary is left unchanged.
func (m *Manager) Load(ctx context.Context, s Store) error {
	records, err := s.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoFile) {
			m.log.Info("no saved itinerary found", "err", err)
		} else {
			m.log.Error("loading itinerary failed", "err", err)
		}
		return fmt.Errorf("loading itinerary: %w", err)
	}

	loaded := make([]*destination.Destination, 0, len(records))
	for _, r := range records {
		loaded = append(loaded, destination.FromRecord(r))
	}
	m.destinations = loaded

	m.log.Info("itinerary loaded", "destinations", len(loaded))
	return nil
}

func (m *Manager) index(city string) int {
	for i, d := range m.destinations {
		if d.City == city {
			return i
		}
	}
	return -1
}
