package api

import (
	"context"
	"sync"

	"github.com/neexbeast/itinerary/internal/destination"
	"github.com/neexbeast/itinerary/internal/itinerary"
)

// Planner serializes every operation on a Manager so requests observe the
// same one-at-a-time model as the console.
type Planner struct {
	mu      sync.Mutex
	manager *itinerary.Manager
	store   itinerary.Store
}

// NewPlanner wraps m. store is used by Save and Load.
func NewPlanner(m *itinerary.Manager, store itinerary.Store) *Planner {
	return &Planner{manager: m, store: store}
}

// Add validates d and appends it.
func (p *Planner) Add(d *destination.Destination) error {
	if err := d.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.manager.Add(d)
	return nil
}

// Remove deletes the first destination whose city equals city.
func (p *Planner) Remove(city string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Remove(city)
}

// Update applies patch to the first destination whose city equals city and
// returns the result. A patch that would leave the destination invalid is
// rejected with its *destination.ValidationError and nothing changes, so the
// itinerary stays saveable.
func (p *Planner) Update(city string, patch destination.Patch) (*destination.Destination, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	d, ok := p.manager.Search(city)
	if !ok {
		return nil, p.manager.Update(city, patch)
	}
	d.Apply(patch)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := p.manager.Update(city, patch); err != nil {
		return nil, err
	}
	return d, nil
}

// Search returns a copy of the first destination whose city equals city.
func (p *Planner) Search(city string) (*destination.Destination, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Search(city)
}

// All returns copies of every destination in current order.
func (p *Planner) All() []*destination.Destination {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.All()
}

// Sort stably orders the itinerary by budget, start_date or end_date.
func (p *Planner) Sort(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Sort(key)
}

// Save persists the itinerary. The lock is held for the whole write.
func (p *Planner) Save(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Save(ctx, p.store)
}

// Load replaces the itinerary with the stored one.
func (p *Planner) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Load(ctx, p.store)
}

// Len returns the number of destinations.
func (p *Planner) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Len()
}
