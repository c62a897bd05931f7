package itinerary

import "github.com/neexbeast/itinerary/internal/destination"

// Seed adds the two sample destinations the planner starts with.
func Seed(m *Manager) {
	m.Add(destination.New("Paris", "France", "2025-08-10", "2025-08-15", 1200, []string{"Eiffel Tower", "Louvre Museum"}))
	m.Add(destination.New("Tokyo", "Japan", "2025-09-01", "2025-09-07", 1800, []string{"Shinjuku", "Mount Fuji Tour"}))
}
