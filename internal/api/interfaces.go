package api

import (
	"context"

	"github.com/neexbeast/itinerary/internal/destination"
)

// Assister generates text for a destination. *assistant.Assistant satisfies it.
type Assister interface {
	Generate(ctx context.Context, kind string, d *destination.Destination) (string, error)
	Forget(ctx context.Context, kind string, d *destination.Destination) error
}

// Pinger is satisfied by anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}
