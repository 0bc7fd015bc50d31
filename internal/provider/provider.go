// Package provider defines the model provider consumed by feature effects
// and ships an in-memory implementation.
//
// A provider is the only shared mutable resource outside the Store. Its
// updates arrive asynchronously: features subscribe with Observe and treat
// Save and Delete as best-effort, never assuming the next snapshot already
// reflects a write.
package provider

import (
	"context"

	"github.com/roach88/navsplit/internal/model"
)

// Provider is the model provider for one entity kind.
type Provider[E model.Entity] interface {
	// Observe returns a channel yielding the current collection as soon as
	// possible and again after every change. Snapshots may be coalesced: a
	// slow reader sees the latest collection, not every intermediate one.
	// The channel is closed when ctx is cancelled or the provider stops.
	Observe(ctx context.Context) (<-chan []E, error)

	// Save inserts or replaces e.
	Save(ctx context.Context, e E) error

	// Delete removes the entity with id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id model.ID) error
}

// Set bundles the providers of every entity kind the application uses.
type Set struct {
	Players    Provider[model.Player]
	Sports     Provider[model.Sport]
	Activities Provider[model.Activity]
	Sessions   Provider[model.Session]
}
