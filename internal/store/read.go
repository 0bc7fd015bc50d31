package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/navsplit/internal/model"
	"github.com/roach88/navsplit/internal/provider"
)

// Provider serves one entity kind from the store. It satisfies
// provider.Provider[E].
type Provider[E model.Entity] struct {
	store *Store
	kind  string
}

// Entities returns the provider for kind. Rows of other kinds are never
// visible through it.
func Entities[E model.Entity](s *Store, kind string) *Provider[E] {
	return &Provider[E]{store: s, kind: kind}
}

// Kind returns the discriminator the provider reads and writes.
func (p *Provider[E]) Kind() string { return p.kind }

// List returns every entity of the provider's kind in stored order.
// Returns an empty slice (not nil) when there are none.
func (p *Provider[E]) List(ctx context.Context) ([]E, error) {
	rows, err := p.store.db.QueryContext(ctx, `
		SELECT body
		FROM entities
		WHERE kind = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, p.kind)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", p.kind, err)
	}
	defer rows.Close()

	items := []E{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.kind, err)
		}
		var e E
		if err := unmarshalBody(body, &e); err != nil {
			return nil, fmt.Errorf("%s: %w", p.kind, err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", p.kind, err)
	}
	return items, nil
}

// Get returns the entity with id, or a *NotFoundError.
func (p *Provider[E]) Get(ctx context.Context, id model.ID) (E, error) {
	var e E
	var body string
	err := p.store.db.QueryRowContext(ctx, `
		SELECT body FROM entities WHERE kind = ? AND id = ?
	`, p.kind, id.String()).Scan(&body)
	if err != nil {
		if isNoRows(err) {
			return e, &NotFoundError{Kind: p.kind, ID: id.String()}
		}
		return e, fmt.Errorf("get %s: %w", p.kind, err)
	}
	if err := unmarshalBody(body, &e); err != nil {
		return e, fmt.Errorf("%s: %w", p.kind, err)
	}
	return e, nil
}

// Count returns the number of stored entities of the provider's kind.
func (p *Provider[E]) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entities WHERE kind = ?`, p.kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", p.kind, err)
	}
	return n, nil
}

// Observe delivers the current snapshot and then a fresh snapshot after
// every change made through this store. Intermediate snapshots may be
// skipped when the reader is slow; the latest one is always delivered.
// The channel is closed when ctx is done or a refresh fails.
func (p *Provider[E]) Observe(ctx context.Context) (<-chan []E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g := p.store.watch(p.kind)
	first, err := p.List(ctx)
	if err != nil {
		p.store.unwatch(p.kind, g)
		return nil, err
	}

	out := make(chan []E)
	go func() {
		defer close(out)
		defer p.store.unwatch(p.kind, g)

		snap := first
		for {
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
			select {
			case <-g.ch:
			case <-ctx.Done():
				return
			}
			next, err := p.List(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.Warn("observe refresh failed", "kind", p.kind, "error", err)
				}
				return
			}
			snap = next
		}
	}()
	return out, nil
}

// Providers returns a provider for every entity kind.
func (s *Store) Providers() provider.Set {
	return provider.Set{
		Players:    Entities[model.Player](s, model.KindPlayer),
		Sports:     Entities[model.Sport](s, model.KindSport),
		Activities: Entities[model.Activity](s, model.KindActivity),
		Sessions:   Entities[model.Session](s, model.KindSession),
	}
}

// Empty reports whether no entities of any kind are stored.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entities`).Scan(&n); err != nil {
		return false, fmt.Errorf("count entities: %w", err)
	}
	return n == 0, nil
}
