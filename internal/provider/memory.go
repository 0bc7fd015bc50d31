package provider

import (
	"context"
	"sync"

	"github.com/roach88/navsplit/internal/model"
)

// Memory is a process-local Provider. Entities keep insertion order; Save
// replaces an existing entity in place.
//
// Thread-safety: all methods are safe for concurrent use.
type Memory[E model.Entity] struct {
	mu        sync.Mutex
	items     model.Identified[E]
	observers map[*watcher[E]]struct{}
}

// NewMemory creates a Memory provider holding items.
func NewMemory[E model.Entity](items ...E) *Memory[E] {
	return &Memory[E]{
		items:     model.NewIdentified(items...),
		observers: make(map[*watcher[E]]struct{}),
	}
}

// Snapshot returns the current collection.
func (m *Memory[E]) Snapshot() []E {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Items()
}

// Observe implements Provider.
func (m *Memory[E]) Observe(ctx context.Context) (<-chan []E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := newWatcher[E]()

	m.mu.Lock()
	m.observers[w] = struct{}{}
	w.offer(m.items.Items())
	m.mu.Unlock()

	go func() {
		w.run(ctx)
		m.mu.Lock()
		delete(m.observers, w)
		m.mu.Unlock()
	}()
	return w.out, nil
}

// Save implements Provider.
func (m *Memory[E]) Save(ctx context.Context, e E) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = m.items.Upsert(e)
	m.publishLocked()
	return nil
}

// Delete implements Provider.
func (m *Memory[E]) Delete(ctx context.Context, id model.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	next, removed := m.items.Remove(id)
	if !removed {
		return nil
	}
	m.items = next
	m.publishLocked()
	return nil
}

// Replace swaps the whole collection, as an upstream sync would.
func (m *Memory[E]) Replace(items ...E) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = model.NewIdentified(items...)
	m.publishLocked()
}

func (m *Memory[E]) publishLocked() {
	snap := m.items.Items()
	for w := range m.observers {
		w.offer(snap)
	}
}

// watcher forwards the latest offered snapshot to one observer.
type watcher[E any] struct {
	mu     sync.Mutex
	latest []E
	dirty  bool
	wake   chan struct{}
	out    chan []E
}

func newWatcher[E any]() *watcher[E] {
	return &watcher[E]{
		wake: make(chan struct{}, 1),
		out:  make(chan []E),
	}
}

// offer replaces the pending snapshot. Never blocks.
func (w *watcher[E]) offer(snap []E) {
	w.mu.Lock()
	w.latest = snap
	w.dirty = true
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *watcher[E]) take() ([]E, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirty {
		return nil, false
	}
	w.dirty = false
	snap := w.latest
	w.latest = nil
	return snap, true
}

func (w *watcher[E]) run(ctx context.Context) {
	defer close(w.out)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
		}
		snap, ok := w.take()
		if !ok {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case w.out <- snap:
		}
	}
}
