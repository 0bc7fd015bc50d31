package testutil

import (
	"context"
	"sync"

	"github.com/roach88/navsplit/internal/model"
)

// ScriptedProvider is a model provider driven by the test. Snapshots are
// delivered only when the test calls Push; Save and Delete are recorded
// and never change what observers see.
//
// Thread-safety: safe for concurrent use.
type ScriptedProvider[E model.Entity] struct {
	mu         sync.Mutex
	observers  []chan []E
	saved      []E
	deleted    []model.ID
	observeErr error
	writeErr   error
}

// NewScriptedProvider creates a provider with no observers.
func NewScriptedProvider[E model.Entity]() *ScriptedProvider[E] {
	return &ScriptedProvider[E]{}
}

// FailObserve makes subsequent Observe calls return err.
func (p *ScriptedProvider[E]) FailObserve(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observeErr = err
}

// FailWrites makes subsequent Save and Delete calls return err.
func (p *ScriptedProvider[E]) FailWrites(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writeErr = err
}

// Observe registers an observer. Its channel is closed when ctx is done.
func (p *ScriptedProvider[E]) Observe(ctx context.Context) (<-chan []E, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.observeErr != nil {
		return nil, p.observeErr
	}
	in := make(chan []E, 16)
	p.observers = append(p.observers, in)

	out := make(chan []E)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-in:
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Observers returns how many times Observe succeeded.
func (p *ScriptedProvider[E]) Observers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.observers)
}

// Push delivers items to every observer registered so far. Observers whose
// context has ended simply never read it.
func (p *ScriptedProvider[E]) Push(items ...E) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.observers {
		snap := append([]E(nil), items...)
		select {
		case ch <- snap:
		default:
		}
	}
}

// Save records e.
func (p *ScriptedProvider[E]) Save(_ context.Context, e E) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return p.writeErr
	}
	p.saved = append(p.saved, e)
	return nil
}

// Delete records id.
func (p *ScriptedProvider[E]) Delete(_ context.Context, id model.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return p.writeErr
	}
	p.deleted = append(p.deleted, id)
	return nil
}

// Saved returns the recorded saves in call order.
func (p *ScriptedProvider[E]) Saved() []E {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]E(nil), p.saved...)
}

// Deleted returns the recorded deletes in call order.
func (p *ScriptedProvider[E]) Deleted() []model.ID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.ID(nil), p.deleted...)
}
