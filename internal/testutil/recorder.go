package testutil

import "sync"

// Recorder collects the states delivered to a store subscription.
//
//	rec := testutil.NewRecorder[app.State]()
//	defer store.Subscribe(rec.Record)()
type Recorder[S any] struct {
	mu     sync.Mutex
	states []S
}

// NewRecorder creates an empty recorder.
func NewRecorder[S any]() *Recorder[S] {
	return &Recorder[S]{}
}

// Record appends s. Pass it to Store.Subscribe.
func (r *Recorder[S]) Record(s S) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

// States returns a copy of the recorded states.
func (r *Recorder[S]) States() []S {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]S(nil), r.states...)
}

// Len returns the number of recorded states.
func (r *Recorder[S]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

// Last returns the most recent state.
func (r *Recorder[S]) Last() (S, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		var zero S
		return zero, false
	}
	return r.states[len(r.states)-1], true
}
