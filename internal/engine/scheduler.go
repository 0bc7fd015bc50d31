package engine

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// task is one running effect.
type task struct {
	id    EffectID
	group EffectID
	name  string
	kind  EffectKind

	cancel    context.CancelFunc
	cancelled atomic.Bool
	emitted   atomic.Int32
}

// Live reports whether actions from t may still reach a reducer. A nil
// task stands for an external sender and is always live.
func (t *task) Live() bool {
	return t == nil || !t.cancelled.Load()
}

// stop marks t cancelled and cancels its context. Safe to call repeatedly.
func (t *task) stop() {
	if t.cancelled.CompareAndSwap(false, true) {
		t.cancel()
	}
}

// Scheduler runs effects outside the reduce step and tracks their
// identities.
//
// Thread-safety model:
//   - Start, Cancel, CancelAll and Close: safe from any goroutine; the Store
//     calls them under its writer lock
//   - emitted actions are handed to the sink from the effect's goroutine
//
// INVARIANTS:
//   - at most one running task per EffectID
//   - a cancelled task never hands another action to the sink
//   - nothing starts after Close
type Scheduler[A any] struct {
	logger *slog.Logger
	sink   func(A, *task)

	mu     sync.Mutex
	tasks  map[*task]struct{}
	byID   map[EffectID]*task
	closed bool

	wg sync.WaitGroup
}

// NewScheduler creates a Scheduler that delivers emitted actions to emit.
// A nil logger uses slog.Default().
//
// The Store wires its own Scheduler; NewScheduler is for driving effects
// without a Store.
func NewScheduler[A any](logger *slog.Logger, emit func(A)) *Scheduler[A] {
	return newScheduler(logger, func(a A, t *task) {
		if t.Live() {
			emit(a)
		}
	})
}

func newScheduler[A any](logger *slog.Logger, sink func(A, *task)) *Scheduler[A] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler[A]{
		logger: logger,
		sink:   sink,
		tasks:  make(map[*task]struct{}),
		byID:   make(map[EffectID]*task),
	}
}

// Start runs effs in order. Cancel effects take effect immediately, so a
// reducer can return Cancel(id) followed by a new effect under id.
func (s *Scheduler[A]) Start(effs []Effect[A]) {
	for _, e := range effs {
		switch e.Kind {
		case EffectNone:
			continue
		case EffectCancel:
			s.Cancel(e.ID)
			continue
		}
		if e.run == nil {
			continue
		}
		s.start(e)
	}
}

func (s *Scheduler[A]) start(e Effect[A]) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("scheduler closed, effect dropped", "effect", e.Name, "id", e.ID)
		return
	}

	if e.ID != "" {
		if prev, ok := s.byID[e.ID]; ok {
			s.logger.Debug("effect superseded", "effect", prev.name, "id", e.ID)
			s.stopLocked(prev)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{
		id:     e.ID,
		group:  e.Group,
		name:   e.Name,
		kind:   e.Kind,
		cancel: cancel,
	}
	s.tasks[t] = struct{}{}
	if e.ID != "" {
		s.byID[e.ID] = t
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(ctx, t, e)
}

func (s *Scheduler[A]) run(ctx context.Context, t *task, e Effect[A]) {
	defer s.wg.Done()
	defer s.finish(t)
	defer func() {
		if r := recover(); r != nil {
			err := &PanicError{Effect: e.Name, ID: e.ID, Value: r}
			s.logger.Error("effect panicked", "effect", e.Name, "id", e.ID, "panic", r)
			s.fail(ctx, t, e, err)
		}
	}()

	err := e.run(ctx, func(a A) { s.emit(t, a) })
	if err != nil {
		s.fail(ctx, t, e, err)
	}
}

func (s *Scheduler[A]) emit(t *task, a A) {
	if !t.Live() {
		return
	}
	if t.kind == EffectFire {
		return
	}
	if t.kind == EffectTask && t.emitted.Add(1) > 1 {
		s.logger.Warn("task emitted more than once, extra action dropped", "effect", t.name, "id", t.id)
		return
	}
	s.sink(a, t)
}

// fail routes an effect failure. Failures after cancellation are expected
// (the context was cancelled under the effect) and are ignored.
func (s *Scheduler[A]) fail(ctx context.Context, t *task, e Effect[A], err error) {
	if !t.Live() || (ctx.Err() != nil && errors.Is(err, context.Canceled)) {
		return
	}
	if e.catch != nil {
		if a, ok := e.catch(err); ok {
			s.sink(a, t)
			return
		}
	}
	s.logger.Warn("effect failed", "effect", e.Name, "id", e.ID, "error", err)
}

func (s *Scheduler[A]) finish(t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, t)
	if t.id != "" && s.byID[t.id] == t {
		delete(s.byID, t.id)
	}
}

func (s *Scheduler[A]) stopLocked(t *task) {
	t.stop()
	delete(s.tasks, t)
	if t.id != "" && s.byID[t.id] == t {
		delete(s.byID, t.id)
	}
}

// Cancel cancels every running effect whose identity or group is covered
// by id. Cancelling an identity with nothing running is a no-op.
func (s *Scheduler[A]) Cancel(id EffectID) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for t := range s.tasks {
		if id.Covers(t.id) || id.Covers(t.group) {
			s.stopLocked(t)
			n++
		}
	}
	if n > 0 {
		s.logger.Debug("effects cancelled", "id", id, "count", n)
	}
}

// CancelAll cancels every running effect. The Scheduler keeps accepting
// new effects.
func (s *Scheduler[A]) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t := range s.tasks {
		s.stopLocked(t)
	}
}

// Close cancels every running effect and refuses new ones. Idempotent.
func (s *Scheduler[A]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for t := range s.tasks {
		s.stopLocked(t)
	}
}

// Wait blocks until every started effect goroutine has returned.
func (s *Scheduler[A]) Wait() {
	s.wg.Wait()
}

// Running returns the number of effects that are running and not cancelled.
func (s *Scheduler[A]) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Busy returns the number of running Task and Fire effects. Streams are
// long-lived and not counted.
func (s *Scheduler[A]) Busy() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for t := range s.tasks {
		if t.kind != EffectStream {
			n++
		}
	}
	return n
}

// RunningIDs returns the identities of running effects, sorted.
// Anonymous effects are not listed.
func (s *Scheduler[A]) RunningIDs() []EffectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]EffectID, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
