package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	logger *slog.Logger
	clock  *Clock
}

// WithLogger sets the logger used by the Store and its Scheduler.
//
// Default: slog.Default()
func WithLogger(logger *slog.Logger) StoreOption {
	return func(c *storeConfig) {
		c.logger = logger
	}
}

// WithClock sets the logical clock that stamps commits.
// Use NewClockAt to continue numbering from a journaled run.
func WithClock(clock *Clock) StoreOption {
	return func(c *storeConfig) {
		c.clock = clock
	}
}

// envelope is a queued action and the task that emitted it. A nil origin
// marks an action sent from outside any effect.
type envelope[A any] struct {
	action A
	origin *task
}

// Store owns the root state, applies actions one at a time and runs the
// effects reducers return.
//
// CRITICAL: Send must not be called from inside a reducer. Reducers run
// under the writer lock; effects and subscribers are the only places that
// send follow-up actions.
//
// Thread-safety model:
//   - Send, State, Seq, Subscribe: safe from any goroutine
//   - Close: safe from any goroutine except an effect or a subscriber
//     callback, since it waits for both to finish
type Store[S, A any] struct {
	reducer   Reducer[S, A]
	logger    *slog.Logger
	clock     *Clock
	queue     *queue[envelope[A]]
	scheduler *Scheduler[A]

	// mu is the writer lock. Whoever holds it drains the queue.
	mu sync.Mutex

	stateMu sync.RWMutex
	state   S

	subMu   sync.Mutex
	subs    map[uint64]*subscriber[S]
	nextSub uint64

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewStore creates a Store holding initial and driven by reducer.
func NewStore[S, A any](initial S, reducer Reducer[S, A], opts ...StoreOption) *Store[S, A] {
	cfg := storeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.clock == nil {
		cfg.clock = NewClock()
	}

	s := &Store[S, A]{
		reducer: reducer,
		logger:  cfg.logger,
		clock:   cfg.clock,
		queue:   newQueue[envelope[A]](),
		state:   initial,
		subs:    make(map[uint64]*subscriber[S]),
	}
	s.scheduler = newScheduler(cfg.logger, func(a A, t *task) {
		s.dispatch(envelope[A]{action: a, origin: t})
	})
	return s
}

// Send applies action and returns once it has been committed. The commit
// may be performed by another sender that is already draining the queue.
// Actions sent after Close are dropped.
func (s *Store[S, A]) Send(action A) {
	s.dispatch(envelope[A]{action: action})
}

// TrySend is Send for callers that need to know whether the action was
// accepted. It returns ErrStoreClosed after Close.
func (s *Store[S, A]) TrySend(action A) error {
	if !s.dispatch(envelope[A]{action: action}) {
		return ErrStoreClosed
	}
	return nil
}

func (s *Store[S, A]) dispatch(env envelope[A]) bool {
	if !s.queue.Enqueue(env) {
		s.logger.Debug("store closed, action dropped", "action", actionName(env.action))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drain()
	return true
}

// drain applies queued actions in FIFO order. Caller holds s.mu.
func (s *Store[S, A]) drain() {
	for {
		env, ok := s.queue.TryDequeue()
		if !ok {
			return
		}
		if s.closed.Load() {
			continue
		}
		// Cancellation also happens under s.mu, so this check cannot race
		// with a Cancel effect returned by an earlier action in this drain.
		if !env.origin.Live() {
			s.logger.Debug("action from cancelled effect dropped",
				"action", actionName(env.action),
				"effect", env.origin.name,
				"id", env.origin.id)
			continue
		}
		s.apply(env.action)
	}
}

func (s *Store[S, A]) apply(action A) {
	next, effs := s.reducer.Reduce(s.state, action)

	s.stateMu.Lock()
	s.state = next
	s.stateMu.Unlock()

	seq := s.clock.Next()
	s.logger.Debug("action committed", "seq", seq, "action", actionName(action), "effects", len(effs))

	s.notify(next)
	s.scheduler.Start(effs)
}

// State returns the last committed state.
func (s *Store[S, A]) State() S {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Seq returns the logical clock value of the last commit.
func (s *Store[S, A]) Seq() int64 {
	return s.clock.Current()
}

// RunningEffects returns the identities of running effects, sorted.
func (s *Store[S, A]) RunningEffects() []EffectID {
	return s.scheduler.RunningIDs()
}

// Pending returns the number of running effects, identified or not.
func (s *Store[S, A]) Pending() int {
	return s.scheduler.Running()
}

// Busy returns the number of running effects that are expected to finish
// on their own (everything except streams).
func (s *Store[S, A]) Busy() int {
	return s.scheduler.Busy()
}

// Closed reports whether Close has been called.
func (s *Store[S, A]) Closed() bool {
	return s.closed.Load()
}

// Close stops the Store: further sends are dropped, every effect is
// cancelled, and Close waits for effect goroutines and for subscribers to
// receive the states committed before Close. Idempotent.
func (s *Store[S, A]) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.queue.Close()
		s.scheduler.Close()
		s.scheduler.Wait()

		s.subMu.Lock()
		subs := make([]*subscriber[S], 0, len(s.subs))
		for id, sub := range s.subs {
			subs = append(subs, sub)
			delete(s.subs, id)
		}
		s.subMu.Unlock()

		for _, sub := range subs {
			sub.q.Close()
		}
		for _, sub := range subs {
			<-sub.done
		}
		s.logger.Debug("store closed", "seq", s.clock.Current())
	})
}

// subscriber delivers committed states to one observer, in commit order,
// from its own goroutine.
type subscriber[S any] struct {
	fn      func(S)
	q       *queue[S]
	stopped atomic.Bool
	done    chan struct{}
}

// Subscribe registers fn to receive every state committed after the call,
// including states equal to the previous one. fn runs on a goroutine owned
// by the subscription and may call Send.
//
// The returned function unsubscribes; states not yet delivered are
// discarded. It is safe to call more than once.
func (s *Store[S, A]) Subscribe(fn func(S)) (unsubscribe func()) {
	sub := &subscriber[S]{
		fn:   fn,
		q:    newQueue[S](),
		done: make(chan struct{}),
	}

	s.subMu.Lock()
	if s.closed.Load() {
		s.subMu.Unlock()
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	s.subMu.Unlock()

	go sub.loop()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.stopped.Store(true)
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			sub.q.Close()
		})
	}
}

func (s *Store[S, A]) notify(state S) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, sub := range s.subs {
		sub.q.Enqueue(state)
	}
}

func (sub *subscriber[S]) loop() {
	defer close(sub.done)
	for {
		if !sub.flush() {
			return
		}
		if _, open := <-sub.q.Wait(); !open {
			sub.flush()
			return
		}
	}
}

// flush delivers queued states. It returns false once unsubscribed.
func (sub *subscriber[S]) flush() bool {
	for {
		state, ok := sub.q.TryDequeue()
		if !ok {
			return true
		}
		if sub.stopped.Load() {
			return false
		}
		sub.fn(state)
	}
}

func actionName(a any) string {
	return fmt.Sprintf("%T", a)
}
