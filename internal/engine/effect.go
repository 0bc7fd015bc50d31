package engine

import (
	"context"
	"strings"
)

// EffectID is the identity of an effect: a "/"-separated path such as
// "players/detail/activities". Paths make identities hierarchical, so
// cancelling "players/detail" also cancels everything started beneath it.
//
// The empty EffectID means "no identity".
type EffectID string

const idSeparator = "/"

// Child returns the path id/name. An empty receiver returns name as-is.
func (id EffectID) Child(name string) EffectID {
	if id == "" {
		return EffectID(name)
	}
	if name == "" {
		return id
	}
	return id + idSeparator + EffectID(name)
}

// Covers reports whether other is id itself or lies underneath it.
// The empty id covers nothing.
func (id EffectID) Covers(other EffectID) bool {
	if id == "" || other == "" {
		return false
	}
	return other == id || strings.HasPrefix(string(other), string(id)+idSeparator)
}

// EffectKind distinguishes effect descriptors.
type EffectKind int

const (
	// EffectNone does nothing.
	EffectNone EffectKind = iota
	// EffectTask is fire-once work producing at most one follow-up action.
	EffectTask
	// EffectStream produces zero to many actions until it returns or is cancelled.
	EffectStream
	// EffectFire is work whose outcome is not reported back.
	EffectFire
	// EffectCancel cancels every running effect covered by its ID.
	EffectCancel
)

func (k EffectKind) String() string {
	switch k {
	case EffectNone:
		return "none"
	case EffectTask:
		return "task"
	case EffectStream:
		return "stream"
	case EffectFire:
		return "fire"
	case EffectCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Effect describes asynchronous work returned by a reducer. It is a value:
// building one does not start anything; the Scheduler runs it after the
// reducer's state has been committed.
//
// Effects never touch state. Everything they learn is reported by emitting
// actions, which re-enter the Store through Send.
type Effect[A any] struct {
	Kind EffectKind

	// ID is the effect's identity, relative to the scope that returned it
	// until it is nested by Scope or a presentation.
	ID EffectID

	// Group is the scope path the effect was started under. Cancelling a
	// path that covers Group tears the effect down even when ID is empty.
	Group EffectID

	// Name labels the effect in logs.
	Name string

	run   func(ctx context.Context, emit func(A)) error
	catch func(error) (A, bool)
}

// None returns an effect that does nothing.
func None[A any]() Effect[A] {
	return Effect[A]{Kind: EffectNone}
}

// Task runs fn once and sends its result. A non-nil error drops the result
// unless the effect has a Catch handler.
func Task[A any](name string, fn func(ctx context.Context) (A, error)) Effect[A] {
	return Effect[A]{
		Kind: EffectTask,
		Name: name,
		run: func(ctx context.Context, emit func(A)) error {
			a, err := fn(ctx)
			if err != nil {
				return err
			}
			emit(a)
			return nil
		},
	}
}

// Stream runs fn, which may call emit any number of times until ctx is
// cancelled. Actions are delivered in the order fn emits them.
func Stream[A any](name string, fn func(ctx context.Context, emit func(A)) error) Effect[A] {
	return Effect[A]{
		Kind: EffectStream,
		Name: name,
		run:  fn,
	}
}

// Fire runs fn and reports nothing back. Failures are logged and dropped
// unless the effect has a Catch handler.
func Fire[A any](name string, fn func(ctx context.Context) error) Effect[A] {
	return Effect[A]{
		Kind: EffectFire,
		Name: name,
		run: func(ctx context.Context, _ func(A)) error {
			return fn(ctx)
		},
	}
}

// Cancel returns an effect that cancels every running effect whose ID or
// Group is covered by id. Cancelling an id with nothing running is a no-op.
func Cancel[A any](id EffectID) Effect[A] {
	return Effect[A]{Kind: EffectCancel, ID: id, Name: "cancel"}
}

// Cancellable gives e an identity. Starting another effect with the same
// identity cancels e first.
func (e Effect[A]) Cancellable(id EffectID) Effect[A] {
	e.ID = id
	return e
}

// Catch converts a failure into a follow-up action. fn is consulted only
// when the effect fails while it is still live.
func (e Effect[A]) Catch(fn func(error) A) Effect[A] {
	e.catch = func(err error) (A, bool) { return fn(err), true }
	return e
}

// Nest moves e's identity and group underneath prefix.
func (e Effect[A]) Nest(prefix EffectID) Effect[A] {
	if prefix == "" || e.Kind == EffectNone {
		return e
	}
	if e.ID != "" {
		e.ID = prefix.Child(string(e.ID))
	}
	if e.Kind != EffectCancel {
		e.Group = prefix.Child(string(e.Group))
	}
	return e
}

// MapEffect lifts an effect into another action type.
func MapEffect[A, B any](e Effect[A], f func(A) B) Effect[B] {
	out := Effect[B]{
		Kind:  e.Kind,
		ID:    e.ID,
		Group: e.Group,
		Name:  e.Name,
	}
	if e.run != nil {
		run := e.run
		out.run = func(ctx context.Context, emit func(B)) error {
			return run(ctx, func(a A) { emit(f(a)) })
		}
	}
	if e.catch != nil {
		catch := e.catch
		out.catch = func(err error) (B, bool) {
			a, ok := catch(err)
			if !ok {
				var zero B
				return zero, false
			}
			return f(a), true
		}
	}
	return out
}

// MapEffects lifts every effect in effs. A nil input returns nil.
func MapEffects[A, B any](effs []Effect[A], f func(A) B) []Effect[B] {
	if len(effs) == 0 {
		return nil
	}
	out := make([]Effect[B], 0, len(effs))
	for _, e := range effs {
		if e.Kind == EffectNone {
			continue
		}
		out = append(out, MapEffect(e, f))
	}
	return out
}

// NestEffects nests every effect in effs under prefix.
func NestEffects[A any](effs []Effect[A], prefix EffectID) []Effect[A] {
	if prefix == "" {
		return effs
	}
	for i := range effs {
		effs[i] = effs[i].Nest(prefix)
	}
	return effs
}
