package engine

import "encoding/json"

// Presented is an optional child state: either absent or holding exactly
// one child. The zero value is absent.
type Presented[C any] struct {
	child   C
	present bool
}

// Present returns a Presented holding c.
func Present[C any](c C) Presented[C] {
	return Presented[C]{child: c, present: true}
}

// Absent returns an empty Presented.
func Absent[C any]() Presented[C] {
	return Presented[C]{}
}

// Get returns the child and whether one is present.
func (p Presented[C]) Get() (C, bool) {
	return p.child, p.present
}

// IsPresent reports whether a child is present.
func (p Presented[C]) IsPresent() bool {
	return p.present
}

// MarshalJSON encodes an absent value as null and a present one as the child.
func (p Presented[C]) MarshalJSON() ([]byte, error) {
	if !p.present {
		return []byte("null"), nil
	}
	return json.Marshal(p.child)
}

// Presentation configures WithPresentation for one optional child slot.
//
// S and A are the owning feature's state and action types, K the key that
// identifies the presented entity, C and CA the child's state and action.
type Presentation[S, A any, K comparable, C, CA any] struct {
	// Slot reads and writes the optional child in the owning state.
	Slot Lens[S, Presented[C]]

	// Child reduces child actions while a child is present.
	Child Reducer[C, CA]

	// Action embeds child actions in A.
	Action Prism[A, CA]

	// Show recognises the "show key" action.
	Show func(A) (K, bool)

	// Dismiss recognises the explicit dismiss action.
	Dismiss func(A) bool

	// Lookup resolves key against the owning collection. Show is a no-op
	// when it returns false.
	Lookup func(S, K) (C, bool)

	// Key identifies a child.
	Key func(C) K

	// Revalidate runs after every action while a child is present. It
	// returns the refreshed child, or false when the child's entity is gone.
	Revalidate func(S, C) (C, bool)

	// ID scopes the child's effects. Child effects are nested under it and
	// the whole subtree is cancelled when the child goes away.
	ID EffectID
}

// WithPresentation wraps parent with the lifecycle of an optional child.
//
// For each action, in order:
//  1. a child action is reduced by Child if a child is present, and
//     ignored otherwise
//  2. parent runs
//  3. Show presents the child resolved by Lookup, replacing a child with
//     another key; a child already showing that key is kept, and an
//     unresolved key leaves the slot untouched
//  4. Dismiss clears the slot
//  5. Revalidate refreshes the child or clears it when its entity is gone
//  6. if a child was present before the action and is now absent or has a
//     different key, every effect under ID is cancelled
func WithPresentation[S, A any, K comparable, C, CA any](
	parent Reducer[S, A],
	cfg Presentation[S, A, K, C, CA],
) Reducer[S, A] {
	return ReducerFunc[S, A](func(state S, action A) (S, []Effect[A]) {
		before := cfg.Slot.Get(state)
		var effects []Effect[A]

		if ca, ok := cfg.Action.Extract(action); ok {
			if child, present := before.Get(); present {
				next, effs := cfg.Child.Reduce(child, ca)
				state = cfg.Slot.Set(state, Present(next))
				effects = append(effects, NestEffects(MapEffects(effs, cfg.Action.Embed), cfg.ID)...)
			}
		}

		state, parentEffs := parent.Reduce(state, action)
		effects = append(effects, parentEffs...)

		if cfg.Show != nil {
			if key, ok := cfg.Show(action); ok {
				cur, showing := cfg.Slot.Get(state).Get()
				if !showing || cfg.Key(cur) != key {
					if child, found := cfg.Lookup(state, key); found {
						state = cfg.Slot.Set(state, Present(child))
					}
				}
			}
		}

		if cfg.Dismiss != nil && cfg.Dismiss(action) {
			state = cfg.Slot.Set(state, Absent[C]())
		}

		if cur, ok := cfg.Slot.Get(state).Get(); ok && cfg.Revalidate != nil {
			if fresh, live := cfg.Revalidate(state, cur); live {
				state = cfg.Slot.Set(state, Present(fresh))
			} else {
				state = cfg.Slot.Set(state, Absent[C]())
			}
		}

		if prev, had := before.Get(); had {
			cur, has := cfg.Slot.Get(state).Get()
			if !has || cfg.Key(cur) != cfg.Key(prev) {
				effects = append(effects, Cancel[A](cfg.ID))
			}
		}

		return state, effects
	})
}
