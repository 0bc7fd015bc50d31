package engine

import (
	"fmt"
	"log/slog"
	"slices"
)

// FieldKey names one bindable field of a state type, e.g. "inspector_visible".
type FieldKey string

// BindingAction is the generic "set field" action: write Value into the
// field addressed by Key.
type BindingAction struct {
	Key   FieldKey
	Value any
}

// Set builds a BindingAction.
func Set(key FieldKey, value any) BindingAction {
	return BindingAction{Key: key, Value: value}
}

// Bindings is the fixed table of setters for one state type. Build it once
// at startup with NewBindings and Bind; it is read-only afterwards and safe
// to share between goroutines.
//
// INVARIANTS:
//   - each key maps to exactly one setter
//   - applying a BindingAction runs at most one setter
type Bindings[S any] struct {
	setters map[FieldKey]func(S, any) (S, bool)
	keys    []FieldKey
}

// NewBindings creates an empty table.
func NewBindings[S any]() *Bindings[S] {
	return &Bindings[S]{setters: make(map[FieldKey]func(S, any) (S, bool))}
}

// Bind registers set as the setter for key. The value carried by a
// BindingAction must have dynamic type V; any other value is ignored.
//
// Panics if key is already bound: the table is built at startup and a
// duplicate is a programming error.
func Bind[S, V any](b *Bindings[S], key FieldKey, set func(*S, V)) *Bindings[S] {
	if _, dup := b.setters[key]; dup {
		panic(fmt.Sprintf("engine: binding %q registered twice", key))
	}
	b.setters[key] = func(state S, value any) (S, bool) {
		v, ok := value.(V)
		if !ok {
			return state, false
		}
		set(&state, v)
		return state, true
	}
	b.keys = append(b.keys, key)
	return b
}

// Apply runs the setter for action.Key on a copy of state. An unknown key
// or a value of the wrong type returns state unchanged and false.
func (b *Bindings[S]) Apply(state S, action BindingAction) (S, bool) {
	set, ok := b.setters[action.Key]
	if !ok {
		return state, false
	}
	return set(state, action.Value)
}

// Has reports whether key is bound.
func (b *Bindings[S]) Has(key FieldKey) bool {
	_, ok := b.setters[key]
	return ok
}

// Keys returns the bound keys, sorted.
func (b *Bindings[S]) Keys() []FieldKey {
	keys := slices.Clone(b.keys)
	slices.Sort(keys)
	return keys
}

// BindingReducer applies binding actions extracted from A and never
// returns effects. Compose it first so later reducers see the write.
// Rejected bindings are logged at debug level to logger; nil uses
// slog.Default().
func BindingReducer[S, A any](logger *slog.Logger, b *Bindings[S], extract func(A) (BindingAction, bool)) Reducer[S, A] {
	if logger == nil {
		logger = slog.Default()
	}
	return ReducerFunc[S, A](func(state S, action A) (S, []Effect[A]) {
		ba, ok := extract(action)
		if !ok {
			return state, nil
		}
		next, applied := b.Apply(state, ba)
		if !applied {
			logger.Debug("binding ignored", "key", ba.Key, "value_type", fmt.Sprintf("%T", ba.Value))
			return state, nil
		}
		return next, nil
	})
}
