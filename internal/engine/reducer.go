package engine

// Reducer computes the next state and the effects to run for one action.
//
// Implementations must be pure: the same (state, action) pair always yields
// the same result, and no I/O happens during Reduce. An action the reducer
// does not recognise must return the state unchanged and no effects.
type Reducer[S, A any] interface {
	Reduce(state S, action A) (S, []Effect[A])
}

// ReducerFunc adapts a function to the Reducer interface.
type ReducerFunc[S, A any] func(state S, action A) (S, []Effect[A])

// Reduce implements Reducer.
func (f ReducerFunc[S, A]) Reduce(state S, action A) (S, []Effect[A]) {
	return f(state, action)
}

// Empty returns a reducer that ignores every action.
func Empty[S, A any]() Reducer[S, A] {
	return ReducerFunc[S, A](func(state S, _ A) (S, []Effect[A]) {
		return state, nil
	})
}

// Combine runs reducers in declaration order. Each reducer sees the state
// produced by the one before it, every reducer runs for every action (none
// short-circuits the rest), and the effect lists are concatenated in the
// same order.
func Combine[S, A any](reducers ...Reducer[S, A]) Reducer[S, A] {
	rs := make([]Reducer[S, A], len(reducers))
	copy(rs, reducers)

	return ReducerFunc[S, A](func(state S, action A) (S, []Effect[A]) {
		var effects []Effect[A]
		for _, r := range rs {
			var effs []Effect[A]
			state, effs = r.Reduce(state, action)
			effects = append(effects, effs...)
		}
		return state, effects
	})
}
