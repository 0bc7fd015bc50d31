package engine

// Lens projects a child state out of a parent state and writes it back.
// Both functions must be pure; Set returns a new parent value.
type Lens[P, C any] struct {
	Get func(P) C
	Set func(P, C) P
}

// Prism recognises the parent action case that embeds a child action and
// builds that case from a child action.
type Prism[P, C any] struct {
	Extract func(P) (C, bool)
	Embed   func(C) P
}

// Scope lifts a child reducer into a parent's state and action space.
//
// For every parent action:
//   - if action does not embed a child action, the parent state is returned
//     unchanged with no effects
//   - otherwise the child reducer runs on the projected slice, the slice is
//     written back, and every child effect is mapped into the parent action
//     type with its identity nested under id
//
// Several scopes composed with Combine all observe every action; only the
// one whose case matches does any work.
func Scope[PS, PA, CS, CA any](
	state Lens[PS, CS],
	action Prism[PA, CA],
	id EffectID,
	child Reducer[CS, CA],
) Reducer[PS, PA] {
	return ReducerFunc[PS, PA](func(parent PS, pa PA) (PS, []Effect[PA]) {
		ca, ok := action.Extract(pa)
		if !ok {
			return parent, nil
		}

		next, effs := child.Reduce(state.Get(parent), ca)
		parent = state.Set(parent, next)

		return parent, NestEffects(MapEffects(effs, action.Embed), id)
	})
}
