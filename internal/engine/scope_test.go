package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parentState struct {
	Left  counter
	Right counter
	Title string
}

type parentAction struct {
	Left  *counterAction
	Right *counterAction
	Title string
}

func leftScope(child Reducer[counter, counterAction]) Reducer[parentState, parentAction] {
	return Scope(
		Lens[parentState, counter]{
			Get: func(p parentState) counter { return p.Left },
			Set: func(p parentState, c counter) parentState {
				p.Left = c
				return p
			},
		},
		Prism[parentAction, counterAction]{
			Extract: func(a parentAction) (counterAction, bool) {
				if a.Left == nil {
					return counterAction{}, false
				}
				return *a.Left, true
			},
			Embed: func(c counterAction) parentAction { return parentAction{Left: &c} },
		},
		"left",
		child,
	)
}

func rightScope(child Reducer[counter, counterAction]) Reducer[parentState, parentAction] {
	return Scope(
		Lens[parentState, counter]{
			Get: func(p parentState) counter { return p.Right },
			Set: func(p parentState, c counter) parentState {
				p.Right = c
				return p
			},
		},
		Prism[parentAction, counterAction]{
			Extract: func(a parentAction) (counterAction, bool) {
				if a.Right == nil {
					return counterAction{}, false
				}
				return *a.Right, true
			},
			Embed: func(c counterAction) parentAction { return parentAction{Right: &c} },
		},
		"right",
		child,
	)
}

func loader() Reducer[counter, counterAction] {
	return ReducerFunc[counter, counterAction](func(s counter, a counterAction) (counter, []Effect[counterAction]) {
		switch a.Op {
		case "add":
			s.Count += a.N
			return s, nil
		case "load":
			return s, []Effect[counterAction]{
				Task("load", func(context.Context) (counterAction, error) {
					return counterAction{Op: "add", N: 10}, nil
				}).Cancellable("load"),
			}
		}
		return s, nil
	})
}

func TestScope_NonMatchingActionIsNoOp(t *testing.T) {
	r := leftScope(loader())
	start := parentState{Left: counter{Count: 1}, Right: counter{Count: 2}, Title: "t"}

	got, effs := r.Reduce(start, parentAction{Right: &counterAction{Op: "add", N: 5}})

	assert.Equal(t, start, got)
	assert.Empty(t, effs)
}

func TestScope_WritesChildSliceBack(t *testing.T) {
	r := leftScope(loader())

	got, _ := r.Reduce(parentState{Title: "t"}, parentAction{Left: &counterAction{Op: "add", N: 5}})

	assert.Equal(t, 5, got.Left.Count)
	assert.Equal(t, 0, got.Right.Count)
	assert.Equal(t, "t", got.Title)
}

func TestScope_MapsAndNestsEffects(t *testing.T) {
	r := leftScope(loader())

	_, effs := r.Reduce(parentState{}, parentAction{Left: &counterAction{Op: "load"}})
	require.Len(t, effs, 1)
	assert.Equal(t, EffectID("left/load"), effs[0].ID)
	assert.Equal(t, EffectID("left"), effs[0].Group)

	var got []parentAction
	require.NoError(t, effs[0].run(context.Background(), func(a parentAction) { got = append(got, a) }))
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Left, "child action re-embedded in the parent case")
	assert.Equal(t, counterAction{Op: "add", N: 10}, *got[0].Left)
}

func TestScope_CombinedScopesOnlyMatchingOneWorks(t *testing.T) {
	r := Combine(leftScope(loader()), rightScope(loader()))

	s, _ := r.Reduce(parentState{}, parentAction{Right: &counterAction{Op: "add", N: 3}})
	s, _ = r.Reduce(s, parentAction{Left: &counterAction{Op: "add", N: 1}})

	assert.Equal(t, 1, s.Left.Count)
	assert.Equal(t, 3, s.Right.Count)
}

func TestScope_NoOpClosure(t *testing.T) {
	r := Combine(leftScope(loader()), rightScope(loader()))
	start := parentState{Left: counter{Count: 4}, Title: "x"}

	got, effs := r.Reduce(start, parentAction{Title: "unmatched"})

	assert.Equal(t, start, got)
	assert.Empty(t, effs)
}
