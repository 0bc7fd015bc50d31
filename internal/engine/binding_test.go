package engine

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Tab       string
	Inspector bool
	Query     string
	Zoom      int
}

func formBindings() *Bindings[form] {
	b := NewBindings[form]()
	Bind(b, "tab", func(f *form, v string) { f.Tab = v })
	Bind(b, "inspector", func(f *form, v bool) { f.Inspector = v })
	Bind(b, "query", func(f *form, v string) { f.Query = v })
	return b
}

func TestBindings_ApplyChangesOnlyAddressedField(t *testing.T) {
	b := formBindings()
	start := form{Tab: "players", Inspector: true, Query: "k", Zoom: 2}

	tests := []struct {
		name   string
		action BindingAction
		want   form
	}{
		{"tab", Set("tab", "sports"), form{Tab: "sports", Inspector: true, Query: "k", Zoom: 2}},
		{"inspector", Set("inspector", false), form{Tab: "players", Inspector: false, Query: "k", Zoom: 2}},
		{"query", Set("query", "je"), form{Tab: "players", Inspector: true, Query: "je", Zoom: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := b.Apply(start, tt.action)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, form{Tab: "players", Inspector: true, Query: "k", Zoom: 2}, start, "input is not mutated")
}

func TestBindings_UnknownKeyIsNoOp(t *testing.T) {
	b := formBindings()
	start := form{Tab: "players"}

	got, ok := b.Apply(start, Set("zoom", 3))

	assert.False(t, ok)
	assert.Equal(t, start, got)
}

func TestBindings_WrongTypeIsNoOp(t *testing.T) {
	b := formBindings()
	start := form{Inspector: true}

	got, ok := b.Apply(start, Set("inspector", "yes"))

	assert.False(t, ok)
	assert.Equal(t, start, got)
}

func TestBindings_DuplicateKeyPanics(t *testing.T) {
	b := formBindings()

	assert.Panics(t, func() {
		Bind(b, "tab", func(f *form, v string) {})
	})
}

func TestBindings_Keys(t *testing.T) {
	b := formBindings()

	assert.Equal(t, []FieldKey{"inspector", "query", "tab"}, b.Keys())
	assert.True(t, b.Has("tab"))
	assert.False(t, b.Has("zoom"))
}

func TestBindingReducer_RunsBeforeDomainLogic(t *testing.T) {
	type act struct {
		binding *BindingAction
	}
	var seen string
	domain := ReducerFunc[form, act](func(f form, a act) (form, []Effect[act]) {
		seen = f.Tab
		return f, nil
	})
	r := Combine(
		BindingReducer(nil, formBindings(), func(a act) (BindingAction, bool) {
			if a.binding == nil {
				return BindingAction{}, false
			}
			return *a.binding, true
		}),
		Reducer[form, act](domain),
	)

	ba := Set("tab", "sessions")
	got, effs := r.Reduce(form{Tab: "players"}, act{binding: &ba})

	assert.Equal(t, "sessions", got.Tab)
	assert.Equal(t, "sessions", seen, "domain logic observes the binding write")
	assert.Empty(t, effs)

	got, _ = r.Reduce(got, act{})
	assert.Equal(t, "sessions", got.Tab)
}

func TestBindingReducer_LogsRejectionsToInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := BindingReducer(logger, formBindings(), func(a BindingAction) (BindingAction, bool) {
		return a, true
	})

	start := form{Tab: "players"}
	got, effs := r.Reduce(start, Set("tab", 7))
	assert.Equal(t, start, got)
	assert.Empty(t, effs)
	assert.Contains(t, buf.String(), "binding ignored")
	assert.Contains(t, buf.String(), "key=tab")
	assert.Contains(t, buf.String(), "value_type=int")

	buf.Reset()
	got, _ = r.Reduce(start, Set("tab", "sports"))
	assert.Equal(t, "sports", got.Tab)
	assert.Empty(t, buf.String(), "applied bindings are not logged")
}
