package app

import (
	"log/slog"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/detail"
	"github.com/roach88/navsplit/internal/feature/list"
	"github.com/roach88/navsplit/internal/model"
	"github.com/roach88/navsplit/internal/provider"
)

// Env holds the root feature's dependencies.
type Env struct {
	Providers provider.Set
	IDs       model.IDGenerator

	// Logger receives rejected bindings. Default: slog.Default().
	Logger *slog.Logger
}

// Bindings returns the root binding table.
func Bindings() *engine.Bindings[State] {
	b := engine.NewBindings[State]()
	engine.Bind(b, FieldDestinationTag, func(s *State, v Tag) {
		if v.Valid() {
			s.DestinationTag = v
		}
	})
	engine.Bind(b, FieldInspectorVisible, func(s *State, v bool) { s.InspectorVisible = v })
	engine.Bind(b, FieldColumnVisibility, func(s *State, v ColumnVisibility) {
		if v.Valid() {
			s.ColumnVisibility = v
		}
	})
	return b
}

// New returns the root reducer. Composition order is fixed: bindings, then
// the players, sports and sessions scopes, then root logic.
func New(env Env) engine.Reducer[State, Action] {
	if env.IDs == nil {
		env.IDs = model.UUIDv7Generator{}
	}

	scopes := engine.Combine(
		engine.Scope(
			engine.Lens[State, list.State[model.Player]]{
				Get: func(s State) list.State[model.Player] { return s.Players },
				Set: func(s State, c list.State[model.Player]) State {
					s.Players = c
					return s
				},
			},
			engine.Prism[Action, list.Action]{
				Extract: func(a Action) (list.Action, bool) {
					p, ok := a.(Players)
					return p.Action, ok
				},
				Embed: func(a list.Action) Action { return Players{Action: a} },
			},
			engine.EffectID(TagPlayers),
			list.New(list.Env[model.Player]{
				Provider: env.Providers.Players,
				IDs:      env.IDs,
				Create:   model.NewPlayer,
				Detail:   detail.New(detail.Env[model.Player]{Rename: model.Player.Renamed, Logger: env.Logger}),
				Logger:   env.Logger,
			}),
		),
		engine.Scope(
			engine.Lens[State, list.State[model.Sport]]{
				Get: func(s State) list.State[model.Sport] { return s.Sports },
				Set: func(s State, c list.State[model.Sport]) State {
					s.Sports = c
					return s
				},
			},
			engine.Prism[Action, list.Action]{
				Extract: func(a Action) (list.Action, bool) {
					p, ok := a.(Sports)
					return p.Action, ok
				},
				Embed: func(a list.Action) Action { return Sports{Action: a} },
			},
			engine.EffectID(TagSports),
			list.New(list.Env[model.Sport]{
				Provider: env.Providers.Sports,
				IDs:      env.IDs,
				Create:   model.NewSport,
				Detail: detail.New(detail.Env[model.Sport]{
					Rename:     model.Sport.Renamed,
					Activities: env.Providers.Activities,
					Logger:     env.Logger,
				}),
				Logger: env.Logger,
			}),
		),
		engine.Scope(
			engine.Lens[State, list.State[model.Session]]{
				Get: func(s State) list.State[model.Session] { return s.Sessions },
				Set: func(s State, c list.State[model.Session]) State {
					s.Sessions = c
					return s
				},
			},
			engine.Prism[Action, list.Action]{
				Extract: func(a Action) (list.Action, bool) {
					p, ok := a.(Sessions)
					return p.Action, ok
				},
				Embed: func(a list.Action) Action { return Sessions{Action: a} },
			},
			engine.EffectID(TagSessions),
			list.New(list.Env[model.Session]{
				Provider: env.Providers.Sessions,
				IDs:      env.IDs,
				Detail:   detail.New(detail.Env[model.Session]{Logger: env.Logger}),
				Logger:   env.Logger,
			}),
		),
	)

	bindings := engine.BindingReducer(env.Logger, Bindings(), func(a Action) (engine.BindingAction, bool) {
		b, ok := a.(Binding)
		return b.BindingAction, ok
	})
	composed := engine.Combine(bindings, scopes)

	return engine.ReducerFunc[State, Action](func(s State, action Action) (State, []engine.Effect[Action]) {
		prevTag := s.DestinationTag
		s, effects := composed.Reduce(s, action)

		var more []engine.Effect[Action]
		switch a := action.(type) {
		case SetDestinationTag:
			if !a.Tag.Valid() {
				return s, effects
			}
			s.DestinationTag = a.Tag
			s, more = showContent(scopes, s)
		case Binding:
			// A rejected or unchanged tag binding leaves observation alone.
			if a.Key == FieldDestinationTag && s.DestinationTag != prevTag {
				s, more = showContent(scopes, s)
			}
		case Appeared:
			s, more = showContent(scopes, s)
		}
		return s, append(effects, more...)
	})
}

// showContent starts observing the visible list and stops the others.
// The list reducers run synchronously so their effects join this dispatch.
func showContent(scopes engine.Reducer[State, Action], s State) (State, []engine.Effect[Action]) {
	var effects []engine.Effect[Action]
	for _, tag := range Tags() {
		var la list.Action = list.StopObserving{}
		if tag == s.DestinationTag {
			la = list.Task{}
		}
		var effs []engine.Effect[Action]
		s, effs = scopes.Reduce(s, Route(tag, la))
		effects = append(effects, effs...)
	}
	return s, effects
}

// Route wraps a list action for the list selected by tag. Unknown tags
// route to players.
func Route(tag Tag, a list.Action) Action {
	switch tag {
	case TagSports:
		return Sports{Action: a}
	case TagSessions:
		return Sessions{Action: a}
	default:
		return Players{Action: a}
	}
}
