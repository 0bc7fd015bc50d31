package list

import (
	"context"
	"log/slog"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/detail"
	"github.com/roach88/navsplit/internal/model"
	"github.com/roach88/navsplit/internal/provider"
)

// Effect identities, relative to the list's scope.
const (
	ObserveID engine.EffectID = "observe"
	DetailID  engine.EffectID = "detail"
)

// Env holds a list's dependencies.
type Env[E model.Entity] struct {
	// Provider backs the collection.
	Provider provider.Provider[E]

	// IDs generates identifiers for entities created by the add sheet.
	IDs model.IDGenerator

	// Create builds a new entity from a name. Nil when the list does not
	// support adding (sessions); PresentAdd is then a no-op.
	Create func(id model.ID, name string) E

	// Detail reduces the presented detail.
	Detail engine.Reducer[detail.State[E], detail.Action]

	// Logger receives rejected bindings. Default: slog.Default().
	Logger *slog.Logger
}

// New returns the list reducer: bindings, then list logic, wrapped in the
// presentation lifecycle of the detail.
func New[E model.Entity](env Env[E]) engine.Reducer[State[E], Action] {
	if env.IDs == nil {
		env.IDs = model.UUIDv7Generator{}
	}
	if env.Detail == nil {
		env.Detail = detail.New(detail.Env[E]{Logger: env.Logger})
	}

	bindings := engine.NewBindings[State[E]]()
	engine.Bind(bindings, FieldFilter, func(s *State[E], v string) { s.Filter = v })
	engine.Bind(bindings, FieldAddName, func(s *State[E], v string) {
		if sheet, ok := s.Destination.(AddSheet); ok {
			sheet.Name = v
			s.Destination = sheet
		}
	})

	core := engine.Combine(
		engine.BindingReducer(env.Logger, bindings, func(a Action) (engine.BindingAction, bool) {
			b, ok := a.(Binding)
			return b.BindingAction, ok
		}),
		engine.ReducerFunc[State[E], Action](env.reduce),
	)

	return engine.WithPresentation(core, engine.Presentation[State[E], Action, model.ID, detail.State[E], detail.Action]{
		Slot: engine.Lens[State[E], engine.Presented[detail.State[E]]]{
			Get: func(s State[E]) engine.Presented[detail.State[E]] { return s.Details },
			Set: func(s State[E], p engine.Presented[detail.State[E]]) State[E] {
				s.Details = p
				return s
			},
		},
		Child: env.Detail,
		Action: engine.Prism[Action, detail.Action]{
			Extract: func(a Action) (detail.Action, bool) {
				d, ok := a.(Detail)
				return d.Action, ok
			},
			Embed: func(a detail.Action) Action { return Detail{Action: a} },
		},
		Show: func(a Action) (model.ID, bool) {
			show, ok := a.(ShowDetails)
			return show.ID, ok
		},
		Dismiss: func(a Action) bool {
			_, ok := a.(DismissDetails)
			return ok
		},
		Lookup: func(s State[E], id model.ID) (detail.State[E], bool) {
			e, ok := s.Items.Get(id)
			if !ok {
				return detail.State[E]{}, false
			}
			return detail.NewState(e), true
		},
		Key: func(d detail.State[E]) model.ID { return d.Entity.EntityID() },
		Revalidate: func(s State[E], d detail.State[E]) (detail.State[E], bool) {
			e, ok := s.Items.Get(d.Entity.EntityID())
			if !ok {
				return d, false
			}
			return d.Refreshed(e), true
		},
		ID: DetailID,
	})
}

func (env Env[E]) reduce(s State[E], action Action) (State[E], []engine.Effect[Action]) {
	switch a := action.(type) {
	case Task:
		return s, []engine.Effect[Action]{env.observe()}

	case StopObserving:
		return s, []engine.Effect[Action]{engine.Cancel[Action](ObserveID)}

	case SnapshotLoaded[E]:
		s.Items = model.NewIdentified(a.Items...)
		s = s.dropStaleDestination()
		return s, nil

	case ObserveFailed:
		return s, nil

	case Delete:
		return env.delete(s, a.ID)

	case Save[E]:
		return env.save(s, a.Entity)

	case Detail:
		// The detail has already reduced the action. A commit that changed
		// the entity is saved here, before re-validation reads Items.
		if _, ok := a.Action.(detail.Commit); ok {
			if d, present := s.Details.Get(); present {
				if cur, ok := s.Items.Get(d.Entity.EntityID()); ok && !model.Equal(cur, d.Entity) {
					return env.save(s, d.Entity)
				}
			}
		}
		return s, nil

	case PresentAdd:
		if env.Create == nil {
			return s, nil
		}
		s.Destination = AddSheet{}
		return s, nil

	case PresentDeleteConfirmation:
		if !s.Items.Contains(a.ID) {
			return s, nil
		}
		s.Destination = DeleteConfirmation{Target: a.ID}
		return s, nil

	case DismissDestination:
		s.Destination = nil
		return s, nil

	case ConfirmAdd:
		sheet, ok := s.Destination.(AddSheet)
		if !ok || env.Create == nil {
			return s, nil
		}
		name := model.NormalizeName(sheet.Name)
		if name == "" {
			return s, nil
		}
		s.Destination = nil
		return env.save(s, env.Create(env.IDs.NewID(), name))

	case ConfirmDelete:
		confirm, ok := s.Destination.(DeleteConfirmation)
		if !ok {
			return s, nil
		}
		s.Destination = nil
		return env.delete(s, confirm.Target)
	}
	return s, nil
}

func (env Env[E]) delete(s State[E], id model.ID) (State[E], []engine.Effect[Action]) {
	items, removed := s.Items.Remove(id)
	if !removed {
		return s, nil
	}
	s.Items = items
	s = s.dropStaleDestination()

	p := env.Provider
	return s, []engine.Effect[Action]{
		engine.Fire[Action]("delete", func(ctx context.Context) error {
			return p.Delete(ctx, id)
		}),
	}
}

func (env Env[E]) save(s State[E], e E) (State[E], []engine.Effect[Action]) {
	s.Items = s.Items.Upsert(e)

	p := env.Provider
	return s, []engine.Effect[Action]{
		engine.Fire[Action]("save", func(ctx context.Context) error {
			return p.Save(ctx, e)
		}),
	}
}

func (env Env[E]) observe() engine.Effect[Action] {
	p := env.Provider
	return engine.Stream("observe", func(ctx context.Context, emit func(Action)) error {
		ch, err := p.Observe(ctx)
		if err != nil {
			return err
		}
		for snap := range ch {
			emit(SnapshotLoaded[E]{Items: snap})
		}
		return nil
	}).Cancellable(ObserveID).Catch(func(err error) Action {
		return ObserveFailed{Err: err}
	})
}

// dropStaleDestination closes a delete confirmation whose target is gone.
func (s State[E]) dropStaleDestination() State[E] {
	if confirm, ok := s.Destination.(DeleteConfirmation); ok && !s.Items.Contains(confirm.Target) {
		s.Destination = nil
	}
	return s
}
