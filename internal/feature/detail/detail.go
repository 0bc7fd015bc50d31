// Package detail implements the child feature presented when a list row is
// selected: the entity itself, an editable draft name, and for sports the
// live list of the sport's activities.
package detail

import (
	"context"
	"log/slog"
	"strings"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/model"
	"github.com/roach88/navsplit/internal/provider"
)

// FieldDraftName is the bindable draft name field.
const FieldDraftName engine.FieldKey = "draft_name"

// activitiesID identifies the activities stream, relative to the
// presentation scope that nests it.
const activitiesID engine.EffectID = "activities"

// State is the presented detail of one entity.
type State[E model.Entity] struct {
	Entity     E                                `json:"entity"`
	DraftName  string                           `json:"draft_name"`
	Activities model.Identified[model.Activity] `json:"activities"`
}

// NewState presents e with its label as the initial draft.
func NewState[E model.Entity](e E) State[E] {
	return State[E]{Entity: e, DraftName: e.Label()}
}

// Refreshed returns s showing e, the entity's current upstream value. An
// untouched draft follows the new label; an edited draft is kept.
func (s State[E]) Refreshed(e E) State[E] {
	if model.Equal(s.Entity, e) {
		return s
	}
	if s.DraftName == s.Entity.Label() {
		s.DraftName = e.Label()
	}
	s.Entity = e
	return s
}

// Action is a detail action.
type Action interface {
	detailAction()
}

// Commit applies the draft name to the entity.
type Commit struct{}

// Appeared is sent when the detail becomes visible.
type Appeared struct{}

// Disappeared is sent when the detail stops being visible.
type Disappeared struct{}

// ActivitiesLoaded carries the activities of the presented sport.
type ActivitiesLoaded struct {
	Items []model.Activity
}

// ActivitiesFailed reports that the activities stream failed.
type ActivitiesFailed struct {
	Err error
}

// Binding writes a bound detail field.
type Binding struct {
	engine.BindingAction
}

func (Commit) detailAction()           {}
func (Appeared) detailAction()         {}
func (Disappeared) detailAction()      {}
func (ActivitiesLoaded) detailAction() {}
func (ActivitiesFailed) detailAction() {}
func (Binding) detailAction()          {}

// Env holds the detail's dependencies.
type Env[E model.Entity] struct {
	// Rename returns e renamed. Nil for entities without names; Commit is
	// then a no-op.
	Rename func(e E, name string) E

	// Activities, when set, is observed while the detail is visible and
	// filtered to the entity's own activities.
	Activities provider.Provider[model.Activity]

	// Logger receives rejected bindings. Default: slog.Default().
	Logger *slog.Logger
}

// New returns the detail reducer.
func New[E model.Entity](env Env[E]) engine.Reducer[State[E], Action] {
	bindings := engine.NewBindings[State[E]]()
	engine.Bind(bindings, FieldDraftName, func(s *State[E], v string) { s.DraftName = v })

	return engine.Combine(
		engine.BindingReducer(env.Logger, bindings, func(a Action) (engine.BindingAction, bool) {
			b, ok := a.(Binding)
			return b.BindingAction, ok
		}),
		engine.ReducerFunc[State[E], Action](env.reduce),
	)
}

func (env Env[E]) reduce(s State[E], action Action) (State[E], []engine.Effect[Action]) {
	switch a := action.(type) {
	case Commit:
		if env.Rename == nil {
			return s, nil
		}
		name := model.NormalizeName(s.DraftName)
		if name == "" || name == s.Entity.Label() {
			return s, nil
		}
		s.Entity = env.Rename(s.Entity, name)
		s.DraftName = s.Entity.Label()
		return s, nil

	case Appeared:
		if env.Activities == nil {
			return s, nil
		}
		return s, []engine.Effect[Action]{env.observeActivities(s.Entity.EntityID())}

	case Disappeared:
		return s, []engine.Effect[Action]{engine.Cancel[Action](activitiesID)}

	case ActivitiesLoaded:
		s.Activities = model.NewIdentified(a.Items...)
		return s, nil
	}
	return s, nil
}

func (env Env[E]) observeActivities(sportID model.ID) engine.Effect[Action] {
	activities := env.Activities
	return engine.Stream("observe activities", func(ctx context.Context, emit func(Action)) error {
		ch, err := activities.Observe(ctx)
		if err != nil {
			return err
		}
		for snap := range ch {
			var own []model.Activity
			for _, act := range snap {
				if act.SportID == sportID {
					own = append(own, act)
				}
			}
			emit(ActivitiesLoaded{Items: own})
		}
		return nil
	}).Cancellable(activitiesID).Catch(func(err error) Action {
		return ActivitiesFailed{Err: err}
	})
}

// Title is the heading shown for the detail.
func (s State[E]) Title() string {
	if strings.TrimSpace(s.DraftName) != "" && s.DraftName != s.Entity.Label() {
		return s.Entity.Label() + " (editing)"
	}
	return s.Entity.Label()
}
