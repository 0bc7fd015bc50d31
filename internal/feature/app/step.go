package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/detail"
	"github.com/roach88/navsplit/internal/feature/list"
	"github.com/roach88/navsplit/internal/model"
)

// ErrInvalidStep is wrapped by every DecodeStep error.
var ErrInvalidStep = errors.New("invalid step")

// detailKeyPrefix routes a binding key to the presented detail.
const detailKeyPrefix = "detail."

// Step is one scripted user gesture, as written in scenario files and
// recorded in the journal.
//
// Entities are referenced by label. A label that matches nothing resolves
// to the ID the seed would have given it, so a scenario can refer to an
// entity that was deleted or never existed.
type Step struct {
	Do     string `yaml:"do" json:"do"`
	List   Tag    `yaml:"list,omitempty" json:"list,omitempty"`
	Target string `yaml:"target,omitempty" json:"target,omitempty"`
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Key    string `yaml:"key,omitempty" json:"key,omitempty"`
	Value  any    `yaml:"value,omitempty" json:"value,omitempty"`
}

// Step verbs.
const (
	DoAppear             = "appear"
	DoSelect             = "select"
	DoBind               = "bind"
	DoObserve            = "observe"
	DoStop               = "stop"
	DoShow               = "show"
	DoDismiss            = "dismiss"
	DoDelete             = "delete"
	DoRename             = "rename"
	DoPresentAdd         = "present_add"
	DoConfirmAdd         = "confirm_add"
	DoPresentDelete      = "present_delete"
	DoConfirmDelete      = "confirm_delete"
	DoDismissDestination = "dismiss_destination"
	DoCommit             = "commit"
	DoDetailAppeared     = "detail_appeared"
	DoDetailDisappeared  = "detail_disappeared"
)

// Verbs returns every step verb.
func Verbs() []string {
	return []string{
		DoAppear, DoSelect, DoBind, DoObserve, DoStop, DoShow, DoDismiss,
		DoDelete, DoRename, DoPresentAdd, DoConfirmAdd, DoPresentDelete,
		DoConfirmDelete, DoDismissDestination, DoCommit, DoDetailAppeared,
		DoDetailDisappeared,
	}
}

// DecodeStep turns step into an action, resolving entity labels against s.
func DecodeStep(s State, step Step) (Action, error) {
	switch step.Do {
	case DoAppear:
		return Appeared{}, nil
	case DoSelect:
		tag, ok := step.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: select needs a string value", ErrInvalidStep)
		}
		return SetDestinationTag{Tag: Tag(tag)}, nil
	case DoBind:
		return decodeBinding(step)
	}

	tag := step.List
	if tag == "" {
		tag = s.DestinationTag
	}
	if !tag.Valid() {
		return nil, fmt.Errorf("%w: unknown list %q", ErrInvalidStep, tag)
	}

	var la list.Action
	switch step.Do {
	case DoObserve:
		la = list.Task{}
	case DoStop:
		la = list.StopObserving{}
	case DoShow, DoDelete, DoPresentDelete:
		if step.Target == "" {
			return nil, fmt.Errorf("%w: %s needs a target", ErrInvalidStep, step.Do)
		}
		id := Resolve(s, tag, step.Target)
		switch step.Do {
		case DoShow:
			la = list.ShowDetails{ID: id}
		case DoDelete:
			la = list.Delete{ID: id}
		default:
			la = list.PresentDeleteConfirmation{ID: id}
		}
	case DoRename:
		save, err := renamed(s, tag, step.Target, step.Name)
		if err != nil {
			return nil, err
		}
		la = save
	case DoDismiss:
		la = list.DismissDetails{}
	case DoPresentAdd:
		la = list.PresentAdd{}
	case DoConfirmAdd:
		la = list.ConfirmAdd{}
	case DoConfirmDelete:
		la = list.ConfirmDelete{}
	case DoDismissDestination:
		la = list.DismissDestination{}
	case DoCommit:
		la = list.Detail{Action: detail.Commit{}}
	case DoDetailAppeared:
		la = list.Detail{Action: detail.Appeared{}}
	case DoDetailDisappeared:
		la = list.Detail{Action: detail.Disappeared{}}
	default:
		return nil, fmt.Errorf("%w: unknown verb %q", ErrInvalidStep, step.Do)
	}
	return Route(tag, la), nil
}

func decodeBinding(step Step) (Action, error) {
	if step.Key == "" {
		return nil, fmt.Errorf("%w: bind needs a key", ErrInvalidStep)
	}
	if step.List == "" {
		key := engine.FieldKey(step.Key)
		return Binding{engine.Set(key, rootValue(key, step.Value))}, nil
	}
	if !step.List.Valid() {
		return nil, fmt.Errorf("%w: unknown list %q", ErrInvalidStep, step.List)
	}
	if field, ok := strings.CutPrefix(step.Key, detailKeyPrefix); ok {
		ba := engine.Set(engine.FieldKey(field), step.Value)
		return Route(step.List, list.Detail{Action: detail.Binding{BindingAction: ba}}), nil
	}
	return Route(step.List, list.Binding{BindingAction: engine.Set(engine.FieldKey(step.Key), step.Value)}), nil
}

// rootValue converts scenario strings to the typed values the root
// bindings expect. Anything else passes through unchanged, so a value of
// the wrong type reaches the binding table and is ignored there.
func rootValue(key engine.FieldKey, v any) any {
	str, ok := v.(string)
	if !ok {
		return v
	}
	switch key {
	case FieldDestinationTag:
		return Tag(str)
	case FieldColumnVisibility:
		return ColumnVisibility(str)
	}
	return v
}

// Resolve finds the entity labelled label in the list selected by tag.
func Resolve(s State, tag Tag, label string) model.ID {
	switch tag {
	case TagSports:
		return resolveIn(s.Sports, model.KindSport, label)
	case TagSessions:
		return resolveIn(s.Sessions, model.KindSession, label)
	default:
		return resolveIn(s.Players, model.KindPlayer, label)
	}
}

func resolveIn[E model.Entity](s list.State[E], kind, label string) model.ID {
	want := model.NormalizeName(label)
	for _, e := range s.Items.Items() {
		if e.Label() == want {
			return e.EntityID()
		}
	}
	if id, err := model.ParseID(label); err == nil {
		return id
	}
	return model.SeedID(kind, want)
}

func renamed(s State, tag Tag, target, name string) (list.Action, error) {
	if target == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: rename needs a target and a name", ErrInvalidStep)
	}
	id := Resolve(s, tag, target)
	switch tag {
	case TagPlayers:
		p, ok := s.Players.Items.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: no player %q", ErrInvalidStep, target)
		}
		return list.Save[model.Player]{Entity: p.Renamed(name)}, nil
	case TagSports:
		sp, ok := s.Sports.Items.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: no sport %q", ErrInvalidStep, target)
		}
		return list.Save[model.Sport]{Entity: sp.Renamed(name)}, nil
	}
	return nil, fmt.Errorf("%w: %s cannot be renamed", ErrInvalidStep, tag)
}
