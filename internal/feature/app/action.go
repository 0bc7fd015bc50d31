package app

import (
	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/list"
)

// Bindable root fields.
const (
	FieldDestinationTag   engine.FieldKey = "destination_tag"
	FieldInspectorVisible engine.FieldKey = "inspector_visible"
	FieldColumnVisibility engine.FieldKey = "column_visibility"
)

// Action is a root action.
type Action interface {
	appAction()
}

// Players routes an action to the players list.
type Players struct{ Action list.Action }

// Sports routes an action to the sports list.
type Sports struct{ Action list.Action }

// Sessions routes an action to the sessions list.
type Sessions struct{ Action list.Action }

// SetDestinationTag selects the visible section.
type SetDestinationTag struct{ Tag Tag }

// Appeared is sent once when the UI first shows; it starts observing the
// visible list.
type Appeared struct{}

// Binding writes a bound root field.
type Binding struct {
	engine.BindingAction
}

func (Players) appAction()           {}
func (Sports) appAction()            {}
func (Sessions) appAction()          {}
func (SetDestinationTag) appAction() {}
func (Appeared) appAction()          {}
func (Binding) appAction()           {}
