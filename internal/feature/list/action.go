package list

import (
	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/detail"
	"github.com/roach88/navsplit/internal/model"
)

// Action is a list action.
type Action interface {
	listAction()
}

// ShowDetails presents the detail of the entity with ID.
type ShowDetails struct {
	ID model.ID
}

// DismissDetails clears the presented detail.
type DismissDetails struct{}

// Detail wraps an action for the presented detail.
type Detail struct {
	Action detail.Action
}

// Delete removes the entity with ID.
type Delete struct {
	ID model.ID
}

// Save inserts or replaces Entity.
type Save[E model.Entity] struct {
	Entity E
}

// Task starts observing the provider.
type Task struct{}

// StopObserving stops observing the provider.
type StopObserving struct{}

// SnapshotLoaded carries a provider snapshot.
type SnapshotLoaded[E model.Entity] struct {
	Items []E
}

// ObserveFailed reports that the provider subscription failed.
type ObserveFailed struct {
	Err error
}

// PresentAdd opens the add sheet.
type PresentAdd struct{}

// PresentDeleteConfirmation asks for confirmation before deleting ID.
type PresentDeleteConfirmation struct {
	ID model.ID
}

// DismissDestination closes the open sheet or confirmation.
type DismissDestination struct{}

// ConfirmAdd creates an entity from the add sheet.
type ConfirmAdd struct{}

// ConfirmDelete deletes the entity awaiting confirmation.
type ConfirmDelete struct{}

// Binding writes a bound list field.
type Binding struct {
	engine.BindingAction
}

func (ShowDetails) listAction()               {}
func (DismissDetails) listAction()            {}
func (Detail) listAction()                    {}
func (Delete) listAction()                    {}
func (Save[E]) listAction()                   {}
func (Task) listAction()                      {}
func (StopObserving) listAction()             {}
func (SnapshotLoaded[E]) listAction()         {}
func (ObserveFailed) listAction()             {}
func (PresentAdd) listAction()                {}
func (PresentDeleteConfirmation) listAction() {}
func (DismissDestination) listAction()        {}
func (ConfirmAdd) listAction()                {}
func (ConfirmDelete) listAction()             {}
func (Binding) listAction()                   {}
