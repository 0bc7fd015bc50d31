package list

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/detail"
	"github.com/roach88/navsplit/internal/model"
)

// Bindable list fields.
const (
	FieldFilter  engine.FieldKey = "filter"
	FieldAddName engine.FieldKey = "destination.add.name"
)

// Destination is the modal open over a list. A nil Destination means
// nothing is open; at most one variant is active at a time.
type Destination interface {
	destination()
}

// AddSheet collects the name of a new entity.
type AddSheet struct {
	Name string
}

// DeleteConfirmation asks before deleting Target.
type DeleteConfirmation struct {
	Target model.ID
}

func (AddSheet) destination()           {}
func (DeleteConfirmation) destination() {}

// MarshalJSON tags the variant.
func (d AddSheet) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{"add", d.Name})
}

// MarshalJSON tags the variant.
func (d DeleteConfirmation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string   `json:"kind"`
		Target model.ID `json:"target"`
	}{"confirm_delete", d.Target})
}

// State is the state of one list.
type State[E model.Entity] struct {
	Items       model.Identified[E]               `json:"items"`
	Details     engine.Presented[detail.State[E]] `json:"details"`
	Destination Destination                       `json:"destination"`
	Filter      string                            `json:"filter"`
}

// NewState creates a list holding items.
func NewState[E model.Entity](items ...E) State[E] {
	return State[E]{Items: model.NewIdentified(items...)}
}

// Visible returns the items whose label contains the filter, compared with
// Unicode case folding. An empty filter shows everything.
func (s State[E]) Visible() []E {
	needle := strings.TrimSpace(s.Filter)
	if needle == "" {
		return s.Items.Items()
	}
	fold := cases.Fold()
	needle = fold.String(model.NormalizeName(needle))
	return s.Items.Filter(func(e E) bool {
		return strings.Contains(fold.String(e.Label()), needle)
	})
}

// Selected returns the ID of the presented entity.
func (s State[E]) Selected() (model.ID, bool) {
	d, ok := s.Details.Get()
	if !ok {
		return model.Nil, false
	}
	return d.Entity.EntityID(), true
}
