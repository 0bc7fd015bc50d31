package harness

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/app"
	"github.com/roach88/navsplit/internal/feature/list"
	"github.com/roach88/navsplit/internal/model"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	List     app.Tag
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	if e.List != "" {
		return fmt.Sprintf("%s [%s]: expected %s, got %s", e.Type, e.List, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// Snapshot is what assertions are evaluated against.
type Snapshot struct {
	State   app.State
	Running []engine.EffectID
}

// EvaluateAssertions checks every assertion and returns the failures.
func EvaluateAssertions(snap Snapshot, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		if err := Evaluate(snap, a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

// Evaluate checks one assertion. It returns an *AssertionError on failure.
func Evaluate(snap Snapshot, a Assertion) error {
	s := snap.State

	switch a.Type {
	case AssertDestination:
		return expectText(a, "", string(s.DestinationTag))
	case AssertInspector:
		return expectText(a, "", strconv.FormatBool(s.InspectorVisible))
	case AssertColumns:
		return expectText(a, "", string(s.ColumnVisibility))
	case AssertRunning, AssertIdle:
		running := slices.Contains(snap.Running, engine.EffectID(a.Target))
		if running != (a.Type == AssertRunning) {
			return &AssertionError{
				Type:     a.Type,
				Expected: a.Target + " " + a.Type,
				Actual:   fmt.Sprintf("running %v", snap.Running),
			}
		}
		return nil
	}

	tag := a.List
	if tag == "" {
		tag = s.DestinationTag
	}
	v := viewOf(s, tag)

	switch a.Type {
	case AssertCount:
		return expectCount(a, tag, len(v.Labels))
	case AssertVisible:
		return expectCount(a, tag, v.Visible)
	case AssertActivities:
		return expectCount(a, tag, v.Activities)
	case AssertContains, AssertAbsent:
		want := model.NormalizeName(a.Target)
		present := slices.Contains(v.Labels, want)
		if present != (a.Type == AssertContains) {
			return &AssertionError{
				Type:     a.Type,
				List:     tag,
				Expected: fmt.Sprintf("%q %s", want, a.Type),
				Actual:   strings.Join(v.Labels, ", "),
			}
		}
		return nil
	case AssertOrder:
		if !slices.Equal(v.Labels, a.Values) {
			return &AssertionError{
				Type:     a.Type,
				List:     tag,
				Expected: fmt.Sprintf("%q", a.Values),
				Actual:   fmt.Sprintf("%q", v.Labels),
			}
		}
		return nil
	case AssertDetails:
		return expectText(a, tag, v.Details)
	case AssertDraft:
		return expectText(a, tag, v.Draft)
	case AssertModal:
		return expectText(a, tag, v.Modal)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func expectText(a Assertion, tag app.Tag, actual string) error {
	if a.Value == actual {
		return nil
	}
	return &AssertionError{Type: a.Type, List: tag, Expected: strconv.Quote(a.Value), Actual: strconv.Quote(actual)}
}

func expectCount(a Assertion, tag app.Tag, actual int) error {
	if *a.Count == actual {
		return nil
	}
	return &AssertionError{Type: a.Type, List: tag, Expected: strconv.Itoa(*a.Count), Actual: strconv.Itoa(actual)}
}

// listView flattens a list state for assertions.
type listView struct {
	Labels     []string
	Visible    int
	Details    string
	Draft      string
	Activities int
	Modal      string
}

func viewOf(s app.State, tag app.Tag) listView {
	switch tag {
	case app.TagSports:
		return view(s.Sports)
	case app.TagSessions:
		return view(s.Sessions)
	default:
		return view(s.Players)
	}
}

func view[E model.Entity](l list.State[E]) listView {
	v := listView{
		Labels:  []string{},
		Visible: len(l.Visible()),
		Details: "none",
		Draft:   "none",
		Modal:   "none",
	}
	for _, e := range l.Items.Items() {
		v.Labels = append(v.Labels, e.Label())
	}
	if d, ok := l.Details.Get(); ok {
		v.Details = d.Entity.Label()
		v.Draft = d.DraftName
		v.Activities = d.Activities.Len()
	}
	switch l.Destination.(type) {
	case list.AddSheet:
		v.Modal = "add"
	case list.DeleteConfirmation:
		v.Modal = "delete"
	}
	return v
}
