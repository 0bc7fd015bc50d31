package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/detail"
	"github.com/roach88/navsplit/internal/feature/list"
	"github.com/roach88/navsplit/internal/model"
)

func TestDecodeStep(t *testing.T) {
	s := newHarness().state
	baseball := model.SeedID(model.KindSport, "Baseball")

	tests := []struct {
		name string
		step Step
		want Action
	}{
		{"appear", Step{Do: DoAppear}, Appeared{}},
		{"select", Step{Do: DoSelect, Value: "sports"}, SetDestinationTag{Tag: TagSports}},
		{"show defaults to visible list", Step{Do: DoShow, Target: "Jesse"}, Players{Action: list.ShowDetails{ID: jesse()}}},
		{"show sport", Step{Do: DoShow, List: TagSports, Target: "Baseball"}, Sports{Action: list.ShowDetails{ID: baseball}}},
		{"delete", Step{Do: DoDelete, Target: "Jesse"}, Players{Action: list.Delete{ID: jesse()}}},
		{"present delete", Step{Do: DoPresentDelete, Target: "Jesse"}, Players{Action: list.PresentDeleteConfirmation{ID: jesse()}}},
		{"observe", Step{Do: DoObserve, List: TagSessions}, Sessions{Action: list.Task{}}},
		{"stop", Step{Do: DoStop}, Players{Action: list.StopObserving{}}},
		{"dismiss", Step{Do: DoDismiss}, Players{Action: list.DismissDetails{}}},
		{"present add", Step{Do: DoPresentAdd}, Players{Action: list.PresentAdd{}}},
		{"confirm add", Step{Do: DoConfirmAdd}, Players{Action: list.ConfirmAdd{}}},
		{"confirm delete", Step{Do: DoConfirmDelete}, Players{Action: list.ConfirmDelete{}}},
		{"dismiss destination", Step{Do: DoDismissDestination}, Players{Action: list.DismissDestination{}}},
		{"commit", Step{Do: DoCommit, List: TagSports}, Sports{Action: list.Detail{Action: detail.Commit{}}}},
		{"detail appeared", Step{Do: DoDetailAppeared}, Players{Action: list.Detail{Action: detail.Appeared{}}}},
		{"detail disappeared", Step{Do: DoDetailDisappeared}, Players{Action: list.Detail{Action: detail.Disappeared{}}}},
		{
			"rename",
			Step{Do: DoRename, Target: "Jesse", Name: "Jess"},
			Players{Action: list.Save[model.Player]{Entity: model.NewPlayer(jesse(), "Jess")}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeStep(s, tt.step)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeStep_Bindings(t *testing.T) {
	s := newHarness().state

	tests := []struct {
		name string
		step Step
		want Action
	}{
		{
			"root tag is typed",
			Step{Do: DoBind, Key: "destination_tag", Value: "sessions"},
			Binding{engine.Set(FieldDestinationTag, TagSessions)},
		},
		{
			"root columns are typed",
			Step{Do: DoBind, Key: "column_visibility", Value: "all"},
			Binding{engine.Set(FieldColumnVisibility, ColumnsAll)},
		},
		{
			"root bool passes through",
			Step{Do: DoBind, Key: "inspector_visible", Value: true},
			Binding{engine.Set(FieldInspectorVisible, true)},
		},
		{
			"list field",
			Step{Do: DoBind, List: TagPlayers, Key: "filter", Value: "k"},
			Players{Action: list.Binding{BindingAction: engine.Set(list.FieldFilter, "k")}},
		},
		{
			"detail field",
			Step{Do: DoBind, List: TagSports, Key: "detail.draft_name", Value: "Cricket"},
			Sports{Action: list.Detail{Action: detail.Binding{BindingAction: engine.Set(detail.FieldDraftName, "Cricket")}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeStep(s, tt.step)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeStep_Errors(t *testing.T) {
	s := newHarness().state

	for _, step := range []Step{
		{Do: "teleport"},
		{Do: DoSelect, Value: 3},
		{Do: DoShow},
		{Do: DoShow, List: "coaches", Target: "Kody"},
		{Do: DoBind},
		{Do: DoBind, List: "coaches", Key: "filter"},
		{Do: DoRename, Target: "Jesse"},
		{Do: DoRename, Target: "Nobody", Name: "Somebody"},
		{Do: DoRename, List: TagSessions, Target: "x", Name: "y"},
	} {
		_, err := DecodeStep(s, step)
		assert.ErrorIs(t, err, ErrInvalidStep, "%+v", step)
	}
}

func TestResolve(t *testing.T) {
	s := newHarness().state

	assert.Equal(t, jesse(), Resolve(s, TagPlayers, "  Jesse "))
	assert.Equal(t, model.SeedID(model.KindPlayer, "Nobody"), Resolve(s, TagPlayers, "Nobody"),
		"unknown labels fall back to the seed ID")

	session := s.Sessions.Items.At(0)
	assert.Equal(t, session.ID, Resolve(s, TagSessions, session.Label()))
	assert.Equal(t, session.ID, Resolve(s, TagSessions, session.ID.String()))
}

func TestVerbs_AllDecode(t *testing.T) {
	s := newHarness().state
	for _, verb := range Verbs() {
		step := Step{Do: verb, Target: "Kody", Name: "Cody", Key: "filter", Value: "players"}
		_, err := DecodeStep(s, step)
		assert.NoError(t, err, verb)
	}
}
