// Package app is the root feature: the three lists, which one is visible,
// and the UI-only flags a render collaborator binds to.
package app

import (
	"github.com/roach88/navsplit/internal/feature/list"
	"github.com/roach88/navsplit/internal/model"
)

// Tag selects the visible top-level section.
type Tag string

const (
	TagPlayers  Tag = "players"
	TagSports   Tag = "sports"
	TagSessions Tag = "sessions"
)

// Tags returns every tag in display order.
func Tags() []Tag {
	return []Tag{TagPlayers, TagSports, TagSessions}
}

// Valid reports whether t is a known tag.
func (t Tag) Valid() bool {
	switch t {
	case TagPlayers, TagSports, TagSessions:
		return true
	}
	return false
}

// Title is the tag's sidebar label.
func (t Tag) Title() string {
	switch t {
	case TagPlayers:
		return "Players"
	case TagSports:
		return "Sports"
	case TagSessions:
		return "Sessions"
	}
	return string(t)
}

// Symbol is the name of the tag's sidebar icon.
func (t Tag) Symbol() string {
	switch t {
	case TagPlayers:
		return "person.2"
	case TagSports:
		return "baseball"
	case TagSessions:
		return "list.clipboard"
	}
	return ""
}

// ColumnVisibility controls how many columns of the split view show.
type ColumnVisibility string

const (
	ColumnsAutomatic  ColumnVisibility = "automatic"
	ColumnsAll        ColumnVisibility = "all"
	ColumnsDouble     ColumnVisibility = "double"
	ColumnsDetailOnly ColumnVisibility = "detail_only"
)

// Valid reports whether v is a known visibility.
func (v ColumnVisibility) Valid() bool {
	switch v {
	case ColumnsAutomatic, ColumnsAll, ColumnsDouble, ColumnsDetailOnly:
		return true
	}
	return false
}

// State is the root state.
type State struct {
	Players          list.State[model.Player]  `json:"players"`
	Sports           list.State[model.Sport]   `json:"sports"`
	Sessions         list.State[model.Session] `json:"sessions"`
	DestinationTag   Tag                       `json:"destination_tag"`
	InspectorVisible bool                      `json:"inspector_visible"`
	ColumnVisibility ColumnVisibility          `json:"column_visibility"`
}

// NewState builds the root state from seed collections.
func NewState(players []model.Player, sports []model.Sport, sessions []model.Session) State {
	return State{
		Players:          list.NewState(players...),
		Sports:           list.NewState(sports...),
		Sessions:         list.NewState(sessions...),
		DestinationTag:   TagPlayers,
		ColumnVisibility: ColumnsAutomatic,
	}
}
