package model

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Entity is an immutable record with a stable identifier.
// Player, Sport, Activity and Session implement it.
type Entity interface {
	EntityID() ID
	// Label is the human-readable name shown in list rows.
	Label() string
}

// Entity kinds, used as storage discriminators and in seed IDs.
const (
	KindPlayer   = "player"
	KindSport    = "sport"
	KindActivity = "activity"
	KindSession  = "session"
)

// NormalizeName trims surrounding whitespace and applies NFC so that
// visually identical names compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Player is a roster member.
type Player struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// NewPlayer creates a Player with a normalised name.
func NewPlayer(id ID, name string) Player {
	return Player{ID: id, Name: NormalizeName(name)}
}

// EntityID implements Entity.
func (p Player) EntityID() ID { return p.ID }

// Label implements Entity.
func (p Player) Label() string { return p.Name }

// Renamed returns a copy of p with a new name.
func (p Player) Renamed(name string) Player { return NewPlayer(p.ID, name) }

// Sport groups activities.
type Sport struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// NewSport creates a Sport with a normalised name.
func NewSport(id ID, name string) Sport {
	return Sport{ID: id, Name: NormalizeName(name)}
}

// EntityID implements Entity.
func (s Sport) EntityID() ID { return s.ID }

// Label implements Entity.
func (s Sport) Label() string { return s.Name }

// Renamed returns a copy of s with a new name.
func (s Sport) Renamed(name string) Sport { return NewSport(s.ID, name) }

// Activity belongs to exactly one Sport via SportID.
type Activity struct {
	ID      ID     `json:"id"`
	SportID ID     `json:"sport_id"`
	Name    string `json:"name"`
}

// NewActivity creates an Activity with a normalised name.
func NewActivity(id, sportID ID, name string) Activity {
	return Activity{ID: id, SportID: sportID, Name: NormalizeName(name)}
}

// EntityID implements Entity.
func (a Activity) EntityID() ID { return a.ID }

// Label implements Entity.
func (a Activity) Label() string { return a.Name }

// Unit is a speed unit.
type Unit string

const (
	MilesPerHour      Unit = "mph"
	KilometersPerHour Unit = "km/h"
)

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return u == MilesPerHour || u == KilometersPerHour
}

// Measurement is one recorded speed.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// String renders the measurement the way the session detail lists it:
// the integral part of the value followed by the unit symbol.
func (m Measurement) String() string {
	return fmt.Sprintf("%d %s", int64(m.Value), m.Unit)
}

// Session is a recorded set of measurements. Sessions have no name; their
// label is the first eight characters of the identifier.
type Session struct {
	ID           ID            `json:"id"`
	Measurements []Measurement `json:"measurements"`
}

// NewSession creates a Session owning a copy of measurements.
func NewSession(id ID, measurements ...Measurement) Session {
	ms := make([]Measurement, len(measurements))
	copy(ms, measurements)
	return Session{ID: id, Measurements: ms}
}

// EntityID implements Entity.
func (s Session) EntityID() ID { return s.ID }

// Label implements Entity.
func (s Session) Label() string { return s.ID.String()[:8] }

// Equal reports whether two entity values are identical field by field.
func Equal[E Entity](a, b E) bool {
	return reflect.DeepEqual(a, b)
}
