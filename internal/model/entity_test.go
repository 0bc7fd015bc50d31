package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  Kody \t", "Kody"},
		{"composes decomposed accents", "Jose\u0301", "Jos\u00e9"},
		{"already normal", "Grayson", "Grayson"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestSeedID_Deterministic(t *testing.T) {
	assert.Equal(t, SeedID(KindPlayer, "Jesse"), SeedID(KindPlayer, "Jesse"))
	assert.NotEqual(t, SeedID(KindPlayer, "Jesse"), SeedID(KindSport, "Jesse"))
	assert.NotEqual(t, Nil, SeedID(KindPlayer, "Jesse"))
}

func TestSequentialGenerator(t *testing.T) {
	a := NewSequentialGenerator("test")
	b := NewSequentialGenerator("test")

	first, second := a.NewID(), a.NewID()
	assert.NotEqual(t, first, second)
	assert.Equal(t, first, b.NewID(), "same prefix must yield the same sequence")
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	var g UUIDv7Generator
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := g.NewID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestSession_Label(t *testing.T) {
	s := NewSession(SeedID(KindSession, "1"))
	assert.Equal(t, s.ID.String()[:8], s.Label())
}

func TestNewSession_CopiesMeasurements(t *testing.T) {
	ms := []Measurement{{Value: 4.5, Unit: MilesPerHour}}
	s := NewSession(SeedID(KindSession, "1"), ms...)

	ms[0].Value = 99

	assert.Equal(t, 4.5, s.Measurements[0].Value)
}

func TestMeasurement_String(t *testing.T) {
	assert.Equal(t, "7 mph", Measurement{Value: 7.9, Unit: MilesPerHour}.String())
	assert.Equal(t, "3 km/h", Measurement{Value: 3.2, Unit: KilometersPerHour}.String())
}

func TestUnit_Valid(t *testing.T) {
	assert.True(t, MilesPerHour.Valid())
	assert.True(t, KilometersPerHour.Valid())
	assert.False(t, Unit("knots").Valid())
}

func TestActivity_ParentReference(t *testing.T) {
	sport := NewSport(SeedID(KindSport, "Baseball"), "Baseball")
	a := NewActivity(SeedID(KindActivity, "Hitting"), sport.ID, " Hitting ")

	assert.Equal(t, sport.ID, a.SportID)
	assert.Equal(t, "Hitting", a.Label())
}
