package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/navsplit/internal/model"
	"github.com/roach88/navsplit/internal/provider"
)

func names[E model.Entity](items []E) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.Label()
	}
	return out
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"Kody", "Jesse", "Grayson", "Ethan", "Greg"}, names(c.Players))
	assert.Equal(t, []string{"Baseball", "Softball"}, names(c.Sports))
	assert.Len(t, c.Activities, 4)
	require.Len(t, c.Sessions, 2)
	for _, s := range c.Sessions {
		assert.Len(t, s.Measurements, 3)
	}

	baseball := model.SeedID(model.KindSport, "Baseball")
	assert.Equal(t, []string{"Hitting", "Pitching"}, names(c.ActivitiesOf(baseball)))
	assert.Equal(t, model.SeedID(model.KindPlayer, "Jesse"), c.Players[1].ID)
	assert.Equal(t, model.SeedID(model.KindSession, "opening-day"), c.Sessions[0].ID)
}

func TestDefault_Deterministic(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestCompile_Custom(t *testing.T) {
	c, err := Compile("custom.cue", []byte(`
players: [{name: "  Riley "}]
sports: [{name: "Cricket", activities: ["Bowling"]}]
sessions: [{key: "nets", measurements: [{value: 80, unit: "km/h"}]}]
`))
	require.NoError(t, err)

	assert.Equal(t, "Riley", c.Players[0].Name)
	assert.Equal(t, "Bowling", c.Activities[0].Name)
	assert.Equal(t, c.Sports[0].ID, c.Activities[0].SportID)
	assert.Equal(t, model.Measurement{Value: 80, Unit: model.KilometersPerHour}, c.Sessions[0].Measurements[0])
}

func TestCompile_EmptyCatalog(t *testing.T) {
	c, err := Compile("empty.cue", nil)
	require.NoError(t, err)
	assert.Empty(t, c.Players)
	assert.Empty(t, c.Sessions)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"syntax", `players: [`, "cue"},
		{"blank name", `players: [{name: ""}]`, "cue"},
		{"whitespace name", `players: [{name: "   "}]`, "name"},
		{"unknown unit", `sessions: [{key: "a", measurements: [{value: 1, unit: "knots"}]}]`, "cue"},
		{"negative speed", `sessions: [{key: "a", measurements: [{value: -1, unit: "mph"}]}]`, "cue"},
		{"unknown field", `players: [{name: "Kody", age: 9}]`, "cue"},
		{"duplicate player", `players: [{name: "Kody"}, {name: "Kody"}]`, "players"},
		{"duplicate activity", `sports: [{name: "A", activities: ["x", "x"]}]`, "activities"},
		{"duplicate session", `sessions: [{key: "a", measurements: []}, {key: "a", measurements: []}]`, "sessions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("bad.cue", []byte(tt.src))
			require.Error(t, err)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestCompileError_Error(t *testing.T) {
	_, err := Compile("bad.cue", []byte("players: [\n\t{name: \"Kody\"},\n\t{name: \"Kody\"},\n]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `players: duplicate "Kody"`)

	assert.Equal(t, "name: must not be blank", (&CompileError{Field: "name", Message: "must not be blank"}).Error())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.cue")
	require.NoError(t, os.WriteFile(path, []byte(`players: [{name: "Solo"}]`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Solo"}, names(c.Players))

	_, err = Load(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)

	c, err = Load("")
	require.NoError(t, err)
	assert.Len(t, c.Players, 5)
}

func TestCatalog_StateAndProviders(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	s := c.State()
	assert.Equal(t, 5, s.Players.Items.Len())
	assert.Equal(t, 2, s.Sports.Items.Len())

	set := c.Providers()
	assert.Len(t, set.Activities.(*provider.Memory[model.Activity]).Snapshot(), 4)
}

func TestCatalog_Install(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	set := provider.Set{
		Players:    provider.NewMemory[model.Player](),
		Sports:     provider.NewMemory[model.Sport](),
		Activities: provider.NewMemory[model.Activity](),
		Sessions:   provider.NewMemory[model.Session](),
	}
	require.NoError(t, c.Install(context.Background(), set))

	assert.Equal(t, c.Players, set.Players.(*provider.Memory[model.Player]).Snapshot())
	assert.Equal(t, c.Sessions, set.Sessions.(*provider.Memory[model.Session]).Snapshot())
}
