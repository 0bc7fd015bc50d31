package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/app"
	"github.com/roach88/navsplit/internal/feature/list"
	"github.com/roach88/navsplit/internal/seed"
)

func count(n int) *int { return &n }

func testSnapshot(t *testing.T) Snapshot {
	t.Helper()
	catalog, err := seed.Default()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := catalog.State()
	s.Sports.Destination = list.AddSheet{Name: "Cr"}
	s.Players.Filter = "g"
	return Snapshot{State: s, Running: []engine.EffectID{"players/observe"}}
}

func TestEvaluate(t *testing.T) {
	snap := testSnapshot(t)

	tests := []struct {
		name string
		a    Assertion
		ok   bool
	}{
		{"destination", Assertion{Type: AssertDestination, Value: "players"}, true},
		{"destination mismatch", Assertion{Type: AssertDestination, Value: "sports"}, false},
		{"inspector", Assertion{Type: AssertInspector, Value: "false"}, true},
		{"columns", Assertion{Type: AssertColumns, Value: "automatic"}, true},
		{"count", Assertion{Type: AssertCount, Count: count(5)}, true},
		{"count other list", Assertion{Type: AssertCount, List: app.TagSessions, Count: count(2)}, true},
		{"visible", Assertion{Type: AssertVisible, Count: count(2)}, true},
		{"contains normalises", Assertion{Type: AssertContains, Target: " Kody "}, true},
		{"absent", Assertion{Type: AssertAbsent, Target: "Riley"}, true},
		{"absent but present", Assertion{Type: AssertAbsent, Target: "Kody"}, false},
		{"order", Assertion{Type: AssertOrder, List: app.TagSports, Values: []string{"Baseball", "Softball"}}, true},
		{"order mismatch", Assertion{Type: AssertOrder, List: app.TagSports, Values: []string{"Softball", "Baseball"}}, false},
		{"details none", Assertion{Type: AssertDetails, Value: "none"}, true},
		{"draft none", Assertion{Type: AssertDraft, Value: "none"}, true},
		{"activities", Assertion{Type: AssertActivities, Count: count(0)}, true},
		{"modal", Assertion{Type: AssertModal, List: app.TagSports, Value: "add"}, true},
		{"modal none", Assertion{Type: AssertModal, Value: "none"}, true},
		{"running", Assertion{Type: AssertRunning, Target: "players/observe"}, true},
		{"idle", Assertion{Type: AssertIdle, Target: "sports/observe"}, true},
		{"idle but running", Assertion{Type: AssertIdle, Target: "players/observe"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Evaluate(snap, tt.a)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var ae *AssertionError
			assert.ErrorAs(t, err, &ae)
		})
	}
}

func TestEvaluate_UnknownType(t *testing.T) {
	err := Evaluate(testSnapshot(t), Assertion{Type: "vibes"})
	assert.EqualError(t, err, `unknown assertion type "vibes"`)
}

func TestAssertionError_Error(t *testing.T) {
	err := &AssertionError{Type: "count", List: app.TagPlayers, Expected: "4", Actual: "5"}
	assert.Equal(t, "count [players]: expected 4, got 5", err.Error())

	err = &AssertionError{Type: "destination", Expected: `"sports"`, Actual: `"players"`}
	assert.Equal(t, `destination: expected "sports", got "players"`, err.Error())
}

func TestEvaluateAssertions_CollectsFailures(t *testing.T) {
	failures := EvaluateAssertions(testSnapshot(t), []Assertion{
		{Type: AssertCount, Count: count(5)},
		{Type: AssertCount, Count: count(1)},
		{Type: AssertDestination, Value: "sessions"},
	})
	assert.Len(t, failures, 2)
}
