package harness

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/app"
	"github.com/roach88/navsplit/internal/seed"
	"github.com/roach88/navsplit/internal/store"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	sc, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return sc
}

func TestRunWithGolden_Scenarios(t *testing.T) {
	for _, name := range []string{"delete_jesse", "rename_sport", "add_player"} {
		t.Run(name, func(t *testing.T) {
			result := RunWithGolden(t, loadTestScenario(t, name), Options{})
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
			assert.NotEmpty(t, result.Fingerprint)
		})
	}
}

func TestRun_Trace(t *testing.T) {
	result, err := Run(context.Background(), loadTestScenario(t, "delete_jesse"), Options{})
	require.NoError(t, err)

	require.Len(t, result.Trace, 3)
	assert.Equal(t, TraceEvent{Step: 0, Do: "appear", Action: "app.Appeared"}, result.Trace[0])
	assert.Equal(t, TraceEvent{Step: 2, Do: "delete", Action: "app.Players"}, result.Trace[2])
}

func TestRun_Deterministic(t *testing.T) {
	for _, name := range []string{"delete_jesse", "rename_sport", "add_player"} {
		sc := loadTestScenario(t, name)
		first, err := Run(context.Background(), sc, Options{})
		require.NoError(t, err)
		second, err := Run(context.Background(), sc, Options{})
		require.NoError(t, err)

		assert.Equal(t, first.Fingerprint, second.Fingerprint, name)
		assert.Equal(t, first.Summary, second.Summary, name)
	}
}

func TestRun_FailedExpectations(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: wrong
steps:
  - do: show
    target: Kody
    expect:
      - type: details
        value: Jesse
assertions:
  - type: count
    count: 9
`))
	require.NoError(t, err)

	result, err := Run(context.Background(), sc, Options{})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, `steps[0]: details [players]: expected "Jesse", got "Kody"`, result.Errors[0])
	assert.Equal(t, "count [players]: expected 9, got 5", result.Errors[1])
}

func TestRun_DeleteConfirmation(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: confirm_delete
steps:
  - do: appear
  - do: present_delete
    target: Greg
    expect:
      - type: modal
        value: delete
  - do: dismiss_destination
    expect:
      - type: modal
        value: none
      - type: contains
        target: Greg
  - do: present_delete
    target: Greg
  - do: confirm_delete
assertions:
  - type: absent
    target: Greg
  - type: modal
    value: none
`))
	require.NoError(t, err)

	result, err := Run(context.Background(), sc, Options{})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_StepError(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: bad_rename
steps:
  - do: appear
  - do: rename
    target: Nobody
    name: Somebody
`))
	require.NoError(t, err)

	_, err = Run(context.Background(), sc, Options{})
	var se *ScenarioError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Step)
	assert.ErrorIs(t, err, app.ErrInvalidStep)
	assert.Contains(t, err.Error(), `scenario "bad_rename": steps[1]:`)
}

func TestRun_MissingSeed(t *testing.T) {
	sc := &Scenario{
		Name:  "no_seed",
		Seed:  filepath.Join(t.TempDir(), "missing.cue"),
		Steps: []Step{{Step: app.Step{Do: app.DoAppear}}},
	}

	_, err := Run(context.Background(), sc, Options{})
	var se *ScenarioError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, -1, se.Step)
}

func TestRun_JournalAndReplay(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	j := db.Journal()
	ctx := context.Background()

	result, err := Run(ctx, loadTestScenario(t, "add_player"), Options{Journal: j})
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)

	run, err := j.Run(ctx, result.RunID)
	require.NoError(t, err)
	assert.True(t, run.Finished)
	assert.Equal(t, result.Fingerprint, run.FinalFingerprint)

	steps, err := j.Steps(ctx, result.RunID)
	require.NoError(t, err)
	assert.Len(t, steps, 9)

	catalog, err := seed.Default()
	require.NoError(t, err)
	replay, err := Replay(ctx, j, result.RunID, catalog, Options{})
	require.NoError(t, err)
	assert.True(t, replay.Match)
	assert.Equal(t, []string{result.Fingerprint, result.Fingerprint}, replay.Fingerprints)

	all, err := ReplayAll(ctx, j, catalog, Options{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReplay_SeedMismatch(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	result, err := Run(ctx, loadTestScenario(t, "delete_jesse"), Options{Journal: db.Journal()})
	require.NoError(t, err)

	other, err := seed.Compile("other.cue", []byte(`players: [{name: "Solo"}]`))
	require.NoError(t, err)
	_, err = Replay(ctx, db.Journal(), result.RunID, other, Options{})
	assert.ErrorContains(t, err, "recorded with seed")

	_, err = Replay(ctx, db.Journal(), "missing", other, Options{})
	assert.True(t, store.IsNotFound(err))
}

func TestSettle_Timeout(t *testing.T) {
	type tick struct{}
	reducer := engine.ReducerFunc[int, tick](func(s int, _ tick) (int, []engine.Effect[tick]) {
		return s + 1, []engine.Effect[tick]{
			engine.Task("block", func(ctx context.Context) (tick, error) {
				<-ctx.Done()
				return tick{}, ctx.Err()
			}),
		}
	})
	st := engine.NewStore(0, reducer)
	t.Cleanup(st.Close)

	st.Send(tick{})
	err := settle(context.Background(), st, nil, time.Millisecond, 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrNotSettled)
}

func TestSettle_Quiet(t *testing.T) {
	reducer := engine.ReducerFunc[int, int](func(s, a int) (int, []engine.Effect[int]) {
		return s + a, nil
	})
	st := engine.NewStore(0, reducer)
	t.Cleanup(st.Close)

	st.Send(1)
	require.NoError(t, settle(context.Background(), st, nil, 5*time.Millisecond, time.Second))
	assert.Equal(t, 1, st.State())
}

func TestSettle_QuotaStopsFeedbackLoop(t *testing.T) {
	type again struct{}
	reducer := engine.ReducerFunc[int, again](func(s int, _ again) (int, []engine.Effect[again]) {
		return s + 1, []engine.Effect[again]{
			engine.Task("again", func(context.Context) (again, error) {
				return again{}, nil
			}),
		}
	})
	st := engine.NewStore(0, reducer)
	t.Cleanup(st.Close)

	quota := engine.NewQuota("steps[0]", 5)
	quota.Start(st.Seq())
	st.Send(again{})

	err := settle(context.Background(), st, quota, 5*time.Millisecond, 5*time.Second)
	require.Error(t, err)
	assert.True(t, engine.IsStepsExceededError(err))
	assert.ErrorContains(t, err, "steps[0] exceeded action quota")
}
