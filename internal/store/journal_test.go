package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStep struct {
	Do     string `json:"do"`
	Target string `json:"target,omitempty"`
}

func TestJournal_RecordAndRead(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	j := s.Journal()

	id, err := j.BeginRun(ctx, "delete-jesse", "seed-fp")
	require.NoError(t, err)

	require.NoError(t, j.Append(ctx, id, 2, testStep{Do: "delete", Target: "Jesse"}))
	require.NoError(t, j.Append(ctx, id, 1, testStep{Do: "show", Target: "Jesse"}))
	require.NoError(t, j.Append(ctx, id, 1, testStep{Do: "ignored"}))
	require.NoError(t, j.Finish(ctx, id, "final-fp"))

	run, err := j.Run(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Run{
		ID:               id,
		Seq:              1,
		Scenario:         "delete-jesse",
		SeedFingerprint:  "seed-fp",
		FinalFingerprint: "final-fp",
		Finished:         true,
	}, run)

	steps, err := j.Steps(ctx, id)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.JSONEq(t, `{"do":"show","target":"Jesse"}`, string(steps[0].Body))

	var step testStep
	require.NoError(t, steps[1].Decode(&step))
	assert.Equal(t, testStep{Do: "delete", Target: "Jesse"}, step)
}

func TestJournal_RunsInOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	j := s.Journal()

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		id, err := j.BeginRun(ctx, name, "fp")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := j.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for i, r := range runs {
		assert.Equal(t, ids[i], r.ID)
		assert.Equal(t, int64(i+1), r.Seq)
		assert.False(t, r.Finished)
	}
}

func TestJournal_NotFound(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	j := s.Journal()

	_, err := j.Run(ctx, "missing")
	assert.True(t, IsNotFound(err))

	err = j.Finish(ctx, "missing", "fp")
	assert.True(t, IsNotFound(err))

	steps, err := j.Steps(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestJournal_StepsNeedRun(t *testing.T) {
	s := createTestStore(t)

	err := s.Journal().Append(context.Background(), "missing", 1, testStep{Do: "show"})
	assert.Error(t, err, "foreign keys are enforced")
}
