package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuota_WithinLimit(t *testing.T) {
	q := NewQuota("step 0", 10)
	q.Start(5)

	for seq := int64(5); seq <= 15; seq++ {
		assert.NoError(t, q.Check(seq), "seq %d should be allowed", seq)
	}
	assert.Equal(t, int64(10), q.Used(15))
	assert.Equal(t, int64(10), q.Limit())
}

func TestQuota_ExceedsLimit(t *testing.T) {
	q := NewQuota("step 2", 3)
	q.Start(0)

	err := q.Check(4)
	require.Error(t, err)

	var se *StepsExceededError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "step 2", se.Label)
	assert.Equal(t, int64(4), se.Steps)
	assert.Equal(t, int64(3), se.Limit)
	assert.Equal(t, "step 2 exceeded action quota: 4 commits > 3 limit", err.Error())
}

func TestQuota_StartResets(t *testing.T) {
	q := NewQuota("x", 2)
	q.Start(0)
	require.Error(t, q.Check(3))

	q.Start(3)
	assert.NoError(t, q.Check(5))
}

func TestQuota_DefaultLimit(t *testing.T) {
	assert.Equal(t, int64(DefaultMaxActions), NewQuota("x", 0).Limit())
	assert.Equal(t, int64(DefaultMaxActions), NewQuota("x", -4).Limit())
}

func TestIsStepsExceededError(t *testing.T) {
	err := &StepsExceededError{Label: "x", Steps: 2, Limit: 1}
	assert.True(t, IsStepsExceededError(err))
	assert.True(t, IsStepsExceededError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsStepsExceededError(ErrStoreClosed))
	assert.False(t, IsStepsExceededError(nil))
}
