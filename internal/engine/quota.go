package engine

import (
	"errors"
	"fmt"
)

// DefaultMaxActions is the quota used when none is configured.
const DefaultMaxActions = 1000

// Quota bounds how many actions one dispatch may cause, counting the
// actions its effects feed back into the store.
//
// A stream that never stops re-sending keeps the commit sequence moving,
// so a caller waiting for the store to go quiet would only ever time out.
// The quota turns that into a StepsExceededError naming the cause.
//
// Quota measures against Store.Seq and is not safe for concurrent use.
type Quota struct {
	label string
	limit int64
	base  int64
}

// NewQuota creates a quota allowing limit commits per dispatch. A limit
// below one falls back to DefaultMaxActions.
func NewQuota(label string, limit int) *Quota {
	if limit < 1 {
		limit = DefaultMaxActions
	}
	return &Quota{label: label, limit: int64(limit)}
}

// Start marks seq as the sequence number before the dispatch.
func (q *Quota) Start(seq int64) {
	q.base = seq
}

// Check returns a *StepsExceededError once seq is more than the limit
// past the start mark.
func (q *Quota) Check(seq int64) error {
	if used := q.Used(seq); used > q.limit {
		return &StepsExceededError{Label: q.label, Steps: used, Limit: q.limit}
	}
	return nil
}

// Used returns the commits seen since Start.
func (q *Quota) Used(seq int64) int64 {
	return seq - q.base
}

// Limit returns the maximum commits per dispatch.
func (q *Quota) Limit() int64 {
	return q.limit
}

// StepsExceededError is returned when one dispatch causes more commits
// than its quota allows.
type StepsExceededError struct {
	Label string
	Steps int64
	Limit int64
}

func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("%s exceeded action quota: %d commits > %d limit", e.Label, e.Steps, e.Limit)
}

// IsStepsExceededError reports whether err wraps a *StepsExceededError.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
