package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Run is one recorded scenario execution.
type Run struct {
	ID               string `json:"id"`
	Seq              int64  `json:"seq"`
	Scenario         string `json:"scenario"`
	SeedFingerprint  string `json:"seed_fingerprint"`
	FinalFingerprint string `json:"final_fingerprint"`
	Finished         bool   `json:"finished"`
}

// StepRecord is one journaled step. Body is the step's canonical JSON.
type StepRecord struct {
	RunID string          `json:"run_id"`
	Seq   int64           `json:"seq"`
	Body  json.RawMessage `json:"body"`
}

// Journal records scenario runs so they can be replayed.
type Journal struct {
	store *Store
}

// Journal returns the run journal kept in s.
func (s *Store) Journal() *Journal {
	return &Journal{store: s}
}

// BeginRun records the start of a run and returns its id.
func (j *Journal) BeginRun(ctx context.Context, scenario, seedFingerprint string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	_, err = j.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, seq, scenario, seed_fingerprint)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?)
	`, id.String(), scenario, seedFingerprint)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id.String(), nil
}

// Append records step as the seq'th step of run. Re-appending an existing
// seq is silently ignored.
func (j *Journal) Append(ctx context.Context, runID string, seq int64, step any) error {
	body, err := marshalBody(step)
	if err != nil {
		return fmt.Errorf("append step: %w", err)
	}
	_, err = j.store.db.ExecContext(ctx, `
		INSERT INTO steps (run_id, seq, body)
		VALUES (?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`, runID, seq, body)
	if err != nil {
		return fmt.Errorf("append step: %w", err)
	}
	return nil
}

// Finish records the final state fingerprint of run.
func (j *Journal) Finish(ctx context.Context, runID, finalFingerprint string) error {
	res, err := j.store.db.ExecContext(ctx, `
		UPDATE runs SET final_fingerprint = ?, finished = 1 WHERE id = ?
	`, finalFingerprint, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Kind: "run", ID: runID}
	}
	return nil
}

// Runs returns every recorded run in the order they began.
func (j *Journal) Runs(ctx context.Context) ([]Run, error) {
	rows, err := j.store.db.QueryContext(ctx, `
		SELECT id, seq, scenario, seed_fingerprint, final_fingerprint, finished
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seq, &r.Scenario, &r.SeedFingerprint, &r.FinalFingerprint, &r.Finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Run returns the run with id, or a *NotFoundError.
func (j *Journal) Run(ctx context.Context, id string) (Run, error) {
	var r Run
	err := j.store.db.QueryRowContext(ctx, `
		SELECT id, seq, scenario, seed_fingerprint, final_fingerprint, finished
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.Seq, &r.Scenario, &r.SeedFingerprint, &r.FinalFingerprint, &r.Finished)
	if err != nil {
		if isNoRows(err) {
			return r, &NotFoundError{Kind: "run", ID: id}
		}
		return r, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// Steps returns the steps of run in order.
func (j *Journal) Steps(ctx context.Context, runID string) ([]StepRecord, error) {
	rows, err := j.store.db.QueryContext(ctx, `
		SELECT run_id, seq, body
		FROM steps
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []StepRecord{}
	for rows.Next() {
		var rec StepRecord
		var body string
		if err := rows.Scan(&rec.RunID, &rec.Seq, &body); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		rec.Body = json.RawMessage(body)
		steps = append(steps, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

// Decode unmarshals the step body into out.
func (r StepRecord) Decode(out any) error {
	return unmarshalBody(string(r.Body), out)
}
