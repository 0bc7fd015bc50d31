package harness

import (
	"context"
	"fmt"

	"github.com/roach88/navsplit/internal/feature/app"
	"github.com/roach88/navsplit/internal/seed"
	"github.com/roach88/navsplit/internal/store"
)

// ReplayResult reports whether a journaled run is reproducible.
type ReplayResult struct {
	Run store.Run `json:"run"`

	// Fingerprints holds the final fingerprint of each re-execution.
	Fingerprints []string `json:"fingerprints"`

	// Match is true when every re-execution reached the recorded
	// fingerprint.
	Match bool `json:"match"`
}

// Replay re-executes the journaled run twice from catalog and compares the
// final fingerprints with the recorded one. The catalog must be the one
// the run was recorded with.
func Replay(ctx context.Context, j *store.Journal, runID string, catalog *seed.Catalog, opts Options) (*ReplayResult, error) {
	run, err := j.Run(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !run.Finished {
		return nil, fmt.Errorf("run %s did not finish", runID)
	}
	if fp := catalog.Fingerprint(); fp != run.SeedFingerprint {
		return nil, fmt.Errorf("run %s was recorded with seed %s, have %s", runID, run.SeedFingerprint, fp)
	}

	records, err := j.Steps(ctx, runID)
	if err != nil {
		return nil, err
	}
	scenario := &Scenario{Name: run.Scenario}
	for _, rec := range records {
		var step app.Step
		if err := rec.Decode(&step); err != nil {
			return nil, fmt.Errorf("run %s step %d: %w", runID, rec.Seq, err)
		}
		scenario.Steps = append(scenario.Steps, Step{Step: step})
	}

	opts.Catalog = catalog
	opts.Journal = nil

	result := &ReplayResult{Run: run, Match: true}
	for range 2 {
		res, err := Run(ctx, scenario, opts)
		if err != nil {
			return nil, err
		}
		result.Fingerprints = append(result.Fingerprints, res.Fingerprint)
		if res.Fingerprint != run.FinalFingerprint {
			result.Match = false
		}
	}
	return result, nil
}

// ReplayAll replays every finished run in the journal.
func ReplayAll(ctx context.Context, j *store.Journal, catalog *seed.Catalog, opts Options) ([]*ReplayResult, error) {
	runs, err := j.Runs(ctx)
	if err != nil {
		return nil, err
	}
	var results []*ReplayResult
	for _, run := range runs {
		if !run.Finished {
			continue
		}
		res, err := Replay(ctx, j, run.ID, catalog, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
