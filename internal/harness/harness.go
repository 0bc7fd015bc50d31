package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/app"
	"github.com/roach88/navsplit/internal/model"
	"github.com/roach88/navsplit/internal/seed"
	"github.com/roach88/navsplit/internal/store"
)

// Defaults for Options.
const (
	DefaultQuiet   = 20 * time.Millisecond
	DefaultTimeout = 5 * time.Second
)

// ErrNotSettled is wrapped when effects keep running past the timeout.
var ErrNotSettled = errors.New("state did not settle")

// Options configures Run.
type Options struct {
	// Catalog overrides the scenario's seed.
	Catalog *seed.Catalog

	// Journal, when set, records the run.
	Journal *store.Journal

	// Logger receives engine logs. Default: discarded.
	Logger *slog.Logger

	// Quiet is how long the state must stay unchanged after a step.
	Quiet time.Duration

	// Timeout bounds the wait after each step.
	Timeout time.Duration

	// MaxActions bounds the commits one step may cause.
	// Default: engine.DefaultMaxActions.
	MaxActions int
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Quiet <= 0 {
		o.Quiet = DefaultQuiet
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

type runner struct {
	scenario *Scenario
	opts     Options
	store    *engine.Store[app.State, app.Action]
	result   *Result
}

// Run executes scenario from a fresh seed and returns the result.
//
// Execution flow:
// 1. Compile the seed catalog and build in-memory providers
// 2. Start a Store over the root reducer
// 3. For every step: decode, send, settle, check expectations, journal
// 4. Check the final assertions and fingerprint the final state
//
// A failed expectation marks the result failed; a step that cannot be
// decoded or never settles aborts the run with a *ScenarioError.
func Run(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	catalog := opts.Catalog
	if catalog == nil {
		var err error
		catalog, err = seed.Load(scenario.Seed)
		if err != nil {
			return nil, &ScenarioError{Scenario: scenario.Name, Step: -1, Err: err}
		}
	}

	reducer := app.New(app.Env{
		Providers: catalog.Providers(),
		IDs:       model.NewSequentialGenerator(scenario.Name),
		Logger:    opts.Logger,
	})
	st := engine.NewStore(catalog.State(), reducer, engine.WithLogger(opts.Logger))
	defer st.Close()

	r := &runner{scenario: scenario, opts: opts, store: st, result: NewResult()}

	if opts.Journal != nil {
		runID, err := opts.Journal.BeginRun(ctx, scenario.Name, catalog.Fingerprint())
		if err != nil {
			return nil, &ScenarioError{Scenario: scenario.Name, Step: -1, Err: err}
		}
		r.result.RunID = runID
	}

	for i, step := range scenario.Steps {
		if err := r.step(ctx, i, step); err != nil {
			return nil, &ScenarioError{Scenario: scenario.Name, Step: i, Err: err}
		}
	}

	for _, failure := range EvaluateAssertions(r.snapshot(), scenario.Assertions) {
		r.result.AddError(failure)
	}

	final := st.State()
	r.result.Summary = app.Summary(final)
	r.result.Fingerprint = model.MustFingerprint(final)

	if opts.Journal != nil {
		if err := opts.Journal.Finish(ctx, r.result.RunID, r.result.Fingerprint); err != nil {
			return nil, &ScenarioError{Scenario: scenario.Name, Step: -1, Err: err}
		}
	}

	opts.Logger.Info("scenario finished",
		"scenario", scenario.Name,
		"steps", len(scenario.Steps),
		"pass", r.result.Pass,
		"fingerprint", r.result.Fingerprint,
	)
	return r.result, nil
}

func (r *runner) step(ctx context.Context, i int, step Step) error {
	action, err := app.DecodeStep(r.store.State(), step.Step)
	if err != nil {
		return err
	}

	quota := engine.NewQuota(fmt.Sprintf("steps[%d]", i), r.opts.MaxActions)
	quota.Start(r.store.Seq())
	r.store.Send(action)
	if err := settle(ctx, r.store, quota, r.opts.Quiet, r.opts.Timeout); err != nil {
		return err
	}
	r.result.AddTrace(i, step.Do, action)

	for _, failure := range EvaluateAssertions(r.snapshot(), step.Expect) {
		r.result.AddError(fmt.Sprintf("steps[%d]: %s", i, failure))
	}

	if r.opts.Journal != nil {
		if err := r.opts.Journal.Append(ctx, r.result.RunID, int64(i+1), step.Step); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) snapshot() Snapshot {
	return Snapshot{State: r.store.State(), Running: r.store.RunningEffects()}
}

// settle waits until no fire-once effect is running and the commit
// sequence has not moved for quiet. A nil quota is unbounded.
func settle[S, A any](ctx context.Context, st *engine.Store[S, A], quota *engine.Quota, quiet, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()

	last := st.Seq()
	stableSince := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w after %s: %d effects busy", ErrNotSettled, timeout, st.Busy())
		case <-tick.C:
			seq := st.Seq()
			if quota != nil {
				if err := quota.Check(seq); err != nil {
					return err
				}
			}
			if seq != last || st.Busy() > 0 {
				last = seq
				stableSince = time.Now()
				continue
			}
			if time.Since(stableSince) >= quiet {
				return nil
			}
		}
	}
}
