package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/navsplit/internal/harness"
	"github.com/roach88/navsplit/internal/seed"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
	Seed     string
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []*harness.ReplayResult `json:"runs"`
	TotalRuns        int                     `json:"total_runs"`
	AllDeterministic bool                    `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled runs and verify determinism",
		Long: `Replay journaled scenario runs and verify determinism.

Every finished run is re-executed twice from the seed catalog it was
recorded with. A run is deterministic when both re-executions reach the
recorded final fingerprint.

Exit codes:
  0 - All runs are deterministic
  1 - Determinism verification failed
  2 - Command error (database not found, seed mismatch, etc.)

Examples:
  navsplit replay --db ./navsplit.db
  navsplit replay --db ./navsplit.db --run 0192f6c1-...
  navsplit replay --db ./navsplit.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default database.path)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "seed catalog the runs were recorded with")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	dbPath := opts.databasePath(opts.Database)
	if dbPath == "" {
		return fail(f, ExitCommandError, ErrCodeDatabase, "a database is required (--db or database.path)", nil)
	}
	journal, closeStore, err := journalOf(dbPath)
	if err != nil {
		return fail(f, ExitCommandError, ErrCodeDatabase, "open database", err)
	}
	defer closeStore()

	catalog, err := seed.Load(opts.seedPath(opts.Seed))
	if err != nil {
		return fail(f, ExitCommandError, ErrCodeInvalidSeed, "load seed", err)
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	var runs []*harness.ReplayResult
	if opts.RunID != "" {
		f.VerboseLog("Replaying run %s", opts.RunID)
		res, err := harness.Replay(ctx, journal, opts.RunID, catalog, harness.Options{})
		if err != nil {
			return fail(f, ExitCommandError, ErrCodeGeneric, "replay", err)
		}
		runs = append(runs, res)
	} else {
		runs, err = harness.ReplayAll(ctx, journal, catalog, harness.Options{})
		if err != nil {
			return fail(f, ExitCommandError, ErrCodeGeneric, "replay", err)
		}
	}

	result := ReplayResult{Runs: runs, TotalRuns: len(runs), AllDeterministic: true}
	if result.Runs == nil {
		result.Runs = []*harness.ReplayResult{}
	}
	for _, r := range runs {
		if !r.Match {
			result.AllDeterministic = false
		}
	}

	if f.JSON() {
		if !result.AllDeterministic {
			_ = f.Failure(ErrCodeNonDeterministic, "determinism verification failed", result)
			return NewExitError(ExitFailure, "determinism verification failed")
		}
		return f.Success(result)
	}

	writeReplayText(f.Writer, result, opts.Verbose)
	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

func writeReplayText(w io.Writer, result ReplayResult, verbose bool) {
	if result.TotalRuns == 0 {
		fmt.Fprintln(w, "No finished runs in journal.")
		return
	}
	for _, r := range result.Runs {
		mark := "✓"
		if !r.Match {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s (%s)\n", mark, r.Run.Scenario, r.Run.ID)
		if verbose || !r.Match {
			fmt.Fprintf(w, "  recorded: %s\n", r.Run.FinalFingerprint)
			for i, fp := range r.Fingerprints {
				fmt.Fprintf(w, "  replay %d: %s\n", i+1, fp)
			}
		}
	}
	fmt.Fprintln(w)
	if result.AllDeterministic {
		fmt.Fprintf(w, "✓ %d run(s) deterministic\n", result.TotalRuns)
	} else {
		fmt.Fprintln(w, "✗ Determinism verification failed")
	}
}
