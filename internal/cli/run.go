package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/navsplit/internal/harness"
	"github.com/roach88/navsplit/internal/seed"
	"github.com/roach88/navsplit/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Seed     string
}

// RunReport is the JSON payload of the run command.
type RunReport struct {
	Scenario string `json:"scenario"`
	*harness.Result
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scenario and print the final state",
		Long: `Execute a scenario file against a fresh seed catalog.

Every step is decoded into an action, sent to the store and allowed to
settle before its expectations are checked. The final state summary and
fingerprint are printed. With --db the run is journaled for replay.

Exit codes:
  0 - Scenario passed
  1 - Expectations failed or a step could not run
  2 - Command error (missing file, bad seed, database error)

Example:
  navsplit run ./scenarios/delete_jesse.yaml
  navsplit run --db ./navsplit.db ./scenarios/delete_jesse.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "journal the run into this SQLite database")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "seed catalog overriding the scenario's own")

	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return fail(f, ExitCommandError, ErrCodeInvalidScenario, "load scenario", err)
	}

	catalog, err := catalogFor(opts.RootOptions, opts.Seed, scenario)
	if err != nil {
		return fail(f, ExitCommandError, ErrCodeInvalidSeed, "load seed", err)
	}

	hopts := harness.Options{Catalog: catalog, Logger: slog.Default()}
	if dbPath := opts.databasePath(opts.Database); dbPath != "" {
		st, closeStore, err := openStore(dbPath)
		if err != nil {
			return fail(f, ExitCommandError, ErrCodeDatabase, "open database", err)
		}
		defer closeStore()
		hopts.Journal = st.Journal()
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	slog.Info("running scenario", "scenario", scenario.Name, "steps", len(scenario.Steps))
	result, err := harness.Run(ctx, scenario, hopts)
	if err != nil {
		return fail(f, ExitFailure, ErrCodeScenarioFailed, "run scenario", err)
	}

	report := RunReport{Scenario: scenario.Name, Result: result}
	if f.JSON() {
		if result.Pass {
			return f.Success(report)
		}
		_ = f.Failure(ErrCodeScenarioFailed, fmt.Sprintf("scenario %s failed", scenario.Name), report)
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}

	writeRunText(f.Writer, report, opts.Verbose)
	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}
	return nil
}

func writeRunText(w io.Writer, r RunReport, verbose bool) {
	if verbose {
		for _, ev := range r.Trace {
			fmt.Fprintf(w, "step %d: %s -> %s\n", ev.Step, ev.Do, ev.Action)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, r.Summary)
	fmt.Fprintln(w)

	if r.Pass {
		fmt.Fprintf(w, "✓ %s passed\n", r.Scenario)
	} else {
		fmt.Fprintf(w, "✗ %s failed\n", r.Scenario)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintf(w, "fingerprint: %s\n", r.Fingerprint)
	if r.RunID != "" {
		fmt.Fprintf(w, "run: %s\n", r.RunID)
	}
}

// catalogFor returns the catalog overriding the scenario's seed, or nil
// to let the harness load the scenario's own. Precedence: flag, the
// scenario's seed, config.
func catalogFor(opts *RootOptions, flag string, s *harness.Scenario) (*seed.Catalog, error) {
	path := flag
	if path == "" && s.Seed == "" {
		path = opts.Config.Seed.Path
	}
	if path == "" {
		return nil, nil
	}
	return seed.Load(path)
}

// signalContext is the command context, cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// journalOf opens the journal at path for commands that require one.
func journalOf(path string) (*store.Journal, func(), error) {
	st, closeStore, err := openStore(path)
	if err != nil {
		return nil, nil, err
	}
	return st.Journal(), closeStore, nil
}
