package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/navsplit/internal/engine"
	"github.com/roach88/navsplit/internal/feature/app"
	"github.com/roach88/navsplit/internal/model"
	"github.com/roach88/navsplit/internal/seed"
	"github.com/roach88/navsplit/internal/store"
	"github.com/roach88/navsplit/internal/tui"
)

// TUIOptions holds flags for the tui command.
type TUIOptions struct {
	*RootOptions
	Database string
	Seed     string
}

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TUIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit the catalog interactively",
		Long: `Open the interactive split view.

With --db (or database.path) entities live in SQLite and survive restarts;
an empty database is filled from the seed catalog first. Without a
database the seed catalog is edited in memory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "CUE seed catalog")
	return cmd
}

func runTUI(opts *TUIOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx, stop := signalContext(cmd)
	defer stop()

	st, cleanup, err := openTUIStore(ctx, opts)
	if err != nil {
		return fail(f, ExitCommandError, ErrCodeGeneric, "prepare store", err)
	}
	defer cleanup()

	if err := tui.Run(ctx, st); err != nil {
		return WrapExitError(ExitFailure, "tui", err)
	}
	return nil
}

// openTUIStore builds the engine store the UI drives. Engine and binding
// logs are discarded because the UI owns the terminal.
func openTUIStore(ctx context.Context, opts *TUIOptions) (*tui.Store, func(), error) {
	catalog, err := seed.Load(opts.seedPath(opts.Seed))
	if err != nil {
		return nil, nil, err
	}

	env := app.Env{Providers: catalog.Providers()}
	state := catalog.State()
	cleanup := func() {}

	if dbPath := opts.databasePath(opts.Database); dbPath != "" {
		db, closeDB, err := openStore(dbPath)
		if err != nil {
			return nil, nil, err
		}
		state, err = storedState(ctx, db, catalog)
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		env.Providers = db.Providers()
		cleanup = closeDB
	}
	state.DestinationTag = app.Tag(opts.Config.UI.Tag)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.Logger = quiet
	st := engine.NewStore(state, app.New(env), engine.WithLogger(quiet))
	return st, func() {
		st.Close()
		cleanup()
	}, nil
}

// storedState installs catalog into an empty database and returns the
// state the database holds.
func storedState(ctx context.Context, db *store.Store, catalog *seed.Catalog) (app.State, error) {
	empty, err := db.Empty(ctx)
	if err != nil {
		return app.State{}, err
	}
	if empty {
		slog.Info("installing seed catalog", "players", len(catalog.Players), "sports", len(catalog.Sports))
		if err := catalog.Install(ctx, db.Providers()); err != nil {
			return app.State{}, err
		}
	}

	players, err := store.Entities[model.Player](db, model.KindPlayer).List(ctx)
	if err != nil {
		return app.State{}, err
	}
	sports, err := store.Entities[model.Sport](db, model.KindSport).List(ctx)
	if err != nil {
		return app.State{}, err
	}
	sessions, err := store.Entities[model.Session](db, model.KindSession).List(ctx)
	if err != nil {
		return app.State{}, err
	}
	return app.NewState(players, sports, sessions), nil
}
