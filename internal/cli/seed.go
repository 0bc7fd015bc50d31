package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/navsplit/internal/model"
	"github.com/roach88/navsplit/internal/seed"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Seed string
}

// SeedReport is the JSON payload of the seed command.
type SeedReport struct {
	*seed.Catalog
	Fingerprint string `json:"fingerprint"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Print the compiled seed catalog",
		Long: `Compile a CUE seed catalog and print its entities with their
identifiers. Without --seed the configured or embedded catalog is used.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Seed, "seed", "", "CUE seed catalog")
	return cmd
}

func runSeed(opts *SeedOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	catalog, err := seed.Load(opts.seedPath(opts.Seed))
	if err != nil {
		return fail(f, ExitFailure, ErrCodeInvalidSeed, "compile seed", err)
	}

	if f.JSON() {
		return f.Success(SeedReport{Catalog: catalog, Fingerprint: catalog.Fingerprint()})
	}
	writeCatalogText(f.Writer, catalog)
	return nil
}

func writeCatalogText(w io.Writer, c *seed.Catalog) {
	fmt.Fprintf(w, "Players (%d)\n", len(c.Players))
	for _, p := range c.Players {
		fmt.Fprintf(w, "  %s  %s\n", p.ID, p.Name)
	}

	fmt.Fprintf(w, "\nSports (%d)\n", len(c.Sports))
	for _, s := range c.Sports {
		fmt.Fprintf(w, "  %s  %s\n", s.ID, s.Name)
		for _, a := range c.ActivitiesOf(s.ID) {
			fmt.Fprintf(w, "      %s  %s\n", a.ID, a.Name)
		}
	}

	fmt.Fprintf(w, "\nSessions (%d)\n", len(c.Sessions))
	for _, s := range c.Sessions {
		fmt.Fprintf(w, "  %s  %s\n", s.ID, measurements(s))
	}

	fmt.Fprintf(w, "\nfingerprint: %s\n", c.Fingerprint())
}

func measurements(s model.Session) string {
	parts := make([]string, len(s.Measurements))
	for i, m := range s.Measurements {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}
