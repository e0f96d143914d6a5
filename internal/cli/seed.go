package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/ambassador/internal/db"
	"github.com/example/ambassador/internal/wire"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "seed",
		Short:  "Load development fixtures into an empty database",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overview, err := wire.StatisticsService().Overview(cmd.Context())
			if err != nil {
				return err
			}
			if overview.ActivePersons+overview.InactivePersons+overview.Engagements > 0 {
				return fmt.Errorf("database is not empty; seed only runs on a fresh database")
			}

			if err := db.SeedFixtures(wire.DB()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Seeded 5 ambassadors, 6 engagements and 5 assignments")
			return nil
		},
	}
}
