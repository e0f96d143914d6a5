package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/ambassador/internal/wire"
)

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics",
		Long:  `Ledger-wide counts and per-engagement or per-ambassador rollups.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "overview",
		Short: "Show ledger-wide counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.ReportAdapter().Overview(cmd.Context())
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "engagement [engagement-id]",
		Short: "Show who was assigned to an engagement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "engagement"); err != nil {
				return err
			}
			_, err := wire.ReportAdapter().Engagement(cmd.Context(), args[0])
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "person [person-id]",
		Short: "Show the visits of an ambassador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "person"); err != nil {
				return err
			}
			_, err := wire.ReportAdapter().Person(cmd.Context(), args[0])
			return err
		},
	})

	return cmd
}
