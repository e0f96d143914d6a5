// Package cli holds the cobra command tree of the ambassador CLI.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/ambassador/internal/ctxutil"
	"github.com/example/ambassador/internal/logging"
	"github.com/example/ambassador/internal/version"
	"github.com/example/ambassador/internal/wire"
)

// skipWire marks commands that run before services can be built.
const skipWire = "skip-wire"

// RootCmd returns the ambassador root command with every subcommand attached.
func RootCmd() *cobra.Command {
	var (
		configDir string
		actor     string
	)

	rootCmd := &cobra.Command{
		Use:     "ambassador",
		Short:   "Ambassador - ledger of apprenticeship ambassadors and their school visits",
		Version: version.String(),
		Long: `Ambassador keeps track of apprenticeship ambassadors, the school visits
(engagements) they take part in, and who went where.

Large visits are split into engagements of at most the configured capacity.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxutil.WithActorID(cmd.Context(), actor)
			cmd.SetContext(ctx)

			wire.SetWorkspace(configDir)
			if cmd.Annotations[skipWire] == "true" {
				return nil
			}
			if err := wire.Init(); err != nil {
				return err
			}
			logging.WithActor(ctx, wire.Logger()).Debug("command started", zapCommand(cmd))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing .ambassador/config.json")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", ctxutil.DefaultActor(), "Operator name recorded in logs and backups")

	// Entity commands
	rootCmd.AddCommand(PersonCmd())
	rootCmd.AddCommand(EngagementCmd())
	rootCmd.AddCommand(LinkCmd())

	// Reporting and data exchange
	rootCmd.AddCommand(StatsCmd())
	rootCmd.AddCommand(ExportCmd())
	rootCmd.AddCommand(ImportCmd())
	rootCmd.AddCommand(BackupCmd())

	// Setup and developer tools
	rootCmd.AddCommand(InitCmd())
	rootCmd.AddCommand(SeedCmd())

	return rootCmd
}
