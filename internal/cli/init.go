package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/ambassador/internal/config"
	"github.com/example/ambassador/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file and initialize the database",
		Long: `Write .ambassador/config.json in the config directory and create the
database with the current schema. An existing config file is left alone
unless --force is given.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipWire: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("config-dir")
			force, _ := cmd.Flags().GetBool("force")
			out := cmd.OutOrStdout()

			path := config.Path(dir)
			_, statErr := os.Stat(path)
			switch {
			case statErr == nil && !force:
				fmt.Fprintf(out, "Config already exists at %s (use --force to overwrite)\n", path)
			case statErr == nil || errors.Is(statErr, os.ErrNotExist):
				cfg := config.Default()
				if v := changedString(cmd, "database"); v != nil {
					cfg.DatabasePath = *v
				}
				if v := changedInt(cmd, "capacity"); v != nil {
					cfg.EngagementCapacity = *v
				}
				if v := changedString(cmd, "delimiter"); v != nil {
					cfg.CSVDelimiter = *v
				}
				if v := changedString(cmd, "backup-dir"); v != nil {
					cfg.BackupDir = *v
				}
				if err := config.Save(dir, cfg); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Config written to %s\n", path)
			default:
				return fmt.Errorf("failed to check %s: %w", path, statErr)
			}

			if err := wire.Init(); err != nil {
				return err
			}

			loaded := wire.Config()
			fmt.Fprintf(out, "✓ Database ready at %s\n", loaded.DatabasePath)
			fmt.Fprintf(out, "  Engagement capacity: %d students\n", loaded.EngagementCapacity)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  ambassador person register --first-name Lena --last-name Hoffmann --sector ihk")
			fmt.Fprintln(out, "  ambassador engagement create --date 2025-03-14 --school \"Realschule am Park\" --students 90")

			return nil
		},
	}

	cmd.Flags().String("database", "", "Database file (default: ~/.ambassador/ambassador.db)")
	cmd.Flags().Int("capacity", 0, "Maximum students per engagement")
	cmd.Flags().String("delimiter", "", "CSV delimiter")
	cmd.Flags().String("backup-dir", "", "Backup directory")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")

	return cmd
}
