package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/ambassador/internal/wire"
)

// BackupCmd returns the backup command
func BackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list and restore database backups",
		Long: `Backups are zip archives holding a consistent copy of the database and a
manifest. Restoring keeps the replaced database next to the live file.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Write a backup archive to the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := wire.BackupService().CreateBackup(cmd.Context())
			if err != nil {
				return err
			}
			wire.ReportAdapterWithOutput(cmd.OutOrStdout()).Backup(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List backup archives, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := wire.BackupService().ListBackups(cmd.Context())
			if err != nil {
				return err
			}
			wire.ReportAdapterWithOutput(cmd.OutOrStdout()).Backups(paths)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore [archive]",
		Short: "Replace the database with a backup",
		Long: `Replace the database with the one in archive. Archives written by a newer
schema are rejected. The replaced database is kept as <db>.before-restore-<timestamp>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := wire.BackupService().RestoreBackup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			wire.ReportAdapterWithOutput(cmd.OutOrStdout()).Restore(result)
			return nil
		},
	})

	return cmd
}
