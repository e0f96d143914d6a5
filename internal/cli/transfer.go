package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/ambassador/internal/ports/primary"
	"github.com/example/ambassador/internal/wire"
)

type exportFunc func(ctx context.Context, w io.Writer) (int, error)

type importFunc func(ctx context.Context, r io.Reader) (*primary.ImportResult, error)

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export data as CSV",
		Long: `Write persons, engagements or links as CSV (UTF-8 with BOM, delimiter from
config) to a file or stdout.

Examples:
  ambassador export persons -o ambassadors.csv
  ambassador export links > links.csv`,
	}

	cmd.AddCommand(exportEntityCmd("persons", "Export every ambassador",
		func(ctx context.Context, w io.Writer) (int, error) { return wire.TransferService().ExportPersons(ctx, w) }))
	cmd.AddCommand(exportEntityCmd("engagements", "Export every engagement",
		func(ctx context.Context, w io.Writer) (int, error) { return wire.TransferService().ExportEngagements(ctx, w) }))
	cmd.AddCommand(exportEntityCmd("links", "Export every assignment",
		func(ctx context.Context, w io.Writer) (int, error) { return wire.TransferService().ExportLinks(ctx, w) }))

	return cmd
}

func exportEntityCmd(use, short string, export exportFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			if output == "" || output == "-" {
				n, err := export(cmd.Context(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d %s\n", n, use)
				return nil
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			n, err := export(cmd.Context(), f)
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("failed to write %s: %w", output, closeErr)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d %s to %s\n", n, use, output)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	return cmd
}

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import data from CSV",
		Long: `Read persons or engagements from CSV. Every valid row is imported; rejected
rows are reported with their row number. Oversized visits are split.

Examples:
  ambassador import persons ambassadors.csv
  ambassador import engagements visits.csv`,
	}

	cmd.AddCommand(importEntityCmd("persons", "person",
		func(ctx context.Context, r io.Reader) (*primary.ImportResult, error) {
			return wire.TransferService().ImportPersons(ctx, r)
		}))
	cmd.AddCommand(importEntityCmd("engagements", "engagement",
		func(ctx context.Context, r io.Reader) (*primary.ImportResult, error) {
			return wire.TransferService().ImportEngagements(ctx, r)
		}))

	return cmd
}

func importEntityCmd(use, entity string, importer importFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [file]",
		Short: fmt.Sprintf("Import %s from a CSV file", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			result, err := importer(cmd.Context(), f)
			if err != nil {
				return err
			}

			wire.ReportAdapterWithOutput(cmd.OutOrStdout()).Import(entity, result)
			return nil
		},
	}
}
