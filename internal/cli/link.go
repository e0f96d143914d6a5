package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/ambassador/internal/ports/primary"
	"github.com/example/ambassador/internal/wire"
)

// LinkCmd returns the link command
func LinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "link",
		Aliases: []string{"assign"},
		Short:   "Assign ambassadors to engagements",
		Long:    `Create, inspect and remove assignments between ambassadors and engagements.`,
	}

	cmd.AddCommand(linkAddCmd())
	cmd.AddCommand(linkRemoveCmd())
	cmd.AddCommand(linkBulkAddCmd())
	cmd.AddCommand(linkBulkAddPersonCmd())
	cmd.AddCommand(linkAvailableCmd())
	cmd.AddCommand(linkListCmd())
	cmd.AddCommand(linkShowCmd())
	cmd.AddCommand(linkNoteCmd())

	return cmd
}

func validatePair(personID, engagementID string) error {
	if err := validateEntityID(personID, "person"); err != nil {
		return err
	}
	return validateEntityID(engagementID, "engagement")
}

func linkAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [person-id] [engagement-id]",
		Short: "Assign one ambassador to one engagement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePair(args[0], args[1]); err != nil {
				return err
			}
			note, _ := cmd.Flags().GetString("note")

			_, err := wire.LinkAdapter().Add(cmd.Context(), primary.CreateLinkRequest{
				PersonID:     args[0],
				EngagementID: args[1],
				Note:         note,
			})
			return err
		},
	}

	cmd.Flags().StringP("note", "n", "", "Note on the assignment")

	return cmd
}

func linkRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [person-id] [engagement-id]",
		Short: "Remove an assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePair(args[0], args[1]); err != nil {
				return err
			}
			_, err := wire.LinkAdapter().Remove(cmd.Context(), args[0], args[1])
			return err
		},
	}
}

func linkBulkAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk-add [engagement-id] [person-id...]",
		Short: "Assign several ambassadors to one engagement",
		Long: `Assign several ambassadors to one engagement. Ambassadors already assigned
are skipped. Nothing is written when any ID does not exist.

Example:
  ambassador link bulk-add ENG-001 AMB-001 AMB-002 AMB-003`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "engagement"); err != nil {
				return err
			}
			if err := validateEntityIDs(args[1:], "person"); err != nil {
				return err
			}
			note, _ := cmd.Flags().GetString("note")

			_, err := wire.LinkAdapter().BulkAdd(cmd.Context(), primary.BulkLinkRequest{
				EngagementID: args[0],
				PersonIDs:    args[1:],
				Note:         note,
			})
			return err
		},
	}

	cmd.Flags().StringP("note", "n", "", "Note on every assignment")

	return cmd
}

func linkBulkAddPersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk-add-person [person-id] [engagement-id...]",
		Short: "Assign one ambassador to several engagements",
		Long: `Assign one ambassador to several engagements, for example every part of
a split visit. Engagements already assigned are skipped.

Example:
  ambassador link bulk-add-person AMB-001 ENG-001 ENG-002 ENG-003`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "person"); err != nil {
				return err
			}
			if err := validateEntityIDs(args[1:], "engagement"); err != nil {
				return err
			}
			note, _ := cmd.Flags().GetString("note")

			_, err := wire.LinkAdapter().BulkAddForPerson(cmd.Context(), primary.BulkPersonLinkRequest{
				PersonID:      args[0],
				EngagementIDs: args[1:],
				Note:          note,
			})
			return err
		},
	}

	cmd.Flags().StringP("note", "n", "", "Note on every assignment")

	return cmd
}

func linkAvailableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "available",
		Short: "List ambassadors or engagements that can still be assigned",
		Long: `With --engagement, list active ambassadors not yet on that engagement.
With --person, list engagements that ambassador is not yet on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			personID, _ := cmd.Flags().GetString("person")
			engagementID, _ := cmd.Flags().GetString("engagement")

			switch {
			case engagementID != "" && personID == "":
				if err := validateEntityID(engagementID, "engagement"); err != nil {
					return err
				}
				_, err := wire.LinkAdapter().AvailablePersons(cmd.Context(), engagementID)
				return err
			case personID != "" && engagementID == "":
				if err := validateEntityID(personID, "person"); err != nil {
					return err
				}
				_, err := wire.LinkAdapter().AvailableEngagements(cmd.Context(), personID)
				return err
			default:
				return errors.New("specify exactly one of --person or --engagement")
			}
		},
	}

	cmd.Flags().StringP("person", "p", "", "Person ID")
	cmd.Flags().StringP("engagement", "e", "", "Engagement ID")

	return cmd
}

func linkListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			personID, _ := cmd.Flags().GetString("person")
			engagementID, _ := cmd.Flags().GetString("engagement")
			if err := validatePair(personID, engagementID); err != nil {
				return err
			}

			_, err := wire.LinkAdapter().List(cmd.Context(), primary.LinkListRequest{
				PersonID:     personID,
				EngagementID: engagementID,
				Page:         pageRequest(cmd),
			})
			return err
		},
	}

	cmd.Flags().StringP("person", "p", "", "Only assignments of this ambassador")
	cmd.Flags().StringP("engagement", "e", "", "Only assignments on this engagement")
	addPageFlags(cmd)

	return cmd
}

func linkShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [person-id] [engagement-id]",
		Short: "Show one assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePair(args[0], args[1]); err != nil {
				return err
			}
			_, err := wire.LinkAdapter().Show(cmd.Context(), args[0], args[1])
			return err
		},
	}
}

func linkNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note [person-id] [engagement-id] [note]",
		Short: "Replace the note of an assignment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePair(args[0], args[1]); err != nil {
				return err
			}
			_, err := wire.LinkAdapter().Note(cmd.Context(), args[0], args[1], args[2])
			return err
		},
	}
}
