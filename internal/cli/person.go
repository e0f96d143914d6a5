package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/ambassador/internal/ports/primary"
	"github.com/example/ambassador/internal/wire"
)

// PersonCmd returns the person command
func PersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "person",
		Aliases: []string{"ambassador"},
		Short:   "Manage ambassadors",
		Long:    `Register, update, deactivate and remove apprenticeship ambassadors.`,
	}

	cmd.AddCommand(personRegisterCmd())
	cmd.AddCommand(personListCmd())
	cmd.AddCommand(personShowCmd())
	cmd.AddCommand(personUpdateCmd())
	cmd.AddCommand(personSetActiveCmd("deactivate", false))
	cmd.AddCommand(personSetActiveCmd("activate", true))
	cmd.AddCommand(personDeleteCmd())

	return cmd
}

// addPersonFieldFlags registers the editable person fields shared by
// register and update.
func addPersonFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("reference", "", "Chamber reference code")
	cmd.Flags().String("first-name", "", "First name")
	cmd.Flags().String("last-name", "", "Last name")
	cmd.Flags().String("gender", "", "Gender (m, w, d)")
	cmd.Flags().String("birth-date", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().String("occupation", "", "Trained occupation")
	cmd.Flags().String("sector", "", "Sector (chamber_of_industry, chamber_of_trade, other)")
	cmd.Flags().String("mobile", "", "Mobile number")
	cmd.Flags().String("email-work", "", "Work email")
	cmd.Flags().String("email-private", "", "Private email")
	cmd.Flags().String("phone-work", "", "Work phone")
	cmd.Flags().String("phone-private", "", "Private phone")
	cmd.Flags().Bool("contact-allowed", false, "Ambassador may be contacted directly")
	cmd.Flags().String("company", "", "Training company")
	cmd.Flags().String("district", "", "District of the training company")
	cmd.Flags().String("notes", "", "Free-form notes")
}

func personRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new ambassador",
		Long: `Register a new ambassador. Sector aliases such as "ihk" or "hwk" are accepted.

Examples:
  ambassador person register --first-name Lena --last-name Hoffmann --sector ihk
  ambassador person register --first-name Mia --last-name Schulz --sector hwk --birth-date 2004-01-25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			str := func(name string) string {
				v, _ := flags.GetString(name)
				return v
			}
			contact, _ := flags.GetBool("contact-allowed")
			inactive, _ := flags.GetBool("inactive")

			req := primary.CreatePersonRequest{
				ReferenceCode:        str("reference"),
				FirstName:            str("first-name"),
				LastName:             str("last-name"),
				Gender:               str("gender"),
				BirthDate:            str("birth-date"),
				Occupation:           str("occupation"),
				Sector:               str("sector"),
				Mobile:               str("mobile"),
				EmailWork:            str("email-work"),
				EmailPrivate:         str("email-private"),
				PhoneWork:            str("phone-work"),
				PhonePrivate:         str("phone-private"),
				DirectContactAllowed: contact,
				Company:              str("company"),
				CompanyDistrict:      str("district"),
				Notes:                str("notes"),
				Inactive:             inactive,
			}

			_, err := wire.PersonAdapter().Register(cmd.Context(), req)
			return err
		},
	}

	addPersonFieldFlags(cmd)
	cmd.Flags().Bool("inactive", false, "Register as deactivated")

	return cmd
}

func personListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ambassadors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			sector, _ := cmd.Flags().GetString("sector")
			district, _ := cmd.Flags().GetString("district")
			search, _ := cmd.Flags().GetString("search")

			active, err := parseStatus(status)
			if err != nil {
				return err
			}

			_, err = wire.PersonAdapter().List(cmd.Context(), primary.PersonListRequest{
				Active:   active,
				Sector:   sector,
				District: district,
				Search:   search,
				Page:     pageRequest(cmd),
			})
			return err
		},
	}

	cmd.Flags().StringP("status", "s", "all", "Filter by status (active, inactive, all)")
	cmd.Flags().String("sector", "", "Filter by sector")
	cmd.Flags().String("district", "", "Filter by company district")
	cmd.Flags().StringP("search", "q", "", "Search name, occupation and company")
	addPageFlags(cmd)

	return cmd
}

func personShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [person-id]",
		Short: "Show ambassador details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "person"); err != nil {
				return err
			}
			_, err := wire.PersonAdapter().Show(cmd.Context(), args[0])
			return err
		},
	}
}

func personUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [person-id]",
		Short: "Update ambassador fields",
		Long: `Update the given fields of an ambassador. Fields without a flag stay unchanged;
an empty value clears an optional field.

Examples:
  ambassador person update AMB-001 --company "Nordwerk GmbH" --district Lüneburg
  ambassador person update AMB-002 --email-private ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "person"); err != nil {
				return err
			}

			req := primary.UpdatePersonRequest{
				PersonID:             args[0],
				ReferenceCode:        changedString(cmd, "reference"),
				FirstName:            changedString(cmd, "first-name"),
				LastName:             changedString(cmd, "last-name"),
				Gender:               changedString(cmd, "gender"),
				BirthDate:            changedString(cmd, "birth-date"),
				Occupation:           changedString(cmd, "occupation"),
				Sector:               changedString(cmd, "sector"),
				Mobile:               changedString(cmd, "mobile"),
				EmailWork:            changedString(cmd, "email-work"),
				EmailPrivate:         changedString(cmd, "email-private"),
				PhoneWork:            changedString(cmd, "phone-work"),
				PhonePrivate:         changedString(cmd, "phone-private"),
				DirectContactAllowed: changedBool(cmd, "contact-allowed"),
				Company:              changedString(cmd, "company"),
				CompanyDistrict:      changedString(cmd, "district"),
				Notes:                changedString(cmd, "notes"),
			}

			_, err := wire.PersonAdapter().Update(cmd.Context(), req)
			return err
		},
	}

	addPersonFieldFlags(cmd)

	return cmd
}

func personSetActiveCmd(use string, active bool) *cobra.Command {
	short := "Deactivate an ambassador (kept for statistics, hidden from assignment)"
	if active {
		short = "Reactivate an ambassador"
	}

	return &cobra.Command{
		Use:   use + " [person-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "person"); err != nil {
				return err
			}
			_, err := wire.PersonAdapter().SetActive(cmd.Context(), args[0], active)
			return err
		},
	}
}

func personDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [person-id]",
		Short: "Delete an ambassador and all of its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "person"); err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf("deleting %s also removes its assignments; re-run with --force (or use 'person deactivate')", args[0])
			}
			return wire.PersonAdapter().Delete(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Confirm deletion")

	return cmd
}

// parseStatus maps a status filter to the tri-state Active filter.
func parseStatus(status string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", "all":
		return nil, nil
	case "active":
		v := true
		return &v, nil
	case "inactive":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("invalid status %q (want active, inactive or all)", status)
	}
}
