package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/ambassador/internal/ports/primary"
	"github.com/example/ambassador/internal/wire"
)

// EngagementCmd returns the engagement command
func EngagementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "engagement",
		Aliases: []string{"visit"},
		Short:   "Manage engagements (school visits)",
		Long: `Record school visits. A visit with more students than the configured
capacity is split into several engagements; each is filled to capacity
before the next, so only the last holds fewer students.`,
	}

	cmd.AddCommand(engagementCreateCmd())
	cmd.AddCommand(engagementPreviewCmd())
	cmd.AddCommand(engagementListCmd())
	cmd.AddCommand(engagementShowCmd())
	cmd.AddCommand(engagementUpdateCmd())
	cmd.AddCommand(engagementDeleteCmd())
	cmd.AddCommand(engagementDistrictsCmd())

	return cmd
}

func addEngagementFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "Visit date (YYYY-MM-DD)")
	cmd.Flags().String("school", "", "School name")
	cmd.Flags().String("school-type", "", "School type")
	cmd.Flags().String("partner", "", "Cooperation partner")
	cmd.Flags().String("city", "", "City")
	cmd.Flags().String("district", "", "District")
	cmd.Flags().Bool("career", false, "Part of a career orientation program")
	cmd.Flags().Bool("online", false, "Held online")
	cmd.Flags().String("grade", "", "Grade level")
	cmd.Flags().Int("students", 0, "Number of students")
}

func createRequest(cmd *cobra.Command) primary.CreateEngagementRequest {
	flags := cmd.Flags()
	str := func(name string) string {
		v, _ := flags.GetString(name)
		return v
	}
	career, _ := flags.GetBool("career")
	online, _ := flags.GetBool("online")
	students, _ := flags.GetInt("students")

	return primary.CreateEngagementRequest{
		Date:              str("date"),
		SchoolName:        str("school"),
		SchoolType:        str("school-type"),
		Partner:           str("partner"),
		City:              str("city"),
		District:          str("district"),
		CareerOrientation: career,
		Online:            online,
		GradeLevel:        str("grade"),
		StudentCount:      students,
	}
}

func engagementCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a school visit",
		Long: `Record a school visit, splitting it at the configured capacity.

Examples:
  ambassador engagement create --date 2025-03-14 --school "Realschule am Park" --students 25
  ambassador engagement create --date 2025-03-14 --school "Realschule am Park" --students 90 --career`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.EngagementAdapter().Create(cmd.Context(), createRequest(cmd))
			return err
		},
	}

	addEngagementFieldFlags(cmd)

	return cmd
}

func engagementPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show how a visit would be split without saving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.EngagementAdapter().Preview(cmd.Context(), createRequest(cmd))
			return err
		},
	}

	addEngagementFieldFlags(cmd)

	return cmd
}

func engagementListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List engagements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			from, _ := flags.GetString("from")
			to, _ := flags.GetString("to")
			district, _ := flags.GetString("district")
			schoolType, _ := flags.GetString("school-type")
			search, _ := flags.GetString("search")
			mode, _ := flags.GetString("mode")

			online, err := parseMode(mode)
			if err != nil {
				return err
			}

			_, err = wire.EngagementAdapter().List(cmd.Context(), primary.EngagementListRequest{
				From:              from,
				To:                to,
				District:          district,
				SchoolType:        schoolType,
				Online:            online,
				CareerOrientation: changedBool(cmd, "career"),
				Search:            search,
				Page:              pageRequest(cmd),
			})
			return err
		},
	}

	cmd.Flags().String("from", "", "Earliest date (YYYY-MM-DD, inclusive)")
	cmd.Flags().String("to", "", "Latest date (YYYY-MM-DD, inclusive)")
	cmd.Flags().String("district", "", "Filter by district")
	cmd.Flags().String("school-type", "", "Filter by school type")
	cmd.Flags().String("mode", "all", "Filter by mode (onsite, online, all)")
	cmd.Flags().Bool("career", false, "Filter by career orientation program")
	cmd.Flags().StringP("search", "q", "", "Search school name and city")
	addPageFlags(cmd)

	return cmd
}

func engagementShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [engagement-id]",
		Short: "Show engagement details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "engagement"); err != nil {
				return err
			}
			_, err := wire.EngagementAdapter().Show(cmd.Context(), args[0])
			return err
		},
	}
}

func engagementUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [engagement-id]",
		Short: "Update engagement fields",
		Long: `Update the given fields of one engagement. The student count must stay
within the configured capacity; updates never split.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "engagement"); err != nil {
				return err
			}

			_, err := wire.EngagementAdapter().Update(cmd.Context(), primary.UpdateEngagementRequest{
				EngagementID:      args[0],
				Date:              changedString(cmd, "date"),
				SchoolName:        changedString(cmd, "school"),
				SchoolType:        changedString(cmd, "school-type"),
				Partner:           changedString(cmd, "partner"),
				City:              changedString(cmd, "city"),
				District:          changedString(cmd, "district"),
				CareerOrientation: changedBool(cmd, "career"),
				Online:            changedBool(cmd, "online"),
				GradeLevel:        changedString(cmd, "grade"),
				StudentCount:      changedInt(cmd, "students"),
			})
			return err
		},
	}

	addEngagementFieldFlags(cmd)

	return cmd
}

func engagementDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [engagement-id]",
		Short: "Delete an engagement",
		Long:  `Delete an engagement. Engagements with assigned ambassadors require --force.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "engagement"); err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")
			return wire.EngagementAdapter().Delete(cmd.Context(), args[0], force)
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Delete even with assigned ambassadors")

	return cmd
}

func engagementDistrictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "districts",
		Short: "List districts and school types in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := wire.EngagementService()

			districts, err := svc.Districts(ctx)
			if err != nil {
				return err
			}
			schoolTypes, err := svc.SchoolTypes(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Districts:    %s\n", joinOrNone(districts))
			fmt.Fprintf(out, "School types: %s\n", joinOrNone(schoolTypes))
			fmt.Fprintf(out, "Capacity:     %d students per engagement\n", svc.Capacity())
			return nil
		},
	}
}

// parseMode maps a mode filter to the tri-state Online filter.
func parseMode(mode string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "all":
		return nil, nil
	case "online":
		v := true
		return &v, nil
	case "onsite", "on-site":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("invalid mode %q (want onsite, online or all)", mode)
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
