package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/ambassador/internal/ports/primary"
)

// EngagementAdapter is a thin adapter that translates CLI operations to EngagementService calls.
type EngagementAdapter struct {
	service primary.EngagementService
	out     io.Writer
}

// NewEngagementAdapter creates a new EngagementAdapter with the given service.
func NewEngagementAdapter(service primary.EngagementService, out io.Writer) *EngagementAdapter {
	return &EngagementAdapter{
		service: service,
		out:     out,
	}
}

// Create creates the engagements for one visit and reports any split.
func (a *EngagementAdapter) Create(ctx context.Context, req primary.CreateEngagementRequest) (*primary.CreateEngagementsResponse, error) {
	resp, err := a.service.CreateEngagements(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.Split() {
		fmt.Fprintf(a.out, "%s %d students exceed the capacity of %d; created %d engagements:\n",
			color.New(color.FgYellow).Sprint("!"), req.StudentCount, resp.Capacity, len(resp.Engagements))
	} else {
		fmt.Fprintln(a.out, "✓ Engagement created:")
	}
	for _, e := range resp.Engagements {
		fmt.Fprintf(a.out, "  %s  %s  %s  (%d students)\n", e.ID, e.Date, e.SchoolName, e.StudentCount)
	}
	return resp, nil
}

// Preview prints the split a create would perform.
func (a *EngagementAdapter) Preview(ctx context.Context, req primary.CreateEngagementRequest) (*primary.SplitPlan, error) {
	plan, err := a.service.PreviewSplit(ctx, req)
	if err != nil {
		return nil, err
	}

	parts := make([]string, len(plan.Counts))
	for i, n := range plan.Counts {
		parts[i] = fmt.Sprint(n)
	}
	fmt.Fprintf(a.out, "%d students at capacity %d → %d engagement(s): %s\n",
		plan.Total, plan.Capacity, len(plan.Counts), strings.Join(parts, " + "))
	return plan, nil
}

// List prints one page of engagements.
func (a *EngagementAdapter) List(ctx context.Context, req primary.EngagementListRequest) (*primary.EngagementPage, error) {
	page, err := a.service.ListEngagements(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}

	if len(page.Engagements) == 0 {
		fmt.Fprintln(a.out, "No engagements found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Record a school visit:")
		fmt.Fprintln(a.out, "  ambassador engagement create --date 2025-03-14 --school \"Realschule am Park\" --students 90")
		return page, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSCHOOL\tDISTRICT\tSTUDENTS\tMODE")
	fmt.Fprintln(w, "--\t----\t------\t--------\t--------\t----")

	for _, e := range page.Engagements {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			e.ID,
			e.Date,
			e.SchoolName,
			e.District,
			e.StudentCount,
			modeLabel(e.Online),
		)
	}

	w.Flush()
	printPageFooter(a.out, page.Page.Page, page.Page.TotalPages, page.Page.Total)
	return page, nil
}

// Show displays details for a single engagement.
func (a *EngagementAdapter) Show(ctx context.Context, engagementID string) (*primary.Engagement, error) {
	e, err := a.service.GetEngagement(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nEngagement: %s\n", e.ID)
	fmt.Fprintf(a.out, "Date:        %s\n", e.Date)
	fmt.Fprintf(a.out, "School:      %s\n", e.SchoolName)
	printOptional(a.out, "School type: ", e.SchoolType)
	printOptional(a.out, "Partner:     ", e.Partner)
	printOptional(a.out, "City:        ", e.City)
	printOptional(a.out, "District:    ", e.District)
	printOptional(a.out, "Grade:       ", e.GradeLevel)
	fmt.Fprintf(a.out, "Students:    %d\n", e.StudentCount)
	fmt.Fprintf(a.out, "Mode:        %s\n", modeLabel(e.Online))
	fmt.Fprintf(a.out, "Career day:  %s\n", yesNo(e.CareerOrientation))
	fmt.Fprintf(a.out, "Created:     %s\n", e.CreatedAt)
	fmt.Fprintln(a.out)

	return e, nil
}

// Update applies a partial update and prints a confirmation.
func (a *EngagementAdapter) Update(ctx context.Context, req primary.UpdateEngagementRequest) (*primary.Engagement, error) {
	e, err := a.service.UpdateEngagement(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Engagement %s updated\n", e.ID)
	return e, nil
}

// Delete removes an engagement.
func (a *EngagementAdapter) Delete(ctx context.Context, engagementID string, force bool) error {
	if err := a.service.DeleteEngagement(ctx, engagementID, force); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Engagement %s deleted\n", engagementID)
	return nil
}

func modeLabel(online bool) string {
	if online {
		return color.New(color.FgCyan).Sprint("online")
	}
	return "on-site"
}
