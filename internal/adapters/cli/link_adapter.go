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

// LinkAdapter is a thin adapter that translates CLI operations to AssignmentService calls.
type LinkAdapter struct {
	service primary.AssignmentService
	out     io.Writer
}

// NewLinkAdapter creates a new LinkAdapter with the given service.
func NewLinkAdapter(service primary.AssignmentService, out io.Writer) *LinkAdapter {
	return &LinkAdapter{
		service: service,
		out:     out,
	}
}

// Add links one ambassador to one engagement.
func (a *LinkAdapter) Add(ctx context.Context, req primary.CreateLinkRequest) (*primary.Link, error) {
	link, err := a.service.CreateLink(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ %s (%s) assigned to %s (%s, %s)\n",
		link.PersonName, link.PersonID, link.EngagementID, link.SchoolName, link.EventDate)
	return link, nil
}

// Remove deletes a link; removing an absent link is not an error.
func (a *LinkAdapter) Remove(ctx context.Context, personID, engagementID string) (bool, error) {
	removed, err := a.service.RemoveLink(ctx, personID, engagementID)
	if err != nil {
		return false, err
	}
	if removed {
		fmt.Fprintf(a.out, "✓ %s unassigned from %s\n", personID, engagementID)
	} else {
		fmt.Fprintf(a.out, "%s was not assigned to %s\n", personID, engagementID)
	}
	return removed, nil
}

// BulkAdd links many ambassadors to one engagement.
func (a *LinkAdapter) BulkAdd(ctx context.Context, req primary.BulkLinkRequest) (*primary.BulkLinkResult, error) {
	result, err := a.service.BulkCreateLinks(ctx, req)
	a.printBulk(result, "already assigned")
	return result, err
}

// BulkAddForPerson links one ambassador to many engagements.
func (a *LinkAdapter) BulkAddForPerson(ctx context.Context, req primary.BulkPersonLinkRequest) (*primary.BulkLinkResult, error) {
	result, err := a.service.BulkCreateLinksForPerson(ctx, req)
	a.printBulk(result, "already assigned")
	return result, err
}

func (a *LinkAdapter) printBulk(result *primary.BulkLinkResult, skippedLabel string) {
	if result == nil {
		return
	}
	fmt.Fprintf(a.out, "✓ %d assignment(s) created\n", len(result.Created))
	for _, l := range result.Created {
		fmt.Fprintf(a.out, "  %s → %s\n", l.PersonID, l.EngagementID)
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(a.out, "%s %d skipped (%s): %s\n",
			color.New(color.FgYellow).Sprint("!"), len(result.Skipped), skippedLabel, strings.Join(result.Skipped, ", "))
	}
}

// AvailablePersons prints the active ambassadors not yet on an engagement.
func (a *LinkAdapter) AvailablePersons(ctx context.Context, engagementID string) ([]*primary.Person, error) {
	persons, err := a.service.AvailablePersonsForEngagement(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	if len(persons) == 0 {
		fmt.Fprintf(a.out, "Every active ambassador is already assigned to %s.\n", engagementID)
		return persons, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSECTOR\tCOMPANY")
	fmt.Fprintln(w, "--\t----\t------\t-------")
	for _, p := range persons {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.FullName(), p.Sector, p.Company)
	}
	w.Flush()
	return persons, nil
}

// AvailableEngagements prints the engagements an ambassador is not yet on.
func (a *LinkAdapter) AvailableEngagements(ctx context.Context, personID string) ([]*primary.Engagement, error) {
	engagements, err := a.service.AvailableEngagementsForPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	if len(engagements) == 0 {
		fmt.Fprintf(a.out, "%s is assigned to every engagement.\n", personID)
		return engagements, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSCHOOL\tSTUDENTS")
	fmt.Fprintln(w, "--\t----\t------\t--------")
	for _, e := range engagements {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", e.ID, e.Date, e.SchoolName, e.StudentCount)
	}
	w.Flush()
	return engagements, nil
}

// List prints links for a person, an engagement, or one page of all links.
func (a *LinkAdapter) List(ctx context.Context, req primary.LinkListRequest) ([]*primary.Link, error) {
	var (
		links []*primary.Link
		err   error
		page  *primary.LinkPage
	)
	switch {
	case req.PersonID != "" && req.EngagementID == "":
		links, err = a.service.ListLinksByPerson(ctx, req.PersonID)
	case req.EngagementID != "" && req.PersonID == "":
		links, err = a.service.ListLinksByEngagement(ctx, req.EngagementID)
	default:
		page, err = a.service.ListLinks(ctx, req)
		if page != nil {
			links = page.Links
		}
	}
	if err != nil {
		return nil, err
	}

	if len(links) == 0 {
		fmt.Fprintln(a.out, "No assignments found.")
		return links, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PERSON\tNAME\tENGAGEMENT\tDATE\tSCHOOL\tASSIGNED")
	fmt.Fprintln(w, "------\t----\t----------\t----\t------\t--------")
	for _, l := range links {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.PersonID, l.PersonName, l.EngagementID, l.EventDate, l.SchoolName, l.AssignedOn)
	}
	w.Flush()

	if page != nil {
		printPageFooter(a.out, page.Page.Page, page.Page.TotalPages, page.Page.Total)
	}
	return links, nil
}

// Show displays one link.
func (a *LinkAdapter) Show(ctx context.Context, personID, engagementID string) (*primary.Link, error) {
	l, err := a.service.GetLink(ctx, personID, engagementID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nAssignment: %s\n", l.ID)
	fmt.Fprintf(a.out, "Ambassador:  %s (%s)\n", l.PersonName, l.PersonID)
	fmt.Fprintf(a.out, "Engagement:  %s (%s, %s)\n", l.EngagementID, l.SchoolName, l.EventDate)
	fmt.Fprintf(a.out, "Assigned on: %s\n", l.AssignedOn)
	printOptional(a.out, "Note:        ", l.Note)
	fmt.Fprintln(a.out)
	return l, nil
}

// Note replaces the note on a link.
func (a *LinkAdapter) Note(ctx context.Context, personID, engagementID, note string) (*primary.Link, error) {
	l, err := a.service.UpdateLinkNote(ctx, personID, engagementID, note)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Note updated for %s → %s\n", l.PersonID, l.EngagementID)
	return l, nil
}
