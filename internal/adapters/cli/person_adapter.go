// Package cli contains thin adapters that translate CLI operations into
// service calls and render the results for a terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/ambassador/internal/ports/primary"
)

// PersonAdapter is a thin adapter that translates CLI operations to PersonService calls.
// It depends only on the PersonService interface, enabling easy testing with mocks.
type PersonAdapter struct {
	service primary.PersonService
	out     io.Writer
}

// NewPersonAdapter creates a new PersonAdapter with the given service.
func NewPersonAdapter(service primary.PersonService, out io.Writer) *PersonAdapter {
	return &PersonAdapter{
		service: service,
		out:     out,
	}
}

// Register registers an ambassador and prints its ID.
func (a *PersonAdapter) Register(ctx context.Context, req primary.CreatePersonRequest) (*primary.Person, error) {
	person, err := a.service.RegisterPerson(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Registered %s: %s\n", person.ID, person.FullName())
	if !person.Active {
		fmt.Fprintln(a.out, "  (inactive)")
	}
	return person, nil
}

// List prints one page of ambassadors.
func (a *PersonAdapter) List(ctx context.Context, req primary.PersonListRequest) (*primary.PersonPage, error) {
	page, err := a.service.ListPersons(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}

	if len(page.Persons) == 0 {
		fmt.Fprintln(a.out, "No ambassadors found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Register your first ambassador:")
		fmt.Fprintln(a.out, "  ambassador person register --first-name Lena --last-name Hoffmann --sector chamber_of_industry")
		return page, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSECTOR\tOCCUPATION\tCOMPANY\tSTATUS")
	fmt.Fprintln(w, "--\t----\t------\t----------\t-------\t------")

	for _, p := range page.Persons {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.FullName(),
			p.Sector,
			p.Occupation,
			p.Company,
			activeLabel(p.Active),
		)
	}

	w.Flush()
	printPageFooter(a.out, page.Page.Page, page.Page.TotalPages, page.Page.Total)
	return page, nil
}

// Show displays details for a single ambassador.
func (a *PersonAdapter) Show(ctx context.Context, personID string) (*primary.Person, error) {
	p, err := a.service.GetPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nAmbassador: %s\n", p.ID)
	fmt.Fprintf(a.out, "Name:        %s\n", p.FullName())
	fmt.Fprintf(a.out, "Status:      %s\n", activeLabel(p.Active))
	printOptional(a.out, "Reference:   ", p.ReferenceCode)
	printOptional(a.out, "Gender:      ", p.Gender)
	printOptional(a.out, "Born:        ", p.BirthDate)
	fmt.Fprintf(a.out, "Sector:      %s\n", p.Sector)
	printOptional(a.out, "Occupation:  ", p.Occupation)
	printOptional(a.out, "Company:     ", p.Company)
	printOptional(a.out, "District:    ", p.CompanyDistrict)
	printOptional(a.out, "Mobile:      ", p.Mobile)
	printOptional(a.out, "Email work:  ", p.EmailWork)
	printOptional(a.out, "Email priv.: ", p.EmailPrivate)
	printOptional(a.out, "Phone work:  ", p.PhoneWork)
	printOptional(a.out, "Phone priv.: ", p.PhonePrivate)
	fmt.Fprintf(a.out, "Contact ok:  %s\n", yesNo(p.DirectContactAllowed))
	printOptional(a.out, "Notes:       ", p.Notes)
	fmt.Fprintf(a.out, "Created:     %s\n", p.CreatedAt)
	fmt.Fprintln(a.out)

	return p, nil
}

// Update applies a partial update and prints a confirmation.
func (a *PersonAdapter) Update(ctx context.Context, req primary.UpdatePersonRequest) (*primary.Person, error) {
	person, err := a.service.UpdatePerson(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Ambassador %s updated\n", person.ID)
	return person, nil
}

// SetActive deactivates or reactivates an ambassador.
func (a *PersonAdapter) SetActive(ctx context.Context, personID string, active bool) (*primary.Person, error) {
	person, err := a.service.SetPersonActive(ctx, personID, active)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Ambassador %s is now %s\n", person.ID, activeLabel(person.Active))
	return person, nil
}

// Delete removes an ambassador and its assignments.
func (a *PersonAdapter) Delete(ctx context.Context, personID string) error {
	person, err := a.service.GetPerson(ctx, personID)
	if err != nil {
		return err
	}
	if err := a.service.DeletePerson(ctx, personID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Ambassador %s deleted: %s\n", person.ID, person.FullName())
	return nil
}

func activeLabel(active bool) string {
	if active {
		return color.New(color.FgGreen).Sprint("active")
	}
	return color.New(color.FgYellow).Sprint("inactive")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printOptional(out io.Writer, label, value string) {
	if value != "" {
		fmt.Fprintf(out, "%s%s\n", label, value)
	}
}

func printPageFooter(out io.Writer, page, pages, total int) {
	if pages > 1 {
		fmt.Fprintf(out, "\nPage %d of %d (%d total)\n", page, pages, total)
	}
}
