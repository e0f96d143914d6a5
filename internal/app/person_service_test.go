package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/core/paging"
	"github.com/example/ambassador/internal/ports/primary"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }

func fieldNames(t *testing.T, err error) map[string]bool {
	t.Helper()
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	names := make(map[string]bool, len(ve.Fields))
	for _, f := range ve.Fields {
		names[f.Field] = true
	}
	return names
}

// ============================================================================
// RegisterPerson Tests
// ============================================================================

func TestRegisterPerson_Success(t *testing.T) {
	f := newFixture(25)
	ctx := context.Background()

	person, err := f.personService.RegisterPerson(ctx, primary.CreatePersonRequest{
		FirstName: "  Lena ",
		LastName:  "Hoffmann",
		BirthDate: "2003-04-12",
		Gender:    "w",
		Sector:    "IHK",
		EmailWork: "lena@nordwerk.example",
		Notes:     "<b>Prefers</b> mornings",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if person.ID != "AMB-001" {
		t.Errorf("expected ID 'AMB-001', got %q", person.ID)
	}
	if !person.Active {
		t.Error("expected new person to be active")
	}
	if person.FirstName != "Lena" {
		t.Errorf("expected trimmed first name, got %q", person.FirstName)
	}
	if person.Sector != "chamber_of_industry" {
		t.Errorf("expected normalized sector, got %q", person.Sector)
	}
	if person.Notes != "Prefers mornings" {
		t.Errorf("expected markup stripped from notes, got %q", person.Notes)
	}
	if person.FullName() != "Lena Hoffmann" {
		t.Errorf("FullName() = %q", person.FullName())
	}
}

func TestRegisterPerson_ValidationFields(t *testing.T) {
	f := newFixture(25)

	_, err := f.personService.RegisterPerson(context.Background(), primary.CreatePersonRequest{
		LastName:     "Becker",
		Sector:       "bank",
		BirthDate:    "03.11.2002",
		Gender:       "x",
		EmailPrivate: "not-an-address",
	})

	names := fieldNames(t, err)
	for _, want := range []string{"first_name", "sector", "birth_date", "gender", "email_private"} {
		if !names[want] {
			t.Errorf("expected field %q in validation error, got %v", want, names)
		}
	}
	if len(f.persons.persons) != 0 {
		t.Error("expected nothing persisted on validation failure")
	}
}

func TestRegisterPerson_DuplicateIdentity(t *testing.T) {
	f := newFixture(25)
	ctx := context.Background()
	req := primary.CreatePersonRequest{FirstName: "Mia", LastName: "Schulz", BirthDate: "2004-01-25", Sector: "chamber_of_trade"}

	if _, err := f.personService.RegisterPerson(ctx, req); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	req.FirstName = "MIA"
	_, err := f.personService.RegisterPerson(ctx, req)
	if !errs.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestRegisterPerson_ReferenceCodeTaken(t *testing.T) {
	f := newFixture(25)
	ctx := context.Background()

	_, err := f.personService.RegisterPerson(ctx, primary.CreatePersonRequest{
		FirstName: "Jonas", LastName: "Becker", Sector: "other", ReferenceCode: "IHK-1002",
	})
	if err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err = f.personService.RegisterPerson(ctx, primary.CreatePersonRequest{
		FirstName: "Elias", LastName: "Wagner", Sector: "other", ReferenceCode: "IHK-1002",
	})
	if !errs.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestRegisterPerson_Inactive(t *testing.T) {
	f := newFixture(25)

	person, err := f.personService.RegisterPerson(context.Background(), primary.CreatePersonRequest{
		FirstName: "Sara", LastName: "Krüger", Sector: "other", Inactive: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if person.Active {
		t.Error("expected person registered as inactive")
	}
}

// ============================================================================
// UpdatePerson Tests
// ============================================================================

func TestUpdatePerson_PartialUpdate(t *testing.T) {
	f := newFixture(25)
	ctx := context.Background()
	f.person("AMB-001", "Lena", "Hoffmann", true)
	f.persons.persons["AMB-001"].BirthDate = "2003-04-12"
	f.persons.persons["AMB-001"].Occupation = "Industriekauffrau"

	person, err := f.personService.UpdatePerson(ctx, primary.UpdatePersonRequest{
		PersonID:   "AMB-001",
		Company:    strPtr("Nordwerk GmbH"),
		BirthDate:  strPtr(""),
		EmailWork:  strPtr(""),
		Notes:      strPtr("<i>updated</i>"),
		Occupation: nil,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if person.Company != "Nordwerk GmbH" {
		t.Errorf("expected company updated, got %q", person.Company)
	}
	if person.BirthDate != "" {
		t.Errorf("expected birth date cleared, got %q", person.BirthDate)
	}
	if person.Occupation != "Industriekauffrau" {
		t.Errorf("expected occupation unchanged, got %q", person.Occupation)
	}
	if person.Notes != "updated" {
		t.Errorf("expected sanitized notes, got %q", person.Notes)
	}
}

func TestUpdatePerson_RejectsEmptyName(t *testing.T) {
	f := newFixture(25)
	f.person("AMB-001", "Lena", "Hoffmann", true)

	_, err := f.personService.UpdatePerson(context.Background(), primary.UpdatePersonRequest{
		PersonID:  "AMB-001",
		FirstName: strPtr("   "),
	})

	if !fieldNames(t, err)["first_name"] {
		t.Errorf("expected first_name validation error, got %v", err)
	}
}

func TestUpdatePerson_IdentityClash(t *testing.T) {
	f := newFixture(25)
	f.person("AMB-001", "Lena", "Hoffmann", true)
	f.person("AMB-002", "Jonas", "Becker", true)

	_, err := f.personService.UpdatePerson(context.Background(), primary.UpdatePersonRequest{
		PersonID:  "AMB-002",
		FirstName: strPtr("Lena"),
		LastName:  strPtr("Hoffmann"),
	})
	if !errs.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestUpdatePerson_NotFound(t *testing.T) {
	f := newFixture(25)

	_, err := f.personService.UpdatePerson(context.Background(), primary.UpdatePersonRequest{
		PersonID: "AMB-404",
		Company:  strPtr("x"),
	})
	if !errs.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

// ============================================================================
// SetPersonActive / DeletePerson / ListPersons Tests
// ============================================================================

func TestSetPersonActive(t *testing.T) {
	f := newFixture(25)
	ctx := context.Background()
	f.person("AMB-001", "Lena", "Hoffmann", true)

	person, err := f.personService.SetPersonActive(ctx, "AMB-001", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if person.Active {
		t.Error("expected person to be inactive")
	}

	person, err = f.personService.SetPersonActive(ctx, "AMB-001", true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !person.Active {
		t.Error("expected person to be active again")
	}
}

func TestDeletePerson(t *testing.T) {
	f := newFixture(25)
	ctx := context.Background()
	f.person("AMB-001", "Lena", "Hoffmann", true)

	if err := f.personService.DeletePerson(ctx, "AMB-001"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := f.personService.DeletePerson(ctx, "AMB-001"); !errs.IsNotFound(err) {
		t.Errorf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestListPersons_Paging(t *testing.T) {
	f := newFixture(25)
	f.person("AMB-001", "Lena", "Hoffmann", true)
	f.person("AMB-002", "Jonas", "Becker", true)
	f.person("AMB-003", "Mia", "Schulz", true)
	f.person("AMB-004", "Sara", "Krüger", false)

	active := true
	page, err := f.personService.ListPersons(context.Background(), primary.PersonListRequest{
		Active: &active,
		Page:   paging.Request{Page: 2, Size: 2},
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Page.Total != 3 {
		t.Errorf("expected total 3, got %d", page.Page.Total)
	}
	if page.Page.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", page.Page.TotalPages)
	}
	if len(page.Persons) != 1 || page.Persons[0].ID != "AMB-003" {
		t.Errorf("expected AMB-003 alone on page 2, got %v", page.Persons)
	}
}
