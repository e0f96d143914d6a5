// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI drives the application.
package primary

import (
	"context"

	"github.com/example/ambassador/internal/core/paging"
)

// PersonService defines the primary port for ambassador operations.
type PersonService interface {
	// RegisterPerson creates a new active ambassador.
	RegisterPerson(ctx context.Context, req CreatePersonRequest) (*Person, error)

	// GetPerson retrieves an ambassador by ID.
	GetPerson(ctx context.Context, personID string) (*Person, error)

	// ListPersons lists ambassadors matching the request filters, one page at a time.
	ListPersons(ctx context.Context, req PersonListRequest) (*PersonPage, error)

	// UpdatePerson applies the non-nil fields of the request.
	UpdatePerson(ctx context.Context, req UpdatePersonRequest) (*Person, error)

	// SetPersonActive deactivates or reactivates an ambassador.
	SetPersonActive(ctx context.Context, personID string, active bool) (*Person, error)

	// DeletePerson removes an ambassador and every link to it.
	DeletePerson(ctx context.Context, personID string) error
}

// CreatePersonRequest contains parameters for registering an ambassador.
type CreatePersonRequest struct {
	ReferenceCode        string `validate:"omitempty,max=32"`
	FirstName            string `validate:"required,max=100"`
	LastName             string `validate:"required,max=100"`
	Gender               string `validate:"gender"`
	BirthDate            string `validate:"isodate"`
	Occupation           string `validate:"max=200"`
	Sector               string `validate:"required,sector"`
	Mobile               string `validate:"max=50"`
	EmailWork            string `validate:"omitempty,email"`
	EmailPrivate         string `validate:"omitempty,email"`
	PhoneWork            string `validate:"max=50"`
	PhonePrivate         string `validate:"max=50"`
	DirectContactAllowed bool
	Company              string `validate:"max=200"`
	CompanyDistrict      string `validate:"max=100"`
	Notes                string `validate:"max=4000"`
	Inactive             bool   // register as deactivated (imports)
}

// UpdatePersonRequest contains parameters for a partial update.
// Nil fields are left unchanged; a pointer to "" clears optional fields.
type UpdatePersonRequest struct {
	PersonID             string  `validate:"required"`
	ReferenceCode        *string `validate:"omitempty,max=32"`
	FirstName            *string `validate:"omitempty,min=1,max=100"`
	LastName             *string `validate:"omitempty,min=1,max=100"`
	Gender               *string `validate:"omitempty,gender"`
	BirthDate            *string `validate:"omitempty,isodate"`
	Occupation           *string `validate:"omitempty,max=200"`
	Sector               *string `validate:"omitempty,sector"`
	Mobile               *string `validate:"omitempty,max=50"`
	EmailWork            *string `validate:"omitempty,optemail"`
	EmailPrivate         *string `validate:"omitempty,optemail"`
	PhoneWork            *string `validate:"omitempty,max=50"`
	PhonePrivate         *string `validate:"omitempty,max=50"`
	DirectContactAllowed *bool
	Company              *string `validate:"omitempty,max=200"`
	CompanyDistrict      *string `validate:"omitempty,max=100"`
	Notes                *string `validate:"omitempty,max=4000"`
}

// PersonListRequest carries the filters and page of one list call.
type PersonListRequest struct {
	Active   *bool
	Sector   string
	District string
	Search   string
	Page     paging.Request
}

// PersonPage is one page of ambassadors.
type PersonPage struct {
	Persons []*Person
	Page    paging.Info
}

// Person represents an ambassador at the port boundary.
type Person struct {
	ID                   string
	ReferenceCode        string
	Active               bool
	FirstName            string
	LastName             string
	Gender               string
	BirthDate            string
	Occupation           string
	Sector               string
	Mobile               string
	EmailWork            string
	EmailPrivate         string
	PhoneWork            string
	PhonePrivate         string
	DirectContactAllowed bool
	Company              string
	CompanyDistrict      string
	Notes                string
	CreatedAt            string
	UpdatedAt            string
}

// FullName returns "First Last".
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}
