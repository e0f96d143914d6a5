// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// PersonRepository defines the secondary port for person persistence.
type PersonRepository interface {
	// Create persists a new person. A duplicate identity or reference code
	// yields a ConflictError.
	Create(ctx context.Context, person *PersonRecord) error

	// GetByID retrieves a person by its ID (find_person).
	GetByID(ctx context.Context, id string) (*PersonRecord, error)

	// List retrieves persons matching the given filters, ordered by last name.
	List(ctx context.Context, filters PersonFilters) ([]*PersonRecord, error)

	// Count returns the number of persons matching the given filters,
	// ignoring Limit and Offset.
	Count(ctx context.Context, filters PersonFilters) (int, error)

	// ListActive retrieves every active person (list_active_persons).
	ListActive(ctx context.Context) ([]*PersonRecord, error)

	// Update replaces every mutable field of an existing person.
	Update(ctx context.Context, person *PersonRecord) error

	// Delete removes a person; its links cascade away.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available person ID.
	GetNextID(ctx context.Context) (string, error)

	// ExistsByIdentity reports whether another person (not excludeID) has the
	// same first name, last name and birth date.
	ExistsByIdentity(ctx context.Context, firstName, lastName, birthDate, excludeID string) (bool, error)

	// ExistsByReferenceCode reports whether another person (not excludeID)
	// carries the reference code.
	ExistsByReferenceCode(ctx context.Context, code, excludeID string) (bool, error)
}

// PersonRecord represents a person as stored in persistence.
type PersonRecord struct {
	ID                   string
	ReferenceCode        string
	Active               bool
	FirstName            string
	LastName             string
	Gender               string
	BirthDate            string // YYYY-MM-DD or empty
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

// PersonFilters contains filter options for querying persons.
type PersonFilters struct {
	Active   *bool
	Sector   string
	District string
	Search   string // matches first name, last name, occupation, company
	Limit    int
	Offset   int
}

// EngagementRepository defines the secondary port for engagement persistence.
type EngagementRepository interface {
	// CreateBatch persists engagements atomically in order, assigning each
	// record its ID. Either every record is stored or none is.
	CreateBatch(ctx context.Context, engagements []*EngagementRecord) error

	// GetByID retrieves an engagement by its ID (find_engagement).
	GetByID(ctx context.Context, id string) (*EngagementRecord, error)

	// List retrieves engagements matching the given filters, ordered by date.
	List(ctx context.Context, filters EngagementFilters) ([]*EngagementRecord, error)

	// Count returns the number of engagements matching the given filters,
	// ignoring Limit and Offset.
	Count(ctx context.Context, filters EngagementFilters) (int, error)

	// ListAll retrieves every engagement ordered by date (list_engagements).
	ListAll(ctx context.Context) ([]*EngagementRecord, error)

	// Update replaces every mutable field of an existing engagement.
	Update(ctx context.Context, engagement *EngagementRecord) error

	// Delete removes an engagement; its links cascade away.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available engagement ID.
	GetNextID(ctx context.Context) (string, error)

	// DistinctDistricts returns the districts in use, sorted.
	DistinctDistricts(ctx context.Context) ([]string, error)

	// DistinctSchoolTypes returns the school types in use, sorted.
	DistinctSchoolTypes(ctx context.Context) ([]string, error)
}

// EngagementRecord represents an engagement as stored in persistence.
type EngagementRecord struct {
	ID                string
	Date              string // YYYY-MM-DD
	SchoolName        string
	SchoolType        string
	Partner           string
	City              string
	District          string
	CareerOrientation bool
	Online            bool
	GradeLevel        string
	StudentCount      int
	CreatedAt         string
	UpdatedAt         string
}

// EngagementFilters contains filter options for querying engagements.
type EngagementFilters struct {
	From              string // inclusive YYYY-MM-DD
	To                string // inclusive YYYY-MM-DD
	District          string
	SchoolType        string
	Online            *bool
	CareerOrientation *bool
	Search            string // matches school name and city
	Limit             int
	Offset            int
}

// LinkRepository defines the secondary port for link persistence.
// The storage enforces UNIQUE(person_id, engagement_id).
type LinkRepository interface {
	// Insert persists a new link (insert_link). A duplicate pair yields a
	// ConflictError and a dangling endpoint a NotFoundError.
	Insert(ctx context.Context, link *LinkRecord) error

	// Delete removes the link for a pair (delete_link) and reports whether
	// a row was removed.
	Delete(ctx context.Context, personID, engagementID string) (bool, error)

	// Get retrieves the link for a pair (find_link). Returns nil, nil when absent.
	Get(ctx context.Context, personID, engagementID string) (*LinkRecord, error)

	// ListByPerson retrieves a person's links ordered by engagement date.
	ListByPerson(ctx context.Context, personID string) ([]*LinkRecord, error)

	// ListByEngagement retrieves an engagement's links ordered by person name.
	ListByEngagement(ctx context.Context, engagementID string) ([]*LinkRecord, error)

	// List retrieves links matching the given filters, newest engagement first.
	List(ctx context.Context, filters LinkFilters) ([]*LinkRecord, error)

	// Count returns the number of links matching the given filters,
	// ignoring Limit and Offset.
	Count(ctx context.Context, filters LinkFilters) (int, error)

	// UpdateNote replaces the note of an existing link.
	UpdateNote(ctx context.Context, personID, engagementID, note string) error
}

// LinkRecord represents a link as stored in persistence, joined with the
// display fields of both endpoints.
type LinkRecord struct {
	ID           string
	PersonID     string
	EngagementID string
	AssignedOn   string // YYYY-MM-DD
	Note         string
	CreatedAt    string

	// Read-side denormalisation, never written.
	PersonFirstName string
	PersonLastName  string
	PersonSector    string
	SchoolName      string
	EventDate       string
}

// LinkFilters contains filter options for querying links.
type LinkFilters struct {
	PersonID     string
	EngagementID string
	Limit        int
	Offset       int
}

// StatisticsRepository defines the secondary port for read-only rollups.
type StatisticsRepository interface {
	// Overview returns ledger-wide counts.
	Overview(ctx context.Context) (*OverviewRecord, error)

	// EngagementBreakdown returns the linked persons of an engagement grouped by sector.
	EngagementBreakdown(ctx context.Context, engagementID string) (*EngagementBreakdownRecord, error)

	// PersonBreakdown returns the linked engagements of a person grouped by
	// school type and district.
	PersonBreakdown(ctx context.Context, personID string) (*PersonBreakdownRecord, error)
}

// CountRecord is one bucket of a grouped count.
type CountRecord struct {
	Key   string `db:"bucket"`
	Count int    `db:"n"`
}

// OverviewRecord holds ledger-wide counts.
type OverviewRecord struct {
	ActivePersons         int `db:"active_persons"`
	InactivePersons       int `db:"inactive_persons"`
	Engagements           int `db:"engagements"`
	Students              int `db:"students"`
	OnlineEngagements     int `db:"online_engagements"`
	Links                 int `db:"links"`
	PersonsWithoutLink    int `db:"persons_without_link"`
	PersonsBySector       []CountRecord
	EngagementsByDistrict []CountRecord
	EngagementsByMonth    []CountRecord
}

// EngagementBreakdownRecord holds the per-engagement rollup.
type EngagementBreakdownRecord struct {
	EngagementID string
	LinkedCount  int
	BySector     []CountRecord
}

// PersonBreakdownRecord holds the per-person rollup.
type PersonBreakdownRecord struct {
	PersonID        string
	LinkedCount     int
	StudentsReached int
	FirstDate       string
	LastDate        string
	BySchoolType    []CountRecord
	ByDistrict      []CountRecord
}
