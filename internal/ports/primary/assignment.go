package primary

import (
	"context"

	"github.com/example/ambassador/internal/core/paging"
)

// AssignmentService defines the primary port for linking ambassadors to
// engagements. It is the only writer of links.
type AssignmentService interface {
	// CreateLink links a person to an engagement. Missing endpoints yield a
	// NotFoundError, an existing pair a ConflictError.
	CreateLink(ctx context.Context, req CreateLinkRequest) (*Link, error)

	// RemoveLink deletes the link for a pair and reports whether one existed.
	RemoveLink(ctx context.Context, personID, engagementID string) (bool, error)

	// BulkCreateLinks links many persons to one engagement, skipping pairs
	// that are already linked.
	BulkCreateLinks(ctx context.Context, req BulkLinkRequest) (*BulkLinkResult, error)

	// BulkCreateLinksForPerson links one person to many engagements, skipping
	// pairs that are already linked.
	BulkCreateLinksForPerson(ctx context.Context, req BulkPersonLinkRequest) (*BulkLinkResult, error)

	// AvailablePersonsForEngagement returns active persons not linked to the engagement.
	AvailablePersonsForEngagement(ctx context.Context, engagementID string) ([]*Person, error)

	// AvailableEngagementsForPerson returns engagements not linked to the person.
	AvailableEngagementsForPerson(ctx context.Context, personID string) ([]*Engagement, error)

	// GetLink retrieves the link for a pair, or a NotFoundError.
	GetLink(ctx context.Context, personID, engagementID string) (*Link, error)

	// ListLinksByPerson lists a person's links by engagement date.
	ListLinksByPerson(ctx context.Context, personID string) ([]*Link, error)

	// ListLinksByEngagement lists an engagement's links by person name.
	ListLinksByEngagement(ctx context.Context, engagementID string) ([]*Link, error)

	// ListLinks lists links one page at a time.
	ListLinks(ctx context.Context, req LinkListRequest) (*LinkPage, error)

	// UpdateLinkNote replaces the note of an existing link.
	UpdateLinkNote(ctx context.Context, personID, engagementID, note string) (*Link, error)

	// StatisticsForEngagement returns the linked-person rollup of an engagement.
	StatisticsForEngagement(ctx context.Context, engagementID string) (*EngagementStatistics, error)

	// StatisticsForPerson returns the linked-engagement rollup of a person.
	StatisticsForPerson(ctx context.Context, personID string) (*PersonStatistics, error)
}

// CreateLinkRequest contains parameters for creating a link.
type CreateLinkRequest struct {
	PersonID     string `validate:"required"`
	EngagementID string `validate:"required"`
	Note         string `validate:"max=2000"`
}

// BulkLinkRequest links many persons to one engagement.
type BulkLinkRequest struct {
	PersonIDs    []string `validate:"required,min=1"`
	EngagementID string   `validate:"required"`
	Note         string   `validate:"max=2000"`
}

// BulkPersonLinkRequest links one person to many engagements.
type BulkPersonLinkRequest struct {
	PersonID      string   `validate:"required"`
	EngagementIDs []string `validate:"required,min=1"`
	Note          string   `validate:"max=2000"`
}

// BulkLinkResult lists the links created and the counterpart IDs skipped
// because they were already linked.
type BulkLinkResult struct {
	Created []*Link
	Skipped []string
}

// LinkListRequest carries the filters and page of one list call.
type LinkListRequest struct {
	PersonID     string
	EngagementID string
	Page         paging.Request
}

// LinkPage is one page of links.
type LinkPage struct {
	Links []*Link
	Page  paging.Info
}

// Link represents an assignment at the port boundary, with display fields
// of both endpoints.
type Link struct {
	ID           string
	PersonID     string
	EngagementID string
	AssignedOn   string
	Note         string
	CreatedAt    string
	PersonName   string
	PersonSector string
	SchoolName   string
	EventDate    string
}

// Bucket is one group of a grouped count.
type Bucket struct {
	Key   string
	Count int
}

// EngagementStatistics is the rollup of one engagement.
type EngagementStatistics struct {
	EngagementID string
	LinkedCount  int
	BySector     []Bucket
}

// PersonStatistics is the rollup of one person.
type PersonStatistics struct {
	PersonID        string
	LinkedCount     int
	StudentsReached int
	FirstDate       string
	LastDate        string
	BySchoolType    []Bucket
	ByDistrict      []Bucket
}
