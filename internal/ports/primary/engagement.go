package primary

import (
	"context"

	"github.com/example/ambassador/internal/core/paging"
)

// EngagementService defines the primary port for school visit operations.
type EngagementService interface {
	// CreateEngagements splits the requested visit at the configured capacity
	// and persists every part atomically, in order.
	CreateEngagements(ctx context.Context, req CreateEngagementRequest) (*CreateEngagementsResponse, error)

	// PreviewSplit returns the split CreateEngagements would perform.
	PreviewSplit(ctx context.Context, req CreateEngagementRequest) (*SplitPlan, error)

	// GetEngagement retrieves an engagement by ID.
	GetEngagement(ctx context.Context, engagementID string) (*Engagement, error)

	// ListEngagements lists engagements matching the request filters, one page at a time.
	ListEngagements(ctx context.Context, req EngagementListRequest) (*EngagementPage, error)

	// UpdateEngagement applies the non-nil fields of the request.
	UpdateEngagement(ctx context.Context, req UpdateEngagementRequest) (*Engagement, error)

	// DeleteEngagement removes an engagement. Engagements with links need force.
	DeleteEngagement(ctx context.Context, engagementID string, force bool) error

	// Districts returns the districts in use.
	Districts(ctx context.Context) ([]string, error)

	// SchoolTypes returns the school types in use.
	SchoolTypes(ctx context.Context) ([]string, error)

	// Capacity returns the configured per-engagement student limit.
	Capacity() int
}

// CreateEngagementRequest describes one school visit before splitting.
type CreateEngagementRequest struct {
	Date              string `validate:"required,isodate"`
	SchoolName        string `validate:"required,max=200"`
	SchoolType        string `validate:"max=100"`
	Partner           string `validate:"max=200"`
	City              string `validate:"max=100"`
	District          string `validate:"max=100"`
	CareerOrientation bool
	Online            bool
	GradeLevel        string `validate:"max=50"`
	StudentCount      int
}

// CreateEngagementsResponse contains the persisted engagements in split order.
type CreateEngagementsResponse struct {
	Engagements []*Engagement
	Capacity    int
}

// Split reports whether the visit was partitioned.
func (r *CreateEngagementsResponse) Split() bool {
	return len(r.Engagements) > 1
}

// SplitPlan previews a split without persisting anything.
type SplitPlan struct {
	Total    int
	Capacity int
	Counts   []int
}

// UpdateEngagementRequest contains parameters for a partial update.
type UpdateEngagementRequest struct {
	EngagementID      string  `validate:"required"`
	Date              *string `validate:"omitempty,min=1,isodate"`
	SchoolName        *string `validate:"omitempty,min=1,max=200"`
	SchoolType        *string `validate:"omitempty,max=100"`
	Partner           *string `validate:"omitempty,max=200"`
	City              *string `validate:"omitempty,max=100"`
	District          *string `validate:"omitempty,max=100"`
	CareerOrientation *bool
	Online            *bool
	GradeLevel        *string `validate:"omitempty,max=50"`
	StudentCount      *int
}

// EngagementListRequest carries the filters and page of one list call.
type EngagementListRequest struct {
	From              string
	To                string
	District          string
	SchoolType        string
	Online            *bool
	CareerOrientation *bool
	Search            string
	Page              paging.Request
}

// EngagementPage is one page of engagements.
type EngagementPage struct {
	Engagements []*Engagement
	Page        paging.Info
}

// Engagement represents a school visit at the port boundary.
type Engagement struct {
	ID                string
	Date              string
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
