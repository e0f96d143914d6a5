// Package assignment contains the pure business logic for linking ambassadors
// to engagements. Guards evaluate preconditions without side effects; the
// storage layer still owns the final uniqueness decision.
package assignment

import (
	"fmt"

	"github.com/example/ambassador/internal/core/errs"
)

// FailureKind classifies why a guard refused an operation.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureNotFound
	FailureConflict
	FailureInvalid
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Kind    FailureKind
	Entity  string
	ID      string
}

// Error converts the guard result to a taxonomy error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	switch r.Kind {
	case FailureNotFound:
		return errs.NotFound(r.Entity, r.ID)
	case FailureConflict:
		return errs.Conflict(r.Entity, r.Reason)
	case FailureInvalid:
		return errs.NewValidation(r.Reason)
	default:
		return fmt.Errorf("%s", r.Reason)
	}
}

// CreateLinkContext provides context for link creation guards.
type CreateLinkContext struct {
	PersonID         string
	PersonExists     bool
	EngagementID     string
	EngagementExists bool
	AlreadyLinked    bool
}

// CanCreateLink evaluates whether a person may be linked to an engagement.
// Rules:
// - Both ids must be given
// - Person must exist
// - Engagement must exist
// - The pair must not be linked already
func CanCreateLink(ctx CreateLinkContext) GuardResult {
	if ctx.PersonID == "" || ctx.EngagementID == "" {
		return GuardResult{
			Allowed: false,
			Kind:    FailureInvalid,
			Reason:  "person id and engagement id are required",
		}
	}

	if !ctx.PersonExists {
		return GuardResult{
			Allowed: false,
			Kind:    FailureNotFound,
			Entity:  "person",
			ID:      ctx.PersonID,
			Reason:  fmt.Sprintf("person %s not found", ctx.PersonID),
		}
	}

	if !ctx.EngagementExists {
		return GuardResult{
			Allowed: false,
			Kind:    FailureNotFound,
			Entity:  "engagement",
			ID:      ctx.EngagementID,
			Reason:  fmt.Sprintf("engagement %s not found", ctx.EngagementID),
		}
	}

	if ctx.AlreadyLinked {
		return GuardResult{
			Allowed: false,
			Kind:    FailureConflict,
			Entity:  "link",
			Reason:  fmt.Sprintf("person %s is already assigned to engagement %s", ctx.PersonID, ctx.EngagementID),
		}
	}

	return GuardResult{Allowed: true}
}

// DuplicateLinkReason is the conflict reason used when storage rejects a pair.
func DuplicateLinkReason(personID, engagementID string) string {
	return fmt.Sprintf("person %s is already assigned to engagement %s", personID, engagementID)
}
