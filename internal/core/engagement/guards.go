package engagement

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// UpdateCountContext provides context for a manual student count change.
type UpdateCountContext struct {
	EngagementID string
	StudentCount int
	Capacity     int
}

// CanUpdateStudentCount evaluates whether an existing engagement may take a new headcount.
// Rules:
// - Count must be positive
// - Count must not exceed capacity (oversized visits are created through the splitter)
func CanUpdateStudentCount(ctx UpdateCountContext) GuardResult {
	if ctx.StudentCount <= 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("student count for %s must be positive (got %d)", ctx.EngagementID, ctx.StudentCount),
		}
	}
	if ctx.Capacity > 0 && ctx.StudentCount > ctx.Capacity {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("student count %d exceeds capacity %d for %s; create a new split engagement instead",
				ctx.StudentCount, ctx.Capacity, ctx.EngagementID),
		}
	}
	return GuardResult{Allowed: true}
}

// DeleteContext provides context for engagement deletion.
type DeleteContext struct {
	EngagementID string
	LinkCount    int
	Force        bool
}

// CanDeleteEngagement evaluates whether an engagement may be deleted.
// Rules:
// - Engagements with assigned ambassadors require force (links cascade away)
func CanDeleteEngagement(ctx DeleteContext) GuardResult {
	if ctx.LinkCount > 0 && !ctx.Force {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("engagement %s has %d assigned ambassador(s); use --force to delete it and its assignments",
				ctx.EngagementID, ctx.LinkCount),
		}
	}
	return GuardResult{Allowed: true}
}
