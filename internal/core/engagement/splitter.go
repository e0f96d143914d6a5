// Package engagement contains the pure business logic for engagement operations.
// This file contains the splitter that partitions an oversized school visit
// into capacity-bounded engagements. No I/O happens here.
package engagement

import (
	"fmt"

	"github.com/example/ambassador/internal/core/errs"
)

// DefaultCapacity is the per-engagement student limit when none is configured.
const DefaultCapacity = 25

// Prototype carries every engagement field except the student count.
type Prototype struct {
	Date              string
	SchoolName        string
	SchoolType        string
	Partner           string
	City              string
	District          string
	CareerOrientation bool
	Online            bool
	GradeLevel        string
}

// Draft is a not-yet-persisted engagement produced by Split.
type Draft struct {
	Prototype
	StudentCount int
}

// PlanCount returns how many engagements Split produces for total students.
// Returns 0 for non-positive inputs.
func PlanCount(total, capacity int) int {
	if total <= 0 || capacity <= 0 {
		return 0
	}
	return (total + capacity - 1) / capacity
}

// Split partitions total students into drafts of at most capacity each.
// Every draft is filled to capacity before the next one is started, so only
// the last draft may hold fewer students. total <= capacity yields a single draft.
func Split(proto Prototype, total, capacity int) ([]Draft, error) {
	if capacity <= 0 {
		return nil, errs.NewValidation("", errs.FieldError{
			Field:   "capacity",
			Message: fmt.Sprintf("must be positive (got %d)", capacity),
		})
	}
	if total <= 0 {
		return nil, errs.NewValidation("", errs.FieldError{
			Field:   "student_count",
			Message: fmt.Sprintf("must be positive (got %d)", total),
		})
	}

	drafts := make([]Draft, 0, PlanCount(total, capacity))
	for rest := total; rest > 0; {
		n := min(capacity, rest)
		drafts = append(drafts, Draft{Prototype: proto, StudentCount: n})
		rest -= n
	}
	return drafts, nil
}

// Counts returns the student counts of drafts in order.
func Counts(drafts []Draft) []int {
	out := make([]int, len(drafts))
	for i, d := range drafts {
		out[i] = d.StudentCount
	}
	return out
}
