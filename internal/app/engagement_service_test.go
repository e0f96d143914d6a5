package app

import (
	"context"
	"testing"

	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/ports/primary"
)

func visit(students int) primary.CreateEngagementRequest {
	return primary.CreateEngagementRequest{
		Date:              "2025-03-14",
		SchoolName:        "Realschule am Park",
		SchoolType:        "Realschule",
		City:              "Lüneburg",
		District:          "Lüneburg",
		CareerOrientation: true,
		GradeLevel:        "9",
		StudentCount:      students,
	}
}

// ============================================================================
// CreateEngagements Tests
// ============================================================================

func TestCreateEngagements_SplitsAtCapacity(t *testing.T) {
	f := newFixture(25)

	resp, err := f.engagementService.CreateEngagements(context.Background(), visit(90))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []int{25, 25, 25, 15}
	if len(resp.Engagements) != len(want) {
		t.Fatalf("expected %d engagements, got %d", len(want), len(resp.Engagements))
	}
	for i, e := range resp.Engagements {
		if e.StudentCount != want[i] {
			t.Errorf("engagement %d: expected %d students, got %d", i, want[i], e.StudentCount)
		}
		if e.SchoolName != "Realschule am Park" || e.Date != "2025-03-14" || !e.CareerOrientation {
			t.Errorf("engagement %d did not copy the prototype: %+v", i, e)
		}
	}
	if resp.Engagements[0].ID != "ENG-001" || resp.Engagements[3].ID != "ENG-004" {
		t.Errorf("expected IDs in split order, got %s..%s", resp.Engagements[0].ID, resp.Engagements[3].ID)
	}
	if !resp.Split() {
		t.Error("expected Split() to be true")
	}
	if f.engagements.batches != 1 {
		t.Errorf("expected one atomic batch, got %d", f.engagements.batches)
	}
}

func TestCreateEngagements_SingleWhenWithinCapacity(t *testing.T) {
	f := newFixture(25)

	resp, err := f.engagementService.CreateEngagements(context.Background(), visit(25))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(resp.Engagements) != 1 || resp.Split() {
		t.Errorf("expected a single engagement, got %d", len(resp.Engagements))
	}
}

func TestCreateEngagements_RejectsNonPositiveCount(t *testing.T) {
	f := newFixture(25)

	for _, n := range []int{0, -3} {
		_, err := f.engagementService.CreateEngagements(context.Background(), visit(n))
		if !fieldNames(t, err)["student_count"] {
			t.Errorf("count %d: expected student_count validation error, got %v", n, err)
		}
	}
	if len(f.engagements.engagements) != 0 {
		t.Error("expected nothing persisted")
	}
}

func TestCreateEngagements_RequiresDateAndSchool(t *testing.T) {
	f := newFixture(25)
	req := visit(10)
	req.Date = "14.03.2025"
	req.SchoolName = " "

	_, err := f.engagementService.CreateEngagements(context.Background(), req)
	names := fieldNames(t, err)
	if !names["date"] || !names["school_name"] {
		t.Errorf("expected date and school_name errors, got %v", names)
	}
}

func TestCreateEngagements_BatchFailureCreatesNothing(t *testing.T) {
	f := newFixture(25)
	f.engagements.batchErr = errs.NewValidation("student_count violates a constraint")

	_, err := f.engagementService.CreateEngagements(context.Background(), visit(60))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.engagements.engagements) != 0 {
		t.Errorf("expected no engagements, got %d", len(f.engagements.engagements))
	}
}

func TestPreviewSplit(t *testing.T) {
	f := newFixture(30)

	plan, err := f.engagementService.PreviewSplit(context.Background(), visit(61))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []int{30, 30, 1}
	if len(plan.Counts) != len(want) {
		t.Fatalf("expected %v, got %v", want, plan.Counts)
	}
	for i := range want {
		if plan.Counts[i] != want[i] {
			t.Errorf("expected %v, got %v", want, plan.Counts)
		}
	}
	if plan.Capacity != 30 || plan.Total != 61 {
		t.Errorf("unexpected plan header: %+v", plan)
	}
	if len(f.engagements.engagements) != 0 {
		t.Error("preview must not persist")
	}
}

// ============================================================================
// UpdateEngagement Tests
// ============================================================================

func TestUpdateEngagement_StudentCountBounds(t *testing.T) {
	f := newFixture(25)
	ctx := context.Background()
	f.engagement("ENG-001", "2025-03-14", 20)

	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{"within capacity", 25, false},
		{"above capacity", 26, true},
		{"zero", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := f.engagementService.UpdateEngagement(ctx, primary.UpdateEngagementRequest{
				EngagementID: "ENG-001",
				StudentCount: intPtr(tt.count),
			})
			if tt.wantErr {
				if !errs.IsValidation(err) {
					t.Errorf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if e.StudentCount != tt.count {
				t.Errorf("expected %d students, got %d", tt.count, e.StudentCount)
			}
		})
	}
}

func TestUpdateEngagement_Fields(t *testing.T) {
	f := newFixture(25)
	f.engagement("ENG-001", "2025-03-14", 20)

	e, err := f.engagementService.UpdateEngagement(context.Background(), primary.UpdateEngagementRequest{
		EngagementID: "ENG-001",
		Date:         strPtr("2025-03-21"),
		Online:       boolPtr(true),
		District:     strPtr(" Harburg "),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if e.Date != "2025-03-21" || !e.Online || e.District != "Harburg" {
		t.Errorf("unexpected engagement after update: %+v", e)
	}

	_, err = f.engagementService.UpdateEngagement(context.Background(), primary.UpdateEngagementRequest{
		EngagementID: "ENG-001",
		Date:         strPtr(""),
	})
	if !errs.IsValidation(err) {
		t.Errorf("expected clearing the date to fail validation, got %v", err)
	}
}

// ============================================================================
// DeleteEngagement / List Tests
// ============================================================================

func TestDeleteEngagement_RequiresForceWhenLinked(t *testing.T) {
	f := newFixture(25)
	ctx := context.Background()
	f.person("AMB-001", "Lena", "Hoffmann", true)
	f.engagement("ENG-001", "2025-03-14", 20)
	f.link("AMB-001", "ENG-001")

	err := f.engagementService.DeleteEngagement(ctx, "ENG-001", false)
	if !errs.IsConflict(err) {
		t.Fatalf("expected ConflictError without force, got %v", err)
	}

	if err := f.engagementService.DeleteEngagement(ctx, "ENG-001", true); err != nil {
		t.Fatalf("expected forced delete to succeed, got %v", err)
	}
	if _, ok := f.engagements.engagements["ENG-001"]; ok {
		t.Error("expected engagement to be deleted")
	}
}

func TestDeleteEngagement_NotFound(t *testing.T) {
	f := newFixture(25)

	err := f.engagementService.DeleteEngagement(context.Background(), "ENG-404", true)
	if !errs.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestListEngagements_RejectsBadDateBounds(t *testing.T) {
	f := newFixture(25)

	_, err := f.engagementService.ListEngagements(context.Background(), primary.EngagementListRequest{From: "2025/01/01"})
	if !fieldNames(t, err)["from"] {
		t.Errorf("expected from validation error, got %v", err)
	}
}

func TestListEngagements_DateRange(t *testing.T) {
	f := newFixture(25)
	f.engagement("ENG-001", "2025-03-14", 20)
	f.engagement("ENG-002", "2025-04-02", 18)
	f.engagement("ENG-003", "2025-05-20", 22)

	page, err := f.engagementService.ListEngagements(context.Background(), primary.EngagementListRequest{
		From: "2025-04-01",
		To:   "2025-05-31",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Page.Total != 2 || len(page.Engagements) != 2 {
		t.Fatalf("expected 2 engagements, got %d", len(page.Engagements))
	}
	if page.Engagements[0].ID != "ENG-002" {
		t.Errorf("expected date order, got %s first", page.Engagements[0].ID)
	}
}

func TestEngagementService_Capacity(t *testing.T) {
	if got := newFixture(12).engagementService.Capacity(); got != 12 {
		t.Errorf("Capacity() = %d, want 12", got)
	}
}
