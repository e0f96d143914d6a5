package engagement

import (
	"reflect"
	"testing"

	"github.com/example/ambassador/internal/core/errs"
)

func testPrototype() Prototype {
	return Prototype{
		Date:              "2025-03-14",
		SchoolName:        "Realschule am Park",
		SchoolType:        "Realschule",
		Partner:           "IHK Nord",
		City:              "Lüneburg",
		District:          "Lüneburg",
		CareerOrientation: true,
		Online:            false,
		GradeLevel:        "9",
	}
}

func TestSplit_Counts(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		capacity int
		want     []int
	}{
		{"exact multiple of four", 100, 25, []int{25, 25, 25, 25}},
		{"exact multiple of three", 75, 25, []int{25, 25, 25}},
		{"remainder goes last", 30, 25, []int{25, 5}},
		{"at capacity is not split", 25, 25, []int{25}},
		{"single student", 1, 25, []int{1}},
		{"custom capacity", 31, 10, []int{10, 10, 10, 1}},
		{"capacity one", 3, 1, []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := Split(testPrototype(), tt.total, tt.capacity)
			if err != nil {
				t.Fatalf("Split returned error: %v", err)
			}
			if got := Counts(drafts); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("counts = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplit_Properties(t *testing.T) {
	for capacity := 1; capacity <= 30; capacity++ {
		for total := 1; total <= 200; total++ {
			drafts, err := Split(testPrototype(), total, capacity)
			if err != nil {
				t.Fatalf("Split(%d, %d) returned error: %v", total, capacity, err)
			}

			if len(drafts) != PlanCount(total, capacity) {
				t.Fatalf("Split(%d, %d) produced %d drafts, want %d", total, capacity, len(drafts), PlanCount(total, capacity))
			}

			sum := 0
			for i, d := range drafts {
				sum += d.StudentCount
				if d.StudentCount > capacity || d.StudentCount <= 0 {
					t.Fatalf("Split(%d, %d) draft %d has %d students", total, capacity, i, d.StudentCount)
				}
				if i < len(drafts)-1 && d.StudentCount != capacity {
					t.Fatalf("Split(%d, %d) draft %d is not full (%d)", total, capacity, i, d.StudentCount)
				}
			}
			if sum != total {
				t.Fatalf("Split(%d, %d) sums to %d", total, capacity, sum)
			}
		}
	}
}

func TestSplit_CopiesPrototype(t *testing.T) {
	proto := testPrototype()
	drafts, err := Split(proto, 60, 25)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	for i, d := range drafts {
		if d.Prototype != proto {
			t.Errorf("draft %d prototype = %+v, want %+v", i, d.Prototype, proto)
		}
	}
}

func TestSplit_RejectsNonPositive(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		capacity  int
		wantField string
	}{
		{"zero total", 0, 25, "student_count"},
		{"negative total", -5, 25, "student_count"},
		{"zero capacity", 10, 0, "capacity"},
		{"negative capacity", 10, -1, "capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := Split(testPrototype(), tt.total, tt.capacity)
			if err == nil {
				t.Fatalf("expected error, got drafts %v", Counts(drafts))
			}
			if !errs.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			verr := err.(*errs.ValidationError)
			if len(verr.Fields) != 1 || verr.Fields[0].Field != tt.wantField {
				t.Errorf("fields = %+v, want single %q", verr.Fields, tt.wantField)
			}
		})
	}
}

func TestPlanCount(t *testing.T) {
	tests := []struct {
		total, capacity, want int
	}{
		{100, 25, 4},
		{101, 25, 5},
		{24, 25, 1},
		{0, 25, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := PlanCount(tt.total, tt.capacity); got != tt.want {
			t.Errorf("PlanCount(%d, %d) = %d, want %d", tt.total, tt.capacity, got, tt.want)
		}
	}
}
