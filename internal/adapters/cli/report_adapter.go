package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/ambassador/internal/ports/primary"
)

// ReportAdapter renders statistics, imports and backups.
type ReportAdapter struct {
	stats       primary.StatisticsService
	assignments primary.AssignmentService
	out         io.Writer
}

// NewReportAdapter creates a new ReportAdapter with the given services.
func NewReportAdapter(stats primary.StatisticsService, assignments primary.AssignmentService, out io.Writer) *ReportAdapter {
	return &ReportAdapter{
		stats:       stats,
		assignments: assignments,
		out:         out,
	}
}

// Overview prints ledger-wide counts.
func (a *ReportAdapter) Overview(ctx context.Context) (*primary.Overview, error) {
	o, err := a.stats.Overview(ctx)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(a.out, "\nAmbassadors")
	fmt.Fprintf(a.out, "  Active:           %d\n", o.ActivePersons)
	fmt.Fprintf(a.out, "  Inactive:         %d\n", o.InactivePersons)
	fmt.Fprintf(a.out, "  Without visits:   %d\n", o.PersonsWithoutLink)
	printBuckets(a.out, "  By sector", o.PersonsBySector)

	fmt.Fprintln(a.out, "\nEngagements")
	fmt.Fprintf(a.out, "  Total:            %d\n", o.Engagements)
	fmt.Fprintf(a.out, "  Students reached: %d\n", o.Students)
	fmt.Fprintf(a.out, "  On-site / online: %d / %d\n", o.OnsiteEngagements, o.OnlineEngagements)
	printBuckets(a.out, "  By district", o.EngagementsByDistrict)
	printBuckets(a.out, "  By month", o.EngagementsByMonth)

	fmt.Fprintf(a.out, "\nAssignments:        %d\n\n", o.Links)
	return o, nil
}

// Engagement prints the rollup of one engagement.
func (a *ReportAdapter) Engagement(ctx context.Context, engagementID string) (*primary.EngagementStatistics, error) {
	s, err := a.assignments.StatisticsForEngagement(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nEngagement %s\n", s.EngagementID)
	fmt.Fprintf(a.out, "  Ambassadors: %d\n", s.LinkedCount)
	printBuckets(a.out, "  By sector", s.BySector)
	fmt.Fprintln(a.out)
	return s, nil
}

// Person prints the rollup of one ambassador.
func (a *ReportAdapter) Person(ctx context.Context, personID string) (*primary.PersonStatistics, error) {
	s, err := a.assignments.StatisticsForPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nAmbassador %s\n", s.PersonID)
	fmt.Fprintf(a.out, "  Engagements:      %d\n", s.LinkedCount)
	fmt.Fprintf(a.out, "  Students reached: %d\n", s.StudentsReached)
	if s.LinkedCount > 0 {
		fmt.Fprintf(a.out, "  First / last:     %s / %s\n", s.FirstDate, s.LastDate)
	}
	printBuckets(a.out, "  By school type", s.BySchoolType)
	printBuckets(a.out, "  By district", s.ByDistrict)
	fmt.Fprintln(a.out)
	return s, nil
}

// Import prints an import summary with its rejected rows.
func (a *ReportAdapter) Import(entity string, result *primary.ImportResult) {
	fmt.Fprintf(a.out, "✓ Imported %d of %d %s row(s)\n", result.Imported, result.TotalRows, entity)
	if len(result.CreatedIDs) > result.Imported {
		fmt.Fprintf(a.out, "  %d record(s) created after splitting\n", len(result.CreatedIDs))
	}
	if len(result.Errors) == 0 {
		return
	}
	fmt.Fprintf(a.out, "%s %d row(s) rejected:\n", color.New(color.FgRed).Sprint("✗"), len(result.Errors))
	for _, e := range result.Errors {
		fmt.Fprintf(a.out, "  row %d: %s\n", e.Row, e.Reason)
	}
}

// Backup prints a created backup.
func (a *ReportAdapter) Backup(result *primary.BackupResult) {
	fmt.Fprintf(a.out, "✓ Backup written to %s\n", result.Path)
	fmt.Fprintf(a.out, "  schema v%d, %s\n", result.SchemaVersion, formatCounts(result.RowCounts))
}

// Restore prints a completed restore.
func (a *ReportAdapter) Restore(result *primary.RestoreResult) {
	fmt.Fprintf(a.out, "✓ Restored from %s\n", result.RestoredFrom)
	fmt.Fprintf(a.out, "  schema v%d, %s\n", result.SchemaVersion, formatCounts(result.RowCounts))
	fmt.Fprintf(a.out, "  previous database kept at %s\n", result.PreviousCopy)
}

// Backups lists archive paths.
func (a *ReportAdapter) Backups(paths []string) {
	if len(paths) == 0 {
		fmt.Fprintln(a.out, "No backups found.")
		return
	}
	for _, p := range paths {
		fmt.Fprintln(a.out, p)
	}
}

func printBuckets(out io.Writer, title string, buckets []primary.Bucket) {
	if len(buckets) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, b := range buckets {
		key := b.Key
		if key == "" {
			key = "(none)"
		}
		fmt.Fprintf(w, "    %s\t%d\n", key, b.Count)
	}
	w.Flush()
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := ""
	for i, k := range keys {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%d %s", counts[k], k)
	}
	return s
}
