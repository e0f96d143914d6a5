package primary

import "context"

// StatisticsService defines the primary port for ledger-wide reporting.
type StatisticsService interface {
	// Overview returns ledger-wide counts.
	Overview(ctx context.Context) (*Overview, error)
}

// Overview holds ledger-wide counts.
type Overview struct {
	ActivePersons         int
	InactivePersons       int
	Engagements           int
	Students              int
	OnlineEngagements     int
	OnsiteEngagements     int
	Links                 int
	PersonsWithoutLink    int
	PersonsBySector       []Bucket
	EngagementsByDistrict []Bucket
	EngagementsByMonth    []Bucket
}
