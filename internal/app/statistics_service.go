package app

import (
	"context"

	"github.com/example/ambassador/internal/ports/primary"
	"github.com/example/ambassador/internal/ports/secondary"
)

// StatisticsServiceImpl implements the StatisticsService interface.
type StatisticsServiceImpl struct {
	statsRepo secondary.StatisticsRepository
}

// NewStatisticsService creates a new StatisticsService with injected dependencies.
func NewStatisticsService(statsRepo secondary.StatisticsRepository) *StatisticsServiceImpl {
	return &StatisticsServiceImpl{statsRepo: statsRepo}
}

// Overview returns ledger-wide counts.
func (s *StatisticsServiceImpl) Overview(ctx context.Context) (*primary.Overview, error) {
	record, err := s.statsRepo.Overview(ctx)
	if err != nil {
		return nil, err
	}

	return &primary.Overview{
		ActivePersons:         record.ActivePersons,
		InactivePersons:       record.InactivePersons,
		Engagements:           record.Engagements,
		Students:              record.Students,
		OnlineEngagements:     record.OnlineEngagements,
		OnsiteEngagements:     record.Engagements - record.OnlineEngagements,
		Links:                 record.Links,
		PersonsWithoutLink:    record.PersonsWithoutLink,
		PersonsBySector:       toBuckets(record.PersonsBySector),
		EngagementsByDistrict: toBuckets(record.EngagementsByDistrict),
		EngagementsByMonth:    toBuckets(record.EngagementsByMonth),
	}, nil
}

// Ensure StatisticsServiceImpl implements the interface
var _ primary.StatisticsService = (*StatisticsServiceImpl)(nil)
