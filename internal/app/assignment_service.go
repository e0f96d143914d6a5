package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/ambassador/internal/core/assignment"
	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/core/paging"
	"github.com/example/ambassador/internal/logging"
	"github.com/example/ambassador/internal/ports/primary"
	"github.com/example/ambassador/internal/ports/secondary"
)

// AssignmentServiceImpl implements the AssignmentService interface.
type AssignmentServiceImpl struct {
	personRepo     secondary.PersonRepository
	engagementRepo secondary.EngagementRepository
	linkRepo       secondary.LinkRepository
	statsRepo      secondary.StatisticsRepository
	validator      *Validator
	pageSize       int
	logger         *zap.Logger
	newID          func() string
}

// NewAssignmentService creates a new AssignmentService with injected dependencies.
func NewAssignmentService(
	personRepo secondary.PersonRepository,
	engagementRepo secondary.EngagementRepository,
	linkRepo secondary.LinkRepository,
	statsRepo secondary.StatisticsRepository,
	validator *Validator,
	pageSize int,
	logger *zap.Logger,
) *AssignmentServiceImpl {
	return &AssignmentServiceImpl{
		personRepo:     personRepo,
		engagementRepo: engagementRepo,
		linkRepo:       linkRepo,
		statsRepo:      statsRepo,
		validator:      validator,
		pageSize:       pageSize,
		logger:         logger,
		newID:          uuid.NewString,
	}
}

// CreateLink links a person to an engagement.
func (s *AssignmentServiceImpl) CreateLink(ctx context.Context, req primary.CreateLinkRequest) (*primary.Link, error) {
	req.PersonID = cleanString(req.PersonID)
	req.EngagementID = cleanString(req.EngagementID)
	req.Note = sanitizeText(req.Note)

	// 1. Resolve endpoints and current state
	guardCtx, err := s.linkContext(ctx, req.PersonID, req.EngagementID)
	if err != nil {
		return nil, err
	}

	// 2. Guard check
	if result := assignment.CanCreateLink(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	// 3. Insert; the storage constraint decides concurrent races
	record, err := s.insert(ctx, req.PersonID, req.EngagementID, req.Note)
	if err != nil {
		return nil, err
	}

	logging.WithActor(ctx, s.logger).Info("link created",
		zap.String("link_id", record.ID),
		zap.String("person_id", req.PersonID),
		zap.String("engagement_id", req.EngagementID),
	)

	return s.GetLink(ctx, req.PersonID, req.EngagementID)
}

// RemoveLink deletes the link for a pair and reports whether one existed.
func (s *AssignmentServiceImpl) RemoveLink(ctx context.Context, personID, engagementID string) (bool, error) {
	removed, err := s.linkRepo.Delete(ctx, cleanString(personID), cleanString(engagementID))
	if err != nil {
		return false, fmt.Errorf("failed to remove link: %w", err)
	}

	if removed {
		logging.WithActor(ctx, s.logger).Info("link removed",
			zap.String("person_id", personID),
			zap.String("engagement_id", engagementID),
		)
	}
	return removed, nil
}

// BulkCreateLinks links many persons to one engagement.
func (s *AssignmentServiceImpl) BulkCreateLinks(ctx context.Context, req primary.BulkLinkRequest) (*primary.BulkLinkResult, error) {
	req.PersonIDs = assignment.DedupeIDs(req.PersonIDs)
	req.EngagementID = cleanString(req.EngagementID)
	req.Note = sanitizeText(req.Note)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	// 1. Resolve every endpoint before writing anything
	if err := s.requireEngagement(ctx, req.EngagementID); err != nil {
		return nil, err
	}
	for _, personID := range req.PersonIDs {
		if err := s.requirePerson(ctx, personID); err != nil {
			return nil, err
		}
	}

	// 2. Write, skipping pairs that already exist
	pairs := make([][2]string, len(req.PersonIDs))
	for i, personID := range req.PersonIDs {
		pairs[i] = [2]string{personID, req.EngagementID}
	}
	result, err := s.insertAll(ctx, pairs, req.Note, 0)

	logging.WithActor(ctx, s.logger).Info("bulk links created",
		zap.String("engagement_id", req.EngagementID),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, err
}

// BulkCreateLinksForPerson links one person to many engagements.
func (s *AssignmentServiceImpl) BulkCreateLinksForPerson(ctx context.Context, req primary.BulkPersonLinkRequest) (*primary.BulkLinkResult, error) {
	req.PersonID = cleanString(req.PersonID)
	req.EngagementIDs = assignment.DedupeIDs(req.EngagementIDs)
	req.Note = sanitizeText(req.Note)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	if err := s.requirePerson(ctx, req.PersonID); err != nil {
		return nil, err
	}
	for _, engagementID := range req.EngagementIDs {
		if err := s.requireEngagement(ctx, engagementID); err != nil {
			return nil, err
		}
	}

	pairs := make([][2]string, len(req.EngagementIDs))
	for i, engagementID := range req.EngagementIDs {
		pairs[i] = [2]string{req.PersonID, engagementID}
	}
	result, err := s.insertAll(ctx, pairs, req.Note, 1)

	logging.WithActor(ctx, s.logger).Info("bulk links created",
		zap.String("person_id", req.PersonID),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, err
}

// AvailablePersonsForEngagement returns active persons not linked to the engagement.
func (s *AssignmentServiceImpl) AvailablePersonsForEngagement(ctx context.Context, engagementID string) ([]*primary.Person, error) {
	if err := s.requireEngagement(ctx, engagementID); err != nil {
		return nil, err
	}

	active, err := s.personRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active persons: %w", err)
	}
	links, err := s.linkRepo.ListByEngagement(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	linked := make(map[string]bool, len(links))
	for _, l := range links {
		linked[l.PersonID] = true
	}

	available := assignment.Unlinked(active, func(p *secondary.PersonRecord) string { return p.ID }, linked)
	persons := make([]*primary.Person, len(available))
	for i, r := range available {
		persons[i] = recordToPerson(r)
	}
	return persons, nil
}

// AvailableEngagementsForPerson returns engagements not linked to the person, by date.
func (s *AssignmentServiceImpl) AvailableEngagementsForPerson(ctx context.Context, personID string) ([]*primary.Engagement, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}

	all, err := s.engagementRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}
	links, err := s.linkRepo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	linked := make(map[string]bool, len(links))
	for _, l := range links {
		linked[l.EngagementID] = true
	}

	available := assignment.Unlinked(all, func(e *secondary.EngagementRecord) string { return e.ID }, linked)
	engagements := make([]*primary.Engagement, len(available))
	for i, r := range available {
		engagements[i] = recordToEngagement(r)
	}
	return engagements, nil
}

// GetLink retrieves the link for a pair.
func (s *AssignmentServiceImpl) GetLink(ctx context.Context, personID, engagementID string) (*primary.Link, error) {
	personID = cleanString(personID)
	engagementID = cleanString(engagementID)
	record, err := s.linkRepo.Get(ctx, personID, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	if record == nil {
		return nil, errs.NotFound("link", personID+"/"+engagementID)
	}
	return recordToLink(record), nil
}

// ListLinksByPerson lists a person's links ordered by engagement date.
func (s *AssignmentServiceImpl) ListLinksByPerson(ctx context.Context, personID string) ([]*primary.Link, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}
	records, err := s.linkRepo.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	return recordsToLinks(records), nil
}

// ListLinksByEngagement lists an engagement's links ordered by person name.
func (s *AssignmentServiceImpl) ListLinksByEngagement(ctx context.Context, engagementID string) ([]*primary.Link, error) {
	if err := s.requireEngagement(ctx, engagementID); err != nil {
		return nil, err
	}
	records, err := s.linkRepo.ListByEngagement(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	return recordsToLinks(records), nil
}

// ListLinks lists links one page at a time.
func (s *AssignmentServiceImpl) ListLinks(ctx context.Context, req primary.LinkListRequest) (*primary.LinkPage, error) {
	page := req.Page.Normalize(s.pageSize)
	filters := secondary.LinkFilters{PersonID: req.PersonID, EngagementID: req.EngagementID}

	total, err := s.linkRepo.Count(ctx, filters)
	if err != nil {
		return nil, err
	}

	filters.Limit = page.Size
	filters.Offset = page.Offset()
	records, err := s.linkRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &primary.LinkPage{Links: recordsToLinks(records), Page: paging.NewInfo(page, total)}, nil
}

// UpdateLinkNote replaces the note of an existing link.
func (s *AssignmentServiceImpl) UpdateLinkNote(ctx context.Context, personID, engagementID, note string) (*primary.Link, error) {
	personID = cleanString(personID)
	engagementID = cleanString(engagementID)
	note = sanitizeText(note)
	if err := s.validator.Struct(primary.CreateLinkRequest{PersonID: personID, EngagementID: engagementID, Note: note}); err != nil {
		return nil, err
	}

	if err := s.linkRepo.UpdateNote(ctx, personID, engagementID, note); err != nil {
		return nil, err
	}

	logging.WithActor(ctx, s.logger).Info("link note updated",
		zap.String("person_id", personID),
		zap.String("engagement_id", engagementID),
	)
	return s.GetLink(ctx, personID, engagementID)
}

// StatisticsForEngagement returns the linked-person rollup of an engagement.
func (s *AssignmentServiceImpl) StatisticsForEngagement(ctx context.Context, engagementID string) (*primary.EngagementStatistics, error) {
	record, err := s.statsRepo.EngagementBreakdown(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	return &primary.EngagementStatistics{
		EngagementID: record.EngagementID,
		LinkedCount:  record.LinkedCount,
		BySector:     toBuckets(record.BySector),
	}, nil
}

// StatisticsForPerson returns the linked-engagement rollup of a person.
func (s *AssignmentServiceImpl) StatisticsForPerson(ctx context.Context, personID string) (*primary.PersonStatistics, error) {
	record, err := s.statsRepo.PersonBreakdown(ctx, personID)
	if err != nil {
		return nil, err
	}
	return &primary.PersonStatistics{
		PersonID:        record.PersonID,
		LinkedCount:     record.LinkedCount,
		StudentsReached: record.StudentsReached,
		FirstDate:       record.FirstDate,
		LastDate:        record.LastDate,
		BySchoolType:    toBuckets(record.BySchoolType),
		ByDistrict:      toBuckets(record.ByDistrict),
	}, nil
}

// linkContext gathers the facts CanCreateLink needs.
func (s *AssignmentServiceImpl) linkContext(ctx context.Context, personID, engagementID string) (assignment.CreateLinkContext, error) {
	guardCtx := assignment.CreateLinkContext{PersonID: personID, EngagementID: engagementID}
	if personID == "" || engagementID == "" {
		return guardCtx, nil
	}

	var err error
	if guardCtx.PersonExists, err = s.exists(ctx, s.personExists, personID); err != nil {
		return guardCtx, err
	}
	if guardCtx.EngagementExists, err = s.exists(ctx, s.engagementExists, engagementID); err != nil {
		return guardCtx, err
	}
	if guardCtx.PersonExists && guardCtx.EngagementExists {
		existing, err := s.linkRepo.Get(ctx, personID, engagementID)
		if err != nil {
			return guardCtx, fmt.Errorf("failed to check link: %w", err)
		}
		guardCtx.AlreadyLinked = existing != nil
	}
	return guardCtx, nil
}

func (s *AssignmentServiceImpl) exists(ctx context.Context, lookup func(context.Context, string) error, id string) (bool, error) {
	err := lookup(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errs.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

func (s *AssignmentServiceImpl) personExists(ctx context.Context, id string) error {
	_, err := s.personRepo.GetByID(ctx, id)
	return err
}

func (s *AssignmentServiceImpl) engagementExists(ctx context.Context, id string) error {
	_, err := s.engagementRepo.GetByID(ctx, id)
	return err
}

func (s *AssignmentServiceImpl) requirePerson(ctx context.Context, id string) error {
	return s.personExists(ctx, id)
}

func (s *AssignmentServiceImpl) requireEngagement(ctx context.Context, id string) error {
	return s.engagementExists(ctx, id)
}

func (s *AssignmentServiceImpl) insert(ctx context.Context, personID, engagementID, note string) (*secondary.LinkRecord, error) {
	record := &secondary.LinkRecord{
		ID:           s.newID(),
		PersonID:     personID,
		EngagementID: engagementID,
		Note:         note,
	}
	if err := s.linkRepo.Insert(ctx, record); err != nil {
		if errs.IsConflict(err) || errs.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return record, nil
}

// insertAll inserts every pair in order. A ConflictError skips the pair and
// records pair[skipSide]; any other error stops the run and is returned with
// the links created so far.
func (s *AssignmentServiceImpl) insertAll(ctx context.Context, pairs [][2]string, note string, skipSide int) (*primary.BulkLinkResult, error) {
	result := &primary.BulkLinkResult{}
	logger := logging.WithActor(ctx, s.logger)

	for _, pair := range pairs {
		record, err := s.insert(ctx, pair[0], pair[1], note)
		if errs.IsConflict(err) {
			logger.Debug("bulk link skipped duplicate",
				zap.String("person_id", pair[0]),
				zap.String("engagement_id", pair[1]),
			)
			result.Skipped = append(result.Skipped, pair[skipSide])
			continue
		}
		if err != nil {
			return result, err
		}

		link, err := s.GetLink(ctx, record.PersonID, record.EngagementID)
		if err != nil {
			return result, err
		}
		result.Created = append(result.Created, link)
	}
	return result, nil
}

func toBuckets(records []secondary.CountRecord) []primary.Bucket {
	buckets := make([]primary.Bucket, len(records))
	for i, r := range records {
		buckets[i] = primary.Bucket{Key: r.Key, Count: r.Count}
	}
	return buckets
}

func recordsToLinks(records []*secondary.LinkRecord) []*primary.Link {
	links := make([]*primary.Link, len(records))
	for i, r := range records {
		links[i] = recordToLink(r)
	}
	return links
}

func recordToLink(r *secondary.LinkRecord) *primary.Link {
	name := r.PersonFirstName
	if r.PersonLastName != "" {
		if name != "" {
			name += " "
		}
		name += r.PersonLastName
	}
	return &primary.Link{
		ID:           r.ID,
		PersonID:     r.PersonID,
		EngagementID: r.EngagementID,
		AssignedOn:   r.AssignedOn,
		Note:         r.Note,
		CreatedAt:    r.CreatedAt,
		PersonName:   name,
		PersonSector: r.PersonSector,
		SchoolName:   r.SchoolName,
		EventDate:    r.EventDate,
	}
}

// Ensure AssignmentServiceImpl implements the interface
var _ primary.AssignmentService = (*AssignmentServiceImpl)(nil)
