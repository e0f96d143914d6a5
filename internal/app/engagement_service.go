package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	coreengagement "github.com/example/ambassador/internal/core/engagement"
	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/core/paging"
	coreperson "github.com/example/ambassador/internal/core/person"
	"github.com/example/ambassador/internal/logging"
	"github.com/example/ambassador/internal/ports/primary"
	"github.com/example/ambassador/internal/ports/secondary"
)

// EngagementServiceImpl implements the EngagementService interface.
type EngagementServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	linkRepo       secondary.LinkRepository
	validator      *Validator
	capacity       int
	pageSize       int
	logger         *zap.Logger
}

// NewEngagementService creates a new EngagementService with injected dependencies.
// capacity is the per-engagement student limit used when splitting.
func NewEngagementService(
	engagementRepo secondary.EngagementRepository,
	linkRepo secondary.LinkRepository,
	validator *Validator,
	capacity int,
	pageSize int,
	logger *zap.Logger,
) *EngagementServiceImpl {
	return &EngagementServiceImpl{
		engagementRepo: engagementRepo,
		linkRepo:       linkRepo,
		validator:      validator,
		capacity:       capacity,
		pageSize:       pageSize,
		logger:         logger,
	}
}

// Capacity returns the configured per-engagement student limit.
func (s *EngagementServiceImpl) Capacity() int {
	return s.capacity
}

// CreateEngagements splits the visit at capacity and persists every part.
func (s *EngagementServiceImpl) CreateEngagements(ctx context.Context, req primary.CreateEngagementRequest) (*primary.CreateEngagementsResponse, error) {
	// 1. Validate and split
	drafts, err := s.plan(req)
	if err != nil {
		return nil, err
	}

	// 2. Persist atomically
	records := make([]*secondary.EngagementRecord, len(drafts))
	for i, d := range drafts {
		records[i] = draftToRecord(d)
	}
	if err := s.engagementRepo.CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to create engagements: %w", err)
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	logging.WithActor(ctx, s.logger).Info("engagement created",
		zap.Strings("engagement_ids", ids),
		zap.Int("students", req.StudentCount),
		zap.Int("capacity", s.capacity),
	)

	// 3. Reload so timestamps are populated
	created := make([]*primary.Engagement, 0, len(records))
	for _, r := range records {
		loaded, err := s.engagementRepo.GetByID(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		created = append(created, recordToEngagement(loaded))
	}

	return &primary.CreateEngagementsResponse{Engagements: created, Capacity: s.capacity}, nil
}

// PreviewSplit returns the split CreateEngagements would perform.
func (s *EngagementServiceImpl) PreviewSplit(ctx context.Context, req primary.CreateEngagementRequest) (*primary.SplitPlan, error) {
	drafts, err := s.plan(req)
	if err != nil {
		return nil, err
	}
	return &primary.SplitPlan{
		Total:    req.StudentCount,
		Capacity: s.capacity,
		Counts:   coreengagement.Counts(drafts),
	}, nil
}

// GetEngagement retrieves an engagement by ID.
func (s *EngagementServiceImpl) GetEngagement(ctx context.Context, engagementID string) (*primary.Engagement, error) {
	record, err := s.engagementRepo.GetByID(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	return recordToEngagement(record), nil
}

// ListEngagements lists engagements with optional filters.
func (s *EngagementServiceImpl) ListEngagements(ctx context.Context, req primary.EngagementListRequest) (*primary.EngagementPage, error) {
	for _, bound := range []struct{ field, value string }{{"from", req.From}, {"to", req.To}} {
		if !coreperson.ValidDate(bound.value) {
			return nil, errs.NewValidation("", errs.FieldError{Field: bound.field, Message: "must be a date in YYYY-MM-DD format"})
		}
	}

	page := req.Page.Normalize(s.pageSize)
	filters := secondary.EngagementFilters{
		From:              req.From,
		To:                req.To,
		District:          req.District,
		SchoolType:        req.SchoolType,
		Online:            req.Online,
		CareerOrientation: req.CareerOrientation,
		Search:            req.Search,
	}

	total, err := s.engagementRepo.Count(ctx, filters)
	if err != nil {
		return nil, err
	}

	filters.Limit = page.Size
	filters.Offset = page.Offset()
	records, err := s.engagementRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	engagements := make([]*primary.Engagement, len(records))
	for i, r := range records {
		engagements[i] = recordToEngagement(r)
	}

	return &primary.EngagementPage{Engagements: engagements, Page: paging.NewInfo(page, total)}, nil
}

// UpdateEngagement applies the non-nil fields of req.
func (s *EngagementServiceImpl) UpdateEngagement(ctx context.Context, req primary.UpdateEngagementRequest) (*primary.Engagement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	record, err := s.engagementRepo.GetByID(ctx, req.EngagementID)
	if err != nil {
		return nil, err
	}

	applyString(&record.Date, trimmed(req.Date))
	applyString(&record.SchoolName, trimmed(req.SchoolName))
	applyString(&record.SchoolType, trimmed(req.SchoolType))
	applyString(&record.Partner, trimmed(req.Partner))
	applyString(&record.City, trimmed(req.City))
	applyString(&record.District, trimmed(req.District))
	applyString(&record.GradeLevel, trimmed(req.GradeLevel))
	if req.CareerOrientation != nil {
		record.CareerOrientation = *req.CareerOrientation
	}
	if req.Online != nil {
		record.Online = *req.Online
	}
	if req.StudentCount != nil {
		result := coreengagement.CanUpdateStudentCount(coreengagement.UpdateCountContext{
			EngagementID: record.ID,
			StudentCount: *req.StudentCount,
			Capacity:     s.capacity,
		})
		if !result.Allowed {
			return nil, errs.NewValidation("", errs.FieldError{Field: "student_count", Message: result.Reason})
		}
		record.StudentCount = *req.StudentCount
	}

	if record.SchoolName == "" {
		return nil, errs.NewValidation("", errs.FieldError{Field: "school_name", Message: "is a required field"})
	}

	if err := s.engagementRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update engagement: %w", err)
	}

	logging.WithActor(ctx, s.logger).Info("engagement updated", zap.String("engagement_id", record.ID))

	return s.GetEngagement(ctx, record.ID)
}

// DeleteEngagement removes an engagement. Linked engagements need force.
func (s *EngagementServiceImpl) DeleteEngagement(ctx context.Context, engagementID string, force bool) error {
	if _, err := s.engagementRepo.GetByID(ctx, engagementID); err != nil {
		return err
	}

	links, err := s.linkRepo.ListByEngagement(ctx, engagementID)
	if err != nil {
		return fmt.Errorf("failed to load links: %w", err)
	}

	result := coreengagement.CanDeleteEngagement(coreengagement.DeleteContext{
		EngagementID: engagementID,
		LinkCount:    len(links),
		Force:        force,
	})
	if !result.Allowed {
		return errs.Conflict("engagement", result.Reason)
	}

	if err := s.engagementRepo.Delete(ctx, engagementID); err != nil {
		return err
	}

	logging.WithActor(ctx, s.logger).Info("engagement deleted",
		zap.String("engagement_id", engagementID),
		zap.Int("links_removed", len(links)),
	)
	return nil
}

// Districts returns the districts in use.
func (s *EngagementServiceImpl) Districts(ctx context.Context) ([]string, error) {
	return s.engagementRepo.DistinctDistricts(ctx)
}

// SchoolTypes returns the school types in use.
func (s *EngagementServiceImpl) SchoolTypes(ctx context.Context) ([]string, error) {
	return s.engagementRepo.DistinctSchoolTypes(ctx)
}

func (s *EngagementServiceImpl) plan(req primary.CreateEngagementRequest) ([]coreengagement.Draft, error) {
	req = normalizeCreateEngagement(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	proto := coreengagement.Prototype{
		Date:              req.Date,
		SchoolName:        req.SchoolName,
		SchoolType:        req.SchoolType,
		Partner:           req.Partner,
		City:              req.City,
		District:          req.District,
		CareerOrientation: req.CareerOrientation,
		Online:            req.Online,
		GradeLevel:        req.GradeLevel,
	}
	return coreengagement.Split(proto, req.StudentCount, s.capacity)
}

func normalizeCreateEngagement(req primary.CreateEngagementRequest) primary.CreateEngagementRequest {
	req.Date = cleanString(req.Date)
	req.SchoolName = cleanString(req.SchoolName)
	req.SchoolType = cleanString(req.SchoolType)
	req.Partner = cleanString(req.Partner)
	req.City = cleanString(req.City)
	req.District = cleanString(req.District)
	req.GradeLevel = cleanString(req.GradeLevel)
	return req
}

func draftToRecord(d coreengagement.Draft) *secondary.EngagementRecord {
	return &secondary.EngagementRecord{
		Date:              d.Date,
		SchoolName:        d.SchoolName,
		SchoolType:        d.SchoolType,
		Partner:           d.Partner,
		City:              d.City,
		District:          d.District,
		CareerOrientation: d.CareerOrientation,
		Online:            d.Online,
		GradeLevel:        d.GradeLevel,
		StudentCount:      d.StudentCount,
	}
}

func recordToEngagement(r *secondary.EngagementRecord) *primary.Engagement {
	return &primary.Engagement{
		ID:                r.ID,
		Date:              r.Date,
		SchoolName:        r.SchoolName,
		SchoolType:        r.SchoolType,
		Partner:           r.Partner,
		City:              r.City,
		District:          r.District,
		CareerOrientation: r.CareerOrientation,
		Online:            r.Online,
		GradeLevel:        r.GradeLevel,
		StudentCount:      r.StudentCount,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// Ensure EngagementServiceImpl implements the interface
var _ primary.EngagementService = (*EngagementServiceImpl)(nil)
