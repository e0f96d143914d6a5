package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/core/paging"
	coreperson "github.com/example/ambassador/internal/core/person"
	"github.com/example/ambassador/internal/logging"
	"github.com/example/ambassador/internal/ports/primary"
	"github.com/example/ambassador/internal/ports/secondary"
)

// PersonServiceImpl implements the PersonService interface.
type PersonServiceImpl struct {
	personRepo secondary.PersonRepository
	validator  *Validator
	pageSize   int
	logger     *zap.Logger
}

// NewPersonService creates a new PersonService with injected dependencies.
func NewPersonService(
	personRepo secondary.PersonRepository,
	validator *Validator,
	pageSize int,
	logger *zap.Logger,
) *PersonServiceImpl {
	return &PersonServiceImpl{
		personRepo: personRepo,
		validator:  validator,
		pageSize:   pageSize,
		logger:     logger,
	}
}

// RegisterPerson creates a new ambassador.
func (s *PersonServiceImpl) RegisterPerson(ctx context.Context, req primary.CreatePersonRequest) (*primary.Person, error) {
	req = normalizeCreatePerson(req)

	// 1. Validate input
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	record := &secondary.PersonRecord{
		ReferenceCode:        req.ReferenceCode,
		Active:               !req.Inactive,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Gender:               req.Gender,
		BirthDate:            req.BirthDate,
		Occupation:           req.Occupation,
		Sector:               req.Sector,
		Mobile:               req.Mobile,
		EmailWork:            req.EmailWork,
		EmailPrivate:         req.EmailPrivate,
		PhoneWork:            req.PhoneWork,
		PhonePrivate:         req.PhonePrivate,
		DirectContactAllowed: req.DirectContactAllowed,
		Company:              req.Company,
		CompanyDistrict:      req.CompanyDistrict,
		Notes:                req.Notes,
	}

	// 2. Uniqueness guard
	if err := s.checkUnique(ctx, record); err != nil {
		return nil, err
	}

	// 3. Assign ID and persist
	nextID, err := s.personRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get next ID: %w", err)
	}
	record.ID = nextID

	if err := s.personRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	logging.WithActor(ctx, s.logger).Info("person registered",
		zap.String("person_id", record.ID),
		zap.String("sector", record.Sector),
	)

	return s.GetPerson(ctx, record.ID)
}

// GetPerson retrieves an ambassador by ID.
func (s *PersonServiceImpl) GetPerson(ctx context.Context, personID string) (*primary.Person, error) {
	record, err := s.personRepo.GetByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	return recordToPerson(record), nil
}

// ListPersons lists ambassadors with optional filters.
func (s *PersonServiceImpl) ListPersons(ctx context.Context, req primary.PersonListRequest) (*primary.PersonPage, error) {
	page := req.Page.Normalize(s.pageSize)
	filters := secondary.PersonFilters{
		Active:   req.Active,
		Sector:   req.Sector,
		District: req.District,
		Search:   req.Search,
	}

	total, err := s.personRepo.Count(ctx, filters)
	if err != nil {
		return nil, err
	}

	filters.Limit = page.Size
	filters.Offset = page.Offset()
	records, err := s.personRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	persons := make([]*primary.Person, len(records))
	for i, r := range records {
		persons[i] = recordToPerson(r)
	}

	return &primary.PersonPage{Persons: persons, Page: paging.NewInfo(page, total)}, nil
}

// UpdatePerson applies the non-nil fields of req.
func (s *PersonServiceImpl) UpdatePerson(ctx context.Context, req primary.UpdatePersonRequest) (*primary.Person, error) {
	req = normalizeUpdatePerson(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	record, err := s.personRepo.GetByID(ctx, req.PersonID)
	if err != nil {
		return nil, err
	}

	applyString(&record.ReferenceCode, req.ReferenceCode)
	applyString(&record.FirstName, req.FirstName)
	applyString(&record.LastName, req.LastName)
	applyString(&record.Gender, req.Gender)
	applyString(&record.BirthDate, req.BirthDate)
	applyString(&record.Occupation, req.Occupation)
	applyString(&record.Sector, req.Sector)
	applyString(&record.Mobile, req.Mobile)
	applyString(&record.EmailWork, req.EmailWork)
	applyString(&record.EmailPrivate, req.EmailPrivate)
	applyString(&record.PhoneWork, req.PhoneWork)
	applyString(&record.PhonePrivate, req.PhonePrivate)
	applyString(&record.Company, req.Company)
	applyString(&record.CompanyDistrict, req.CompanyDistrict)
	applyString(&record.Notes, req.Notes)
	if req.DirectContactAllowed != nil {
		record.DirectContactAllowed = *req.DirectContactAllowed
	}

	if err := s.checkUnique(ctx, record); err != nil {
		return nil, err
	}

	if err := s.personRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	logging.WithActor(ctx, s.logger).Info("person updated", zap.String("person_id", record.ID))

	return s.GetPerson(ctx, record.ID)
}

// SetPersonActive deactivates or reactivates an ambassador.
func (s *PersonServiceImpl) SetPersonActive(ctx context.Context, personID string, active bool) (*primary.Person, error) {
	record, err := s.personRepo.GetByID(ctx, personID)
	if err != nil {
		return nil, err
	}

	if record.Active != active {
		record.Active = active
		if err := s.personRepo.Update(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to update person: %w", err)
		}
		logging.WithActor(ctx, s.logger).Info("person activity changed",
			zap.String("person_id", personID),
			zap.Bool("active", active),
		)
	}

	return s.GetPerson(ctx, personID)
}

// DeletePerson removes an ambassador; links cascade.
func (s *PersonServiceImpl) DeletePerson(ctx context.Context, personID string) error {
	if err := s.personRepo.Delete(ctx, personID); err != nil {
		return err
	}
	logging.WithActor(ctx, s.logger).Info("person deleted", zap.String("person_id", personID))
	return nil
}

func (s *PersonServiceImpl) checkUnique(ctx context.Context, record *secondary.PersonRecord) error {
	identityTaken, err := s.personRepo.ExistsByIdentity(ctx, record.FirstName, record.LastName, record.BirthDate, record.ID)
	if err != nil {
		return err
	}
	referenceTaken, err := s.personRepo.ExistsByReferenceCode(ctx, record.ReferenceCode, record.ID)
	if err != nil {
		return err
	}

	result := coreperson.CanSavePerson(coreperson.RegisterContext{
		FirstName:      record.FirstName,
		LastName:       record.LastName,
		BirthDate:      record.BirthDate,
		ReferenceCode:  record.ReferenceCode,
		IdentityTaken:  identityTaken,
		ReferenceTaken: referenceTaken,
	})
	if !result.Allowed {
		return errs.Conflict("person", result.Reason)
	}
	return nil
}

func normalizeCreatePerson(req primary.CreatePersonRequest) primary.CreatePersonRequest {
	req.ReferenceCode = cleanString(req.ReferenceCode)
	req.FirstName = cleanString(req.FirstName)
	req.LastName = cleanString(req.LastName)
	req.Gender = cleanString(req.Gender)
	req.BirthDate = cleanString(req.BirthDate)
	req.Occupation = cleanString(req.Occupation)
	req.Sector = coreperson.NormalizeSector(req.Sector)
	req.Mobile = cleanString(req.Mobile)
	req.EmailWork = cleanString(req.EmailWork)
	req.EmailPrivate = cleanString(req.EmailPrivate)
	req.PhoneWork = cleanString(req.PhoneWork)
	req.PhonePrivate = cleanString(req.PhonePrivate)
	req.Company = cleanString(req.Company)
	req.CompanyDistrict = cleanString(req.CompanyDistrict)
	req.Notes = sanitizeText(req.Notes)
	return req
}

func normalizeUpdatePerson(req primary.UpdatePersonRequest) primary.UpdatePersonRequest {
	req.ReferenceCode = trimmed(req.ReferenceCode)
	req.FirstName = trimmed(req.FirstName)
	req.LastName = trimmed(req.LastName)
	req.Gender = trimmed(req.Gender)
	req.BirthDate = trimmed(req.BirthDate)
	req.Occupation = trimmed(req.Occupation)
	req.Mobile = trimmed(req.Mobile)
	req.EmailWork = trimmed(req.EmailWork)
	req.EmailPrivate = trimmed(req.EmailPrivate)
	req.PhoneWork = trimmed(req.PhoneWork)
	req.PhonePrivate = trimmed(req.PhonePrivate)
	req.Company = trimmed(req.Company)
	req.CompanyDistrict = trimmed(req.CompanyDistrict)
	if req.Sector != nil {
		sector := coreperson.NormalizeSector(*req.Sector)
		req.Sector = &sector
	}
	if req.Notes != nil {
		notes := sanitizeText(*req.Notes)
		req.Notes = &notes
	}
	return req
}

// trimmed returns a trimmed copy of *p, leaving the caller's value untouched.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := cleanString(*p)
	return &v
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func recordToPerson(r *secondary.PersonRecord) *primary.Person {
	return &primary.Person{
		ID:                   r.ID,
		ReferenceCode:        r.ReferenceCode,
		Active:               r.Active,
		FirstName:            r.FirstName,
		LastName:             r.LastName,
		Gender:               r.Gender,
		BirthDate:            r.BirthDate,
		Occupation:           r.Occupation,
		Sector:               r.Sector,
		Mobile:               r.Mobile,
		EmailWork:            r.EmailWork,
		EmailPrivate:         r.EmailPrivate,
		PhoneWork:            r.PhoneWork,
		PhonePrivate:         r.PhonePrivate,
		DirectContactAllowed: r.DirectContactAllowed,
		Company:              r.Company,
		CompanyDistrict:      r.CompanyDistrict,
		Notes:                r.Notes,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// Ensure PersonServiceImpl implements the interface
var _ primary.PersonService = (*PersonServiceImpl)(nil)
