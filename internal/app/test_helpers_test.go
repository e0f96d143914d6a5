package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/example/ambassador/internal/core/errs"
	"github.com/example/ambassador/internal/ports/secondary"
)

// ============================================================================
// Mock PersonRepository
// ============================================================================

var _ secondary.PersonRepository = (*mockPersonRepository)(nil)

type mockPersonRepository struct {
	persons   map[string]*secondary.PersonRecord
	nextID    int
	createErr error
	getErr    error
}

func newMockPersonRepository() *mockPersonRepository {
	return &mockPersonRepository{persons: make(map[string]*secondary.PersonRecord), nextID: 1}
}

func (m *mockPersonRepository) add(p *secondary.PersonRecord) {
	cp := *p
	m.persons[p.ID] = &cp
}

func (m *mockPersonRepository) Create(ctx context.Context, p *secondary.PersonRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.persons[p.ID]; ok {
		return errs.Conflict("person", "id "+p.ID+" is already in use")
	}
	m.add(p)
	return nil
}

func (m *mockPersonRepository) GetByID(ctx context.Context, id string) (*secondary.PersonRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.persons[id]
	if !ok {
		return nil, errs.NotFound("person", id)
	}
	cp := *p
	return &cp, nil
}

func (m *mockPersonRepository) sorted(filters secondary.PersonFilters) []*secondary.PersonRecord {
	var out []*secondary.PersonRecord
	for _, p := range m.persons {
		if filters.Active != nil && p.Active != *filters.Active {
			continue
		}
		if filters.Sector != "" && p.Sector != filters.Sector {
			continue
		}
		if filters.District != "" && p.CompanyDistrict != filters.District {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(p.FirstName+" "+p.LastName), strings.ToLower(filters.Search)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockPersonRepository) List(ctx context.Context, filters secondary.PersonFilters) ([]*secondary.PersonRecord, error) {
	return window(m.sorted(filters), filters.Limit, filters.Offset), nil
}

func (m *mockPersonRepository) Count(ctx context.Context, filters secondary.PersonFilters) (int, error) {
	return len(m.sorted(filters)), nil
}

func (m *mockPersonRepository) ListActive(ctx context.Context) ([]*secondary.PersonRecord, error) {
	active := true
	return m.sorted(secondary.PersonFilters{Active: &active}), nil
}

func (m *mockPersonRepository) Update(ctx context.Context, p *secondary.PersonRecord) error {
	if _, ok := m.persons[p.ID]; !ok {
		return errs.NotFound("person", p.ID)
	}
	m.add(p)
	return nil
}

func (m *mockPersonRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.persons[id]; !ok {
		return errs.NotFound("person", id)
	}
	delete(m.persons, id)
	return nil
}

func (m *mockPersonRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("AMB-%03d", m.nextID)
	m.nextID++
	return id, nil
}

func (m *mockPersonRepository) ExistsByIdentity(ctx context.Context, first, last, birth, excludeID string) (bool, error) {
	for _, p := range m.persons {
		if p.ID != excludeID && strings.EqualFold(p.FirstName, first) && strings.EqualFold(p.LastName, last) && p.BirthDate == birth {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPersonRepository) ExistsByReferenceCode(ctx context.Context, code, excludeID string) (bool, error) {
	if code == "" {
		return false, nil
	}
	for _, p := range m.persons {
		if p.ID != excludeID && p.ReferenceCode == code {
			return true, nil
		}
	}
	return false, nil
}

// ============================================================================
// Mock EngagementRepository
// ============================================================================

var _ secondary.EngagementRepository = (*mockEngagementRepository)(nil)

type mockEngagementRepository struct {
	engagements map[string]*secondary.EngagementRecord
	nextID      int
	batchErr    error
	batches     int
}

func newMockEngagementRepository() *mockEngagementRepository {
	return &mockEngagementRepository{engagements: make(map[string]*secondary.EngagementRecord), nextID: 1}
}

func (m *mockEngagementRepository) add(e *secondary.EngagementRecord) {
	cp := *e
	m.engagements[e.ID] = &cp
}

func (m *mockEngagementRepository) CreateBatch(ctx context.Context, records []*secondary.EngagementRecord) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	m.batches++
	for _, r := range records {
		r.ID = fmt.Sprintf("ENG-%03d", m.nextID)
		m.nextID++
		m.add(r)
	}
	return nil
}

func (m *mockEngagementRepository) GetByID(ctx context.Context, id string) (*secondary.EngagementRecord, error) {
	e, ok := m.engagements[id]
	if !ok {
		return nil, errs.NotFound("engagement", id)
	}
	cp := *e
	return &cp, nil
}

func (m *mockEngagementRepository) sorted() []*secondary.EngagementRecord {
	var out []*secondary.EngagementRecord
	for _, e := range m.engagements {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *mockEngagementRepository) List(ctx context.Context, filters secondary.EngagementFilters) ([]*secondary.EngagementRecord, error) {
	var out []*secondary.EngagementRecord
	for _, e := range m.sorted() {
		if filters.District != "" && e.District != filters.District {
			continue
		}
		if filters.From != "" && e.Date < filters.From {
			continue
		}
		if filters.To != "" && e.Date > filters.To {
			continue
		}
		out = append(out, e)
	}
	return window(out, filters.Limit, filters.Offset), nil
}

func (m *mockEngagementRepository) Count(ctx context.Context, filters secondary.EngagementFilters) (int, error) {
	filters.Limit = 0
	list, _ := m.List(ctx, filters)
	return len(list), nil
}

func (m *mockEngagementRepository) ListAll(ctx context.Context) ([]*secondary.EngagementRecord, error) {
	return m.sorted(), nil
}

func (m *mockEngagementRepository) Update(ctx context.Context, e *secondary.EngagementRecord) error {
	if _, ok := m.engagements[e.ID]; !ok {
		return errs.NotFound("engagement", e.ID)
	}
	m.add(e)
	return nil
}

func (m *mockEngagementRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.engagements[id]; !ok {
		return errs.NotFound("engagement", id)
	}
	delete(m.engagements, id)
	return nil
}

func (m *mockEngagementRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("ENG-%03d", m.nextID), nil
}

func (m *mockEngagementRepository) DistinctDistricts(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, e := range m.sorted() {
		if e.District != "" && !seen[e.District] {
			seen[e.District] = true
			out = append(out, e.District)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockEngagementRepository) DistinctSchoolTypes(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, e := range m.sorted() {
		if e.SchoolType != "" && !seen[e.SchoolType] {
			seen[e.SchoolType] = true
			out = append(out, e.SchoolType)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ============================================================================
// Mock LinkRepository
// ============================================================================

var _ secondary.LinkRepository = (*mockLinkRepository)(nil)

// mockLinkRepository enforces pair uniqueness and endpoint existence like
// the SQLite constraints do.
type mockLinkRepository struct {
	links       map[string]*secondary.LinkRecord // key: person|engagement
	persons     *mockPersonRepository
	engagements *mockEngagementRepository
	insertErrs  map[string]error // injected per pair key
	inserts     int
}

func newMockLinkRepository(persons *mockPersonRepository, engagements *mockEngagementRepository) *mockLinkRepository {
	return &mockLinkRepository{
		links:       make(map[string]*secondary.LinkRecord),
		persons:     persons,
		engagements: engagements,
		insertErrs:  make(map[string]error),
	}
}

func pairKey(personID, engagementID string) string {
	return personID + "|" + engagementID
}

func (m *mockLinkRepository) decorate(l *secondary.LinkRecord) *secondary.LinkRecord {
	cp := *l
	if p, ok := m.persons.persons[l.PersonID]; ok {
		cp.PersonFirstName = p.FirstName
		cp.PersonLastName = p.LastName
		cp.PersonSector = p.Sector
	}
	if e, ok := m.engagements.engagements[l.EngagementID]; ok {
		cp.SchoolName = e.SchoolName
		cp.EventDate = e.Date
	}
	return &cp
}

func (m *mockLinkRepository) Insert(ctx context.Context, l *secondary.LinkRecord) error {
	key := pairKey(l.PersonID, l.EngagementID)
	if err := m.insertErrs[key]; err != nil {
		return err
	}
	if _, ok := m.persons.persons[l.PersonID]; !ok {
		return errs.NotFound("person", l.PersonID)
	}
	if _, ok := m.engagements.engagements[l.EngagementID]; !ok {
		return errs.NotFound("engagement", l.EngagementID)
	}
	if _, ok := m.links[key]; ok {
		return errs.Conflict("link", "duplicate")
	}
	cp := *l
	if cp.AssignedOn == "" {
		cp.AssignedOn = "2025-01-01"
	}
	m.links[key] = &cp
	m.inserts++
	return nil
}

func (m *mockLinkRepository) Delete(ctx context.Context, personID, engagementID string) (bool, error) {
	key := pairKey(personID, engagementID)
	if _, ok := m.links[key]; !ok {
		return false, nil
	}
	delete(m.links, key)
	return true, nil
}

func (m *mockLinkRepository) Get(ctx context.Context, personID, engagementID string) (*secondary.LinkRecord, error) {
	l, ok := m.links[pairKey(personID, engagementID)]
	if !ok {
		return nil, nil
	}
	return m.decorate(l), nil
}

func (m *mockLinkRepository) filter(keep func(*secondary.LinkRecord) bool) []*secondary.LinkRecord {
	var out []*secondary.LinkRecord
	for _, l := range m.links {
		if keep(l) {
			out = append(out, m.decorate(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return pairKey(out[i].PersonID, out[i].EngagementID) < pairKey(out[j].PersonID, out[j].EngagementID)
	})
	return out
}

func (m *mockLinkRepository) ListByPerson(ctx context.Context, personID string) ([]*secondary.LinkRecord, error) {
	return m.filter(func(l *secondary.LinkRecord) bool { return l.PersonID == personID }), nil
}

func (m *mockLinkRepository) ListByEngagement(ctx context.Context, engagementID string) ([]*secondary.LinkRecord, error) {
	return m.filter(func(l *secondary.LinkRecord) bool { return l.EngagementID == engagementID }), nil
}

func (m *mockLinkRepository) List(ctx context.Context, filters secondary.LinkFilters) ([]*secondary.LinkRecord, error) {
	all := m.filter(func(l *secondary.LinkRecord) bool {
		return (filters.PersonID == "" || l.PersonID == filters.PersonID) &&
			(filters.EngagementID == "" || l.EngagementID == filters.EngagementID)
	})
	return window(all, filters.Limit, filters.Offset), nil
}

func (m *mockLinkRepository) Count(ctx context.Context, filters secondary.LinkFilters) (int, error) {
	filters.Limit = 0
	all, _ := m.List(ctx, filters)
	return len(all), nil
}

func (m *mockLinkRepository) UpdateNote(ctx context.Context, personID, engagementID, note string) error {
	l, ok := m.links[pairKey(personID, engagementID)]
	if !ok {
		return errs.NotFound("link", personID+"/"+engagementID)
	}
	l.Note = note
	return nil
}

// ============================================================================
// Mock StatisticsRepository
// ============================================================================

var _ secondary.StatisticsRepository = (*mockStatisticsRepository)(nil)

type mockStatisticsRepository struct {
	overview    *secondary.OverviewRecord
	engagements map[string]*secondary.EngagementBreakdownRecord
	persons     map[string]*secondary.PersonBreakdownRecord
}

func newMockStatisticsRepository() *mockStatisticsRepository {
	return &mockStatisticsRepository{
		overview:    &secondary.OverviewRecord{},
		engagements: make(map[string]*secondary.EngagementBreakdownRecord),
		persons:     make(map[string]*secondary.PersonBreakdownRecord),
	}
}

func (m *mockStatisticsRepository) Overview(ctx context.Context) (*secondary.OverviewRecord, error) {
	return m.overview, nil
}

func (m *mockStatisticsRepository) EngagementBreakdown(ctx context.Context, id string) (*secondary.EngagementBreakdownRecord, error) {
	r, ok := m.engagements[id]
	if !ok {
		return nil, errs.NotFound("engagement", id)
	}
	return r, nil
}

func (m *mockStatisticsRepository) PersonBreakdown(ctx context.Context, id string) (*secondary.PersonBreakdownRecord, error) {
	r, ok := m.persons[id]
	if !ok {
		return nil, errs.NotFound("person", id)
	}
	return r, nil
}

// ============================================================================
// Shared helpers
// ============================================================================

func window[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		return items
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// fixture wires every service against shared mock repositories.
type fixture struct {
	persons     *mockPersonRepository
	engagements *mockEngagementRepository
	links       *mockLinkRepository
	stats       *mockStatisticsRepository

	personService     *PersonServiceImpl
	engagementService *EngagementServiceImpl
	assignmentService *AssignmentServiceImpl
}

func newFixture(capacity int) *fixture {
	persons := newMockPersonRepository()
	engagements := newMockEngagementRepository()
	links := newMockLinkRepository(persons, engagements)
	stats := newMockStatisticsRepository()
	validator := NewValidator()
	logger := zap.NewNop()

	f := &fixture{persons: persons, engagements: engagements, links: links, stats: stats}
	f.personService = NewPersonService(persons, validator, 10, logger)
	f.engagementService = NewEngagementService(engagements, links, validator, capacity, 10, logger)
	f.assignmentService = NewAssignmentService(persons, engagements, links, stats, validator, 10, logger)

	seq := 0
	f.assignmentService.newID = func() string {
		seq++
		return fmt.Sprintf("link-%d", seq)
	}
	return f
}

func (f *fixture) person(id, first, last string, active bool) {
	f.persons.add(&secondary.PersonRecord{
		ID: id, FirstName: first, LastName: last, Sector: "chamber_of_industry", Active: active,
	})
}

func (f *fixture) engagement(id, date string, students int) {
	f.engagements.add(&secondary.EngagementRecord{
		ID: id, Date: date, SchoolName: "School " + id, StudentCount: students,
	})
}

func (f *fixture) link(personID, engagementID string) {
	f.links.links[pairKey(personID, engagementID)] = &secondary.LinkRecord{
		ID: "seed-" + personID + "-" + engagementID, PersonID: personID, EngagementID: engagementID,
	}
}
