package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/ambassador/internal/core/errs"
	coreperson "github.com/example/ambassador/internal/core/person"
	"github.com/example/ambassador/internal/logging"
	"github.com/example/ambassador/internal/ports/primary"
	"github.com/example/ambassador/internal/ports/secondary"
)

// Column sets shared by export and import.
var (
	personColumns = []string{
		"id", "reference_code", "active", "first_name", "last_name", "gender", "birth_date",
		"occupation", "sector", "mobile", "email_work", "email_private", "phone_work",
		"phone_private", "direct_contact_allowed", "company", "company_district", "notes",
	}
	engagementColumns = []string{
		"id", "date", "school_name", "school_type", "partner", "city", "district",
		"career_orientation", "online", "grade_level", "student_count",
	}
	linkColumns = []string{
		"id", "person_id", "person_name", "engagement_id", "school_name", "event_date",
		"assigned_on", "note",
	}
)

// TransferServiceImpl implements the TransferService interface.
type TransferServiceImpl struct {
	codec             secondary.TableCodec
	personRepo        secondary.PersonRepository
	engagementRepo    secondary.EngagementRepository
	linkRepo          secondary.LinkRepository
	personService     primary.PersonService
	engagementService primary.EngagementService
	logger            *zap.Logger
}

// NewTransferService creates a new TransferService with injected dependencies.
// Imports go through the person and engagement services so every row gets
// the same validation as interactive input.
func NewTransferService(
	codec secondary.TableCodec,
	personRepo secondary.PersonRepository,
	engagementRepo secondary.EngagementRepository,
	linkRepo secondary.LinkRepository,
	personService primary.PersonService,
	engagementService primary.EngagementService,
	logger *zap.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		codec:             codec,
		personRepo:        personRepo,
		engagementRepo:    engagementRepo,
		linkRepo:          linkRepo,
		personService:     personService,
		engagementService: engagementService,
		logger:            logger,
	}
}

// ExportPersons writes every person.
func (s *TransferServiceImpl) ExportPersons(ctx context.Context, w io.Writer) (int, error) {
	records, err := s.personRepo.List(ctx, secondary.PersonFilters{})
	if err != nil {
		return 0, fmt.Errorf("failed to list persons: %w", err)
	}

	rows := make([][]string, len(records))
	for i, p := range records {
		rows[i] = []string{
			p.ID, p.ReferenceCode, formatBool(p.Active), p.FirstName, p.LastName, p.Gender, p.BirthDate,
			p.Occupation, p.Sector, p.Mobile, p.EmailWork, p.EmailPrivate, p.PhoneWork,
			p.PhonePrivate, formatBool(p.DirectContactAllowed), p.Company, p.CompanyDistrict, p.Notes,
		}
	}
	return s.write(ctx, w, "persons", personColumns, rows)
}

// ExportEngagements writes every engagement.
func (s *TransferServiceImpl) ExportEngagements(ctx context.Context, w io.Writer) (int, error) {
	records, err := s.engagementRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list engagements: %w", err)
	}

	rows := make([][]string, len(records))
	for i, e := range records {
		rows[i] = []string{
			e.ID, e.Date, e.SchoolName, e.SchoolType, e.Partner, e.City, e.District,
			formatBool(e.CareerOrientation), formatBool(e.Online), e.GradeLevel, strconv.Itoa(e.StudentCount),
		}
	}
	return s.write(ctx, w, "engagements", engagementColumns, rows)
}

// ExportLinks writes every link with the display fields of both endpoints.
func (s *TransferServiceImpl) ExportLinks(ctx context.Context, w io.Writer) (int, error) {
	records, err := s.linkRepo.List(ctx, secondary.LinkFilters{})
	if err != nil {
		return 0, fmt.Errorf("failed to list links: %w", err)
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		l := recordToLink(r)
		rows[i] = []string{
			l.ID, l.PersonID, l.PersonName, l.EngagementID, l.SchoolName, l.EventDate, l.AssignedOn, l.Note,
		}
	}
	return s.write(ctx, w, "links", linkColumns, rows)
}

// ImportPersons registers one person per row.
func (s *TransferServiceImpl) ImportPersons(ctx context.Context, r io.Reader) (*primary.ImportResult, error) {
	table, err := s.read(r, "first_name", "last_name", "sector")
	if err != nil {
		return nil, err
	}

	result := &primary.ImportResult{TotalRows: len(table.rows)}
	for i := range table.rows {
		row := table.row(i)
		req := primary.CreatePersonRequest{
			ReferenceCode:   row("reference_code"),
			FirstName:       row("first_name"),
			LastName:        row("last_name"),
			Gender:          strings.ToLower(row("gender")),
			Occupation:      row("occupation"),
			Sector:          row("sector"),
			Mobile:          row("mobile"),
			EmailWork:       row("email_work"),
			EmailPrivate:    row("email_private"),
			PhoneWork:       row("phone_work"),
			PhonePrivate:    row("phone_private"),
			Company:         row("company"),
			CompanyDistrict: row("company_district"),
			Notes:           row("notes"),
		}

		rowErr := func() error {
			var err error
			if req.BirthDate, err = parseImportDate(row("birth_date")); err != nil {
				return err
			}
			if req.DirectContactAllowed, err = parseImportBool(row("direct_contact_allowed"), false); err != nil {
				return err
			}
			active, err := parseImportBool(row("active"), true)
			if err != nil {
				return err
			}
			req.Inactive = !active
			return nil
		}()
		if rowErr != nil {
			result.Errors = append(result.Errors, primary.RowError{Row: i + 1, Reason: rowErr.Error()})
			continue
		}

		person, err := s.personService.RegisterPerson(ctx, req)
		if err != nil {
			if !isRowError(err) {
				return result, err
			}
			result.Errors = append(result.Errors, primary.RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		result.Imported++
		result.CreatedIDs = append(result.CreatedIDs, person.ID)
	}

	logging.WithActor(ctx, s.logger).Info("persons imported",
		zap.Int("rows", result.TotalRows),
		zap.Int("imported", result.Imported),
		zap.Int("rejected", len(result.Errors)),
	)
	return result, nil
}

// ImportEngagements creates engagements per row, splitting oversized visits.
func (s *TransferServiceImpl) ImportEngagements(ctx context.Context, r io.Reader) (*primary.ImportResult, error) {
	table, err := s.read(r, "date", "school_name", "student_count")
	if err != nil {
		return nil, err
	}

	result := &primary.ImportResult{TotalRows: len(table.rows)}
	for i := range table.rows {
		row := table.row(i)
		req := primary.CreateEngagementRequest{
			SchoolName: row("school_name"),
			SchoolType: row("school_type"),
			Partner:    row("partner"),
			City:       row("city"),
			District:   row("district"),
			GradeLevel: row("grade_level"),
		}

		rowErr := func() error {
			var err error
			if req.Date, err = parseImportDate(row("date")); err != nil {
				return err
			}
			if req.CareerOrientation, err = parseImportBool(row("career_orientation"), false); err != nil {
				return err
			}
			if req.Online, err = parseImportBool(row("online"), false); err != nil {
				return err
			}
			if req.StudentCount, err = strconv.Atoi(row("student_count")); err != nil {
				return fmt.Errorf("student_count: %q is not a number", row("student_count"))
			}
			return nil
		}()
		if rowErr != nil {
			result.Errors = append(result.Errors, primary.RowError{Row: i + 1, Reason: rowErr.Error()})
			continue
		}

		resp, err := s.engagementService.CreateEngagements(ctx, req)
		if err != nil {
			if !isRowError(err) {
				return result, err
			}
			result.Errors = append(result.Errors, primary.RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		result.Imported++
		for _, e := range resp.Engagements {
			result.CreatedIDs = append(result.CreatedIDs, e.ID)
		}
	}

	logging.WithActor(ctx, s.logger).Info("engagements imported",
		zap.Int("rows", result.TotalRows),
		zap.Int("imported", result.Imported),
		zap.Int("engagements", len(result.CreatedIDs)),
		zap.Int("rejected", len(result.Errors)),
	)
	return result, nil
}

func (s *TransferServiceImpl) write(ctx context.Context, w io.Writer, entity string, header []string, rows [][]string) (int, error) {
	if err := s.codec.WriteTable(w, header, rows); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", entity, err)
	}
	logging.WithActor(ctx, s.logger).Info("exported", zap.String("entity", entity), zap.Int("rows", len(rows)))
	return len(rows), nil
}

// importTable is a decoded CSV file with case-insensitive column lookup.
type importTable struct {
	index map[string]int
	rows  [][]string
}

func (t *importTable) row(i int) func(column string) string {
	return func(column string) string {
		idx, ok := t.index[column]
		if !ok || idx >= len(t.rows[i]) {
			return ""
		}
		return strings.TrimSpace(t.rows[i][idx])
	}
}

func (s *TransferServiceImpl) read(r io.Reader, required ...string) (*importTable, error) {
	header, rows, err := s.codec.ReadTable(r)
	if err != nil {
		return nil, errs.NewValidation(fmt.Sprintf("unreadable CSV: %v", err))
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	var missing []errs.FieldError
	for _, column := range required {
		if _, ok := index[column]; !ok {
			missing = append(missing, errs.FieldError{Field: column, Message: "column is missing"})
		}
	}
	if len(missing) > 0 {
		return nil, errs.NewValidation("CSV header incomplete", missing...)
	}

	return &importTable{index: index, rows: rows}, nil
}

// isRowError reports whether err concerns only the row being imported.
func isRowError(err error) bool {
	return errs.IsValidation(err) || errs.IsConflict(err) || errs.IsNotFound(err)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseImportBool(raw string, fallback bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return fallback, nil
	case "1", "true", "yes", "y", "ja", "j", "x":
		return true, nil
	case "0", "false", "no", "n", "nein":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a yes/no value", raw)
}

// parseImportDate accepts YYYY-MM-DD and the DD.MM.YYYY spelling common in
// spreadsheets, returning YYYY-MM-DD.
func parseImportDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	for _, layout := range []string{coreperson.DateLayout, "02.01.2006", "2.1.2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(coreperson.DateLayout), nil
		}
	}
	return "", fmt.Errorf("%q is not a date (YYYY-MM-DD or DD.MM.YYYY)", raw)
}

// Ensure TransferServiceImpl implements the interface
var _ primary.TransferService = (*TransferServiceImpl)(nil)
