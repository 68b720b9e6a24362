package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/repositories"
)

var ErrImportFailed = errors.New("failed to import students")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type ImportService interface {
	ImportStudents(ctx context.Context, r io.Reader) (*ImportResult, error)
}

type ImportResult struct {
	SchoolsCreated  int `json:"schools_created"`
	StudentsCreated int `json:"students_created"`
	RowsSkipped     int `json:"rows_skipped"`
}

// studentRow is a CSV line after header mapping and trimming.
type studentRow struct {
	firstName string
	lastName  string
	school    string
	cohort    string
	year      string
}

type importService struct {
	studentRepo repositories.StudentRepository
	schoolRepo  repositories.SchoolRepository
	tx          repositories.Transactor
	logger      *slog.Logger
}

func NewImportService(
	studentRepo repositories.StudentRepository,
	schoolRepo repositories.SchoolRepository,
	tx repositories.Transactor,
	logger *slog.Logger,
) ImportService {
	return &importService{
		studentRepo: studentRepo,
		schoolRepo:  schoolRepo,
		tx:          tx,
		logger:      logger,
	}
}

// headerIndex maps lower-cased header names to column positions. The first
// alias present wins.
func headerIndex(header []string, aliases ...string) int {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}
	for _, alias := range aliases {
		if i, ok := positions[alias]; ok {
			return i
		}
	}
	return -1
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseStudentCSV reads the whole file. Rows missing a name, school or
// cohort are counted as skipped. Cohorts are title-cased, not checked.
func parseStudentCSV(r io.Reader) ([]studentRow, int, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, newValidationError("file", "file is empty")
		}
		return nil, 0, newValidationError("file", "not a valid CSV file")
	}

	first := headerIndex(header, "first_name")
	last := headerIndex(header, "last_name")
	school := headerIndex(header, "school")
	cohort := headerIndex(header, "cohort", "cohurt")
	year := headerIndex(header, "year", "yearlevel")
	if first < 0 || last < 0 || school < 0 || cohort < 0 {
		return nil, 0, newValidationError("file", "header must include first_name, last_name, school and cohort")
	}

	var rows []studentRow
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, newValidationError("file", err.Error())
		}

		row := studentRow{
			firstName: cell(record, first),
			lastName:  cell(record, last),
			school:    cell(record, school),
			cohort:    normalizeCohort(cell(record, cohort)),
			year:      cell(record, year),
		}
		if row.firstName == "" || row.lastName == "" || row.school == "" || row.cohort == "" {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// ImportStudents creates every valid row of the CSV in a single transaction,
// creating schools on first reference.
func (s *importService) ImportStudents(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, skipped, err := parseStudentCSV(r)
	if err != nil {
		return nil, err
	}

	var result *ImportResult
	err = withUIDRetry(ctx, s.tx, s.logger, func(exec repositories.SQLExecutor) error {
		result = &ImportResult{RowsSkipped: skipped}

		schoolUIDs, err := s.schoolRepo.ListUIDs(ctx, exec)
		if err != nil {
			return err
		}
		studentUIDs, err := s.studentRepo.ListUIDs(ctx, exec)
		if err != nil {
			return err
		}
		schoolPool := &uidPool{used: schoolUIDs}
		studentPool := &uidPool{used: studentUIDs}
		schools := make(map[string]*models.School)

		for _, row := range rows {
			school, ok := schools[row.school]
			if !ok {
				var created bool
				school, created, err = ensureSchool(ctx, exec, s.schoolRepo, row.school, schoolPool)
				if err != nil {
					return err
				}
				if created {
					result.SchoolsCreated++
				}
				schools[row.school] = school
			}

			uid, err := studentPool.take()
			if err != nil {
				return err
			}
			student := &models.Student{
				UID4:      uid,
				FirstName: row.firstName,
				LastName:  row.lastName,
				SchoolID:  school.ID,
				Cohort:    row.cohort,
				YearLevel: optionalString(row.year),
			}
			if err := s.studentRepo.Create(ctx, exec, student); err != nil {
				return err
			}
			result.StudentsCreated++
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUIDPoolExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	s.logger.InfoContext(ctx, "student csv imported",
		slog.Int("schools_created", result.SchoolsCreated),
		slog.Int("students_created", result.StudentsCreated),
		slog.Int("rows_skipped", result.RowsSkipped),
	)
	return result, nil
}
