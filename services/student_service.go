package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/repositories"
)

var (
	ErrStudentCreationFailed = errors.New("failed to create student")
	ErrStudentUpdateFailed   = errors.New("failed to update student")
)

type StudentService interface {
	CreateStudent(ctx context.Context, input CreateStudentInput) (*models.Student, error)
	GetStudent(ctx context.Context, id int) (*models.Student, error)
	ListStudents(ctx context.Context, search string) ([]models.Student, error)
	SetFlag(ctx context.Context, id int, flag models.StudentFlag, value bool) error
}

type CreateStudentInput struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	SchoolName string `json:"school" validate:"required,max=200"`
	Cohort     string `json:"cohort" validate:"required,oneof=High Primary"`
	YearLevel  string `json:"year_level" validate:"max=20"`
}

type studentService struct {
	studentRepo repositories.StudentRepository
	schoolRepo  repositories.SchoolRepository
	tx          repositories.Transactor
	logger      *slog.Logger
}

func NewStudentService(
	studentRepo repositories.StudentRepository,
	schoolRepo repositories.SchoolRepository,
	tx repositories.Transactor,
	logger *slog.Logger,
) StudentService {
	return &studentService{
		studentRepo: studentRepo,
		schoolRepo:  schoolRepo,
		tx:          tx,
		logger:      logger,
	}
}

// normalizeCohort title-cases free-form cohort input and folds common
// abbreviations ("pri", "high school") onto the two cohorts.
func normalizeCohort(cohort string) string {
	titled := cases.Title(language.English).String(strings.TrimSpace(cohort))
	switch {
	case strings.HasPrefix(titled, "Pri"):
		return string(models.CohortPrimary)
	case strings.HasPrefix(titled, "Hi"):
		return string(models.CohortHigh)
	}
	return titled
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *studentService) CreateStudent(ctx context.Context, input CreateStudentInput) (*models.Student, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.SchoolName = strings.TrimSpace(input.SchoolName)
	input.Cohort = normalizeCohort(input.Cohort)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	var student *models.Student
	err := withUIDRetry(ctx, s.tx, s.logger, func(exec repositories.SQLExecutor) error {
		schoolUIDs, err := s.schoolRepo.ListUIDs(ctx, exec)
		if err != nil {
			return err
		}
		school, _, err := ensureSchool(ctx, exec, s.schoolRepo, input.SchoolName, &uidPool{used: schoolUIDs})
		if err != nil {
			return err
		}

		studentUIDs, err := s.studentRepo.ListUIDs(ctx, exec)
		if err != nil {
			return err
		}
		uid, err := nextUID(studentUIDs)
		if err != nil {
			return err
		}

		student = &models.Student{
			UID4:       uid,
			FirstName:  input.FirstName,
			LastName:   input.LastName,
			SchoolID:   school.ID,
			Cohort:     input.Cohort,
			YearLevel:  optionalString(input.YearLevel),
			SchoolName: school.Name,
		}
		return s.studentRepo.Create(ctx, exec, student)
	})
	if err != nil {
		if errors.Is(err, ErrUIDPoolExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStudentCreationFailed, err)
	}

	s.logger.InfoContext(ctx, "student created", slog.Int("uid4", student.UID4), slog.Int("school_id", student.SchoolID))
	return student, nil
}

func (s *studentService) GetStudent(ctx context.Context, id int) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student by id %d: %w", id, err)
	}
	return student, nil
}

func (s *studentService) ListStudents(ctx context.Context, search string) ([]models.Student, error) {
	students, err := s.studentRepo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	if students == nil {
		return []models.Student{}, nil
	}
	return students, nil
}

func (s *studentService) SetFlag(ctx context.Context, id int, flag models.StudentFlag, value bool) error {
	if !flag.Valid() {
		return newValidationError("flag", "must be one of: non_consent is_ref is_admin")
	}
	err := s.studentRepo.SetFlag(ctx, id, flag, value)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("%w (id: %d): %w", ErrStudentUpdateFailed, id, err)
	}
	return nil
}
