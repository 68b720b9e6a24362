package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/repositories"
)

var (
	ErrSchoolNameRequired   = errors.New("school name is required")
	ErrSchoolCreationFailed = errors.New("failed to create school")
)

type SchoolService interface {
	EnsureSchool(ctx context.Context, name string) (*models.School, bool, error)
	ListSchools(ctx context.Context) ([]models.School, error)
}

type schoolService struct {
	schoolRepo repositories.SchoolRepository
	tx         repositories.Transactor
	logger     *slog.Logger
}

func NewSchoolService(schoolRepo repositories.SchoolRepository, tx repositories.Transactor, logger *slog.Logger) SchoolService {
	return &schoolService{
		schoolRepo: schoolRepo,
		tx:         tx,
		logger:     logger,
	}
}

// EnsureSchool returns the school with the given name, creating it with a
// fresh UID4 when absent. The bool reports whether a row was created.
func (s *schoolService) EnsureSchool(ctx context.Context, name string) (*models.School, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrSchoolNameRequired
	}

	var school *models.School
	var created bool
	err := withUIDRetry(ctx, s.tx, s.logger, func(exec repositories.SQLExecutor) error {
		used, err := s.schoolRepo.ListUIDs(ctx, exec)
		if err != nil {
			return err
		}
		school, created, err = ensureSchool(ctx, exec, s.schoolRepo, name, &uidPool{used: used})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrUIDPoolExhausted) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("%w: %w", ErrSchoolCreationFailed, err)
	}

	if created {
		s.logger.InfoContext(ctx, "school created", slog.Int("uid4", school.UID4), slog.String("name", school.Name))
	}
	return school, created, nil
}

func (s *schoolService) ListSchools(ctx context.Context) ([]models.School, error) {
	schools, err := s.schoolRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	if schools == nil {
		return []models.School{}, nil
	}
	return schools, nil
}

// ensureSchool looks the school up by exact name inside exec and creates it
// with an identifier from pool when missing.
func ensureSchool(ctx context.Context, exec repositories.SQLExecutor, repo repositories.SchoolRepository, name string, pool *uidPool) (*models.School, bool, error) {
	existing, err := repo.GetByName(ctx, exec, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrSchoolNotFound) {
		return nil, false, err
	}

	uid, err := pool.take()
	if err != nil {
		return nil, false, err
	}
	school := &models.School{UID4: uid, Name: name}
	if err := repo.Create(ctx, exec, school); err != nil {
		return nil, false, err
	}
	return school, true, nil
}
