package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/seqel-esports/repositories"
)

var ErrResetFailed = errors.New("failed to reset data")

// ResetScope selects how much data a maintenance reset removes.
type ResetScope string

const (
	// ResetDay removes matches and award rows.
	ResetDay ResetScope = "day"
	// ResetTournament additionally removes per-game points overrides.
	ResetTournament ResetScope = "tournament"
	// ResetFull additionally removes students and schools.
	ResetFull ResetScope = "full"
)

type MaintenanceService interface {
	Reset(ctx context.Context, scope string) error
}

type maintenanceService struct {
	matchRepo   repositories.MatchRepository
	pointsRepo  repositories.PointsRepository
	studentRepo repositories.StudentRepository
	schoolRepo  repositories.SchoolRepository
	tx          repositories.Transactor
	logger      *slog.Logger
}

func NewMaintenanceService(
	matchRepo repositories.MatchRepository,
	pointsRepo repositories.PointsRepository,
	studentRepo repositories.StudentRepository,
	schoolRepo repositories.SchoolRepository,
	tx repositories.Transactor,
	logger *slog.Logger,
) MaintenanceService {
	return &maintenanceService{
		matchRepo:   matchRepo,
		pointsRepo:  pointsRepo,
		studentRepo: studentRepo,
		schoolRepo:  schoolRepo,
		tx:          tx,
		logger:      logger,
	}
}

func (s *maintenanceService) Reset(ctx context.Context, scope string) error {
	rs := ResetScope(strings.ToLower(strings.TrimSpace(scope)))
	switch rs {
	case ResetDay, ResetTournament, ResetFull:
	default:
		return newValidationError("scope", "must be one of: day tournament full")
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		if rs == ResetDay {
			return nil
		}
		if err := s.pointsRepo.DeleteAllOverrides(ctx, exec); err != nil {
			return err
		}
		if rs == ResetTournament {
			return nil
		}
		if err := s.studentRepo.DeleteAll(ctx, exec); err != nil {
			return err
		}
		return s.schoolRepo.DeleteAll(ctx, exec)
	})
	if err != nil {
		return fmt.Errorf("%w (scope: %s): %w", ErrResetFailed, rs, err)
	}

	s.logger.WarnContext(ctx, "data reset", slog.String("scope", string(rs)))
	return nil
}
