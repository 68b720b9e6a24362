package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/repositories"
	"github.com/Dosada05/seqel-esports/scoring"
)

const (
	DefaultLeaderboardLimit = 30
	MaxLeaderboardLimit     = 500
)

type LeaderboardService interface {
	Students(ctx context.Context, filter models.LeaderboardFilter) ([]models.LeaderboardRow, error)
	Schools(ctx context.Context, filter models.LeaderboardFilter) ([]models.SchoolBoardRow, error)
}

type leaderboardService struct {
	leaderboardRepo repositories.LeaderboardRepository
	studentRepo     repositories.StudentRepository
	gameRepo        repositories.GameRepository
}

func NewLeaderboardService(
	leaderboardRepo repositories.LeaderboardRepository,
	studentRepo repositories.StudentRepository,
	gameRepo repositories.GameRepository,
) LeaderboardService {
	return &leaderboardService{
		leaderboardRepo: leaderboardRepo,
		studentRepo:     studentRepo,
		gameRepo:        gameRepo,
	}
}

// checkFilter rejects unknown streams, unknown games and out-of-range limits,
// and applies the default cap when Limit is 0.
func (s *leaderboardService) checkFilter(ctx context.Context, filter *models.LeaderboardFilter) error {
	if filter.Limit < 0 || filter.Limit > MaxLeaderboardLimit {
		return newValidationError("limit", fmt.Sprintf("must be between 0 and %d", MaxLeaderboardLimit))
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultLeaderboardLimit
	}
	if filter.Stream != nil && !filter.Stream.Valid() {
		return newValidationError("stream", "must be one of: SchoolsCup Competition")
	}
	if filter.GameID != nil {
		if _, err := s.gameRepo.GetByID(ctx, nil, *filter.GameID); err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return newValidationError("game_id", "unknown game")
			}
			return fmt.Errorf("failed to check game filter: %w", err)
		}
	}
	return nil
}

// Students sums award points per UID4 under the filter, highest first.
func (s *leaderboardService) Students(ctx context.Context, filter models.LeaderboardFilter) ([]models.LeaderboardRow, error) {
	if err := s.checkFilter(ctx, &filter); err != nil {
		return nil, err
	}

	awards, err := s.leaderboardRepo.ListAwards(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load award rows: %w", err)
	}
	totals := scoring.AggregateTotals(awards, filter.Limit)

	uids := make([]int, 0, len(totals))
	for _, t := range totals {
		uids = append(uids, t.UID4)
	}
	schoolNames, err := s.studentRepo.SchoolNamesByUIDs(ctx, uids)
	if err != nil {
		return nil, fmt.Errorf("failed to load school names: %w", err)
	}

	rows := make([]models.LeaderboardRow, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, models.LeaderboardRow{
			UID4:       t.UID4,
			SchoolName: schoolNames[t.UID4],
			Total:      t.Total,
		})
	}
	return rows, nil
}

func (s *leaderboardService) Schools(ctx context.Context, filter models.LeaderboardFilter) ([]models.SchoolBoardRow, error) {
	if err := s.checkFilter(ctx, &filter); err != nil {
		return nil, err
	}
	rows, err := s.leaderboardRepo.SchoolTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load school totals: %w", err)
	}
	return rows, nil
}
