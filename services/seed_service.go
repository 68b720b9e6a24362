package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/repositories"
)

var ErrSeedFailed = errors.New("failed to seed defaults")

type SeedService interface {
	// Seed inserts the default catalogue, games, rounds, events and areas.
	// Rows that already exist are left as they are.
	Seed(ctx context.Context) (*SeedResult, error)
}

type SeedResult struct {
	Points int `json:"points"`
	Games  int `json:"games"`
	Rounds int `json:"rounds"`
}

type seedGame struct {
	name     string
	platform string
	mode     models.ScoringMode
	metric   models.FinalsMetric
	notes    string
}

var defaultPoints = []models.PointsEntry{
	{Code: models.CodeFirst, Label: "1st", Value: 50, SortOrder: 1, Active: true},
	{Code: models.CodeSecond, Label: "2nd", Value: 20, SortOrder: 2, Active: true},
	{Code: models.CodeThird, Label: "3rd", Value: 15, SortOrder: 3, Active: true},
	{Code: models.CodeFourth, Label: "4th", Value: 10, SortOrder: 4, Active: true},
	{Code: models.CodeWin, Label: "Win", Value: 50, SortOrder: 10, Active: true},
	{Code: models.CodeLose, Label: "Lose", Value: 25, SortOrder: 11, Active: true},
	{Code: models.CodeTie, Label: "Tie", Value: 10, SortOrder: 12, Active: true},
	{Code: models.CodeTimeLap, Label: "Time Lap", Value: 10, SortOrder: 20, Active: true},
	{Code: models.CodeParticipation, Label: "Participation", Value: 10, SortOrder: 30, Active: true},
}

var defaultGames = []seedGame{
	{"Velocity Drone", "PC", models.ScoringWinLose, models.LowerIsBetter, "Drone lap time stored; TimeLap bonus applies"},
	{"Rocket League", "Switch", models.ScoringWinLose, models.HigherIsBetter, ""},
	{"Asphalt 9", "Switch", models.ScoringTop4, models.LowerIsBetter, ""},
	{"NBA", "Switch", models.ScoringWinLose, models.HigherIsBetter, ""},
	{"FC25", "Switch", models.ScoringWinLose, models.HigherIsBetter, ""},
	{"Just Dance", "Switch", models.ScoringTop4, models.HigherIsBetter, ""},
	{"Brawlhalla", "Switch", models.ScoringWinLose, models.HigherIsBetter, ""},
	{"Assetto Corsa", "PC", models.ScoringTop4, models.LowerIsBetter, ""},
	{"Other", "Other", models.ScoringParticipation, "", "Participation only"},
}

var defaultRounds = []models.Round{
	{Label: "Round 1", StartTime: "09:20"}, {Label: "Round 2", StartTime: "09:30"},
	{Label: "Round 3", StartTime: "09:40"}, {Label: "Round 4", StartTime: "09:50"},
	{Label: "Round 5", StartTime: "10:00"}, {Label: "Round 6", StartTime: "10:10"},
	{Label: "Round 7", StartTime: "10:20"}, {Label: "Round 8", StartTime: "10:30"},
	{Label: "Round 9", StartTime: "10:40"}, {Label: "Round 10", StartTime: "10:50"},
	{Label: "Round 11", StartTime: "11:00"}, {Label: "Round 12", StartTime: "11:10"},
	{Label: "Round 13", StartTime: "11:20"}, {Label: "Round 14", StartTime: "11:30"},
	{Label: "Round 15", StartTime: "11:40"}, {Label: "Round 16", StartTime: "11:50"},
	{Label: "Round 17", StartTime: "12:00"}, {Label: "Round 18", StartTime: "12:10"},
	{Label: "Round 19", StartTime: "12:20"}, {Label: "Round 20", StartTime: "12:30"},
	{Label: "Round 21", StartTime: "12:40"},
	{Label: "Quarter 1", StartTime: "12:50"}, {Label: "Quarter 2", StartTime: "13:00"},
	{Label: "Quarter 3", StartTime: "13:10"}, {Label: "Quarter 4", StartTime: "13:20"},
	{Label: "Semi 1", StartTime: "13:30"}, {Label: "Semi 2", StartTime: "13:40"},
	{Label: "Final", StartTime: "13:50"},
}

type seedService struct {
	pointsRepo repositories.PointsRepository
	gameRepo   repositories.GameRepository
	eventRepo  repositories.EventRepository
	roundRepo  repositories.RoundRepository
	tx         repositories.Transactor
	logger     *slog.Logger
}

func NewSeedService(
	pointsRepo repositories.PointsRepository,
	gameRepo repositories.GameRepository,
	eventRepo repositories.EventRepository,
	roundRepo repositories.RoundRepository,
	tx repositories.Transactor,
	logger *slog.Logger,
) SeedService {
	return &seedService{
		pointsRepo: pointsRepo,
		gameRepo:   gameRepo,
		eventRepo:  eventRepo,
		roundRepo:  roundRepo,
		tx:         tx,
		logger:     logger,
	}
}

func (g seedGame) toModel() *models.Game {
	game := &models.Game{
		Name:        g.name,
		Platform:    optionalString(g.platform),
		ScoringMode: g.mode,
		Notes:       optionalString(g.notes),
	}
	if g.metric != "" {
		metric := g.metric
		game.FinalsMetric = &metric
	}
	return game
}

func (s *seedService) Seed(ctx context.Context) (*SeedResult, error) {
	var result *SeedResult
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		result = &SeedResult{}

		for _, p := range defaultPoints {
			_, err := s.pointsRepo.GetEntry(ctx, exec, p.Code)
			if err == nil {
				continue
			}
			if !errors.Is(err, repositories.ErrPointsEntryNotFound) {
				return err
			}
			entry := p
			if err := s.pointsRepo.CreateEntry(ctx, exec, &entry); err != nil {
				return err
			}
			result.Points++
		}

		for _, g := range defaultGames {
			game, err := s.gameRepo.GetByName(ctx, exec, g.name)
			if errors.Is(err, repositories.ErrGameNotFound) {
				game = g.toModel()
				if err := s.gameRepo.Create(ctx, exec, game); err != nil {
					return err
				}
				result.Games++
			} else if err != nil {
				return err
			}
			if err := ensureGameEvents(ctx, exec, s.eventRepo, game.ID); err != nil {
				return err
			}
		}

		for _, r := range defaultRounds {
			round := r
			created, err := s.roundRepo.Ensure(ctx, exec, &round)
			if err != nil {
				return err
			}
			if created {
				result.Rounds++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeedFailed, err)
	}

	s.logger.InfoContext(ctx, "defaults seeded",
		slog.Int("points", result.Points),
		slog.Int("games", result.Games),
		slog.Int("rounds", result.Rounds),
	)
	return result, nil
}
