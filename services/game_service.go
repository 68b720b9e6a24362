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

var ErrGameCreationFailed = errors.New("failed to create game")

type GameService interface {
	CreateGame(ctx context.Context, input CreateGameInput) (*models.Game, error)
	GetGame(ctx context.Context, id int) (*models.Game, error)
	ListGames(ctx context.Context) ([]models.Game, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
}

type CreateGameInput struct {
	Name           string `json:"name" validate:"required,max=100"`
	Platform       string `json:"platform" validate:"max=50"`
	ScoringMode    string `json:"scoring_mode" validate:"required,oneof=WIN_LOSE TOP4 PARTICIPATION"`
	FinalsMetric   string `json:"finals_metric" validate:"omitempty,oneof=HigherIsBetter LowerIsBetter"`
	Notes          string `json:"notes" validate:"max=500"`
	OverridePoints bool   `json:"override_points"`
}

type gameService struct {
	gameRepo  repositories.GameRepository
	eventRepo repositories.EventRepository
	tx        repositories.Transactor
	logger    *slog.Logger
}

func NewGameService(
	gameRepo repositories.GameRepository,
	eventRepo repositories.EventRepository,
	tx repositories.Transactor,
	logger *slog.Logger,
) GameService {
	return &gameService{
		gameRepo:  gameRepo,
		eventRepo: eventRepo,
		tx:        tx,
		logger:    logger,
	}
}

func (input CreateGameInput) toModel() *models.Game {
	game := &models.Game{
		Name:           strings.TrimSpace(input.Name),
		Platform:       optionalString(input.Platform),
		ScoringMode:    models.ScoringMode(input.ScoringMode),
		Notes:          optionalString(input.Notes),
		OverridePoints: input.OverridePoints,
	}
	if input.FinalsMetric != "" {
		metric := models.FinalsMetric(input.FinalsMetric)
		game.FinalsMetric = &metric
	}
	return game
}

// CreateGame stores the game together with an event and a default area for
// each stream.
func (s *gameService) CreateGame(ctx context.Context, input CreateGameInput) (*models.Game, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.FinalsMetric = strings.TrimSpace(input.FinalsMetric)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	game := input.toModel()
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.gameRepo.Create(ctx, exec, game); err != nil {
			return err
		}
		return ensureGameEvents(ctx, exec, s.eventRepo, game.ID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrGameNameConflict) {
			return nil, ErrGameNameConflict
		}
		return nil, fmt.Errorf("%w: %w", ErrGameCreationFailed, err)
	}

	s.logger.InfoContext(ctx, "game created", slog.Int("game_id", game.ID), slog.String("name", game.Name))
	return game, nil
}

// ensureGameEvents creates the (game, stream) events and their default areas.
func ensureGameEvents(ctx context.Context, exec repositories.SQLExecutor, eventRepo repositories.EventRepository, gameID int) error {
	for _, stream := range models.Streams {
		if _, err := eventRepo.EnsureEvent(ctx, exec, gameID, stream); err != nil {
			return fmt.Errorf("failed to ensure %s event: %w", stream, err)
		}
		area := &models.Area{GameID: gameID, Stream: stream, Name: stream.DefaultAreaName()}
		if _, err := eventRepo.EnsureArea(ctx, exec, area); err != nil {
			return fmt.Errorf("failed to ensure %s area: %w", stream, err)
		}
	}
	return nil
}

func (s *gameService) GetGame(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game by id %d: %w", id, err)
	}
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (s *gameService) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
