package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/repositories"
)

const roundTimeLayout = "15:04"

// ScheduleService manages rounds and play areas. Adding an existing round
// label or area name returns the stored row.
type ScheduleService interface {
	ListRounds(ctx context.Context) ([]models.Round, error)
	AddRound(ctx context.Context, input RoundInput) (*models.Round, bool, error)
	ListAreas(ctx context.Context) ([]models.Area, error)
	AddArea(ctx context.Context, input AreaInput) (*models.Area, bool, error)
}

type RoundInput struct {
	Label     string `json:"label" validate:"required,max=50"`
	StartTime string `json:"start_time" validate:"required"`
}

type AreaInput struct {
	GameID int    `json:"game_id" validate:"required,gt=0"`
	Stream string `json:"stream" validate:"required,oneof=SchoolsCup Competition"`
	Name   string `json:"name" validate:"required,max=100"`
}

type scheduleService struct {
	roundRepo repositories.RoundRepository
	eventRepo repositories.EventRepository
	tx        repositories.Transactor
}

func NewScheduleService(roundRepo repositories.RoundRepository, eventRepo repositories.EventRepository, tx repositories.Transactor) ScheduleService {
	return &scheduleService{
		roundRepo: roundRepo,
		eventRepo: eventRepo,
		tx:        tx,
	}
}

func (s *scheduleService) ListRounds(ctx context.Context) ([]models.Round, error) {
	rounds, err := s.roundRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

func (s *scheduleService) AddRound(ctx context.Context, input RoundInput) (*models.Round, bool, error) {
	input.Label = strings.TrimSpace(input.Label)
	input.StartTime = strings.TrimSpace(input.StartTime)
	if err := validateStruct(input); err != nil {
		return nil, false, err
	}
	start, err := time.Parse(roundTimeLayout, input.StartTime)
	if err != nil {
		return nil, false, newValidationError("start_time", "must be HH:MM")
	}

	round := &models.Round{Label: input.Label, StartTime: start.Format(roundTimeLayout)}
	created, err := s.roundRepo.Ensure(ctx, nil, round)
	if err != nil {
		return nil, false, fmt.Errorf("failed to add round %q: %w", round.Label, err)
	}
	return round, created, nil
}

func (s *scheduleService) ListAreas(ctx context.Context) ([]models.Area, error) {
	areas, err := s.eventRepo.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	return areas, nil
}

// AddArea also makes sure the (game, stream) event exists.
func (s *scheduleService) AddArea(ctx context.Context, input AreaInput) (*models.Area, bool, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, false, err
	}

	area := &models.Area{GameID: input.GameID, Stream: models.Stream(input.Stream), Name: input.Name}
	var created bool
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.eventRepo.EnsureEvent(ctx, exec, area.GameID, area.Stream); err != nil {
			return err
		}
		var err error
		created, err = s.eventRepo.EnsureArea(ctx, exec, area)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrEventGameInvalid) {
			return nil, false, ErrGameNotFound
		}
		return nil, false, fmt.Errorf("failed to add area %q: %w", area.Name, err)
	}
	return area, created, nil
}
