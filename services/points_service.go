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
	ErrPointsCreationFailed = errors.New("failed to create points entry")
	ErrPointsUpdateFailed   = errors.New("failed to update points entry")
	ErrOverrideFailed       = errors.New("failed to save points override")
)

type PointsService interface {
	// Resolve returns the per-game override for code when one exists (0
	// included), else the catalogue value, else ErrPointsNotFound.
	Resolve(ctx context.Context, exec repositories.SQLExecutor, gameID int, code string) (int, error)

	ListEntries(ctx context.Context) ([]models.PointsEntry, error)
	AddEntry(ctx context.Context, input PointsEntryInput) (*models.PointsEntry, bool, error)
	UpdateEntry(ctx context.Context, input PointsEntryInput) (*models.PointsEntry, error)

	ListOverrides(ctx context.Context) ([]models.GamePointsOverride, error)
	SetOverride(ctx context.Context, input OverrideInput) (*models.GamePointsOverride, error)
}

type PointsEntryInput struct {
	Code      string `json:"code" validate:"required,max=32"`
	Label     string `json:"label" validate:"required,max=64"`
	Value     int    `json:"value" validate:"gte=0"`
	SortOrder int    `json:"sort_order"`
	Active    bool   `json:"active"`
}

type OverrideInput struct {
	GameID int    `json:"game_id" validate:"required,gt=0"`
	Code   string `json:"code" validate:"required,max=32"`
	Value  int    `json:"value" validate:"gte=0"`
}

type pointsService struct {
	pointsRepo repositories.PointsRepository
	logger     *slog.Logger
}

func NewPointsService(pointsRepo repositories.PointsRepository, logger *slog.Logger) PointsService {
	return &pointsService{
		pointsRepo: pointsRepo,
		logger:     logger,
	}
}

func (s *pointsService) Resolve(ctx context.Context, exec repositories.SQLExecutor, gameID int, code string) (int, error) {
	value, err := s.pointsRepo.GetOverride(ctx, exec, gameID, code)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, repositories.ErrPointsOverrideMissing) {
		return 0, fmt.Errorf("failed to read override for game %d code %s: %w", gameID, code, err)
	}

	entry, err := s.pointsRepo.GetEntry(ctx, exec, code)
	if err != nil {
		if errors.Is(err, repositories.ErrPointsEntryNotFound) {
			return 0, ErrPointsNotFound
		}
		return 0, fmt.Errorf("failed to read catalogue code %s: %w", code, err)
	}
	return entry.Value, nil
}

func (s *pointsService) ListEntries(ctx context.Context) ([]models.PointsEntry, error) {
	entries, err := s.pointsRepo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list points catalogue: %w", err)
	}
	return entries, nil
}

func (input *PointsEntryInput) normalize() {
	input.Code = strings.TrimSpace(input.Code)
	input.Label = strings.TrimSpace(input.Label)
}

// AddEntry creates a catalogue entry. An existing code is left untouched and
// returned with created=false.
func (s *pointsService) AddEntry(ctx context.Context, input PointsEntryInput) (*models.PointsEntry, bool, error) {
	input.normalize()
	if err := validateStruct(input); err != nil {
		return nil, false, err
	}

	existing, err := s.pointsRepo.GetEntry(ctx, nil, input.Code)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrPointsEntryNotFound) {
		return nil, false, fmt.Errorf("%w: %w", ErrPointsCreationFailed, err)
	}

	entry := &models.PointsEntry{
		Code:      input.Code,
		Label:     input.Label,
		Value:     input.Value,
		SortOrder: input.SortOrder,
		Active:    input.Active,
	}
	if err := s.pointsRepo.CreateEntry(ctx, nil, entry); err != nil {
		if errors.Is(err, repositories.ErrPointsCodeConflict) {
			existing, getErr := s.pointsRepo.GetEntry(ctx, nil, input.Code)
			if getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("%w: %w", ErrPointsCreationFailed, err)
	}
	return entry, true, nil
}

func (s *pointsService) UpdateEntry(ctx context.Context, input PointsEntryInput) (*models.PointsEntry, error) {
	input.normalize()
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	entry := &models.PointsEntry{
		Code:      input.Code,
		Label:     input.Label,
		Value:     input.Value,
		SortOrder: input.SortOrder,
		Active:    input.Active,
	}
	if err := s.pointsRepo.UpdateEntry(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrPointsEntryNotFound) {
			return nil, ErrPointsEntryNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrPointsUpdateFailed, err)
	}
	return entry, nil
}

func (s *pointsService) ListOverrides(ctx context.Context) ([]models.GamePointsOverride, error) {
	overrides, err := s.pointsRepo.ListOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list points overrides: %w", err)
	}
	return overrides, nil
}

// SetOverride inserts or replaces the (game, code) override.
func (s *pointsService) SetOverride(ctx context.Context, input OverrideInput) (*models.GamePointsOverride, error) {
	input.Code = strings.TrimSpace(input.Code)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	override := &models.GamePointsOverride{
		GameID: input.GameID,
		Code:   input.Code,
		Value:  input.Value,
	}
	if err := s.pointsRepo.UpsertOverride(ctx, nil, override); err != nil {
		if errors.Is(err, repositories.ErrOverrideGameInvalid) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrOverrideFailed, err)
	}

	s.logger.InfoContext(ctx, "points override saved",
		slog.Int("game_id", override.GameID),
		slog.String("code", override.Code),
		slog.Int("value", override.Value),
	)
	return override, nil
}
