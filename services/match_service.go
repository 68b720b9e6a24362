package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/repositories"
	"github.com/Dosada05/seqel-esports/scoring"
)

var (
	ErrMatchRecordFailed = errors.New("failed to record match")
	ErrFinalizeFailed    = errors.New("failed to finalize finals")
	ErrMatchCancelFailed = errors.New("failed to cancel match")
)

const (
	defaultRecentMatches = 20
	maxRecentMatches     = 100
)

type MatchService interface {
	Record(ctx context.Context, sub MatchSubmission) (*models.MatchResult, error)
	FinalizeFinals(ctx context.Context, gameID int, stream models.Stream) ([]*models.MatchParticipant, error)
	Cancel(ctx context.Context, matchID int, reason string) error
	Recent(ctx context.Context, limit int) ([]*models.MatchSummary, error)
}

// MatchSubmission is one logger entry. Which identifier fields are read
// depends on Mode. Metric is in seconds (or a score for HigherIsBetter games).
type MatchSubmission struct {
	GameID  int    `json:"game_id" validate:"required,gt=0"`
	Stream  string `json:"stream" validate:"required,oneof=SchoolsCup Competition"`
	RoundID int    `json:"round_id" validate:"required,gt=0"`
	AreaID  int    `json:"area_id" validate:"required,gt=0"`
	Mode    string `json:"mode" validate:"required,oneof=WIN_LOSE TOP4 FINALS PARTICIPATION"`

	UID1      *int `json:"uid1"`
	UID2      *int `json:"uid2"`
	UID3      *int `json:"uid3"`
	UID4      *int `json:"uid4"`
	WinnerUID *int `json:"winner_uid"`

	Place1 *int `json:"place1"`
	Place2 *int `json:"place2"`
	Place3 *int `json:"place3"`
	Place4 *int `json:"place4"`

	FinalsUID *int     `json:"finals_uid"`
	Metric    *float64 `json:"metric"`
}

// plannedAward is an award row decided before the transaction opens.
type plannedAward struct {
	uid      int
	slot     int
	code     *string
	metricMs *int64
}

type matchService struct {
	matchRepo     repositories.MatchRepository
	gameRepo      repositories.GameRepository
	eventRepo     repositories.EventRepository
	roundRepo     repositories.RoundRepository
	settingRepo   repositories.SettingRepository
	points        PointsService
	tx            repositories.Transactor
	bonusPrefixes []string
	logger        *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	gameRepo repositories.GameRepository,
	eventRepo repositories.EventRepository,
	roundRepo repositories.RoundRepository,
	settingRepo repositories.SettingRepository,
	points PointsService,
	tx repositories.Transactor,
	bonusPrefixes []string,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:     matchRepo,
		gameRepo:      gameRepo,
		eventRepo:     eventRepo,
		roundRepo:     roundRepo,
		settingRepo:   settingRepo,
		points:        points,
		tx:            tx,
		bonusPrefixes: bonusPrefixes,
		logger:        logger,
	}
}

func codePtr(code string) *string {
	return &code
}

func checkUID(field string, uid int) error {
	if !scoring.ValidUID(uid) {
		return newValidationError(field, "must be a 4-digit identifier between 1000 and 9999")
	}
	return nil
}

// Record validates the submission, then writes the match and its award rows
// in one transaction.
func (s *matchService) Record(ctx context.Context, sub MatchSubmission) (*models.MatchResult, error) {
	if err := validateStruct(sub); err != nil {
		return nil, err
	}
	if sub.Metric != nil && !scoring.ValidMetric(*sub.Metric) {
		return nil, newValidationError("metric", fmt.Sprintf("must be between 0 and %d seconds", scoring.MaxMetricSeconds))
	}

	game, event, err := s.loadContext(ctx, sub)
	if err != nil {
		return nil, err
	}

	var awards []plannedAward
	stage := models.StageGroup
	switch models.SubmissionMode(sub.Mode) {
	case models.ModeWinLose:
		awards, err = s.planWinLose(ctx, game, sub)
	case models.ModeTop4:
		awards, err = planTop4(sub)
	case models.ModeFinals:
		stage = models.StageFinal
		awards, err = planFinals(sub)
	case models.ModeParticipation:
		awards, err = planParticipation(sub)
	}
	if err != nil {
		return nil, err
	}

	result := &models.MatchResult{
		Match: &models.Match{
			EventID: event.ID,
			AreaID:  sub.AreaID,
			RoundID: sub.RoundID,
			Stage:   &stage,
		},
	}
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.Create(ctx, exec, result.Match); err != nil {
			return err
		}
		participants := make([]*models.MatchParticipant, 0, len(awards))
		for _, a := range awards {
			p := &models.MatchParticipant{
				MatchID:       result.Match.ID,
				UID4:          a.uid,
				Slot:          a.slot,
				Outcome:       a.code,
				MetricValueMs: a.metricMs,
			}
			if a.code != nil {
				pts, err := s.resolvePoints(ctx, exec, game.ID, *a.code)
				if err != nil {
					return err
				}
				p.PointsAwarded = pts
			}
			if err := s.matchRepo.AddParticipant(ctx, exec, p); err != nil {
				return err
			}
			participants = append(participants, p)
		}
		result.Participants = participants
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchRecordFailed, err)
	}

	s.logger.InfoContext(ctx, "match recorded",
		slog.Int("match_id", result.Match.ID),
		slog.Int("game_id", game.ID),
		slog.String("stream", sub.Stream),
		slog.String("mode", sub.Mode),
		slog.Int("awards", len(result.Participants)),
	)
	return result, nil
}

// loadContext checks that the game, event, round and area of the submission
// exist and belong together.
func (s *matchService) loadContext(ctx context.Context, sub MatchSubmission) (*models.Game, *models.Event, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, sub.GameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, nil, ErrGameNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrMatchRecordFailed, err)
	}

	stream := models.Stream(sub.Stream)
	event, err := s.eventRepo.GetEvent(ctx, nil, game.ID, stream)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrMatchRecordFailed, err)
	}

	if _, err := s.roundRepo.GetByID(ctx, nil, sub.RoundID); err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, nil, ErrRoundNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrMatchRecordFailed, err)
	}

	area, err := s.eventRepo.GetArea(ctx, nil, sub.AreaID)
	if err != nil {
		if errors.Is(err, repositories.ErrAreaNotFound) {
			return nil, nil, ErrAreaNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrMatchRecordFailed, err)
	}
	if area.GameID != game.ID || area.Stream != stream {
		return nil, nil, newValidationError("area_id", "area does not belong to this game and stream")
	}
	return game, event, nil
}

func (s *matchService) planWinLose(ctx context.Context, game *models.Game, sub MatchSubmission) ([]plannedAward, error) {
	if sub.UID1 == nil || sub.UID2 == nil {
		return nil, newValidationError("uid2", "two participants are required")
	}
	if sub.UID3 != nil {
		return nil, newValidationError("uid3", "win/lose takes exactly two participants")
	}
	if sub.UID4 != nil {
		return nil, newValidationError("uid4", "win/lose takes exactly two participants")
	}
	if err := checkUID("uid1", *sub.UID1); err != nil {
		return nil, err
	}
	if err := checkUID("uid2", *sub.UID2); err != nil {
		return nil, err
	}
	if *sub.UID1 == *sub.UID2 {
		return nil, newValidationError("uid2", "participants must be different")
	}
	if sub.WinnerUID == nil || (*sub.WinnerUID != *sub.UID1 && *sub.WinnerUID != *sub.UID2) {
		return nil, ErrWinnerMismatch
	}

	winner, loser := *sub.UID1, *sub.UID2
	winnerSlot, loserSlot := 1, 2
	if *sub.WinnerUID == *sub.UID2 {
		winner, loser = loser, winner
		winnerSlot, loserSlot = loserSlot, winnerSlot
	}

	awards := []plannedAward{
		{uid: winner, slot: winnerSlot, code: codePtr(models.CodeWin)},
		{uid: loser, slot: loserSlot, code: codePtr(models.CodeLose)},
	}

	if sub.Metric != nil && scoring.BonusEligible(game.Name, s.bonusPrefixes) {
		setting, err := readSetting(ctx, s.settingRepo, nil, models.SettingTimeLapBonus)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMatchRecordFailed, err)
		}
		if scoring.BonusEnabled(setting) {
			ms := scoring.MetricToMillis(*sub.Metric)
			awards = append(awards, plannedAward{uid: winner, slot: winnerSlot, code: codePtr(models.CodeTimeLap), metricMs: &ms})
		}
	}
	return awards, nil
}

func planTop4(sub MatchSubmission) ([]plannedAward, error) {
	places := [4]*int{sub.Place1, sub.Place2, sub.Place3, sub.Place4}
	seen := make(map[int]bool, len(places))
	awards := make([]plannedAward, 0, len(places))
	for i, uid := range places {
		if uid == nil {
			continue
		}
		field := fmt.Sprintf("place%d", i+1)
		if err := checkUID(field, *uid); err != nil {
			return nil, err
		}
		if seen[*uid] {
			return nil, newValidationError(field, "a participant can hold only one place")
		}
		seen[*uid] = true
		awards = append(awards, plannedAward{uid: *uid, slot: i + 1, code: codePtr(models.PlaceCodes[i])})
	}
	if len(awards) == 0 {
		return nil, newValidationError("place1", "at least one place is required")
	}
	return awards, nil
}

// planFinals stores the metric only; placement points are assigned by FinalizeFinals.
func planFinals(sub MatchSubmission) ([]plannedAward, error) {
	if sub.FinalsUID == nil {
		return nil, newValidationError("finals_uid", "is required")
	}
	if err := checkUID("finals_uid", *sub.FinalsUID); err != nil {
		return nil, err
	}
	if sub.Metric == nil {
		return nil, newValidationError("metric", "is required for finals")
	}
	ms := scoring.MetricToMillis(*sub.Metric)
	return []plannedAward{{uid: *sub.FinalsUID, slot: 1, metricMs: &ms}}, nil
}

func planParticipation(sub MatchSubmission) ([]plannedAward, error) {
	uids := [4]*int{sub.UID1, sub.UID2, sub.UID3, sub.UID4}
	seen := make(map[int]bool, len(uids))
	awards := make([]plannedAward, 0, len(uids))
	for i, uid := range uids {
		if uid == nil || seen[*uid] {
			continue
		}
		if err := checkUID(fmt.Sprintf("uid%d", i+1), *uid); err != nil {
			return nil, err
		}
		seen[*uid] = true
		awards = append(awards, plannedAward{uid: *uid, slot: i + 1, code: codePtr(models.CodeParticipation)})
	}
	if len(awards) == 0 {
		return nil, newValidationError("uid1", "at least one participant is required")
	}
	return awards, nil
}

// resolvePoints treats an unknown code as worth 0.
func (s *matchService) resolvePoints(ctx context.Context, exec repositories.SQLExecutor, gameID int, code string) (int, error) {
	pts, err := s.points.Resolve(ctx, exec, gameID, code)
	if err != nil {
		if errors.Is(err, ErrPointsNotFound) {
			s.logger.WarnContext(ctx, "no points value for code, awarding 0",
				slog.Int("game_id", gameID),
				slog.String("code", code),
			)
			return 0, nil
		}
		return 0, err
	}
	return pts, nil
}

// FinalizeFinals ranks the finalists of the (game, stream) event by their
// best metric and rewrites the outcome and points of each finals row. Places
// 1-4 get the place codes, everyone else Participation. A student's repeat
// runs are marked Participation with 0 points. Rows of cancelled matches lose
// any placement from an earlier finalize.
func (s *matchService) FinalizeFinals(ctx context.Context, gameID int, stream models.Stream) ([]*models.MatchParticipant, error) {
	if !stream.Valid() {
		return nil, newValidationError("stream", "must be one of: SchoolsCup Competition")
	}
	game, err := s.gameRepo.GetByID(ctx, nil, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrFinalizeFailed, err)
	}
	event, err := s.eventRepo.GetEvent(ctx, nil, gameID, stream)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrFinalizeFailed, err)
	}

	direction := models.LowerIsBetter
	if game.FinalsMetric != nil {
		direction = *game.FinalsMetric
	}

	var updated []*models.MatchParticipant
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.matchRepo.ClearCancelledFinals(ctx, exec, event.ID); err != nil {
			return err
		}
		rows, err := s.matchRepo.ListFinalsEntries(ctx, exec, event.ID)
		if err != nil {
			return err
		}
		byID := make(map[int]*models.MatchParticipant, len(rows))
		entries := make([]scoring.FinalsEntry, 0, len(rows))
		for _, row := range rows {
			byID[row.ID] = row
			entries = append(entries, scoring.FinalsEntry{AwardID: row.ID, UID4: row.UID4, MetricMs: *row.MetricValueMs})
		}

		updated = make([]*models.MatchParticipant, 0, len(rows))
		for _, placement := range scoring.RankFinalists(entries, direction) {
			code := scoring.PlaceCode(placement.Place)
			pts := 0
			if placement.Place > 0 {
				pts, err = s.resolvePoints(ctx, exec, game.ID, code)
				if err != nil {
					return err
				}
			}
			if err := s.matchRepo.UpdateAward(ctx, exec, placement.AwardID, code, pts); err != nil {
				return err
			}
			row := byID[placement.AwardID]
			row.Outcome = codePtr(code)
			row.PointsAwarded = pts
			updated = append(updated, row)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFinalizeFailed, err)
	}

	s.logger.InfoContext(ctx, "finals finalized",
		slog.Int("game_id", gameID),
		slog.String("stream", string(stream)),
		slog.Int("entries", len(updated)),
	)
	return updated, nil
}

// Cancel flags a match. Its award rows are kept.
func (s *matchService) Cancel(ctx context.Context, matchID int, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return newValidationError("reason", "is required")
	}
	if err := s.matchRepo.Cancel(ctx, matchID, reason); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("%w (id: %d): %w", ErrMatchCancelFailed, matchID, err)
	}
	s.logger.InfoContext(ctx, "match cancelled", slog.Int("match_id", matchID), slog.String("reason", reason))
	return nil
}

func (s *matchService) Recent(ctx context.Context, limit int) ([]*models.MatchSummary, error) {
	if limit <= 0 {
		limit = defaultRecentMatches
	}
	if limit > maxRecentMatches {
		limit = maxRecentMatches
	}
	matches, err := s.matchRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}
	return matches, nil
}
