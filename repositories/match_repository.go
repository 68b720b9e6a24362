package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrAwardNotFound     = errors.New("award row not found")
	ErrMatchEventInvalid = errors.New("match event, area or round does not exist")
	ErrAwardMatchInvalid = errors.New("award match does not exist")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	Cancel(ctx context.Context, id int, reason string) error
	ListRecent(ctx context.Context, limit int) ([]*models.MatchSummary, error)

	AddParticipant(ctx context.Context, exec SQLExecutor, participant *models.MatchParticipant) error
	ListParticipants(ctx context.Context, matchIDs []int) ([]*models.MatchParticipant, error)
	ListFinalsEntries(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.MatchParticipant, error)
	UpdateAward(ctx context.Context, exec SQLExecutor, awardID int, outcome string, points int) error
	ClearCancelledFinals(ctx context.Context, exec SQLExecutor, eventID int) (int64, error)

	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (event_id, area_id, round_id, stage, cancelled, cancel_reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		match.EventID,
		match.AreaID,
		match.RoundID,
		match.Stage,
		match.Cancelled,
		match.CancelReason,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		if _, ok := constraintViolation(err, pqForeignKeyViolation); ok {
			return ErrMatchEventInvalid
		}
		return err
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, event_id, area_id, round_id, stage, cancelled, cancel_reason, created_at
		FROM matches
		WHERE id = $1`

	m := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.EventID, &m.AreaID, &m.RoundID, &m.Stage, &m.Cancelled, &m.CancelReason, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) Cancel(ctx context.Context, id int, reason string) error {
	query := `UPDATE matches SET cancelled = TRUE, cancel_reason = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, reason, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// ListRecent returns the latest matches with display names and award rows.
func (r *postgresMatchRepository) ListRecent(ctx context.Context, limit int) ([]*models.MatchSummary, error) {
	query := `
		SELECT m.id, m.event_id, m.area_id, m.round_id, m.stage, m.cancelled, m.cancel_reason, m.created_at,
		       g.name, e.stream, rd.label, a.name
		FROM matches m
		JOIN events e ON e.id = m.event_id
		JOIN games g ON g.id = e.game_id
		JOIN rounds rd ON rd.id = m.round_id
		JOIN areas a ON a.id = m.area_id
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent matches: %w", err)
	}
	defer rows.Close()

	summaries := make([]*models.MatchSummary, 0)
	byID := make(map[int]*models.MatchSummary)
	ids := make([]int, 0)
	for rows.Next() {
		var s models.MatchSummary
		if scanErr := rows.Scan(
			&s.ID, &s.EventID, &s.AreaID, &s.RoundID, &s.Stage, &s.Cancelled, &s.CancelReason, &s.CreatedAt,
			&s.GameName, &s.Stream, &s.RoundLabel, &s.AreaName,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match summary row: %w", scanErr)
		}
		summaries = append(summaries, &s)
		byID[s.ID] = &s
		ids = append(ids, s.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	participants, err := r.ListParticipants(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range participants {
		if s, ok := byID[p.MatchID]; ok {
			s.Participants = append(s.Participants, p)
		}
	}
	return summaries, nil
}

func (r *postgresMatchRepository) AddParticipant(ctx context.Context, exec SQLExecutor, p *models.MatchParticipant) error {
	query := `
		INSERT INTO match_participants (match_id, uid4, slot, outcome, points_awarded, metric_value_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		p.MatchID, p.UID4, p.Slot, p.Outcome, p.PointsAwarded, p.MetricValueMs,
	).Scan(&p.ID)
	if err != nil {
		if _, ok := constraintViolation(err, pqForeignKeyViolation); ok {
			return ErrAwardMatchInvalid
		}
		return err
	}
	return nil
}

func (r *postgresMatchRepository) scanParticipants(rows *sql.Rows) ([]*models.MatchParticipant, error) {
	defer rows.Close()

	participants := make([]*models.MatchParticipant, 0)
	for rows.Next() {
		var p models.MatchParticipant
		if err := rows.Scan(&p.ID, &p.MatchID, &p.UID4, &p.Slot, &p.Outcome, &p.PointsAwarded, &p.MetricValueMs); err != nil {
			return nil, fmt.Errorf("failed to scan award row: %w", err)
		}
		participants = append(participants, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *postgresMatchRepository) ListParticipants(ctx context.Context, matchIDs []int) ([]*models.MatchParticipant, error) {
	if len(matchIDs) == 0 {
		return []*models.MatchParticipant{}, nil
	}
	query := `
		SELECT id, match_id, uid4, slot, outcome, points_awarded, metric_value_ms
		FROM match_participants
		WHERE match_id = ANY($1)
		ORDER BY match_id ASC, slot ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query award rows: %w", err)
	}
	return r.scanParticipants(rows)
}

// ListFinalsEntries locks and returns every award row with a metric that
// belongs to a Final-stage match of the event. Cancelled matches are left out.
func (r *postgresMatchRepository) ListFinalsEntries(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.MatchParticipant, error) {
	query := `
		SELECT mp.id, mp.match_id, mp.uid4, mp.slot, mp.outcome, mp.points_awarded, mp.metric_value_ms
		FROM match_participants mp
		JOIN matches m ON m.id = mp.match_id
		WHERE m.event_id = $1 AND m.stage = $2 AND NOT m.cancelled AND mp.metric_value_ms IS NOT NULL
		ORDER BY mp.id ASC
		FOR UPDATE OF mp`

	rows, err := executor(r.db, exec).QueryContext(ctx, query, eventID, models.StageFinal)
	if err != nil {
		return nil, fmt.Errorf("failed to query finals entries for event %d: %w", eventID, err)
	}
	return r.scanParticipants(rows)
}

func (r *postgresMatchRepository) UpdateAward(ctx context.Context, exec SQLExecutor, awardID int, outcome string, points int) error {
	query := `UPDATE match_participants SET outcome = $1, points_awarded = $2 WHERE id = $3`

	result, err := executor(r.db, exec).ExecContext(ctx, query, outcome, points, awardID)
	if err != nil {
		return fmt.Errorf("failed to update award %d: %w", awardID, err)
	}
	return checkAffectedRows(result, ErrAwardNotFound)
}

// ClearCancelledFinals strips the placement from finals rows whose match was
// cancelled after an earlier finalize.
func (r *postgresMatchRepository) ClearCancelledFinals(ctx context.Context, exec SQLExecutor, eventID int) (int64, error) {
	query := `
		UPDATE match_participants mp
		SET outcome = NULL, points_awarded = 0
		FROM matches m
		WHERE m.id = mp.match_id AND m.event_id = $1 AND m.stage = $2 AND m.cancelled
			AND mp.metric_value_ms IS NOT NULL AND mp.outcome IS NOT NULL`

	result, err := executor(r.db, exec).ExecContext(ctx, query, eventID, models.StageFinal)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cancelled finals for event %d: %w", eventID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

func (r *postgresMatchRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	ex := executor(r.db, exec)
	if _, err := ex.ExecContext(ctx, `DELETE FROM match_participants`); err != nil {
		return err
	}
	_, err := ex.ExecContext(ctx, `DELETE FROM matches`)
	return err
}
