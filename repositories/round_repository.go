package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/seqel-esports/models"
)

var ErrRoundNotFound = errors.New("round not found")

type RoundRepository interface {
	Ensure(ctx context.Context, exec SQLExecutor, round *models.Round) (bool, error)
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Round, error)
	List(ctx context.Context) ([]models.Round, error)
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

// Ensure inserts the round unless its label exists; round is refreshed from
// the stored row and the bool reports whether it was created.
func (r *postgresRoundRepository) Ensure(ctx context.Context, exec SQLExecutor, round *models.Round) (bool, error) {
	ex := executor(r.db, exec)
	query := `
		INSERT INTO rounds (label, start_time) VALUES ($1, $2::time)
		ON CONFLICT ON CONSTRAINT rounds_label_key DO NOTHING
		RETURNING id`

	err := ex.QueryRowContext(ctx, query, round.Label, round.StartTime).Scan(&round.ID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	existing := `SELECT id, to_char(start_time, 'HH24:MI') FROM rounds WHERE label = $1`
	if err := ex.QueryRowContext(ctx, existing, round.Label).Scan(&round.ID, &round.StartTime); err != nil {
		return false, fmt.Errorf("failed to load existing round: %w", err)
	}
	return false, nil
}

func (r *postgresRoundRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Round, error) {
	query := `SELECT id, label, to_char(start_time, 'HH24:MI') FROM rounds WHERE id = $1`

	var round models.Round
	err := executor(r.db, exec).QueryRowContext(ctx, query, id).Scan(&round.ID, &round.Label, &round.StartTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return &round, nil
}

func (r *postgresRoundRepository) List(ctx context.Context) ([]models.Round, error) {
	query := `SELECT id, label, to_char(start_time, 'HH24:MI') FROM rounds ORDER BY start_time ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	rounds := make([]models.Round, 0)
	for rows.Next() {
		var round models.Round
		if scanErr := rows.Scan(&round.ID, &round.Label, &round.StartTime); scanErr != nil {
			return nil, fmt.Errorf("failed to scan round row: %w", scanErr)
		}
		rounds = append(rounds, round)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}
