package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/seqel-esports/models"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameNameConflict = errors.New("game name conflict")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Game, error)
	List(ctx context.Context) ([]models.Game, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `id, name, platform, scoring_mode, finals_metric, notes, override_points`

func scanGame(rowScanner interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	err := rowScanner.Scan(&g.ID, &g.Name, &g.Platform, &g.ScoringMode, &g.FinalsMetric, &g.Notes, &g.OverridePoints)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		INSERT INTO games (name, platform, scoring_mode, finals_metric, notes, override_points)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		game.Name, game.Platform, game.ScoringMode, game.FinalsMetric, game.Notes, game.OverridePoints,
	).Scan(&game.ID)
	if err != nil {
		if constraint, ok := constraintViolation(err, pqUniqueViolation); ok && constraint == "games_name_key" {
			return ErrGameNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return scanGame(executor(r.db, exec).QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE name = $1`
	return scanGame(executor(r.db, exec).QueryRowContext(ctx, query, name))
}

func (r *postgresGameRepository) List(ctx context.Context) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		g, scanErr := scanGame(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", scanErr)
		}
		games = append(games, *g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}
