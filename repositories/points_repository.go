package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/seqel-esports/models"
)

var (
	ErrPointsEntryNotFound   = errors.New("points entry not found")
	ErrPointsCodeConflict    = errors.New("points code conflict")
	ErrPointsOverrideMissing = errors.New("points override not found")
	ErrOverrideGameInvalid   = errors.New("points override game does not exist")
)

// PointsRepository stores the global catalogue and per-game overrides.
type PointsRepository interface {
	CreateEntry(ctx context.Context, exec SQLExecutor, entry *models.PointsEntry) error
	UpdateEntry(ctx context.Context, entry *models.PointsEntry) error
	GetEntry(ctx context.Context, exec SQLExecutor, code string) (*models.PointsEntry, error)
	ListEntries(ctx context.Context) ([]models.PointsEntry, error)

	GetOverride(ctx context.Context, exec SQLExecutor, gameID int, code string) (int, error)
	UpsertOverride(ctx context.Context, exec SQLExecutor, override *models.GamePointsOverride) error
	ListOverrides(ctx context.Context) ([]models.GamePointsOverride, error)
	DeleteAllOverrides(ctx context.Context, exec SQLExecutor) error
}

type postgresPointsRepository struct {
	db *sql.DB
}

func NewPostgresPointsRepository(db *sql.DB) PointsRepository {
	return &postgresPointsRepository{db: db}
}

func (r *postgresPointsRepository) CreateEntry(ctx context.Context, exec SQLExecutor, entry *models.PointsEntry) error {
	query := `INSERT INTO points (code, label, value, sort_order, active) VALUES ($1, $2, $3, $4, $5)`

	_, err := executor(r.db, exec).ExecContext(ctx, query, entry.Code, entry.Label, entry.Value, entry.SortOrder, entry.Active)
	if err != nil {
		if _, ok := constraintViolation(err, pqUniqueViolation); ok {
			return ErrPointsCodeConflict
		}
		return err
	}
	return nil
}

func (r *postgresPointsRepository) UpdateEntry(ctx context.Context, entry *models.PointsEntry) error {
	query := `UPDATE points SET label = $1, value = $2, sort_order = $3, active = $4 WHERE code = $5`

	result, err := r.db.ExecContext(ctx, query, entry.Label, entry.Value, entry.SortOrder, entry.Active, entry.Code)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPointsEntryNotFound)
}

func (r *postgresPointsRepository) GetEntry(ctx context.Context, exec SQLExecutor, code string) (*models.PointsEntry, error) {
	query := `SELECT code, label, value, sort_order, active FROM points WHERE code = $1`

	var e models.PointsEntry
	err := executor(r.db, exec).QueryRowContext(ctx, query, code).Scan(&e.Code, &e.Label, &e.Value, &e.SortOrder, &e.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPointsEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *postgresPointsRepository) ListEntries(ctx context.Context) ([]models.PointsEntry, error) {
	query := `SELECT code, label, value, sort_order, active FROM points ORDER BY sort_order ASC, code ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query points catalogue: %w", err)
	}
	defer rows.Close()

	entries := make([]models.PointsEntry, 0)
	for rows.Next() {
		var e models.PointsEntry
		if scanErr := rows.Scan(&e.Code, &e.Label, &e.Value, &e.SortOrder, &e.Active); scanErr != nil {
			return nil, fmt.Errorf("failed to scan points row: %w", scanErr)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *postgresPointsRepository) GetOverride(ctx context.Context, exec SQLExecutor, gameID int, code string) (int, error) {
	query := `SELECT value FROM game_points WHERE game_id = $1 AND code = $2`

	var value int
	err := executor(r.db, exec).QueryRowContext(ctx, query, gameID, code).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPointsOverrideMissing
		}
		return 0, err
	}
	return value, nil
}

func (r *postgresPointsRepository) UpsertOverride(ctx context.Context, exec SQLExecutor, override *models.GamePointsOverride) error {
	query := `
		INSERT INTO game_points (game_id, code, value)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT uq_game_code DO UPDATE SET value = EXCLUDED.value
		RETURNING id`

	err := executor(r.db, exec).QueryRowContext(ctx, query, override.GameID, override.Code, override.Value).Scan(&override.ID)
	if err != nil {
		if _, ok := constraintViolation(err, pqForeignKeyViolation); ok {
			return ErrOverrideGameInvalid
		}
		return err
	}
	return nil
}

func (r *postgresPointsRepository) ListOverrides(ctx context.Context) ([]models.GamePointsOverride, error) {
	query := `SELECT id, game_id, code, value FROM game_points ORDER BY game_id ASC, code ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query points overrides: %w", err)
	}
	defer rows.Close()

	overrides := make([]models.GamePointsOverride, 0)
	for rows.Next() {
		var o models.GamePointsOverride
		if scanErr := rows.Scan(&o.ID, &o.GameID, &o.Code, &o.Value); scanErr != nil {
			return nil, fmt.Errorf("failed to scan override row: %w", scanErr)
		}
		overrides = append(overrides, o)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *postgresPointsRepository) DeleteAllOverrides(ctx context.Context, exec SQLExecutor) error {
	_, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM game_points`)
	return err
}
