package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/seqel-esports/models"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrAreaNotFound     = errors.New("area not found")
	ErrEventGameInvalid = errors.New("event game does not exist")
)

// EventRepository stores events (game x stream) and the areas that belong to them.
type EventRepository interface {
	EnsureEvent(ctx context.Context, exec SQLExecutor, gameID int, stream models.Stream) (*models.Event, error)
	GetEvent(ctx context.Context, exec SQLExecutor, gameID int, stream models.Stream) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)

	EnsureArea(ctx context.Context, exec SQLExecutor, area *models.Area) (bool, error)
	GetArea(ctx context.Context, exec SQLExecutor, id int) (*models.Area, error)
	ListAreas(ctx context.Context) ([]models.Area, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

// EnsureEvent returns the event for (gameID, stream), creating it if needed.
func (r *postgresEventRepository) EnsureEvent(ctx context.Context, exec SQLExecutor, gameID int, stream models.Stream) (*models.Event, error) {
	query := `
		INSERT INTO events (game_id, stream) VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT uq_event_game_stream DO NOTHING`

	if _, err := executor(r.db, exec).ExecContext(ctx, query, gameID, stream); err != nil {
		if _, ok := constraintViolation(err, pqForeignKeyViolation); ok {
			return nil, ErrEventGameInvalid
		}
		return nil, err
	}
	return r.GetEvent(ctx, exec, gameID, stream)
}

func (r *postgresEventRepository) GetEvent(ctx context.Context, exec SQLExecutor, gameID int, stream models.Stream) (*models.Event, error) {
	query := `SELECT id, game_id, stream FROM events WHERE game_id = $1 AND stream = $2`

	var e models.Event
	err := executor(r.db, exec).QueryRowContext(ctx, query, gameID, stream).Scan(&e.ID, &e.GameID, &e.Stream)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *postgresEventRepository) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, game_id, stream FROM events ORDER BY game_id ASC, stream ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		if scanErr := rows.Scan(&e.ID, &e.GameID, &e.Stream); scanErr != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", scanErr)
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// EnsureArea inserts the area unless the (game, stream, name) triple exists.
// area.ID is set either way; the bool reports whether a row was created.
func (r *postgresEventRepository) EnsureArea(ctx context.Context, exec SQLExecutor, area *models.Area) (bool, error) {
	ex := executor(r.db, exec)
	query := `
		INSERT INTO areas (game_id, stream, name) VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT uq_area_name DO NOTHING
		RETURNING id`

	err := ex.QueryRowContext(ctx, query, area.GameID, area.Stream, area.Name).Scan(&area.ID)
	if err == nil {
		return true, nil
	}
	if _, ok := constraintViolation(err, pqForeignKeyViolation); ok {
		return false, ErrEventGameInvalid
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	existing := `SELECT id FROM areas WHERE game_id = $1 AND stream = $2 AND name = $3`
	if err := ex.QueryRowContext(ctx, existing, area.GameID, area.Stream, area.Name).Scan(&area.ID); err != nil {
		return false, fmt.Errorf("failed to load existing area: %w", err)
	}
	return false, nil
}

func (r *postgresEventRepository) GetArea(ctx context.Context, exec SQLExecutor, id int) (*models.Area, error) {
	query := `SELECT id, game_id, stream, name FROM areas WHERE id = $1`

	var a models.Area
	err := executor(r.db, exec).QueryRowContext(ctx, query, id).Scan(&a.ID, &a.GameID, &a.Stream, &a.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAreaNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *postgresEventRepository) ListAreas(ctx context.Context) ([]models.Area, error) {
	query := `SELECT id, game_id, stream, name FROM areas ORDER BY game_id ASC, stream ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query areas: %w", err)
	}
	defer rows.Close()

	areas := make([]models.Area, 0)
	for rows.Next() {
		var a models.Area
		if scanErr := rows.Scan(&a.ID, &a.GameID, &a.Stream, &a.Name); scanErr != nil {
			return nil, fmt.Errorf("failed to scan area row: %w", scanErr)
		}
		areas = append(areas, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return areas, nil
}
