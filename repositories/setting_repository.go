package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/seqel-esports/models"
)

var ErrSettingNotFound = errors.New("setting not found")

type SettingRepository interface {
	Get(ctx context.Context, exec SQLExecutor, key string) (string, error)
	Set(ctx context.Context, exec SQLExecutor, key, value string) error
	List(ctx context.Context) ([]models.Setting, error)
}

type postgresSettingRepository struct {
	db *sql.DB
}

func NewPostgresSettingRepository(db *sql.DB) SettingRepository {
	return &postgresSettingRepository{db: db}
}

func (r *postgresSettingRepository) Get(ctx context.Context, exec SQLExecutor, key string) (string, error) {
	var value string
	err := executor(r.db, exec).QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *postgresSettingRepository) Set(ctx context.Context, exec SQLExecutor, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	_, err := executor(r.db, exec).ExecContext(ctx, query, key, value)
	return err
}

func (r *postgresSettingRepository) List(ctx context.Context) ([]models.Setting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := make([]models.Setting, 0)
	for rows.Next() {
		var s models.Setting
		if scanErr := rows.Scan(&s.Key, &s.Value); scanErr != nil {
			return nil, scanErr
		}
		settings = append(settings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return settings, nil
}
