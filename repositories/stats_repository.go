package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// countableTables whitelists the tables Count may be asked about.
var countableTables = map[string]bool{
	"points":   true,
	"games":    true,
	"rounds":   true,
	"events":   true,
	"areas":    true,
	"schools":  true,
	"students": true,
	"matches":  true,
}

type StatsRepository interface {
	Count(ctx context.Context, table string) (int, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func (r *postgresStatsRepository) Count(ctx context.Context, table string) (int, error) {
	if !countableTables[table] {
		return 0, fmt.Errorf("count not supported for table %q", table)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
