package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/seqel-esports/models"
)

type LeaderboardRepository interface {
	ListAwards(ctx context.Context, filter models.LeaderboardFilter) ([]models.AwardPoints, error)
	SchoolTotals(ctx context.Context, filter models.LeaderboardFilter) ([]models.SchoolBoardRow, error)
}

type postgresLeaderboardRepository struct {
	db *sql.DB
}

func NewPostgresLeaderboardRepository(db *sql.DB) LeaderboardRepository {
	return &postgresLeaderboardRepository{db: db}
}

// appendEventFilter adds the game/stream conditions on the events alias e.
func appendEventFilter(queryBuilder *strings.Builder, args []interface{}, filter models.LeaderboardFilter) []interface{} {
	queryBuilder.WriteString(" WHERE TRUE")
	if filter.GameID != nil {
		args = append(args, *filter.GameID)
		queryBuilder.WriteString(" AND e.game_id = $" + strconv.Itoa(len(args)))
	}
	if filter.Stream != nil {
		args = append(args, *filter.Stream)
		queryBuilder.WriteString(" AND e.stream = $" + strconv.Itoa(len(args)))
	}
	return args
}

// ListAwards returns (uid4, points) for every award row under the filter, in
// insertion order. Summing happens in the caller.
func (r *postgresLeaderboardRepository) ListAwards(ctx context.Context, filter models.LeaderboardFilter) ([]models.AwardPoints, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT mp.uid4, mp.points_awarded
		FROM match_participants mp
		JOIN matches m ON m.id = mp.match_id
		JOIN events e ON e.id = m.event_id`)
	args := appendEventFilter(&queryBuilder, nil, filter)
	queryBuilder.WriteString(" ORDER BY mp.id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query award rows: %w", err)
	}
	defer rows.Close()

	awards := make([]models.AwardPoints, 0)
	for rows.Next() {
		var a models.AwardPoints
		if scanErr := rows.Scan(&a.UID4, &a.Points); scanErr != nil {
			return nil, fmt.Errorf("failed to scan award row: %w", scanErr)
		}
		awards = append(awards, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return awards, nil
}

// SchoolTotals sums award rows per school through the students' UID4.
// Rows whose UID4 is not a registered student are not counted.
func (r *postgresLeaderboardRepository) SchoolTotals(ctx context.Context, filter models.LeaderboardFilter) ([]models.SchoolBoardRow, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT sc.uid4, sc.name, COALESCE(SUM(mp.points_awarded), 0) AS total
		FROM match_participants mp
		JOIN matches m ON m.id = mp.match_id
		JOIN events e ON e.id = m.event_id
		JOIN students st ON st.uid4 = mp.uid4
		JOIN schools sc ON sc.id = st.school_id`)
	args := appendEventFilter(&queryBuilder, nil, filter)
	queryBuilder.WriteString(" GROUP BY sc.id, sc.uid4, sc.name ORDER BY total DESC, sc.name ASC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query school totals: %w", err)
	}
	defer rows.Close()

	totals := make([]models.SchoolBoardRow, 0)
	for rows.Next() {
		var row models.SchoolBoardRow
		if scanErr := rows.Scan(&row.SchoolUID4, &row.SchoolName, &row.Total); scanErr != nil {
			return nil, fmt.Errorf("failed to scan school total row: %w", scanErr)
		}
		totals = append(totals, row)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}
