package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/seqel-esports/models"
)

var (
	ErrSchoolNotFound     = errors.New("school not found")
	ErrSchoolNameConflict = errors.New("school name conflict")
	ErrSchoolInUse        = errors.New("school cannot be deleted as it has students")
)

type SchoolRepository interface {
	Create(ctx context.Context, exec SQLExecutor, school *models.School) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.School, error)
	GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.School, error)
	List(ctx context.Context) ([]models.School, error)
	ListUIDs(ctx context.Context, exec SQLExecutor) ([]int, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresSchoolRepository struct {
	db *sql.DB
}

func NewPostgresSchoolRepository(db *sql.DB) SchoolRepository {
	return &postgresSchoolRepository{db: db}
}

func (r *postgresSchoolRepository) Create(ctx context.Context, exec SQLExecutor, school *models.School) error {
	query := `INSERT INTO schools (uid4, name) VALUES ($1, $2) RETURNING id`

	err := executor(r.db, exec).QueryRowContext(ctx, query, school.UID4, school.Name).Scan(&school.ID)
	if err != nil {
		if constraint, ok := constraintViolation(err, pqUniqueViolation); ok {
			switch constraint {
			case "schools_uid4_key":
				return ErrUIDConflict
			case "schools_name_key":
				return ErrSchoolNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresSchoolRepository) scanSchool(row *sql.Row) (*models.School, error) {
	var school models.School
	if err := row.Scan(&school.ID, &school.UID4, &school.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}
	return &school, nil
}

func (r *postgresSchoolRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.School, error) {
	query := `SELECT id, uid4, name FROM schools WHERE id = $1`
	return r.scanSchool(executor(r.db, exec).QueryRowContext(ctx, query, id))
}

// GetByName matches the name exactly, case included.
func (r *postgresSchoolRepository) GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.School, error) {
	query := `SELECT id, uid4, name FROM schools WHERE name = $1`
	return r.scanSchool(executor(r.db, exec).QueryRowContext(ctx, query, name))
}

func (r *postgresSchoolRepository) List(ctx context.Context) ([]models.School, error) {
	query := `SELECT id, uid4, name FROM schools ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schools: %w", err)
	}
	defer rows.Close()

	schools := make([]models.School, 0)
	for rows.Next() {
		var school models.School
		if scanErr := rows.Scan(&school.ID, &school.UID4, &school.Name); scanErr != nil {
			return nil, fmt.Errorf("failed to scan school row: %w", scanErr)
		}
		schools = append(schools, school)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *postgresSchoolRepository) ListUIDs(ctx context.Context, exec SQLExecutor) ([]int, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, `SELECT uid4 FROM schools`)
	if err != nil {
		return nil, fmt.Errorf("failed to query school uids: %w", err)
	}
	return scanInts(rows)
}

func (r *postgresSchoolRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	_, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM schools`)
	if err != nil {
		if _, ok := constraintViolation(err, pqForeignKeyViolation); ok {
			return ErrSchoolInUse
		}
		return err
	}
	return nil
}
