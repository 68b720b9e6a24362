package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/lib/pq"
)

var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrStudentSchoolInvalid = errors.New("student school does not exist")
)

type StudentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, student *models.Student) error
	GetByID(ctx context.Context, id int) (*models.Student, error)
	List(ctx context.Context, search string) ([]models.Student, error)
	ListUIDs(ctx context.Context, exec SQLExecutor) ([]int, error)
	SetFlag(ctx context.Context, id int, flag models.StudentFlag, value bool) error
	SchoolNamesByUIDs(ctx context.Context, uids []int) (map[int]string, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresStudentRepository struct {
	db *sql.DB
}

func NewPostgresStudentRepository(db *sql.DB) StudentRepository {
	return &postgresStudentRepository{db: db}
}

const studentColumns = `st.id, st.uid4, st.first_name, st.last_name, st.school_id, st.cohort,
		       st.year_level, st.non_consent, st.is_ref, st.is_admin, sc.name`

func scanStudent(rowScanner interface{ Scan(...interface{}) error }) (*models.Student, error) {
	var s models.Student
	err := rowScanner.Scan(
		&s.ID, &s.UID4, &s.FirstName, &s.LastName, &s.SchoolID, &s.Cohort,
		&s.YearLevel, &s.NonConsent, &s.IsRef, &s.IsAdmin, &s.SchoolName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresStudentRepository) Create(ctx context.Context, exec SQLExecutor, student *models.Student) error {
	query := `
		INSERT INTO students
			(uid4, first_name, last_name, school_id, cohort, year_level, non_consent, is_ref, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		student.UID4,
		student.FirstName,
		student.LastName,
		student.SchoolID,
		student.Cohort,
		student.YearLevel,
		student.NonConsent,
		student.IsRef,
		student.IsAdmin,
	).Scan(&student.ID)
	if err != nil {
		if constraint, ok := constraintViolation(err, pqUniqueViolation); ok && constraint == "students_uid4_key" {
			return ErrUIDConflict
		}
		if _, ok := constraintViolation(err, pqForeignKeyViolation); ok {
			return ErrStudentSchoolInvalid
		}
		return err
	}
	return nil
}

func (r *postgresStudentRepository) GetByID(ctx context.Context, id int) (*models.Student, error) {
	query := `SELECT ` + studentColumns + `
		FROM students st
		JOIN schools sc ON sc.id = st.school_id
		WHERE st.id = $1`
	return scanStudent(r.db.QueryRowContext(ctx, query, id))
}

// List returns students ordered by UID4. A non-empty search matches first
// name, last name or school name case-insensitively.
func (r *postgresStudentRepository) List(ctx context.Context, search string) ([]models.Student, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + studentColumns + `
		FROM students st
		JOIN schools sc ON sc.id = st.school_id`)

	args := []interface{}{}
	if search = strings.TrimSpace(search); search != "" {
		queryBuilder.WriteString(` WHERE st.first_name ILIKE $1 OR st.last_name ILIKE $1 OR sc.name ILIKE $1`)
		args = append(args, "%"+search+"%")
	}
	queryBuilder.WriteString(` ORDER BY st.uid4 ASC`)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		s, scanErr := scanStudent(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", scanErr)
		}
		students = append(students, *s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *postgresStudentRepository) ListUIDs(ctx context.Context, exec SQLExecutor) ([]int, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, `SELECT uid4 FROM students`)
	if err != nil {
		return nil, fmt.Errorf("failed to query student uids: %w", err)
	}
	return scanInts(rows)
}

func (r *postgresStudentRepository) SetFlag(ctx context.Context, id int, flag models.StudentFlag, value bool) error {
	if !flag.Valid() {
		return fmt.Errorf("unknown student flag %q", flag)
	}
	// flag is one of the whitelisted column names above.
	query := `UPDATE students SET ` + string(flag) + ` = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStudentNotFound)
}

func (r *postgresStudentRepository) SchoolNamesByUIDs(ctx context.Context, uids []int) (map[int]string, error) {
	names := make(map[int]string, len(uids))
	if len(uids) == 0 {
		return names, nil
	}

	query := `
		SELECT st.uid4, sc.name
		FROM students st
		JOIN schools sc ON sc.id = st.school_id
		WHERE st.uid4 = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(uids))
	if err != nil {
		return nil, fmt.Errorf("failed to query school names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var uid int
		var name string
		if err := rows.Scan(&uid, &name); err != nil {
			return nil, err
		}
		names[uid] = name
	}
	return names, rows.Err()
}

func (r *postgresStudentRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	_, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM students`)
	return err
}
