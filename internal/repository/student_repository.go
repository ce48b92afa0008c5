package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/attendly/rollcall-backend/internal/model"
)

var (
	// ErrNotFound is returned when no student matches the given ID.
	ErrNotFound = errors.New("student not found")
	// ErrDuplicateRoll is returned when a roll number is already taken.
	ErrDuplicateRoll = errors.New("student with this roll already exists")
)

const studentColumns = `id, roll, name, status, remarks, created_at, updated_at`

// StudentRepository persists students in PostgreSQL.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func scanStudent(row pgx.Row, s *model.Student) error {
	return row.Scan(&s.ID, &s.Roll, &s.Name, &s.Status, &s.Remarks, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id,
	), s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List retrieves the whole roster ordered by roll, optionally filtered by
// attendance status. No pagination: a roster is a single classroom.
func (r *StudentRepository) List(ctx context.Context, status *model.Status) ([]model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY roll`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Create inserts a new student and fills in the generated fields.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (roll, name, status, remarks)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		s.Roll, s.Name, s.Status, s.Remarks,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRoll
		}
		return err
	}
	return nil
}

// Update applies a partial update over the student identified by id and
// returns the resulting record. Nil patch fields are left unchanged.
func (r *StudentRepository) Update(ctx context.Context, id int, patch model.StudentPatch) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.pool.QueryRow(ctx,
		`UPDATE students SET
			roll = COALESCE($1, roll),
			name = COALESCE($2, name),
			status = COALESCE($3, status),
			remarks = COALESCE($4, remarks),
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5
		 RETURNING `+studentColumns,
		patch.Roll, patch.Name, patch.Status, patch.Remarks, id,
	), s)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateRoll
		}
		return nil, err
	}
	return s, nil
}

// Delete removes a student by ID. Deleting an ID that does not exist is
// not an error: the caller only cares that the record is gone.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

// CountByStatus returns the roster headcount split by attendance state.
func (r *StudentRepository) CountByStatus(ctx context.Context) (present, absent int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE status = 'present'),
			COUNT(*) FILTER (WHERE status = 'absent')
		 FROM students`,
	).Scan(&present, &absent)
	return present, absent, err
}

// ResetAll marks every student absent and returns the number of rows
// touched. Used by the daily rollover worker.
func (r *StudentRepository) ResetAll(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET status = 'absent', updated_at = CURRENT_TIMESTAMP
		 WHERE status <> 'absent'`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
