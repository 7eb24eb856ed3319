package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/enroll-api/internal/models"
)

// StudentRepository handles persistence of student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a student by subject id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, email, name, ic_number, phone_number, address, emergency_contact,
        date_of_birth, program, enrollment_year, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student keyed by the subject id. Timestamps are
// stamped by the database.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (id, email, name, ic_number, phone_number, address,
        emergency_contact, date_of_birth, program, enrollment_year, created_at, updated_at)
        VALUES (:id, :email, :name, :ic_number, :phone_number, :address,
        :emergency_contact, :date_of_birth, :program, :enrollment_year, NOW(), NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update merges the provided column values into an existing row and refreshes
// updated_at. Columns are applied in sorted order so the generated SQL is
// deterministic.
func (r *StudentRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		const touch = `UPDATE students SET updated_at = NOW() WHERE id = $1`
		if _, err := r.db.ExecContext(ctx, touch, id); err != nil {
			return fmt.Errorf("touch student: %w", err)
		}
		return nil
	}

	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	assignments := make([]string, 0, len(columns)+1)
	args := []interface{}{id}
	for _, column := range columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, fields[column])
	}
	assignments = append(assignments, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE students SET %s WHERE id = $1", strings.Join(assignments, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}
