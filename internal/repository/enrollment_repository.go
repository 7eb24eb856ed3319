package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/enroll-api/internal/models"
)

// Sentinel outcomes of the enrollment workflow. The service layer maps these
// onto the public error taxonomy.
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseFull         = errors.New("course is full")
	ErrAlreadyEnrolled    = errors.New("already enrolled")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrNotOwner           = errors.New("enrollment belongs to another student")
	ErrNotActive          = errors.New("enrollment is not active")
)

// EnrollmentRepository owns the enrollment records and the course seat
// counter. Both sides of every state change happen in one transaction with
// the course row locked, so concurrent enrolls against the same course
// serialize and the capacity check cannot be overtaken.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll registers the student on the course and bumps the seat counter.
// The capacity check, duplicate check, enrollment write and counter increment
// are applied as a single conditional transaction keyed on the locked course
// row. A record left behind by an earlier drop is reused rather than
// duplicated.
func (r *EnrollmentRepository) Enroll(ctx context.Context, studentID, courseID string) (id string, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin enroll transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var course struct {
		Name          string `db:"name"`
		Code          string `db:"code"`
		Capacity      int    `db:"capacity"`
		EnrolledCount int    `db:"enrolled_count"`
	}
	const lockCourse = `SELECT name, code, capacity, enrolled_count FROM courses WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &course, lockCourse, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCourseNotFound
		}
		return "", err
	}
	if course.EnrolledCount >= course.Capacity {
		err = ErrCourseFull
		return "", err
	}

	id = models.EnrollmentID(studentID, courseID)
	var status models.EnrollmentStatus
	const lockEnrollment = `SELECT status FROM enrollments WHERE id = $1 FOR UPDATE`
	switch err = tx.GetContext(ctx, &status, lockEnrollment, id); {
	case err == nil:
		if status == models.EnrollmentStatusEnrolled {
			err = ErrAlreadyEnrolled
			return "", err
		}
		const reactivate = `UPDATE enrollments
            SET status = $2, course_name = $3, course_code = $4,
                enrolled_at = NOW(), dropped_at = NULL, updated_at = NOW()
            WHERE id = $1`
		if _, err = tx.ExecContext(ctx, reactivate, id, models.EnrollmentStatusEnrolled, course.Name, course.Code); err != nil {
			return "", fmt.Errorf("reactivate enrollment: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		const insert = `INSERT INTO enrollments (id, student_id, course_id, course_name, course_code,
            status, enrolled_at, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), NOW())`
		if _, err = tx.ExecContext(ctx, insert, id, studentID, courseID, course.Name, course.Code, models.EnrollmentStatusEnrolled); err != nil {
			return "", fmt.Errorf("insert enrollment: %w", err)
		}
	default:
		return "", fmt.Errorf("check existing enrollment: %w", err)
	}

	const increment = `UPDATE courses SET enrolled_count = enrolled_count + 1, updated_at = NOW() WHERE id = $1`
	if _, err = tx.ExecContext(ctx, increment, courseID); err != nil {
		return "", fmt.Errorf("increment enrolled count: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit enroll: %w", err)
	}
	return id, nil
}

// Drop marks the enrollment dropped and releases its seat. Ownership is
// verified against the locked row before any write, so a non-owned or
// inactive enrollment leaves state untouched.
func (r *EnrollmentRepository) Drop(ctx context.Context, id, studentID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin drop transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var enrollment struct {
		StudentID string                  `db:"student_id"`
		CourseID  string                  `db:"course_id"`
		Status    models.EnrollmentStatus `db:"status"`
	}
	const lockEnrollment = `SELECT student_id, course_id, status FROM enrollments WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &enrollment, lockEnrollment, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrEnrollmentNotFound
		}
		return err
	}
	if enrollment.StudentID != studentID {
		err = ErrNotOwner
		return err
	}
	if enrollment.Status != models.EnrollmentStatusEnrolled {
		err = ErrNotActive
		return err
	}

	const markDropped = `UPDATE enrollments
        SET status = $2, dropped_at = NOW(), updated_at = NOW()
        WHERE id = $1`
	if _, err = tx.ExecContext(ctx, markDropped, id, models.EnrollmentStatusDropped); err != nil {
		return fmt.Errorf("mark enrollment dropped: %w", err)
	}

	const decrement = `UPDATE courses
        SET enrolled_count = enrolled_count - 1, updated_at = NOW()
        WHERE id = $1 AND enrolled_count > 0`
	if _, err = tx.ExecContext(ctx, decrement, enrollment.CourseID); err != nil {
		return fmt.Errorf("decrement enrolled count: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit drop: %w", err)
	}
	return nil
}

// ListActiveByStudent returns the student's enrollments with status enrolled.
func (r *EnrollmentRepository) ListActiveByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, course_name, course_code, status,
        enrolled_at, dropped_at, created_at, updated_at
        FROM enrollments WHERE student_id = $1 AND status = $2
        ORDER BY enrolled_at DESC`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID, models.EnrollmentStatusEnrolled); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}
