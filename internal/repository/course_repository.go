package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/enroll-api/internal/models"
)

// ErrCoursesExist signals that seeding was refused because the catalog is not
// empty.
var ErrCoursesExist = errors.New("courses already exist")

// CourseRepository handles persistence of the course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, code, name, description, credits, capacity, enrolled_count,
        instructor, schedule, semester, created_at, updated_at,
        capacity - enrolled_count AS available_slots`

// List returns every course with its computed available slot count.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses ORDER BY code`, courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by id with its computed available slot count.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Seed inserts the fixture catalog as one batch. The emptiness check and the
// inserts share a transaction, so a concurrent seed cannot double-write.
func (r *CourseRepository) Seed(ctx context.Context, courses []models.Course) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var count int
	if err = tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM courses`); err != nil {
		return fmt.Errorf("count courses: %w", err)
	}
	if count > 0 {
		err = ErrCoursesExist
		return err
	}

	const insert = `INSERT INTO courses (id, code, name, description, credits, capacity,
        enrolled_count, instructor, schedule, semester, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`
	for _, course := range courses {
		id := course.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err = tx.ExecContext(ctx, insert, id, course.Code, course.Name,
			course.Description, course.Credits, course.Capacity, course.EnrolledCount,
			course.Instructor, course.Schedule, course.Semester); err != nil {
			return fmt.Errorf("insert course %s: %w", course.Code, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
